// Package constants provides shared constants for the finance-calculators application.
package constants

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Precision constants
const (
	// DefaultPrecision is the number of decimal places used when the caller does not choose one
	DefaultPrecision = 2

	// MaxPrecision is the largest number of decimal places a result may be rendered with
	MaxPrecision = 10

	// FormulaPrecision is the number of decimal places used for values embedded in formula strings
	FormulaPrecision = 2
)

// History constants
const (
	// DefaultHistoryCapacity is the maximum number of entries kept per calculator family
	DefaultHistoryCapacity = 20

	// HistoryKeySuffix is appended to the family name to form its storage key
	HistoryKeySuffix = "-history"

	// ExportDateLayout is the date format used in export file names
	ExportDateLayout = "2006-01-02"
)

// Export and output format constants
const (
	// ExportFormatJSON exports history as a JSON array
	ExportFormatJSON = "json"

	// ExportFormatCSV exports history as CSV rows
	ExportFormatCSV = "csv"

	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Storage backend constants
const (
	// StorageBackendMemory keeps history in process memory only
	StorageBackendMemory = "memory"

	// StorageBackendDir keeps one JSON file per calculator family
	StorageBackendDir = "dir"

	// StorageBackendBolt keeps history in a bbolt database file
	StorageBackendBolt = "bolt"

	// DefaultStoragePath is the default location for persisted history
	DefaultStoragePath = "data"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "finance-calculators.yaml"

	// EnvPrefix is the prefix for environment variable overrides
	EnvPrefix = "FINCALC"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (64 KB)
	DefaultMaxBodySizeBytes int64 = 64 * 1024

	// RequestIDHeader carries the per-request identifier
	RequestIDHeader = "X-Request-ID"
)

// Application identity
const (
	// AppName is used for the MCP server name and metric namespaces
	AppName = "finance-calculators"
)
