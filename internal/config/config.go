// Package config defines the configuration of finance-calculators and loads it
// from YAML with environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/iwvelando/finance-calculators/pkg/constants"
	"github.com/iwvelando/finance-calculators/pkg/validation"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Configuration holds all configuration for finance-calculators.
type Configuration struct {
	Logging LoggingConfig `yaml:"logging"`
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	History HistoryConfig `yaml:"history"`
	Format  FormatConfig  `yaml:"format"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// ServerConfig defines runtime parameters for the HTTP API.
type ServerConfig struct {
	Address        string   `yaml:"address"`
	MaxBodySize    string   `yaml:"maxBodySize"`
	AllowedOrigins []string `yaml:"allowedOrigins,omitempty"`

	maxBodySizeBytes int64
}

// StorageConfig selects where calculation history is persisted.
type StorageConfig struct {
	Backend string `yaml:"backend"` // memory, dir, bolt
	Path    string `yaml:"path,omitempty"`
}

// HistoryConfig holds history options.
type HistoryConfig struct {
	Capacity int `yaml:"capacity"`
}

// FormatConfig holds result and listing format options.
type FormatConfig struct {
	Precision int    `yaml:"precision"`
	Output    string `yaml:"output"` // pretty, csv
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the configuration used when no file is present.
func Default() *Configuration {
	return &Configuration{
		Server: ServerConfig{
			Address:          constants.DefaultServerAddress,
			MaxBodySize:      fmt.Sprintf("%d", constants.DefaultMaxBodySizeBytes),
			maxBodySizeBytes: constants.DefaultMaxBodySizeBytes,
		},
		Storage: StorageConfig{
			Backend: constants.StorageBackendDir,
			Path:    constants.DefaultStoragePath,
		},
		History: HistoryConfig{Capacity: constants.DefaultHistoryCapacity},
		Format: FormatConfig{
			Precision: constants.DefaultPrecision,
			Output:    constants.OutputFormatPretty,
		},
		Metrics: MetricsConfig{Enabled: true},
	}
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. A missing file yields the defaults. Every key can be
// overridden from the environment, e.g. FINCALC_SERVER_ADDRESS.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			v.SetConfigFile(configPath)
			v.SetConfigType("yml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("error reading config file, %s", err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file, %s", err)
		}
	}

	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	if err := configuration.normalize(); err != nil {
		return nil, err
	}
	return &configuration, nil
}

func setDefaults(v *viper.Viper, d *Configuration) {
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.outputFile", d.Logging.OutputFile)
	v.SetDefault("server.address", d.Server.Address)
	v.SetDefault("server.maxBodySize", d.Server.MaxBodySize)
	v.SetDefault("server.allowedOrigins", d.Server.AllowedOrigins)
	v.SetDefault("storage.backend", d.Storage.Backend)
	v.SetDefault("storage.path", d.Storage.Path)
	v.SetDefault("history.capacity", d.History.Capacity)
	v.SetDefault("format.precision", d.Format.Precision)
	v.SetDefault("format.output", d.Format.Output)
	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
}

func (c *Configuration) normalize() error {
	if c.Server.Address == "" {
		c.Server.Address = constants.DefaultServerAddress
	}
	size, err := ParseSize(c.Server.MaxBodySize)
	if err != nil {
		return err
	}
	if size <= 0 {
		size = constants.DefaultMaxBodySizeBytes
	}
	c.Server.maxBodySizeBytes = size

	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	switch c.Storage.Backend {
	case "":
		c.Storage.Backend = constants.StorageBackendDir
	case constants.StorageBackendMemory, constants.StorageBackendDir, constants.StorageBackendBolt:
	default:
		return fmt.Errorf("expected storage backend of %s, %s or %s, got %s",
			constants.StorageBackendMemory, constants.StorageBackendDir, constants.StorageBackendBolt, c.Storage.Backend)
	}
	if c.Storage.Path == "" && c.Storage.Backend != constants.StorageBackendMemory {
		c.Storage.Path = constants.DefaultStoragePath
	}

	if c.History.Capacity <= 0 {
		return fmt.Errorf("history capacity must be positive, got %d", c.History.Capacity)
	}
	if err := validation.ValidatePrecision(c.Format.Precision); err != nil {
		return err
	}
	if c.Format.Output == "" {
		c.Format.Output = constants.OutputFormatPretty
	}
	return validation.ValidateOutputFormat(c.Format.Output)
}

// MaxBodySizeBytes returns the configured request body limit in bytes.
func (s ServerConfig) MaxBodySizeBytes() int64 {
	if s.maxBodySizeBytes <= 0 {
		return constants.DefaultMaxBodySizeBytes
	}
	return s.maxBodySizeBytes
}

// YAML renders the effective configuration.
func (c *Configuration) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode configuration: %w", err)
	}
	return data, nil
}
