// Package validation parses and validates raw calculator input.
package validation

import (
	"fmt"

	"github.com/iwvelando/finance-calculators/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	if format != constants.OutputFormatPretty && format != constants.OutputFormatCSV {
		return fmt.Errorf("expected output format of %s or %s, got %s",
			constants.OutputFormatPretty, constants.OutputFormatCSV, format)
	}
	return nil
}

// ValidateExportFormat checks if the history export format is supported.
func ValidateExportFormat(format string) error {
	if format != constants.ExportFormatJSON && format != constants.ExportFormatCSV {
		return fmt.Errorf("expected export format of %s or %s, got %s",
			constants.ExportFormatJSON, constants.ExportFormatCSV, format)
	}
	return nil
}

// ValidatePrecision checks that precision is a supported number of decimal places.
func ValidatePrecision(precision int) error {
	if precision < 0 || precision > constants.MaxPrecision {
		return fmt.Errorf("%w: %d is outside 0..%d", ErrInvalidPrecision, precision, constants.MaxPrecision)
	}
	return nil
}
