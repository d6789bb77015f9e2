// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/finance-calculators/pkg/constants"
)

// IsFinite reports whether val is neither NaN nor an infinity.
func IsFinite(val float64) bool {
	return !math.IsNaN(val) && !math.IsInf(val, 0)
}

// PercentToDecimal converts a percentage such as 7 into its decimal form 0.07.
func PercentToDecimal(percent float64) float64 {
	return percent / constants.PercentageMultiplier
}

// CalculatePercentage calculates what percentage value is of total.
// Callers must reject a zero total beforehand.
func CalculatePercentage(value, total float64) float64 {
	return (value / total) * constants.PercentageMultiplier
}

// ApplyPercentage applies a percentage to a value
func ApplyPercentage(value, percentage float64) float64 {
	return value * PercentToDecimal(percentage)
}
