// Package format renders calculation results for display.
package format

import (
	"math"
	"strconv"

	"github.com/iwvelando/finance-calculators/pkg/constants"
	"github.com/shopspring/decimal"
)

// ClampPrecision limits precision to the supported range of decimal places.
func ClampPrecision(precision int) int {
	if precision < 0 {
		return 0
	}
	if precision > constants.MaxPrecision {
		return constants.MaxPrecision
	}
	return precision
}

// Number renders value with exactly precision decimal places, rounding half away from zero.
// A value that rounds to zero is rendered without a sign.
func Number(value float64, precision int) string {
	if !finite(value) {
		return nonFinite(value)
	}
	return decimal.NewFromFloat(value).StringFixed(int32(ClampPrecision(precision)))
}

// Percent renders value followed by a percent sign, e.g. "25.00%".
func Percent(value float64, precision int) string {
	return Number(value, precision) + "%"
}

// Trim rounds value to the formula precision and drops trailing zeros, e.g. 30.00 -> "30".
func Trim(value float64) string {
	if !finite(value) {
		return nonFinite(value)
	}
	return decimal.NewFromFloat(value).Round(constants.FormulaPrecision).String()
}

// Operand renders an input value literally, using the shortest representation
// that parses back to the same float64.
func Operand(value float64) string {
	if !finite(value) {
		return nonFinite(value)
	}
	if value == 0 {
		return "0"
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func finite(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}

func nonFinite(value float64) string {
	switch {
	case math.IsNaN(value):
		return "NaN"
	case math.IsInf(value, -1):
		return "-∞"
	default:
		return "∞"
	}
}
