package format

import (
	"math"
	"strings"
)

// Currency returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
func Currency(amount float64) string {
	if !finite(amount) {
		return nonFinite(amount)
	}
	formatted := Grouped(math.Abs(amount), 2)
	if isNegativeAt(amount, 2) {
		return "-$" + formatted
	}
	return "$" + formatted
}

// Grouped renders amount at the given precision with thousands separators (e.g., "19,671.51").
func Grouped(amount float64, precision int) string {
	if !finite(amount) {
		return nonFinite(amount)
	}
	formatted := Number(amount, precision)
	sign := ""
	if strings.HasPrefix(formatted, "-") {
		sign = "-"
		formatted = formatted[1:]
	}

	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]
	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	if len(parts) == 2 {
		return sign + intPart + "." + parts[1]
	}
	return sign + intPart
}

func isNegativeAt(amount float64, precision int) bool {
	return strings.HasPrefix(Number(amount, precision), "-")
}
