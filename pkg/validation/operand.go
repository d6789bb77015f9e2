package validation

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrMissingOperand is returned when a required operand is empty or absent.
	ErrMissingOperand = errors.New("missing operand")

	// ErrInvalidNumber is returned when an operand does not parse as a finite number.
	ErrInvalidNumber = errors.New("invalid number")

	// ErrInvalidPrecision is returned for a precision outside the supported range.
	ErrInvalidPrecision = errors.New("invalid precision")
)

// ParseError reports which operand failed to parse and why.
type ParseError struct {
	Operand string // operand name, e.g. "principal"
	Index   int    // position within a list operand, -1 for scalars
	Raw     string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("%s: %s item %d %q", e.Err, e.Operand, e.Index+1, e.Raw)
	}
	if e.Raw == "" {
		return fmt.Sprintf("%s: %s", e.Err, e.Operand)
	}
	return fmt.Sprintf("%s: %s %q", e.Err, e.Operand, e.Raw)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsParseError reports whether err originated from operand parsing.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// ParseOperand parses a single raw operand. Surrounding whitespace and thousands
// separators are ignored; an empty operand is never treated as zero.
func ParseOperand(name, raw string) (float64, error) {
	return parseNumber(name, raw, -1)
}

// ParseList parses a list operand such as "85, 92; 78". Items may be separated by
// commas, semicolons or whitespace, so thousands separators are not accepted here.
func ParseList(name, raw string) ([]float64, error) {
	items, err := ParseWords(name, raw)
	if err != nil {
		return nil, err
	}

	values := make([]float64, 0, len(items))
	for i, item := range items {
		v, err := parseNumber(name, item, i)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

// ParseWords splits a list operand into its non-empty items.
func ParseWords(name, raw string) ([]string, error) {
	items := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t' || r == '\n'
	})
	if len(items) == 0 {
		return nil, &ParseError{Operand: name, Index: -1, Raw: raw, Err: ErrMissingOperand}
	}
	return items, nil
}

func parseNumber(name, raw string, index int) (float64, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, &ParseError{Operand: name, Index: index, Raw: raw, Err: ErrMissingOperand}
	}

	cleaned := trimmed
	if index < 0 {
		cleaned = stripGrouping(trimmed)
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &ParseError{Operand: name, Index: index, Raw: raw, Err: ErrInvalidNumber}
	}
	return v, nil
}

// stripGrouping removes thousands separators only when they sit between groups
// of exactly three digits, so "1,000.5" is accepted and "1,0" is not.
func stripGrouping(s string) string {
	if !strings.Contains(s, ",") {
		return s
	}

	intPart, fracPart, hasFrac := strings.Cut(s, ".")
	sign := ""
	if strings.HasPrefix(intPart, "-") || strings.HasPrefix(intPart, "+") {
		sign, intPart = intPart[:1], intPart[1:]
	}

	groups := strings.Split(intPart, ",")
	if len(groups[0]) == 0 || len(groups[0]) > 3 {
		return s
	}
	for _, g := range groups[1:] {
		if len(g) != 3 {
			return s
		}
	}

	out := sign + strings.Join(groups, "")
	if hasFrac {
		out += "." + fracPart
	}
	return out
}
