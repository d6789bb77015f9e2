// Package formulas implements the pure calculator formulas.
//
// Every formula maps numeric operands to a Result. Formulas never panic and never
// return a Go error; an operand combination outside a formula's domain is reported
// through Result.Err as a *DomainError so callers can branch without special
// handling. The same operands always produce the same Result.
package formulas

import (
	"fmt"

	"github.com/iwvelando/finance-calculators/pkg/format"
)

// Detail is one labelled, pre-formatted line of a result breakdown.
type Detail struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Result is the outcome of a single formula evaluation.
type Result struct {
	Value       float64  `json:"value"`
	Formula     string   `json:"formula"`
	Explanation string   `json:"explanation"`
	Details     []Detail `json:"details,omitempty"`
	Err         error    `json:"-"`
}

// OK reports whether the result carries no error.
func (r Result) OK() bool {
	return r.Err == nil
}

func fail(name string, err error, format string, args ...interface{}) Result {
	return Result{Err: &DomainError{Formula: name, Err: err, Reason: fmt.Sprintf(format, args...)}}
}

func detail(label, value string) Detail {
	return Detail{Label: label, Value: value}
}

// op renders an operand literally for a formula string.
func op(v float64) string {
	return format.Operand(v)
}

// val renders a computed value for a formula string or explanation.
func val(v float64) string {
	return format.Trim(v)
}

func money(v float64) string {
	return format.Currency(v)
}

func pct(v float64) string {
	return format.Percent(v, 2)
}
