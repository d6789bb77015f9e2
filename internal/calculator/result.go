package calculator

import (
	"github.com/iwvelando/finance-calculators/internal/history"
	"github.com/iwvelando/finance-calculators/pkg/formulas"
	"github.com/iwvelando/finance-calculators/pkg/validation"
)

// Stage identifies which step rejected a calculation.
type Stage uint8

const (
	// StageNone means the calculation succeeded.
	StageNone Stage = iota
	// StageParse means operand or precision validation failed; no formula ran.
	StageParse
	// StageDomain means the formula rejected the operand combination.
	StageDomain
)

func (s Stage) String() string {
	switch s {
	case StageParse:
		return "parse"
	case StageDomain:
		return "domain"
	default:
		return "none"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Request asks for one calculation. Operands are the raw, unparsed strings in
// the kind's positional order.
type Request struct {
	Kind      Kind     `json:"kind" yaml:"kind"`
	Operands  []string `json:"operands" yaml:"operands"`
	Precision int      `json:"precision" yaml:"precision"`
}

// Result is the outcome of one executed calculation.
type Result struct {
	formulas.Result

	Kind      Kind
	Family    Family
	Precision int

	// Display is Value rendered at Precision. It is empty when the
	// calculation failed.
	Display string

	// Entry is the history entry written for a successful calculation.
	Entry *history.Entry

	// HistoryErr reports a failure to persist Entry. The calculation itself
	// still succeeded.
	HistoryErr error
}

// Stage reports which step, if any, rejected the calculation.
func (r Result) Stage() Stage {
	switch {
	case r.Err == nil:
		return StageNone
	case validation.IsParseError(r.Err):
		return StageParse
	default:
		return StageDomain
	}
}

// Degenerate reports a well-defined but uninformative outcome such as a
// percentage of zero. Value and Display are meaningful.
func (r Result) Degenerate() bool {
	return formulas.IsAdvisory(r.Err)
}

// Failed reports whether the result carries an error that makes Value meaningless.
func (r Result) Failed() bool {
	return r.Err != nil && !r.Degenerate()
}
