// Package history keeps a capped, deduplicated, persisted list of past
// calculations for one calculator family.
package history

import (
	"errors"
)

// ErrNotFound is returned when no entry matches a timestamp.
var ErrNotFound = errors.New("history entry not found")

// Entry is one past successful calculation.
type Entry struct {
	Kind          string `json:"kind"`
	Operand1      string `json:"operand1"`
	Operand2      string `json:"operand2"`
	Operand3      string `json:"operand3,omitempty"`
	Operand4      string `json:"operand4,omitempty"`
	ResultDisplay string `json:"resultDisplay"`
	Timestamp     int64  `json:"timestamp"`
	Favorite      bool   `json:"favorite,omitempty"`
}

// NewEntry builds a candidate entry from the kind, its raw operands and the
// pre-formatted result. Operands beyond the fourth are not recorded.
func NewEntry(kind string, operands []string, resultDisplay string) Entry {
	entry := Entry{Kind: kind, ResultDisplay: resultDisplay}
	slots := []*string{&entry.Operand1, &entry.Operand2, &entry.Operand3, &entry.Operand4}
	for i, operand := range operands {
		if i >= len(slots) {
			break
		}
		*slots[i] = operand
	}
	return entry
}

// Operands returns the recorded operands, omitting trailing empty ones.
func (e Entry) Operands() []string {
	operands := []string{e.Operand1, e.Operand2, e.Operand3, e.Operand4}
	for len(operands) > 2 && operands[len(operands)-1] == "" {
		operands = operands[:len(operands)-1]
	}
	return operands
}

type dedupKey struct {
	kind     string
	operand1 string
	operand2 string
}

// key identifies duplicates; operand3 and later do not take part.
func (e Entry) key() dedupKey {
	return dedupKey{kind: e.Kind, operand1: e.Operand1, operand2: e.Operand2}
}

func (e Entry) valid() bool {
	return e.Kind != ""
}
