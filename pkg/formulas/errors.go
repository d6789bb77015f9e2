package formulas

import (
	"errors"
	"fmt"
)

// Domain error sentinels. Match them with errors.Is.
var (
	ErrDivisionByZero   = errors.New("division by zero")
	ErrNegativeValue    = errors.New("value must not be negative")
	ErrNotPositive      = errors.New("value must be greater than zero")
	ErrZeroTotalWeight  = errors.New("total weight is zero")
	ErrZeroTotalCredits = errors.New("total credits is zero")
	ErrUnknownGrade     = errors.New("unknown grade letter")
	ErrTaxRateTooHigh   = errors.New("tax rate must be below 100%")
	ErrPercentOfZero    = errors.New("percentage of zero")
	ErrMismatchedItems  = errors.New("item lists have different lengths")
	ErrEmptyItems       = errors.New("no items provided")
	ErrNonFinite        = errors.New("result is out of range")
)

// DomainError reports an operand combination a formula cannot evaluate.
type DomainError struct {
	Formula string
	Reason  string
	Err     error

	// Advisory marks a degenerate but well-defined outcome: Result.Value is
	// meaningful (zero) even though the error is set.
	Advisory bool
}

func (e *DomainError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s: %s", e.Formula, e.Err)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Formula, e.Err, e.Reason)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// IsAdvisory reports whether err is a degenerate-result advisory rather than a failure.
func IsAdvisory(err error) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Advisory
}
