package formulas

import (
	"fmt"
	"math"

	"github.com/iwvelando/finance-calculators/pkg/mathutil"
)

// ROI computes the return on investment as a percentage of the initial amount.
func ROI(initial, final float64) Result {
	if initial == 0 {
		return fail("roi", ErrDivisionByZero, "initial investment is zero")
	}
	gain := final - initial
	value := gain / initial * 100
	return Result{
		Value:       value,
		Formula:     fmt.Sprintf("((%s − %s) ÷ %s) × 100 = %s%%", op(final), op(initial), op(initial), val(value)),
		Explanation: fmt.Sprintf("An investment of %s returning %s has an ROI of %s%%.", op(initial), op(final), val(value)),
		Details: []Detail{
			detail("Initial investment", money(initial)),
			detail("Final value", money(final)),
			detail("Net gain", money(gain)),
			detail("ROI", pct(value)),
		},
	}
}

// AnnualizedROI computes the compound annual growth rate between initial and
// final over years.
func AnnualizedROI(initial, final, years float64) Result {
	if initial <= 0 {
		return fail("annualizedRoi", ErrNotPositive, "initial investment is %s", op(initial))
	}
	if years <= 0 {
		return fail("annualizedRoi", ErrNotPositive, "holding period is %s years", op(years))
	}
	if final < 0 {
		return fail("annualizedRoi", ErrNegativeValue, "final value is %s", op(final))
	}
	value := (math.Pow(final/initial, 1/years) - 1) * 100
	if !mathutil.IsFinite(value) {
		return fail("annualizedRoi", ErrNonFinite, "growth overflows")
	}
	total := (final - initial) / initial * 100
	return Result{
		Value:       value,
		Formula:     fmt.Sprintf("((%s ÷ %s)^(1 ÷ %s) − 1) × 100 = %s%%", op(final), op(initial), op(years), val(value)),
		Explanation: fmt.Sprintf("Growing from %s to %s over %s years is %s%% a year.", op(initial), op(final), op(years), val(value)),
		Details: []Detail{
			detail("Total return", pct(total)),
			detail("Annualized return", pct(value)),
			detail("Net gain", money(final-initial)),
		},
	}
}
