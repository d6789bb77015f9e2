package formulas

import (
	"fmt"
	"math"

	"github.com/iwvelando/finance-calculators/pkg/mathutil"
)

// CompoundInterest grows principal at an annual rate (percent) for years,
// compounding periodsPerYear times a year. A non-positive periodsPerYear is
// treated as annual compounding.
func CompoundInterest(principal, ratePct, years float64, periodsPerYear int) Result {
	if principal < 0 || ratePct < 0 || years < 0 {
		return fail("compoundInterest", ErrNegativeValue,
			"principal %s, rate %s%%, years %s", op(principal), op(ratePct), op(years))
	}
	if periodsPerYear <= 0 {
		periodsPerYear = 1
	}
	n := float64(periodsPerYear)
	value := principal * math.Pow(1+mathutil.PercentToDecimal(ratePct)/n, n*years)
	if !mathutil.IsFinite(value) {
		return fail("compoundInterest", ErrNonFinite, "growth overflows")
	}
	effective := (math.Pow(1+mathutil.PercentToDecimal(ratePct)/n, n) - 1) * 100

	return Result{
		Value: value,
		Formula: fmt.Sprintf("%s × (1 + %s ÷ 100 ÷ %d)^(%d × %s) = %s",
			op(principal), op(ratePct), periodsPerYear, periodsPerYear, op(years), val(value)),
		Explanation: fmt.Sprintf("%s invested at %s%% compounded %s for %s years grows to %s.",
			op(principal), op(ratePct), compoundingName(periodsPerYear), op(years), val(value)),
		Details: []Detail{
			detail("Principal", money(principal)),
			detail("Interest earned", money(value-principal)),
			detail("Final amount", money(value)),
			detail("Effective annual rate", pct(effective)),
		},
	}
}

// SimpleInterest grows principal linearly at an annual rate (percent) for years.
func SimpleInterest(principal, ratePct, years float64) Result {
	if principal < 0 || ratePct < 0 || years < 0 {
		return fail("simpleInterest", ErrNegativeValue,
			"principal %s, rate %s%%, years %s", op(principal), op(ratePct), op(years))
	}
	interest := principal * mathutil.PercentToDecimal(ratePct) * years
	value := principal + interest
	return Result{
		Value:       value,
		Formula:     fmt.Sprintf("%s × (1 + %s × %s ÷ 100) = %s", op(principal), op(ratePct), op(years), val(value)),
		Explanation: fmt.Sprintf("%s at %s%% simple interest for %s years grows to %s.", op(principal), op(ratePct), op(years), val(value)),
		Details: []Detail{
			detail("Principal", money(principal)),
			detail("Interest earned", money(interest)),
			detail("Final amount", money(value)),
		},
	}
}

func compoundingName(periodsPerYear int) string {
	switch periodsPerYear {
	case 1:
		return "annually"
	case 4:
		return "quarterly"
	case 12:
		return "monthly"
	case 365:
		return "daily"
	default:
		return fmt.Sprintf("%d times a year", periodsPerYear)
	}
}
