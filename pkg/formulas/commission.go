package formulas

import (
	"fmt"

	"github.com/iwvelando/finance-calculators/pkg/mathutil"
)

// Commission computes the commission earned on sale at ratePct percent.
func Commission(sale, ratePct float64) Result {
	if sale < 0 || ratePct < 0 {
		return fail("commission", ErrNegativeValue, "sale %s, rate %s%%", op(sale), op(ratePct))
	}
	value := mathutil.ApplyPercentage(sale, ratePct)
	return Result{
		Value:       value,
		Formula:     fmt.Sprintf("%s × %s ÷ 100 = %s", op(sale), op(ratePct), val(value)),
		Explanation: fmt.Sprintf("A %s%% commission on a sale of %s is %s.", op(ratePct), op(sale), val(value)),
		Details: []Detail{
			detail("Sale amount", money(sale)),
			detail("Commission rate", op(ratePct)+"%"),
			detail("Commission", money(value)),
			detail("Net to seller", money(sale-value)),
		},
	}
}

// SalesForCommission computes the sales volume needed to earn target at ratePct percent.
func SalesForCommission(target, ratePct float64) Result {
	if target < 0 || ratePct < 0 {
		return fail("salesForCommission", ErrNegativeValue, "target %s, rate %s%%", op(target), op(ratePct))
	}
	if ratePct == 0 {
		return fail("salesForCommission", ErrDivisionByZero, "commission rate is zero")
	}
	value := target / mathutil.PercentToDecimal(ratePct)
	return Result{
		Value:       value,
		Formula:     fmt.Sprintf("%s ÷ (%s ÷ 100) = %s", op(target), op(ratePct), val(value)),
		Explanation: fmt.Sprintf("Earning %s at a %s%% commission takes %s in sales.", op(target), op(ratePct), val(value)),
		Details: []Detail{
			detail("Target commission", money(target)),
			detail("Commission rate", op(ratePct)+"%"),
			detail("Required sales", money(value)),
		},
	}
}
