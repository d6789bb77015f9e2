package formulas

import (
	"fmt"

	"github.com/iwvelando/finance-calculators/pkg/mathutil"
)

// HourlyRate computes the rate that covers annual expenses and profit after
// taxes over billableHours.
func HourlyRate(expenses, profit, taxRatePct, billableHours float64) Result {
	if billableHours <= 0 {
		return fail("hourlyRate", ErrNotPositive, "billable hours is %s", op(billableHours))
	}
	if taxRatePct < 0 {
		return fail("hourlyRate", ErrNegativeValue, "tax rate is %s%%", op(taxRatePct))
	}
	if taxRatePct == 100 {
		return fail("hourlyRate", ErrDivisionByZero, "a 100%% tax rate leaves nothing to keep")
	}
	if taxRatePct > 100 {
		return fail("hourlyRate", ErrTaxRateTooHigh, "tax rate is %s%%", op(taxRatePct))
	}

	target := expenses + profit
	gross := target / (1 - mathutil.PercentToDecimal(taxRatePct))
	value := gross / billableHours
	return Result{
		Value: value,
		Formula: fmt.Sprintf("(%s + %s) ÷ (1 − %s ÷ 100) ÷ %s = %s",
			op(expenses), op(profit), op(taxRatePct), op(billableHours), val(value)),
		Explanation: fmt.Sprintf("Charging %s an hour for %s hours covers %s after %s%% tax.",
			val(value), op(billableHours), op(target), op(taxRatePct)),
		Details: []Detail{
			detail("Net income needed", money(target)),
			detail("Gross revenue needed", money(gross)),
			detail("Taxes", money(gross-target)),
			detail("Hourly rate", money(value)),
		},
	}
}

// ProjectPrice prices hours of work at rate with a contingency buffer in percent.
func ProjectPrice(rate, hours, contingencyPct float64) Result {
	if rate < 0 || hours < 0 || contingencyPct < 0 {
		return fail("projectPrice", ErrNegativeValue,
			"rate %s, hours %s, contingency %s%%", op(rate), op(hours), op(contingencyPct))
	}
	base := rate * hours
	buffer := mathutil.ApplyPercentage(base, contingencyPct)
	value := base + buffer
	return Result{
		Value:       value,
		Formula:     fmt.Sprintf("%s × %s × (1 + %s ÷ 100) = %s", op(rate), op(hours), op(contingencyPct), val(value)),
		Explanation: fmt.Sprintf("%s hours at %s with a %s%% buffer comes to %s.", op(hours), op(rate), op(contingencyPct), val(value)),
		Details: []Detail{
			detail("Base price", money(base)),
			detail("Contingency", money(buffer)),
			detail("Project price", money(value)),
		},
	}
}
