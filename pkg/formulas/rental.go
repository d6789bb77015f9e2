package formulas

import (
	"fmt"

	"github.com/iwvelando/finance-calculators/pkg/constants"
)

// RentalYield computes the gross annual yield of monthlyRent on propertyValue.
func RentalYield(monthlyRent, propertyValue float64) Result {
	if propertyValue == 0 {
		return fail("rentalYield", ErrDivisionByZero, "property value is zero")
	}
	annualRent := monthlyRent * constants.MonthsPerYear
	value := annualRent / propertyValue * 100
	return Result{
		Value:       value,
		Formula:     fmt.Sprintf("(%s × 12 ÷ %s) × 100 = %s%%", op(monthlyRent), op(propertyValue), val(value)),
		Explanation: fmt.Sprintf("Renting a %s property for %s a month yields %s%% a year.", op(propertyValue), op(monthlyRent), val(value)),
		Details: []Detail{
			detail("Annual rent", money(annualRent)),
			detail("Property value", money(propertyValue)),
			detail("Gross yield", pct(value)),
		},
	}
}

// NetRentalYield computes the annual yield after annualCosts are deducted from rent.
func NetRentalYield(monthlyRent, propertyValue, annualCosts float64) Result {
	if propertyValue == 0 {
		return fail("netRentalYield", ErrDivisionByZero, "property value is zero")
	}
	if annualCosts < 0 {
		return fail("netRentalYield", ErrNegativeValue, "annual costs are %s", op(annualCosts))
	}
	annualRent := monthlyRent * constants.MonthsPerYear
	net := annualRent - annualCosts
	value := net / propertyValue * 100
	return Result{
		Value: value,
		Formula: fmt.Sprintf("((%s × 12 − %s) ÷ %s) × 100 = %s%%",
			op(monthlyRent), op(annualCosts), op(propertyValue), val(value)),
		Explanation: fmt.Sprintf("After %s of yearly costs the property yields %s%% a year.", op(annualCosts), val(value)),
		Details: []Detail{
			detail("Annual rent", money(annualRent)),
			detail("Annual costs", money(annualCosts)),
			detail("Net income", money(net)),
			detail("Gross yield", pct(annualRent/propertyValue*100)),
			detail("Net yield", pct(value)),
		},
	}
}
