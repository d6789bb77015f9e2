package formulas

import (
	"fmt"
	"math"

	"github.com/iwvelando/finance-calculators/pkg/mathutil"
)

// PercentOf computes x percent of base. A zero base yields a value of zero
// together with an advisory ErrPercentOfZero.
func PercentOf(x, base float64) Result {
	value := mathutil.ApplyPercentage(base, x)
	res := Result{
		Value:       value,
		Formula:     fmt.Sprintf("%s%% × %s = %s", op(x), op(base), val(value)),
		Explanation: fmt.Sprintf("%s%% of %s is %s.", op(x), op(base), val(value)),
		Details: []Detail{
			detail("Percentage", op(x)+"%"),
			detail("Base", op(base)),
			detail("Result", val(value)),
		},
	}
	if base == 0 {
		res.Value = 0
		res.Err = &DomainError{
			Formula:  "percentOf",
			Err:      ErrPercentOfZero,
			Reason:   "any percentage of zero is zero",
			Advisory: true,
		}
	}
	return res
}

// WhatPercentOf computes which percentage part is of whole.
func WhatPercentOf(part, whole float64) Result {
	if whole == 0 {
		return fail("whatPercentOf", ErrDivisionByZero, "whole is zero")
	}
	value := mathutil.CalculatePercentage(part, whole)
	return Result{
		Value:       value,
		Formula:     fmt.Sprintf("(%s ÷ %s) × 100 = %s%%", op(part), op(whole), val(value)),
		Explanation: fmt.Sprintf("%s is %s%% of %s.", op(part), val(value), op(whole)),
		Details: []Detail{
			detail("Part", op(part)),
			detail("Whole", op(whole)),
			detail("Percentage", pct(value)),
		},
	}
}

// PercentChange computes the relative change from initial to final, measured
// against the magnitude of initial.
func PercentChange(initial, final float64) Result {
	if initial == 0 {
		return fail("percentChange", ErrDivisionByZero, "initial value is zero")
	}
	difference := final - initial
	value := difference / math.Abs(initial) * 100
	direction := "increase"
	if value < 0 {
		direction = "decrease"
	}
	return Result{
		Value:       value,
		Formula:     fmt.Sprintf("((%s − %s) ÷ |%s|) × 100 = %s%%", op(final), op(initial), op(initial), val(value)),
		Explanation: fmt.Sprintf("Going from %s to %s is a %s%% %s.", op(initial), op(final), val(math.Abs(value)), direction),
		Details: []Detail{
			detail("Initial value", op(initial)),
			detail("Final value", op(final)),
			detail("Difference", val(difference)),
			detail("Change", pct(value)),
		},
	}
}

// Markup raises price by pct percent.
func Markup(price, pctUp float64) Result {
	if price < 0 {
		return fail("markup", ErrNegativeValue, "price is %s", op(price))
	}
	amount := mathutil.ApplyPercentage(price, pctUp)
	value := price * (1 + mathutil.PercentToDecimal(pctUp))
	return Result{
		Value:       value,
		Formula:     fmt.Sprintf("%s × (1 + %s ÷ 100) = %s", op(price), op(pctUp), val(value)),
		Explanation: fmt.Sprintf("Marking %s up by %s%% gives %s.", op(price), op(pctUp), val(value)),
		Details: []Detail{
			detail("Original price", money(price)),
			detail("Markup amount", money(amount)),
			detail("Final price", money(value)),
		},
	}
}

// Markdown lowers price by pct percent.
func Markdown(price, pctDown float64) Result {
	if price < 0 {
		return fail("markdown", ErrNegativeValue, "price is %s", op(price))
	}
	savings := mathutil.ApplyPercentage(price, pctDown)
	value := price * (1 - mathutil.PercentToDecimal(pctDown))
	return Result{
		Value:       value,
		Formula:     fmt.Sprintf("%s × (1 − %s ÷ 100) = %s", op(price), op(pctDown), val(value)),
		Explanation: fmt.Sprintf("Marking %s down by %s%% gives %s.", op(price), op(pctDown), val(value)),
		Details: []Detail{
			detail("Original price", money(price)),
			detail("You save", money(savings)),
			detail("Final price", money(value)),
		},
	}
}

// ReversePercent finds the whole of which part is pct percent.
func ReversePercent(part, pctOfWhole float64) Result {
	if pctOfWhole == 0 {
		return fail("reversePercent", ErrDivisionByZero, "percentage is zero")
	}
	value := part / mathutil.PercentToDecimal(pctOfWhole)
	return Result{
		Value:       value,
		Formula:     fmt.Sprintf("%s ÷ (%s ÷ 100) = %s", op(part), op(pctOfWhole), val(value)),
		Explanation: fmt.Sprintf("%s is %s%% of %s.", op(part), op(pctOfWhole), val(value)),
		Details: []Detail{
			detail("Part", op(part)),
			detail("Percentage", op(pctOfWhole)+"%"),
			detail("Whole", val(value)),
		},
	}
}
