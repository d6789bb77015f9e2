package formulas

import (
	"fmt"
	"math"

	"github.com/iwvelando/finance-calculators/pkg/constants"
	"github.com/iwvelando/finance-calculators/pkg/mathutil"
)

// MonthlyPayment calculates the payment of a fully amortizing loan using the
// standard annuity formula. A zero rate divides the principal evenly.
func MonthlyPayment(principal, annualInterestRate, termMonths float64) float64 {
	if annualInterestRate == 0 {
		return principal / termMonths
	}

	periodicInterestRate := annualInterestRate / (constants.PercentageMultiplier * constants.MonthsPerYear)
	power := math.Pow(1.00+periodicInterestRate, termMonths)
	discountFactor := (power - 1.00) / power
	return principal * periodicInterestRate / discountFactor
}

type loanTerms struct {
	payment  float64
	payments float64
	total    float64
	interest float64
}

func amortize(name string, principal, ratePct, years float64) (loanTerms, Result, bool) {
	if years <= 0 {
		return loanTerms{}, fail(name, ErrNotPositive, "term is %s years", op(years)), false
	}
	if principal < 0 || ratePct < 0 {
		return loanTerms{}, fail(name, ErrNegativeValue, "principal %s, rate %s%%", op(principal), op(ratePct)), false
	}

	payments := years * constants.MonthsPerYear
	payment := MonthlyPayment(principal, ratePct, payments)
	if !mathutil.IsFinite(payment) {
		return loanTerms{}, fail(name, ErrNonFinite, "payment overflows"), false
	}
	total := payment * payments
	return loanTerms{payment: payment, payments: payments, total: total, interest: total - principal}, Result{}, true
}

func loanFormula(principal, ratePct, years float64, result string) string {
	n := op(years * constants.MonthsPerYear)
	if ratePct == 0 {
		return fmt.Sprintf("%s ÷ %s = %s", op(principal), n, result)
	}
	return fmt.Sprintf("%s × [m(1 + m)^%s] ÷ [(1 + m)^%s − 1] = %s, m = %s ÷ 100 ÷ 12",
		op(principal), n, n, result, op(ratePct))
}

func loanDetails(terms loanTerms) []Detail {
	return []Detail{
		detail("Monthly payment", money(terms.payment)),
		detail("Number of payments", op(terms.payments)),
		detail("Total paid", money(terms.total)),
		detail("Total interest", money(terms.interest)),
	}
}

// LoanPayment computes the monthly payment for principal borrowed at an annual
// rate (percent) over termYears.
func LoanPayment(principal, ratePct, termYears float64) Result {
	terms, failed, ok := amortize("loanPayment", principal, ratePct, termYears)
	if !ok {
		return failed
	}
	return Result{
		Value:   terms.payment,
		Formula: loanFormula(principal, ratePct, termYears, val(terms.payment)),
		Explanation: fmt.Sprintf("Borrowing %s at %s%% for %s years costs %s a month.",
			op(principal), op(ratePct), op(termYears), val(terms.payment)),
		Details: loanDetails(terms),
	}
}

// LoanTotalInterest computes the total interest paid over the life of the loan.
func LoanTotalInterest(principal, ratePct, termYears float64) Result {
	terms, failed, ok := amortize("loanTotalInterest", principal, ratePct, termYears)
	if !ok {
		return failed
	}
	return Result{
		Value: terms.interest,
		Formula: fmt.Sprintf("%s − %s = %s",
			val(terms.total), op(principal), val(terms.interest)),
		Explanation: fmt.Sprintf("Borrowing %s at %s%% for %s years costs %s in interest.",
			op(principal), op(ratePct), op(termYears), val(terms.interest)),
		Details: loanDetails(terms),
	}
}
