// Package loanmath is the pure computation behind a loan's derived fields:
// interest, total due and the weekday of disbursement. It runs at loan
// creation, update and renewal and has no side effects.
package loanmath

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/saitejads/loanbook/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// Derived is the output of Compute.
type Derived struct {
	Interest float64
	Tamount  float64
	Day      string
}

// InterestAmount computes round(principal * percent / 100) with half-up
// rounding on the product, matching how interest has always been booked.
func InterestAmount(principal, percent float64) float64 {
	amount := decimal.NewFromFloat(principal).
		Mul(decimal.NewFromFloat(percent)).
		Div(hundred).
		Round(0)
	result, _ := amount.Float64()
	return result
}

// Compute derives interest, total due and the disbursement weekday.
//
// For the Interest section the stored percent is authoritative and the
// interest amount is always re-derived from it; any caller-supplied value
// is discarded. Every other section takes the raw interest as given.
// The weekday is empty when no disbursement date is known.
func Compute(section domain.Section, givenAmount, interestPercent, rawInterest float64, givenDate *time.Time) Derived {
	d := Derived{Interest: rawInterest}

	if section == domain.SectionInterest {
		d.Interest = InterestAmount(givenAmount, interestPercent)
	}

	d.Tamount = givenAmount + d.Interest
	d.Day = WeekdayName(givenDate)

	return d
}

// WeekdayName returns the weekday of a date, or "" when the date is absent.
func WeekdayName(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Weekday().String()
}

// Apply writes the derived fields back onto the loan.
func Apply(loan *domain.Loan) {
	d := Compute(loan.Section, loan.GivenAmount, loan.InterestPercent, loan.Interest, loan.GivenDate)
	loan.Interest = d.Interest
	loan.Tamount = d.Tamount
	loan.Day = d.Day
}
