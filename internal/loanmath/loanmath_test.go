package loanmath

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/saitejads/loanbook/internal/domain"
)

func TestInterestAmount(t *testing.T) {
	tests := []struct {
		name      string
		principal float64
		percent   float64
		expected  float64
	}{
		{name: "whole result", principal: 1000, percent: 10, expected: 100},
		{name: "rounds half up", principal: 1050, percent: 10, expected: 105},
		{name: "fractional rounds up", principal: 1333, percent: 10, expected: 133},
		{name: "half boundary", principal: 125, percent: 10, expected: 13},
		{name: "zero percent", principal: 1000, percent: 0, expected: 0},
		{name: "zero principal", principal: 0, percent: 10, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, InterestAmount(tt.principal, tt.percent))
		})
	}
}

func TestCompute_InterestSectionDerives(t *testing.T) {
	given := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

	d := Compute(domain.SectionInterest, 1000, 10, 999, &given)

	assert.Equal(t, 100.0, d.Interest)
	assert.Equal(t, 1100.0, d.Tamount)
	assert.Equal(t, "Friday", d.Day)
}

func TestCompute_OtherSectionsKeepRawInterest(t *testing.T) {
	given := time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)

	d := Compute(domain.SectionWeekly, 1000, 10, 250, &given)

	assert.Equal(t, 250.0, d.Interest)
	assert.Equal(t, 1250.0, d.Tamount)
	assert.Equal(t, "Monday", d.Day)
}

func TestCompute_MissingDateLeavesDayEmpty(t *testing.T) {
	d := Compute(domain.SectionDaily, 500, 0, 50, nil)

	assert.Equal(t, 550.0, d.Tamount)
	assert.Empty(t, d.Day)
}

func TestApply(t *testing.T) {
	given := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	loan := &domain.Loan{
		Section:         domain.SectionInterest,
		GivenAmount:     2000,
		InterestPercent: 10,
		Interest:        1,
		GivenDate:       &given,
	}

	Apply(loan)

	assert.Equal(t, 200.0, loan.Interest)
	assert.Equal(t, 2200.0, loan.Tamount)
	assert.Equal(t, "Friday", loan.Day)
}
