package domain

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Role string

const (
	AdminRole    Role = "Admin"
	SubadminRole Role = "subadmin"
)

// Section is the repayment cadence of a loan, or the pure-interest product.
type Section string

const (
	SectionMonthly  Section = "Monthly"
	SectionWeekly   Section = "Weekly"
	SectionDaily    Section = "Daily"
	SectionInterest Section = "Interest"
)

// CarriesDay reports whether loans in this section are collected on a fixed
// weekday, which is the only case where a weekday filter is meaningful.
func (s Section) CarriesDay() bool {
	return s == SectionWeekly
}

func (s Section) Valid() bool {
	switch s {
	case SectionMonthly, SectionWeekly, SectionDaily, SectionInterest:
		return true
	}
	return false
}

// Loan is one borrower's credit line.
type Loan struct {
	ID              string
	Sno             int
	Section         Section
	Area            string
	Day             string
	Name            string
	Address         string
	PhoneNumber     string
	AlternativeNo   string
	Work            string
	Guardian        string
	ReferName       string
	ReferNumber     string
	GivenAmount     float64
	Paid            float64
	InterestPercent float64
	Interest        float64
	Tamount         float64
	GivenDate       *time.Time
	LastDate        *time.Time
	AdditionalInfo  string
	VerifiedBy      string
	VerifiedByNo    string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Installments []Installment
}

// Pending is the outstanding balance on the loan.
func (l Loan) Pending() float64 {
	return l.Tamount - l.Paid
}

// Installment is one recorded repayment against a loan on a date.
// At most one installment exists per (loan, date) pair.
type Installment struct {
	ID     uint64
	LoanID string
	Amount float64
	Date   time.Time
}

// Cashflow is a standalone dated amount used for running-total bookkeeping.
type Cashflow struct {
	ID     string
	Sno    int
	Date   time.Time
	Amount float64
}

// BackupEntry is a standalone named amount tagged with an area.
type BackupEntry struct {
	ID     string
	Sno    int
	Name   string
	Amount float64
	Area   string
}

type User struct {
	ID          string
	Username    string
	Email       string
	Password    string
	Name        string
	PhoneNo     string
	Role        Role
	LinesHandle []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type JwtCustomClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
	jwt.RegisteredClaims
}

// SectionTotals is the aggregated position of one section.
type SectionTotals struct {
	Section     Section
	TotalAmount float64
	PaidAmount  float64
}

// ReportFilter narrows report datasets. An empty Areas slice means no area
// restriction; Day applies only when the section carries a weekday.
type ReportFilter struct {
	Section Section
	Areas   []string
	Day     string
}
