package dto

import (
	"github.com/saitejads/loanbook/internal/domain"
	"github.com/saitejads/loanbook/pkg/dates"
)

type CreateLoanRequest struct {
	Sno             int      `json:"sno" validate:"gte=0"`
	Section         string   `json:"section" validate:"required,oneof=Monthly Weekly Daily Interest"`
	Area            string   `json:"area" validate:"required"`
	Name            string   `json:"name" validate:"required"`
	Address         string   `json:"address" validate:"required"`
	PhoneNumber     string   `json:"phone_number" validate:"required"`
	AlternativeNo   string   `json:"alternative_no,omitempty"`
	Work            string   `json:"work,omitempty"`
	Guardian        string   `json:"guardian,omitempty"`
	ReferName       string   `json:"refer_name,omitempty"`
	ReferNumber     string   `json:"refer_number,omitempty"`
	GivenAmount     float64  `json:"given_amount" validate:"required,gt=0"`
	InterestPercent float64  `json:"interest_percent" validate:"gte=0"`
	Interest        float64  `json:"interest" validate:"gte=0"`
	GivenDate       string   `json:"given_date" validate:"required"`
	LastDate        string   `json:"last_date" validate:"required"`
	AdditionalInfo  string   `json:"additional_info,omitempty"`
	VerifiedBy      string   `json:"verified_by,omitempty"`
	VerifiedByNo    string   `json:"verified_by_no,omitempty"`
}

// UpdateLoanRequest carries sno and section always (they are conflict
// checked) and the rest as optional overrides.
type UpdateLoanRequest struct {
	Sno             int      `json:"sno" validate:"gte=0"`
	Section         string   `json:"section" validate:"required,oneof=Monthly Weekly Daily Interest"`
	Area            *string  `json:"area,omitempty"`
	Name            *string  `json:"name,omitempty"`
	Address         *string  `json:"address,omitempty"`
	PhoneNumber     *string  `json:"phone_number,omitempty"`
	AlternativeNo   *string  `json:"alternative_no,omitempty"`
	Work            *string  `json:"work,omitempty"`
	Guardian        *string  `json:"guardian,omitempty"`
	ReferName       *string  `json:"refer_name,omitempty"`
	ReferNumber     *string  `json:"refer_number,omitempty"`
	GivenAmount     *float64 `json:"given_amount,omitempty"`
	InterestPercent *float64 `json:"interest_percent,omitempty"`
	Interest        *float64 `json:"interest,omitempty"`
	GivenDate       *string  `json:"given_date,omitempty"`
	LastDate        *string  `json:"last_date,omitempty"`
	AdditionalInfo  *string  `json:"additional_info,omitempty"`
	VerifiedBy      *string  `json:"verified_by,omitempty"`
	VerifiedByNo    *string  `json:"verified_by_no,omitempty"`
}

// RenewLoanRequest resets a loan's terms and wipes its repayment history.
type RenewLoanRequest struct {
	GivenAmount     *float64 `json:"given_amount,omitempty"`
	Section         *string  `json:"section,omitempty" validate:"omitempty,oneof=Monthly Weekly Daily Interest"`
	InterestPercent *float64 `json:"interest_percent,omitempty"`
	Interest        *float64 `json:"interest,omitempty"`
	GivenDate       *string  `json:"given_date,omitempty"`
	LastDate        *string  `json:"last_date,omitempty"`
	AdditionalInfo  *string  `json:"additional_info,omitempty"`
}

type AddInstallmentRequest struct {
	Date   string  `json:"date" validate:"required"`
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

type EditInstallmentRequest struct {
	Date    string   `json:"date" validate:"required"`
	Amount  *float64 `json:"amount,omitempty" validate:"omitempty,gt=0"`
	NewDate *string  `json:"new_date,omitempty"`
}

type ReportRequest struct {
	DataType string   `json:"data_type" validate:"required,oneof='Customer Data' Collection 'Full Data'"`
	Section  string   `json:"section,omitempty" validate:"omitempty,oneof=Monthly Weekly Daily Interest"`
	Areas    []string `json:"areas,omitempty"`
	Day      string   `json:"day,omitempty"`
	FromDate string   `json:"from_date" validate:"required"`
	ToDate   string   `json:"to_date" validate:"required"`
}

type CashflowRequest struct {
	Sno    int     `json:"sno" validate:"gte=0"`
	Date   string  `json:"date" validate:"required"`
	Amount float64 `json:"amount" validate:"required"`
}

type BackupEntryRequest struct {
	Sno    int     `json:"sno" validate:"gte=0"`
	Name   string  `json:"name" validate:"required"`
	Amount float64 `json:"amount" validate:"required"`
	Area   string  `json:"area" validate:"required"`
}

type RegisterRequest struct {
	Username    string   `json:"username" validate:"required"`
	Password    string   `json:"password" validate:"required,min=6"`
	Name        string   `json:"name" validate:"required"`
	Email       string   `json:"email,omitempty" validate:"omitempty,email"`
	PhoneNo     string   `json:"phone_no,omitempty"`
	Role        string   `json:"role,omitempty"`
	LinesHandle []string `json:"lines_handle,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UpdateUserRequest struct {
	Name        *string  `json:"name,omitempty"`
	PhoneNo     *string  `json:"phone_no,omitempty"`
	Role        *string  `json:"role,omitempty"`
	LinesHandle []string `json:"lines_handle,omitempty"`
	Password    *string  `json:"password,omitempty" validate:"omitempty,min=6"`
}

type AddAreaRequest struct {
	AreaName string `json:"area_name" validate:"required"`
}

type UpdatePasswordRequest struct {
	Username    string `json:"username" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

type SendOTPRequest struct {
	Username string `json:"username" validate:"required"`
}

type ValidateOTPRequest struct {
	Username string `json:"username" validate:"required"`
	OTP      string `json:"otp" validate:"required,len=6,numeric"`
}

// --- Mapping --- //

func CreateLoanToEntity(req CreateLoanRequest) *domain.Loan {
	return &domain.Loan{
		Sno:             req.Sno,
		Section:         domain.Section(req.Section),
		Area:            req.Area,
		Name:            req.Name,
		Address:         req.Address,
		PhoneNumber:     req.PhoneNumber,
		AlternativeNo:   req.AlternativeNo,
		Work:            req.Work,
		Guardian:        req.Guardian,
		ReferName:       req.ReferName,
		ReferNumber:     req.ReferNumber,
		GivenAmount:     req.GivenAmount,
		InterestPercent: req.InterestPercent,
		Interest:        req.Interest,
		GivenDate:       dates.ParseOptional(req.GivenDate),
		LastDate:        dates.ParseOptional(req.LastDate),
		AdditionalInfo:  req.AdditionalInfo,
		VerifiedBy:      req.VerifiedBy,
		VerifiedByNo:    req.VerifiedByNo,
	}
}
