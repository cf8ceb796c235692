package dto

import (
	"github.com/saitejads/loanbook/internal/domain"
	"github.com/saitejads/loanbook/pkg/dates"
)

type LoginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

type LoanResponse struct {
	ID              string  `json:"loan_id"`
	Sno             int     `json:"sno"`
	Section         string  `json:"section"`
	Area            string  `json:"area"`
	Day             string  `json:"day,omitempty"`
	Name            string  `json:"name"`
	Address         string  `json:"address"`
	PhoneNumber     string  `json:"phone_number"`
	AlternativeNo   string  `json:"alternative_no,omitempty"`
	Work            string  `json:"work,omitempty"`
	Guardian        string  `json:"guardian,omitempty"`
	ReferName       string  `json:"refer_name,omitempty"`
	ReferNumber     string  `json:"refer_number,omitempty"`
	GivenAmount     float64 `json:"given_amount"`
	Paid            float64 `json:"paid"`
	Pending         float64 `json:"pending"`
	InterestPercent float64 `json:"interest_percent"`
	Interest        float64 `json:"interest"`
	Tamount         float64 `json:"tamount"`
	GivenDate       string  `json:"given_date,omitempty"`
	LastDate        string  `json:"last_date,omitempty"`
	AdditionalInfo  string  `json:"additional_info,omitempty"`
	VerifiedBy      string  `json:"verified_by,omitempty"`
	VerifiedByNo    string  `json:"verified_by_no,omitempty"`
}

type InstallmentResponse struct {
	ID     uint64  `json:"id"`
	LoanID string  `json:"loan_id"`
	Amount float64 `json:"amount"`
	Date   string  `json:"date"`
}

type InstallmentListResponse struct {
	Loan    LoanResponse          `json:"user"`
	Entries []InstallmentResponse `json:"data"`
}

type SectionSummary struct {
	Section       string  `json:"section"`
	TotalAmount   float64 `json:"total_amount"`
	PaidAmount    float64 `json:"paid_amount"`
	BalanceAmount float64 `json:"balance_amount"`
}

type SummaryResponse struct {
	Sections []SectionSummary `json:"sections"`
	Total    SectionSummary   `json:"total"`
}

// CustomerRow is one loan in the customer dataset with the derived pending
// column and display-formatted dates.
type CustomerRow struct {
	Sno             int     `json:"sno"`
	LoanID          string  `json:"loan_id"`
	Section         string  `json:"section"`
	Area            string  `json:"area"`
	Day             string  `json:"day"`
	Name            string  `json:"name"`
	Address         string  `json:"address"`
	PhoneNumber     string  `json:"phone_number"`
	AlternativeNo   string  `json:"alternative_no"`
	Work            string  `json:"work"`
	Guardian        string  `json:"guardian"`
	GivenAmount     float64 `json:"given_amount"`
	Paid            float64 `json:"paid"`
	Pending         float64 `json:"pending"`
	Interest        float64 `json:"interest"`
	Tamount         float64 `json:"tamount"`
	GivenDate       string  `json:"given_date"`
	LastDate        string  `json:"last_date"`
	AdditionalInfo  string  `json:"additional_info"`
	VerifiedBy      string  `json:"verified_by"`
}

type CustomerTotals struct {
	GivenAmount float64 `json:"given_amount"`
	Paid        float64 `json:"paid"`
	Pending     float64 `json:"pending"`
	Interest    float64 `json:"interest"`
	Tamount     float64 `json:"tamount"`
}

type CustomerDataset struct {
	Rows   []CustomerRow  `json:"rows"`
	Totals CustomerTotals `json:"totals"`
}

// CollectionRow is one installment with the borrower denormalized onto it.
type CollectionRow struct {
	Sno    int     `json:"sno"`
	Name   string  `json:"name"`
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

type CollectionDataset struct {
	Rows  []CollectionRow `json:"rows"`
	Total float64         `json:"total"`
}

// LoanFullSection is one loan with its full field set, date-ordered
// installments and the running collected total, for narrative rendering.
type LoanFullSection struct {
	Loan           LoanResponse          `json:"loan"`
	Installments   []InstallmentResponse `json:"installments"`
	TotalCollected float64               `json:"total_collected"`
}

type FullDataset struct {
	Sections []LoanFullSection `json:"sections"`
}

// --- Mapping --- //

func LoanFromEntity(data *domain.Loan) LoanResponse {
	return LoanResponse{
		ID:              data.ID,
		Sno:             data.Sno,
		Section:         string(data.Section),
		Area:            data.Area,
		Day:             data.Day,
		Name:            data.Name,
		Address:         data.Address,
		PhoneNumber:     data.PhoneNumber,
		AlternativeNo:   data.AlternativeNo,
		Work:            data.Work,
		Guardian:        data.Guardian,
		ReferName:       data.ReferName,
		ReferNumber:     data.ReferNumber,
		GivenAmount:     data.GivenAmount,
		Paid:            data.Paid,
		Pending:         data.Pending(),
		InterestPercent: data.InterestPercent,
		Interest:        data.Interest,
		Tamount:         data.Tamount,
		GivenDate:       dates.FormatPtr(data.GivenDate),
		LastDate:        dates.FormatPtr(data.LastDate),
		AdditionalInfo:  data.AdditionalInfo,
		VerifiedBy:      data.VerifiedBy,
		VerifiedByNo:    data.VerifiedByNo,
	}
}

func LoansFromEntity(data []domain.Loan) []LoanResponse {
	responses := make([]LoanResponse, len(data))
	for i := range data {
		responses[i] = LoanFromEntity(&data[i])
	}

	return responses
}

func InstallmentFromEntity(data domain.Installment) InstallmentResponse {
	return InstallmentResponse{
		ID:     data.ID,
		LoanID: data.LoanID,
		Amount: data.Amount,
		Date:   dates.Format(data.Date),
	}
}

func InstallmentsFromEntity(data []domain.Installment) []InstallmentResponse {
	responses := make([]InstallmentResponse, len(data))
	for i, entry := range data {
		responses[i] = InstallmentFromEntity(entry)
	}

	return responses
}
