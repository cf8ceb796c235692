package handler_test

import (
	"context"

	"github.com/saitejads/loanbook/internal/domain"
	"github.com/saitejads/loanbook/internal/dto"
)

type MockLoanService struct {
	MockLoan    *domain.Loan
	MockLoans   []domain.Loan
	MockSummary *dto.SummaryResponse
	MockError   error
}

func (m *MockLoanService) Create(ctx context.Context, req dto.CreateLoanRequest) (*domain.Loan, error) {
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockLoan, nil
}

func (m *MockLoanService) List(ctx context.Context, section domain.Section) ([]domain.Loan, error) {
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockLoans, nil
}

func (m *MockLoanService) Update(ctx context.Context, id string, req dto.UpdateLoanRequest) (*domain.Loan, error) {
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockLoan, nil
}

func (m *MockLoanService) Renew(ctx context.Context, id string, req dto.RenewLoanRequest) (*domain.Loan, error) {
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockLoan, nil
}

func (m *MockLoanService) Delete(ctx context.Context, id string) error {
	return m.MockError
}

func (m *MockLoanService) Summary(ctx context.Context) (*dto.SummaryResponse, error) {
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockSummary, nil
}

type MockInstallmentService struct {
	MockInstallment *domain.Installment
	MockList        *dto.InstallmentListResponse
	MockError       error
}

func (m *MockInstallmentService) Add(ctx context.Context, loanID string, req dto.AddInstallmentRequest) (*domain.Installment, error) {
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockInstallment, nil
}

func (m *MockInstallmentService) Edit(ctx context.Context, loanID string, req dto.EditInstallmentRequest) (*domain.Installment, error) {
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockInstallment, nil
}

func (m *MockInstallmentService) List(ctx context.Context, loanID string) (*dto.InstallmentListResponse, error) {
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockList, nil
}

type MockUserService struct {
	MockUser  *domain.User
	MockUsers []domain.User
	MockLogin *dto.LoginResponse
	MockError error
}

func (m *MockUserService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockUser, nil
}

func (m *MockUserService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockLogin, nil
}

func (m *MockUserService) List(ctx context.Context) ([]domain.User, error) {
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockUsers, nil
}

func (m *MockUserService) Get(ctx context.Context, id string) (*domain.User, error) {
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockUser, nil
}

func (m *MockUserService) Update(ctx context.Context, id string, req dto.UpdateUserRequest) (*domain.User, error) {
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockUser, nil
}

func (m *MockUserService) Delete(ctx context.Context, id string) error {
	return m.MockError
}

func (m *MockUserService) AddArea(ctx context.Context, area string) error {
	return m.MockError
}

func (m *MockUserService) UpdatePassword(ctx context.Context, req dto.UpdatePasswordRequest) error {
	return m.MockError
}

func (m *MockUserService) SendOTP(ctx context.Context, username string) error {
	return m.MockError
}

func (m *MockUserService) ValidateOTP(ctx context.Context, req dto.ValidateOTPRequest) error {
	return m.MockError
}
