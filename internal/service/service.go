package service

import (
	"context"

	"github.com/saitejads/loanbook/internal/domain"
	"github.com/saitejads/loanbook/internal/dto"
)

type LoanUsecases interface {
	Create(ctx context.Context, req dto.CreateLoanRequest) (*domain.Loan, error)
	List(ctx context.Context, section domain.Section) ([]domain.Loan, error)
	Update(ctx context.Context, id string, req dto.UpdateLoanRequest) (*domain.Loan, error)
	Renew(ctx context.Context, id string, req dto.RenewLoanRequest) (*domain.Loan, error)
	Delete(ctx context.Context, id string) error
	Summary(ctx context.Context) (*dto.SummaryResponse, error)
}

type InstallmentUsecases interface {
	Add(ctx context.Context, loanID string, req dto.AddInstallmentRequest) (*domain.Installment, error)
	Edit(ctx context.Context, loanID string, req dto.EditInstallmentRequest) (*domain.Installment, error)
	List(ctx context.Context, loanID string) (*dto.InstallmentListResponse, error)
}

type ReportUsecases interface {
	CustomerData(ctx context.Context, req dto.ReportRequest) (*dto.CustomerDataset, error)
	CollectionData(ctx context.Context, req dto.ReportRequest) (*dto.CollectionDataset, error)
	FullData(ctx context.Context, req dto.ReportRequest) (*dto.FullDataset, error)
}

type CashbookUsecases interface {
	SaveCashflow(ctx context.Context, req dto.CashflowRequest) (*domain.Cashflow, error)
	ListCashflows(ctx context.Context) ([]domain.Cashflow, error)
	ClearCashflows(ctx context.Context) error
	SaveBackupEntry(ctx context.Context, req dto.BackupEntryRequest) (*domain.BackupEntry, error)
	ListBackupEntries(ctx context.Context) ([]domain.BackupEntry, error)
	DeleteBackupEntry(ctx context.Context, id string) error
}

type UserUsecases interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	List(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, id string, req dto.UpdateUserRequest) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	AddArea(ctx context.Context, area string) error
	UpdatePassword(ctx context.Context, req dto.UpdatePasswordRequest) error
	SendOTP(ctx context.Context, username string) error
	ValidateOTP(ctx context.Context, req dto.ValidateOTPRequest) error
}
