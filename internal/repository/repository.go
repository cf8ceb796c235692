package repository

import (
	"context"
	"time"

	"github.com/saitejads/loanbook/internal/domain"
)

type LoanRepository interface {
	Create(ctx context.Context, loan *domain.Loan) error
	FindByID(ctx context.Context, id string) (*domain.Loan, error)
	FindBySnoAndSection(ctx context.Context, sno int, section domain.Section) (*domain.Loan, error)
	FindAllBySection(ctx context.Context, section domain.Section) ([]domain.Loan, error)
	FindFiltered(ctx context.Context, filter domain.ReportFilter) ([]domain.Loan, error)
	Update(ctx context.Context, loan *domain.Loan) error
	AddPaid(ctx context.Context, id string, delta float64) error
	Delete(ctx context.Context, id string) error
	SumBySection(ctx context.Context) ([]domain.SectionTotals, error)
}

type InstallmentRepository interface {
	Create(ctx context.Context, installment *domain.Installment) error
	FindByLoanAndDate(ctx context.Context, loanID string, date time.Time) (*domain.Installment, error)
	FindAllByLoan(ctx context.Context, loanID string) ([]domain.Installment, error)
	FindAllByLoanIDs(ctx context.Context, loanIDs []string) ([]domain.Installment, error)
	Update(ctx context.Context, installment *domain.Installment) error
	DeleteByLoan(ctx context.Context, loanID string) error
}

type CashflowRepository interface {
	Create(ctx context.Context, entry *domain.Cashflow) error
	FindAll(ctx context.Context) ([]domain.Cashflow, error)
	DeleteAll(ctx context.Context) error
}

type BackupRepository interface {
	Create(ctx context.Context, entry *domain.BackupEntry) error
	FindAll(ctx context.Context) ([]domain.BackupEntry, error)
	Delete(ctx context.Context, id string) error
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindAllExceptAdmin(ctx context.Context) ([]domain.User, error)
	FindAllByRole(ctx context.Context, role domain.Role) ([]domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
}
