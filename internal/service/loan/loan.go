package loansrv

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/saitejads/loanbook/internal/domain"
	"github.com/saitejads/loanbook/internal/dto"
	"github.com/saitejads/loanbook/internal/loanmath"
	"github.com/saitejads/loanbook/internal/repository"
	installmentrepo "github.com/saitejads/loanbook/internal/repository/installment"
	loanrepo "github.com/saitejads/loanbook/internal/repository/loan"
	"github.com/saitejads/loanbook/internal/service"
	"github.com/saitejads/loanbook/pkg/common"
	"github.com/saitejads/loanbook/pkg/dates"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type loanService struct {
	db                    *gorm.DB
	loanRepository        repository.LoanRepository
	installmentRepository repository.InstallmentRepository

	meter          metric.Meter
	tracer         trace.Tracer
	log            *zap.Logger
	operationCount metric.Int64Counter
	errorCount     metric.Int64Counter
}

// Create implements LoanUsecases.
func (l *loanService) Create(ctx context.Context, req dto.CreateLoanRequest) (*domain.Loan, error) {
	ctx, span := l.tracer.Start(ctx, "service.CreateLoan")
	defer span.End()

	l.operationCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", "create_loan"),
	))
	span.SetAttributes(
		attribute.Int("loan.sno", req.Sno),
		attribute.String("loan.section", req.Section),
	)

	existing, err := l.loanRepository.FindBySnoAndSection(ctx, req.Sno, domain.Section(req.Section))
	if err != nil {
		span.SetStatus(codes.Error, "Failed to check existing loan")
		span.RecordError(err)
		return nil, err
	}
	if existing != nil {
		l.log.Warn("Sequence number already allocated",
			zap.Int("sno", req.Sno),
			zap.String("section", req.Section),
		)
		return nil, common.ErrDuplicateSequence
	}

	loan := dto.CreateLoanToEntity(req)
	loan.ID = uuid.NewString()
	loanmath.Apply(loan)

	if err := l.loanRepository.Create(ctx, loan); err != nil {
		span.SetStatus(codes.Error, "Failed to create loan")
		span.RecordError(err)
		l.errorCount.Add(ctx, 1, metric.WithAttributes(
			attribute.String("operation", "create_loan"),
		))
		return nil, err
	}

	l.log.Info("Loan created",
		zap.String("loan_id", loan.ID),
		zap.Int("sno", loan.Sno),
		zap.String("section", string(loan.Section)),
		zap.Float64("tamount", loan.Tamount),
	)

	return loan, nil
}

// List implements LoanUsecases.
func (l *loanService) List(ctx context.Context, section domain.Section) ([]domain.Loan, error) {
	ctx, span := l.tracer.Start(ctx, "service.ListLoans")
	defer span.End()

	l.operationCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", "list_loans"),
	))

	loans, err := l.loanRepository.FindAllBySection(ctx, section)
	if err != nil {
		span.SetStatus(codes.Error, "Failed to list loans")
		span.RecordError(err)
		return nil, err
	}

	return loans, nil
}

// Update applies the given overrides and re-derives the computed fields.
// Interest is re-derived from the percent only for the pure-interest
// section; the total due and the weekday always follow the new values.
func (l *loanService) Update(ctx context.Context, id string, req dto.UpdateLoanRequest) (*domain.Loan, error) {
	ctx, span := l.tracer.Start(ctx, "service.UpdateLoan")
	defer span.End()

	l.operationCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", "update_loan"),
	))
	span.SetAttributes(attribute.String("loan.id", id))

	loan, err := l.loanRepository.FindByID(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, "Failed to find loan")
		span.RecordError(err)
		return nil, err
	}
	if loan == nil {
		return nil, common.ErrLoanNotFound
	}

	section := domain.Section(req.Section)
	if req.Sno != loan.Sno || section != loan.Section {
		existing, err := l.loanRepository.FindBySnoAndSection(ctx, req.Sno, section)
		if err != nil {
			span.SetStatus(codes.Error, "Failed to check existing loan")
			span.RecordError(err)
			return nil, err
		}
		if existing != nil && existing.ID != loan.ID {
			return nil, common.ErrDuplicateSequence
		}
	}

	loan.Sno = req.Sno
	loan.Section = section
	applyString(&loan.Area, req.Area)
	applyString(&loan.Name, req.Name)
	applyString(&loan.Address, req.Address)
	applyString(&loan.PhoneNumber, req.PhoneNumber)
	applyString(&loan.AlternativeNo, req.AlternativeNo)
	applyString(&loan.Work, req.Work)
	applyString(&loan.Guardian, req.Guardian)
	applyString(&loan.ReferName, req.ReferName)
	applyString(&loan.ReferNumber, req.ReferNumber)
	applyString(&loan.AdditionalInfo, req.AdditionalInfo)
	applyString(&loan.VerifiedBy, req.VerifiedBy)
	applyString(&loan.VerifiedByNo, req.VerifiedByNo)
	applyFloat(&loan.GivenAmount, req.GivenAmount)
	applyFloat(&loan.InterestPercent, req.InterestPercent)
	applyFloat(&loan.Interest, req.Interest)
	applyDate(&loan.GivenDate, req.GivenDate)
	applyDate(&loan.LastDate, req.LastDate)

	loanmath.Apply(loan)

	if err := l.loanRepository.Update(ctx, loan); err != nil {
		span.SetStatus(codes.Error, "Failed to update loan")
		span.RecordError(err)
		l.errorCount.Add(ctx, 1, metric.WithAttributes(
			attribute.String("operation", "update_loan"),
		))
		return nil, err
	}

	l.log.Info("Loan updated",
		zap.String("loan_id", loan.ID),
		zap.Float64("tamount", loan.Tamount),
	)

	return loan, nil
}

// Renew resets a loan for a new cycle: fresh terms, paid back to zero and
// the repayment history wiped, all in one transaction.
func (l *loanService) Renew(ctx context.Context, id string, req dto.RenewLoanRequest) (*domain.Loan, error) {
	ctx, span := l.tracer.Start(ctx, "service.RenewLoan")
	defer span.End()

	l.operationCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", "renew_loan"),
	))
	span.SetAttributes(attribute.String("loan.id", id))

	tx := l.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer tx.Rollback()

	loanTx := loanrepo.NewLoanRepository(tx, l.meter, l.tracer, l.log)
	installmentTx := installmentrepo.NewInstallmentRepository(tx, l.meter, l.tracer, l.log)

	loan, err := loanTx.FindByID(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, "Failed to find loan")
		span.RecordError(err)
		return nil, err
	}
	if loan == nil {
		return nil, common.ErrLoanNotFound
	}

	if req.Section != nil {
		loan.Section = domain.Section(*req.Section)
	}
	applyFloat(&loan.GivenAmount, req.GivenAmount)
	applyFloat(&loan.InterestPercent, req.InterestPercent)
	applyFloat(&loan.Interest, req.Interest)
	applyDate(&loan.GivenDate, req.GivenDate)
	applyDate(&loan.LastDate, req.LastDate)
	applyString(&loan.AdditionalInfo, req.AdditionalInfo)

	loan.Paid = 0
	loanmath.Apply(loan)

	if err := loanTx.Update(ctx, loan); err != nil {
		span.SetStatus(codes.Error, "Failed to renew loan")
		span.RecordError(err)
		l.errorCount.Add(ctx, 1, metric.WithAttributes(
			attribute.String("operation", "renew_loan"),
		))
		return nil, err
	}

	if err := installmentTx.DeleteByLoan(ctx, loan.ID); err != nil {
		span.SetStatus(codes.Error, "Failed to clear installments")
		span.RecordError(err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	l.log.Info("Loan renewed",
		zap.String("loan_id", loan.ID),
		zap.Float64("given_amount", loan.GivenAmount),
		zap.Float64("tamount", loan.Tamount),
	)

	loan.Installments = nil

	return loan, nil
}

// Delete implements LoanUsecases.
func (l *loanService) Delete(ctx context.Context, id string) error {
	ctx, span := l.tracer.Start(ctx, "service.DeleteLoan")
	defer span.End()

	l.operationCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", "delete_loan"),
	))
	span.SetAttributes(attribute.String("loan.id", id))

	tx := l.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer tx.Rollback()

	loanTx := loanrepo.NewLoanRepository(tx, l.meter, l.tracer, l.log)
	installmentTx := installmentrepo.NewInstallmentRepository(tx, l.meter, l.tracer, l.log)

	if err := installmentTx.DeleteByLoan(ctx, id); err != nil {
		span.SetStatus(codes.Error, "Failed to delete installments")
		span.RecordError(err)
		return err
	}

	if err := loanTx.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.ErrLoanNotFound
		}
		span.SetStatus(codes.Error, "Failed to delete loan")
		span.RecordError(err)
		l.errorCount.Add(ctx, 1, metric.WithAttributes(
			attribute.String("operation", "delete_loan"),
		))
		return err
	}

	return tx.Commit().Error
}

// Summary aggregates the booked totals, collections and outstanding balance
// per section plus an overall line.
func (l *loanService) Summary(ctx context.Context) (*dto.SummaryResponse, error) {
	ctx, span := l.tracer.Start(ctx, "service.LoanSummary")
	defer span.End()

	l.operationCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", "loan_summary"),
	))

	totals, err := l.loanRepository.SumBySection(ctx)
	if err != nil {
		span.SetStatus(codes.Error, "Failed to aggregate loans")
		span.RecordError(err)
		return nil, err
	}

	summary := &dto.SummaryResponse{
		Sections: make([]dto.SectionSummary, 0, len(totals)),
	}
	overall := dto.SectionSummary{Section: "Total"}

	// Section lines cover the repayment sections only; the overall line
	// still spans every loan, Interest included.
	for _, t := range totals {
		line := dto.SectionSummary{
			Section:       string(t.Section),
			TotalAmount:   t.TotalAmount,
			PaidAmount:    t.PaidAmount,
			BalanceAmount: t.TotalAmount - t.PaidAmount,
		}
		if t.Section != domain.SectionInterest {
			summary.Sections = append(summary.Sections, line)
		}

		overall.TotalAmount += line.TotalAmount
		overall.PaidAmount += line.PaidAmount
		overall.BalanceAmount += line.BalanceAmount
	}

	summary.Total = overall

	return summary, nil
}

func applyString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func applyFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}

func applyDate(dst **time.Time, src *string) {
	if src != nil {
		*dst = dates.ParseOptional(*src)
	}
}

func NewLoanService(
	db *gorm.DB,
	loanRepository repository.LoanRepository,
	installmentRepository repository.InstallmentRepository,
	meter metric.Meter,
	tracer trace.Tracer,
	log *zap.Logger,
) service.LoanUsecases {
	operationCount, _ := meter.Int64Counter(
		"service.operation.count",
		metric.WithDescription("Number of service operations"),
		metric.WithUnit("{operation}"),
	)

	errorCount, _ := meter.Int64Counter(
		"service.error.count",
		metric.WithDescription("Number of service errors"),
		metric.WithUnit("{error}"),
	)

	return &loanService{
		db:                    db,
		loanRepository:        loanRepository,
		installmentRepository: installmentRepository,
		meter:                 meter,
		tracer:                tracer,
		log:                   log,
		operationCount:        operationCount,
		errorCount:            errorCount,
	}
}
