package installmentsrv

import (
	"context"

	"github.com/saitejads/loanbook/internal/domain"
	"github.com/saitejads/loanbook/internal/dto"
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

type installmentService struct {
	db                    *gorm.DB
	loanRepository        repository.LoanRepository
	installmentRepository repository.InstallmentRepository

	meter          metric.Meter
	tracer         trace.Tracer
	log            *zap.Logger
	operationCount metric.Int64Counter
	errorCount     metric.Int64Counter
}

// Add records a repayment and moves the loan's paid counter by the same
// amount inside one transaction, so the counter always equals the sum of
// the recorded installments.
func (s *installmentService) Add(ctx context.Context, loanID string, req dto.AddInstallmentRequest) (*domain.Installment, error) {
	ctx, span := s.tracer.Start(ctx, "service.AddInstallment")
	defer span.End()

	s.operationCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", "add_installment"),
	))
	span.SetAttributes(attribute.String("loan.id", loanID))

	date, err := dates.Parse(req.Date)
	if err != nil {
		return nil, err
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer tx.Rollback()

	loanTx := loanrepo.NewLoanRepository(tx, s.meter, s.tracer, s.log)
	installmentTx := installmentrepo.NewInstallmentRepository(tx, s.meter, s.tracer, s.log)

	loan, err := loanTx.FindByID(ctx, loanID)
	if err != nil {
		span.SetStatus(codes.Error, "Failed to find loan")
		span.RecordError(err)
		return nil, err
	}
	if loan == nil {
		return nil, common.ErrLoanNotFound
	}

	existing, err := installmentTx.FindByLoanAndDate(ctx, loanID, date)
	if err != nil {
		span.SetStatus(codes.Error, "Failed to check existing installment")
		span.RecordError(err)
		return nil, err
	}
	if existing != nil {
		s.log.Warn("Installment already recorded for date",
			zap.String("loan_id", loanID),
			zap.String("date", dates.Format(date)),
		)
		return nil, common.ErrDuplicateEntry
	}

	installment := &domain.Installment{
		LoanID: loanID,
		Amount: req.Amount,
		Date:   date,
	}
	if err := installmentTx.Create(ctx, installment); err != nil {
		span.SetStatus(codes.Error, "Failed to create installment")
		span.RecordError(err)
		s.errorCount.Add(ctx, 1, metric.WithAttributes(
			attribute.String("operation", "add_installment"),
		))
		return nil, err
	}

	if err := loanTx.AddPaid(ctx, loanID, req.Amount); err != nil {
		span.SetStatus(codes.Error, "Failed to adjust paid counter")
		span.RecordError(err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	s.log.Info("Installment recorded",
		zap.String("loan_id", loanID),
		zap.String("date", dates.Format(date)),
		zap.Float64("amount", req.Amount),
	)

	return installment, nil
}

// Edit changes an installment's amount or date. The paid counter moves by
// the amount delta; when the owning loan no longer exists the edit still
// lands and the counter adjustment is skipped.
func (s *installmentService) Edit(ctx context.Context, loanID string, req dto.EditInstallmentRequest) (*domain.Installment, error) {
	ctx, span := s.tracer.Start(ctx, "service.EditInstallment")
	defer span.End()

	s.operationCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", "edit_installment"),
	))
	span.SetAttributes(attribute.String("loan.id", loanID))

	date, err := dates.Parse(req.Date)
	if err != nil {
		return nil, err
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer tx.Rollback()

	loanTx := loanrepo.NewLoanRepository(tx, s.meter, s.tracer, s.log)
	installmentTx := installmentrepo.NewInstallmentRepository(tx, s.meter, s.tracer, s.log)

	installment, err := installmentTx.FindByLoanAndDate(ctx, loanID, date)
	if err != nil {
		span.SetStatus(codes.Error, "Failed to find installment")
		span.RecordError(err)
		return nil, err
	}
	if installment == nil {
		return nil, common.ErrInstallmentNotFound
	}

	var delta float64
	if req.Amount != nil {
		delta = *req.Amount - installment.Amount
		installment.Amount = *req.Amount
	}

	if req.NewDate != nil {
		newDate, err := dates.Parse(*req.NewDate)
		if err != nil {
			return nil, err
		}
		if !newDate.Equal(installment.Date) {
			occupied, err := installmentTx.FindByLoanAndDate(ctx, loanID, newDate)
			if err != nil {
				span.SetStatus(codes.Error, "Failed to check target date")
				span.RecordError(err)
				return nil, err
			}
			if occupied != nil {
				return nil, common.ErrDuplicateEntry
			}
			installment.Date = newDate
		}
	}

	if err := installmentTx.Update(ctx, installment); err != nil {
		span.SetStatus(codes.Error, "Failed to update installment")
		span.RecordError(err)
		s.errorCount.Add(ctx, 1, metric.WithAttributes(
			attribute.String("operation", "edit_installment"),
		))
		return nil, err
	}

	if delta != 0 {
		loan, err := loanTx.FindByID(ctx, loanID)
		if err != nil {
			span.SetStatus(codes.Error, "Failed to find loan")
			span.RecordError(err)
			return nil, err
		}
		if loan == nil {
			s.log.Warn("Editing installment of a deleted loan, paid counter not adjusted",
				zap.String("loan_id", loanID),
				zap.Uint64("installment_id", installment.ID),
			)
		} else if err := loanTx.AddPaid(ctx, loanID, delta); err != nil {
			span.SetStatus(codes.Error, "Failed to adjust paid counter")
			span.RecordError(err)
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	s.log.Info("Installment updated",
		zap.String("loan_id", loanID),
		zap.Uint64("installment_id", installment.ID),
		zap.Float64("delta", delta),
	)

	return installment, nil
}

// List returns the loan snapshot together with its date-ordered history.
func (s *installmentService) List(ctx context.Context, loanID string) (*dto.InstallmentListResponse, error) {
	ctx, span := s.tracer.Start(ctx, "service.ListInstallments")
	defer span.End()

	s.operationCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", "list_installments"),
	))
	span.SetAttributes(attribute.String("loan.id", loanID))

	loan, err := s.loanRepository.FindByID(ctx, loanID)
	if err != nil {
		span.SetStatus(codes.Error, "Failed to find loan")
		span.RecordError(err)
		return nil, err
	}
	if loan == nil {
		return nil, common.ErrLoanNotFound
	}

	installments, err := s.installmentRepository.FindAllByLoan(ctx, loanID)
	if err != nil {
		span.SetStatus(codes.Error, "Failed to list installments")
		span.RecordError(err)
		return nil, err
	}

	return &dto.InstallmentListResponse{
		Loan:    dto.LoanFromEntity(loan),
		Entries: dto.InstallmentsFromEntity(installments),
	}, nil
}

func NewInstallmentService(
	db *gorm.DB,
	loanRepository repository.LoanRepository,
	installmentRepository repository.InstallmentRepository,
	meter metric.Meter,
	tracer trace.Tracer,
	log *zap.Logger,
) service.InstallmentUsecases {
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

	return &installmentService{
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
