package cashbooksrv

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/saitejads/loanbook/internal/domain"
	"github.com/saitejads/loanbook/internal/dto"
	"github.com/saitejads/loanbook/internal/repository"
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

type cashbookService struct {
	cashflowRepository repository.CashflowRepository
	backupRepository   repository.BackupRepository

	meter          metric.Meter
	tracer         trace.Tracer
	log            *zap.Logger
	operationCount metric.Int64Counter
}

// SaveCashflow implements CashbookUsecases.
func (s *cashbookService) SaveCashflow(ctx context.Context, req dto.CashflowRequest) (*domain.Cashflow, error) {
	ctx, span := s.tracer.Start(ctx, "service.SaveCashflow")
	defer span.End()

	s.operationCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", "save_cashflow"),
	))

	date, err := dates.Parse(req.Date)
	if err != nil {
		return nil, err
	}

	entry := &domain.Cashflow{
		ID:     uuid.NewString(),
		Sno:    req.Sno,
		Date:   date,
		Amount: req.Amount,
	}

	if err := s.cashflowRepository.Create(ctx, entry); err != nil {
		span.SetStatus(codes.Error, "Failed to save cashflow entry")
		span.RecordError(err)
		return nil, err
	}

	return entry, nil
}

// ListCashflows implements CashbookUsecases.
func (s *cashbookService) ListCashflows(ctx context.Context) ([]domain.Cashflow, error) {
	ctx, span := s.tracer.Start(ctx, "service.ListCashflows")
	defer span.End()

	s.operationCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", "list_cashflows"),
	))

	entries, err := s.cashflowRepository.FindAll(ctx)
	if err != nil {
		span.SetStatus(codes.Error, "Failed to list cashflow entries")
		span.RecordError(err)
		return nil, err
	}

	return entries, nil
}

// ClearCashflows implements CashbookUsecases.
func (s *cashbookService) ClearCashflows(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "service.ClearCashflows")
	defer span.End()

	s.operationCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", "clear_cashflows"),
	))

	if err := s.cashflowRepository.DeleteAll(ctx); err != nil {
		span.SetStatus(codes.Error, "Failed to clear cashflow entries")
		span.RecordError(err)
		return err
	}

	return nil
}

// SaveBackupEntry implements CashbookUsecases.
func (s *cashbookService) SaveBackupEntry(ctx context.Context, req dto.BackupEntryRequest) (*domain.BackupEntry, error) {
	ctx, span := s.tracer.Start(ctx, "service.SaveBackupEntry")
	defer span.End()

	s.operationCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", "save_backup_entry"),
	))

	entry := &domain.BackupEntry{
		ID:     uuid.NewString(),
		Sno:    req.Sno,
		Name:   req.Name,
		Amount: req.Amount,
		Area:   req.Area,
	}

	if err := s.backupRepository.Create(ctx, entry); err != nil {
		span.SetStatus(codes.Error, "Failed to save backup entry")
		span.RecordError(err)
		return nil, err
	}

	return entry, nil
}

// ListBackupEntries implements CashbookUsecases.
func (s *cashbookService) ListBackupEntries(ctx context.Context) ([]domain.BackupEntry, error) {
	ctx, span := s.tracer.Start(ctx, "service.ListBackupEntries")
	defer span.End()

	s.operationCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", "list_backup_entries"),
	))

	entries, err := s.backupRepository.FindAll(ctx)
	if err != nil {
		span.SetStatus(codes.Error, "Failed to list backup entries")
		span.RecordError(err)
		return nil, err
	}

	return entries, nil
}

// DeleteBackupEntry implements CashbookUsecases.
func (s *cashbookService) DeleteBackupEntry(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "service.DeleteBackupEntry")
	defer span.End()

	s.operationCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", "delete_backup_entry"),
	))
	span.SetAttributes(attribute.String("entry.id", id))

	if err := s.backupRepository.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.ErrEntryNotFound
		}
		span.SetStatus(codes.Error, "Failed to delete backup entry")
		span.RecordError(err)
		return err
	}

	return nil
}

func NewCashbookService(
	cashflowRepository repository.CashflowRepository,
	backupRepository repository.BackupRepository,
	meter metric.Meter,
	tracer trace.Tracer,
	log *zap.Logger,
) service.CashbookUsecases {
	operationCount, _ := meter.Int64Counter(
		"service.operation.count",
		metric.WithDescription("Number of service operations"),
		metric.WithUnit("{operation}"),
	)

	return &cashbookService{
		cashflowRepository: cashflowRepository,
		backupRepository:   backupRepository,
		meter:              meter,
		tracer:             tracer,
		log:                log,
		operationCount:     operationCount,
	}
}
