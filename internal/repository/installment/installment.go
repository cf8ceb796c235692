package installmentrepo

import (
	"context"
	"errors"
	"time"

	"github.com/saitejads/loanbook/internal/domain"
	"github.com/saitejads/loanbook/internal/model"
	"github.com/saitejads/loanbook/internal/repository"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type installmentRepository struct {
	db         *gorm.DB
	meter      metric.Meter
	tracer     trace.Tracer
	log        *zap.Logger
	queryCount metric.Int64Counter
	errorCount metric.Int64Counter
}

// Create implements repository.InstallmentRepository.
func (r *installmentRepository) Create(ctx context.Context, installment *domain.Installment) error {
	ctx, span := r.tracer.Start(ctx, "repository.CreateInstallment")
	defer span.End()

	r.queryCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", "insert"),
		attribute.String("table", "installments"),
	))

	data := model.InstallmentFromEntity(installment)
	if err := r.db.WithContext(ctx).Create(&data).Error; err != nil {
		span.SetStatus(codes.Error, "Error creating installment")
		span.RecordError(err)
		r.recordError(ctx, "insert", "installments")

		r.log.Error("Error creating installment",
			zap.String("loan_id", installment.LoanID),
			zap.Time("date", installment.Date),
			zap.Error(err),
		)

		return err
	}

	installment.ID = data.ID

	return nil
}

// FindByLoanAndDate implements repository.InstallmentRepository.
func (r *installmentRepository) FindByLoanAndDate(ctx context.Context, loanID string, date time.Time) (*domain.Installment, error) {
	ctx, span := r.tracer.Start(ctx, "repository.FindInstallmentByLoanAndDate")
	defer span.End()

	r.queryCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", "select"),
		attribute.String("table", "installments"),
	))

	var installment model.Installment
	err := r.db.WithContext(ctx).
		Where("loan_id = ? AND date = ?", loanID, date).
		First(&installment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		span.SetStatus(codes.Error, "Error finding installment by loan and date")
		span.RecordError(err)
		r.recordError(ctx, "select", "installments")

		r.log.Error("Error finding installment by loan and date",
			zap.String("loan_id", loanID),
			zap.Time("date", date),
			zap.Error(err),
		)

		return nil, err
	}

	entry := model.InstallmentToEntity(installment)

	return &entry, nil
}

// FindAllByLoan implements repository.InstallmentRepository.
func (r *installmentRepository) FindAllByLoan(ctx context.Context, loanID string) ([]domain.Installment, error) {
	ctx, span := r.tracer.Start(ctx, "repository.FindAllInstallmentsByLoan")
	defer span.End()

	r.queryCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", "select"),
		attribute.String("table", "installments"),
	))

	var installments []model.Installment
	err := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("date ASC").
		Find(&installments).Error
	if err != nil {
		span.SetStatus(codes.Error, "Error finding installments by loan")
		span.RecordError(err)
		r.recordError(ctx, "select", "installments")

		r.log.Error("Error finding installments by loan",
			zap.String("loan_id", loanID),
			zap.Error(err),
		)

		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(installments)))

	return model.InstallmentsToEntity(installments), nil
}

// FindAllByLoanIDs implements repository.InstallmentRepository.
func (r *installmentRepository) FindAllByLoanIDs(ctx context.Context, loanIDs []string) ([]domain.Installment, error) {
	ctx, span := r.tracer.Start(ctx, "repository.FindAllInstallmentsByLoanIDs")
	defer span.End()

	if len(loanIDs) == 0 {
		return nil, nil
	}

	r.queryCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", "select"),
		attribute.String("table", "installments"),
	))

	var installments []model.Installment
	err := r.db.WithContext(ctx).
		Where("loan_id IN ?", loanIDs).
		Order("date ASC").
		Find(&installments).Error
	if err != nil {
		span.SetStatus(codes.Error, "Error finding installments by loan IDs")
		span.RecordError(err)
		r.recordError(ctx, "select", "installments")

		r.log.Error("Error finding installments by loan IDs",
			zap.Int("loans", len(loanIDs)),
			zap.Error(err),
		)

		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(installments)))

	return model.InstallmentsToEntity(installments), nil
}

// Update implements repository.InstallmentRepository.
func (r *installmentRepository) Update(ctx context.Context, installment *domain.Installment) error {
	ctx, span := r.tracer.Start(ctx, "repository.UpdateInstallment")
	defer span.End()

	r.queryCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", "update"),
		attribute.String("table", "installments"),
	))

	data := model.InstallmentFromEntity(installment)
	err := r.db.WithContext(ctx).
		Model(&model.Installment{}).
		Where("id = ?", installment.ID).
		Select("amount", "date").
		Updates(&data).Error
	if err != nil {
		span.SetStatus(codes.Error, "Error updating installment")
		span.RecordError(err)
		r.recordError(ctx, "update", "installments")

		r.log.Error("Error updating installment",
			zap.Uint64("id", installment.ID),
			zap.Error(err),
		)

		return err
	}

	return nil
}

// DeleteByLoan implements repository.InstallmentRepository.
func (r *installmentRepository) DeleteByLoan(ctx context.Context, loanID string) error {
	ctx, span := r.tracer.Start(ctx, "repository.DeleteInstallmentsByLoan")
	defer span.End()

	r.queryCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", "delete"),
		attribute.String("table", "installments"),
	))

	result := r.db.WithContext(ctx).Where("loan_id = ?", loanID).Delete(&model.Installment{})
	if result.Error != nil {
		span.SetStatus(codes.Error, "Error deleting installments by loan")
		span.RecordError(result.Error)
		r.recordError(ctx, "delete", "installments")

		r.log.Error("Error deleting installments by loan",
			zap.String("loan_id", loanID),
			zap.Error(result.Error),
		)

		return result.Error
	}

	r.log.Info("Installments cleared",
		zap.String("loan_id", loanID),
		zap.Int64("deleted", result.RowsAffected),
	)

	return nil
}

func (r *installmentRepository) recordError(ctx context.Context, operation, table string) {
	r.errorCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("table", table),
	))
}

func NewInstallmentRepository(
	db *gorm.DB,
	meter metric.Meter,
	tracer trace.Tracer,
	log *zap.Logger,
) repository.InstallmentRepository {
	queryCount, _ := meter.Int64Counter(
		"db.query.count",
		metric.WithDescription("Number of database queries"),
		metric.WithUnit("{query}"),
	)

	errorCount, _ := meter.Int64Counter(
		"db.error.count",
		metric.WithDescription("Number of database errors"),
		metric.WithUnit("{error}"),
	)

	return &installmentRepository{
		db:         db,
		meter:      meter,
		tracer:     tracer,
		log:        log,
		queryCount: queryCount,
		errorCount: errorCount,
	}
}
