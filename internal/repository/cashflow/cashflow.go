package cashflowrepo

import (
	"context"

	"github.com/saitejads/loanbook/internal/domain"
	"github.com/saitejads/loanbook/internal/model"
	"github.com/saitejads/loanbook/internal/repository"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type cashflowRepository struct {
	db     *gorm.DB
	meter  metric.Meter
	tracer trace.Tracer
	log    *zap.Logger
}

// Create implements repository.CashflowRepository.
func (r *cashflowRepository) Create(ctx context.Context, entry *domain.Cashflow) error {
	ctx, span := r.tracer.Start(ctx, "repository.CreateCashflow")
	defer span.End()

	data := model.CashflowFromEntity(entry)
	if err := r.db.WithContext(ctx).Create(&data).Error; err != nil {
		span.SetStatus(codes.Error, "Error creating cashflow entry")
		span.RecordError(err)

		r.log.Error("Error creating cashflow entry",
			zap.Int("sno", entry.Sno),
			zap.Error(err),
		)

		return err
	}

	return nil
}

// FindAll implements repository.CashflowRepository.
func (r *cashflowRepository) FindAll(ctx context.Context) ([]domain.Cashflow, error) {
	ctx, span := r.tracer.Start(ctx, "repository.FindAllCashflows")
	defer span.End()

	var entries []model.Cashflow
	err := r.db.WithContext(ctx).Order("sno ASC").Find(&entries).Error
	if err != nil {
		span.SetStatus(codes.Error, "Error finding cashflow entries")
		span.RecordError(err)

		r.log.Error("Error finding cashflow entries", zap.Error(err))

		return nil, err
	}

	return model.CashflowsToEntity(entries), nil
}

// DeleteAll implements repository.CashflowRepository.
func (r *cashflowRepository) DeleteAll(ctx context.Context) error {
	ctx, span := r.tracer.Start(ctx, "repository.DeleteAllCashflows")
	defer span.End()

	result := r.db.WithContext(ctx).Where("1 = 1").Delete(&model.Cashflow{})
	if result.Error != nil {
		span.SetStatus(codes.Error, "Error clearing cashflow entries")
		span.RecordError(result.Error)

		r.log.Error("Error clearing cashflow entries", zap.Error(result.Error))

		return result.Error
	}

	r.log.Info("Cashflow entries cleared", zap.Int64("deleted", result.RowsAffected))

	return nil
}

func NewCashflowRepository(
	db *gorm.DB,
	meter metric.Meter,
	tracer trace.Tracer,
	log *zap.Logger,
) repository.CashflowRepository {
	return &cashflowRepository{
		db:     db,
		meter:  meter,
		tracer: tracer,
		log:    log,
	}
}
