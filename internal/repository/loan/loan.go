package loanrepo

import (
	"context"
	"errors"

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

type loanRepository struct {
	db         *gorm.DB
	meter      metric.Meter
	tracer     trace.Tracer
	log        *zap.Logger
	queryCount metric.Int64Counter
	errorCount metric.Int64Counter
}

// Create implements repository.LoanRepository.
func (r *loanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	ctx, span := r.tracer.Start(ctx, "repository.CreateLoan")
	defer span.End()

	r.queryCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", "insert"),
		attribute.String("table", "loans"),
	))

	data := model.LoanFromEntity(loan)
	if err := r.db.WithContext(ctx).Create(&data).Error; err != nil {
		span.SetStatus(codes.Error, "Error creating loan")
		span.RecordError(err)
		r.recordError(ctx, "insert", "loans")

		r.log.Error("Error creating loan",
			zap.Int("sno", loan.Sno),
			zap.String("section", string(loan.Section)),
			zap.Error(err),
		)

		return err
	}

	r.log.Info("Loan created",
		zap.String("loan_id", data.ID),
		zap.Int("sno", data.Sno),
		zap.String("section", data.Section),
	)

	return nil
}

// FindByID implements repository.LoanRepository.
func (r *loanRepository) FindByID(ctx context.Context, id string) (*domain.Loan, error) {
	ctx, span := r.tracer.Start(ctx, "repository.FindLoanByID")
	defer span.End()

	r.queryCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", "select"),
		attribute.String("table", "loans"),
	))

	var loan model.Loan
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&loan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		span.SetStatus(codes.Error, "Error finding loan by ID")
		span.RecordError(err)
		r.recordError(ctx, "select", "loans")

		r.log.Error("Error finding loan by ID",
			zap.String("loan_id", id),
			zap.Error(err),
		)

		return nil, err
	}

	return model.LoanToEntity(loan), nil
}

// FindBySnoAndSection implements repository.LoanRepository.
func (r *loanRepository) FindBySnoAndSection(ctx context.Context, sno int, section domain.Section) (*domain.Loan, error) {
	ctx, span := r.tracer.Start(ctx, "repository.FindLoanBySnoAndSection")
	defer span.End()

	r.queryCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", "select"),
		attribute.String("table", "loans"),
	))

	var loan model.Loan
	err := r.db.WithContext(ctx).
		Where("sno = ? AND section = ?", sno, string(section)).
		First(&loan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		span.SetStatus(codes.Error, "Error finding loan by sno and section")
		span.RecordError(err)
		r.recordError(ctx, "select", "loans")

		r.log.Error("Error finding loan by sno and section",
			zap.Int("sno", sno),
			zap.String("section", string(section)),
			zap.Error(err),
		)

		return nil, err
	}

	return model.LoanToEntity(loan), nil
}

// FindAllBySection implements repository.LoanRepository.
func (r *loanRepository) FindAllBySection(ctx context.Context, section domain.Section) ([]domain.Loan, error) {
	ctx, span := r.tracer.Start(ctx, "repository.FindAllLoansBySection")
	defer span.End()

	r.queryCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", "select"),
		attribute.String("table", "loans"),
	))

	var loans []model.Loan
	err := r.db.WithContext(ctx).
		Where("section = ?", string(section)).
		Order("sno ASC").
		Find(&loans).Error
	if err != nil {
		span.SetStatus(codes.Error, "Error finding loans by section")
		span.RecordError(err)
		r.recordError(ctx, "select", "loans")

		r.log.Error("Error finding loans by section",
			zap.String("section", string(section)),
			zap.Error(err),
		)

		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(loans)))

	return model.LoansToEntity(loans), nil
}

// FindFiltered implements repository.LoanRepository.
func (r *loanRepository) FindFiltered(ctx context.Context, filter domain.ReportFilter) ([]domain.Loan, error) {
	ctx, span := r.tracer.Start(ctx, "repository.FindLoansFiltered")
	defer span.End()

	r.queryCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", "select"),
		attribute.String("table", "loans"),
	))

	query := r.db.WithContext(ctx).Model(&model.Loan{})

	if filter.Section != "" {
		query = query.Where("section = ?", string(filter.Section))
	}
	// An empty area list means no restriction.
	if len(filter.Areas) > 0 {
		query = query.Where("area IN ?", filter.Areas)
	}
	if filter.Day != "" && filter.Section.CarriesDay() {
		query = query.Where("day = ?", filter.Day)
	}

	var loans []model.Loan
	if err := query.Order("sno ASC").Find(&loans).Error; err != nil {
		span.SetStatus(codes.Error, "Error finding loans filtered")
		span.RecordError(err)
		r.recordError(ctx, "select", "loans")

		r.log.Error("Error finding loans filtered",
			zap.String("section", string(filter.Section)),
			zap.Strings("areas", filter.Areas),
			zap.String("day", filter.Day),
			zap.Error(err),
		)

		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(loans)))

	return model.LoansToEntity(loans), nil
}

// Update implements repository.LoanRepository.
func (r *loanRepository) Update(ctx context.Context, loan *domain.Loan) error {
	ctx, span := r.tracer.Start(ctx, "repository.UpdateLoan")
	defer span.End()

	r.queryCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", "update"),
		attribute.String("table", "loans"),
	))

	data := model.LoanFromEntity(loan)
	err := r.db.WithContext(ctx).
		Model(&model.Loan{}).
		Where("id = ?", loan.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(&data).Error
	if err != nil {
		span.SetStatus(codes.Error, "Error updating loan")
		span.RecordError(err)
		r.recordError(ctx, "update", "loans")

		r.log.Error("Error updating loan",
			zap.String("loan_id", loan.ID),
			zap.Error(err),
		)

		return err
	}

	return nil
}

// AddPaid adjusts the paid counter by delta in a single additive UPDATE so
// concurrent collections never lose increments.
func (r *loanRepository) AddPaid(ctx context.Context, id string, delta float64) error {
	ctx, span := r.tracer.Start(ctx, "repository.AddLoanPaid")
	defer span.End()

	r.queryCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", "update"),
		attribute.String("table", "loans"),
	))

	result := r.db.WithContext(ctx).
		Model(&model.Loan{}).
		Where("id = ?", id).
		Update("paid", gorm.Expr("paid + ?", delta))
	if result.Error != nil {
		span.SetStatus(codes.Error, "Error adjusting paid amount")
		span.RecordError(result.Error)
		r.recordError(ctx, "update", "loans")

		r.log.Error("Error adjusting paid amount",
			zap.String("loan_id", id),
			zap.Float64("delta", delta),
			zap.Error(result.Error),
		)

		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// Delete implements repository.LoanRepository.
func (r *loanRepository) Delete(ctx context.Context, id string) error {
	ctx, span := r.tracer.Start(ctx, "repository.DeleteLoan")
	defer span.End()

	r.queryCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", "delete"),
		attribute.String("table", "loans"),
	))

	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Loan{})
	if result.Error != nil {
		span.SetStatus(codes.Error, "Error deleting loan")
		span.RecordError(result.Error)
		r.recordError(ctx, "delete", "loans")

		r.log.Error("Error deleting loan",
			zap.String("loan_id", id),
			zap.Error(result.Error),
		)

		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.log.Info("Loan deleted", zap.String("loan_id", id))

	return nil
}

// SumBySection implements repository.LoanRepository.
func (r *loanRepository) SumBySection(ctx context.Context) ([]domain.SectionTotals, error) {
	ctx, span := r.tracer.Start(ctx, "repository.SumLoansBySection")
	defer span.End()

	r.queryCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", "select"),
		attribute.String("table", "loans"),
	))

	var rows []struct {
		Section     string
		TotalAmount float64
		PaidAmount  float64
	}
	err := r.db.WithContext(ctx).
		Model(&model.Loan{}).
		Select("section, COALESCE(SUM(tamount), 0) AS total_amount, COALESCE(SUM(paid), 0) AS paid_amount").
		Group("section").
		Order("section ASC").
		Scan(&rows).Error
	if err != nil {
		span.SetStatus(codes.Error, "Error summing loans by section")
		span.RecordError(err)
		r.recordError(ctx, "select", "loans")

		r.log.Error("Error summing loans by section", zap.Error(err))

		return nil, err
	}

	totals := make([]domain.SectionTotals, len(rows))
	for i, row := range rows {
		totals[i] = domain.SectionTotals{
			Section:     domain.Section(row.Section),
			TotalAmount: row.TotalAmount,
			PaidAmount:  row.PaidAmount,
		}
	}

	return totals, nil
}

func (r *loanRepository) recordError(ctx context.Context, operation, table string) {
	r.errorCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("table", table),
	))
}

func NewLoanRepository(
	db *gorm.DB,
	meter metric.Meter,
	tracer trace.Tracer,
	log *zap.Logger,
) repository.LoanRepository {
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

	return &loanRepository{
		db:         db,
		meter:      meter,
		tracer:     tracer,
		log:        log,
		queryCount: queryCount,
		errorCount: errorCount,
	}
}
