package backuprepo

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

type backupRepository struct {
	db     *gorm.DB
	meter  metric.Meter
	tracer trace.Tracer
	log    *zap.Logger
}

// Create implements repository.BackupRepository.
func (r *backupRepository) Create(ctx context.Context, entry *domain.BackupEntry) error {
	ctx, span := r.tracer.Start(ctx, "repository.CreateBackupEntry")
	defer span.End()

	data := model.BackupEntryFromEntity(entry)
	if err := r.db.WithContext(ctx).Create(&data).Error; err != nil {
		span.SetStatus(codes.Error, "Error creating backup entry")
		span.RecordError(err)

		r.log.Error("Error creating backup entry",
			zap.Int("sno", entry.Sno),
			zap.String("area", entry.Area),
			zap.Error(err),
		)

		return err
	}

	return nil
}

// FindAll implements repository.BackupRepository.
func (r *backupRepository) FindAll(ctx context.Context) ([]domain.BackupEntry, error) {
	ctx, span := r.tracer.Start(ctx, "repository.FindAllBackupEntries")
	defer span.End()

	var entries []model.BackupEntry
	err := r.db.WithContext(ctx).Order("sno ASC").Find(&entries).Error
	if err != nil {
		span.SetStatus(codes.Error, "Error finding backup entries")
		span.RecordError(err)

		r.log.Error("Error finding backup entries", zap.Error(err))

		return nil, err
	}

	return model.BackupEntriesToEntity(entries), nil
}

// Delete implements repository.BackupRepository.
func (r *backupRepository) Delete(ctx context.Context, id string) error {
	ctx, span := r.tracer.Start(ctx, "repository.DeleteBackupEntry")
	defer span.End()

	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.BackupEntry{})
	if result.Error != nil {
		span.SetStatus(codes.Error, "Error deleting backup entry")
		span.RecordError(result.Error)

		r.log.Error("Error deleting backup entry",
			zap.String("id", id),
			zap.Error(result.Error),
		)

		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func NewBackupRepository(
	db *gorm.DB,
	meter metric.Meter,
	tracer trace.Tracer,
	log *zap.Logger,
) repository.BackupRepository {
	return &backupRepository{
		db:     db,
		meter:  meter,
		tracer: tracer,
		log:    log,
	}
}
