package userrepo

import (
	"context"
	"errors"

	"github.com/saitejads/loanbook/internal/domain"
	"github.com/saitejads/loanbook/internal/model"
	"github.com/saitejads/loanbook/internal/repository"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type userRepository struct {
	db     *gorm.DB
	meter  metric.Meter
	tracer trace.Tracer
	log    *zap.Logger
}

// Create implements repository.UserRepository.
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	ctx, span := r.tracer.Start(ctx, "repository.CreateUser")
	defer span.End()

	data := model.UserFromEntity(user)
	if err := r.db.WithContext(ctx).Create(&data).Error; err != nil {
		span.SetStatus(codes.Error, "Error creating user")
		span.RecordError(err)

		r.log.Error("Error creating user",
			zap.String("username", user.Username),
			zap.Error(err),
		)

		return err
	}

	r.log.Info("User created",
		zap.String("user_id", data.ID),
		zap.String("username", data.Username),
	)

	return nil
}

// FindByID implements repository.UserRepository.
func (r *userRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	ctx, span := r.tracer.Start(ctx, "repository.FindUserByID")
	defer span.End()

	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		span.SetStatus(codes.Error, "Error finding user by ID")
		span.RecordError(err)

		r.log.Error("Error finding user by ID",
			zap.String("user_id", id),
			zap.Error(err),
		)

		return nil, err
	}

	return model.UserToEntity(user), nil
}

// FindByUsername implements repository.UserRepository.
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	ctx, span := r.tracer.Start(ctx, "repository.FindUserByUsername")
	defer span.End()

	var user model.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		span.SetStatus(codes.Error, "Error finding user by username")
		span.RecordError(err)

		r.log.Error("Error finding user by username",
			zap.String("username", username),
			zap.Error(err),
		)

		return nil, err
	}

	return model.UserToEntity(user), nil
}

// FindAllExceptAdmin lists every account whose role is not admin, matched
// case-insensitively.
func (r *userRepository) FindAllExceptAdmin(ctx context.Context) ([]domain.User, error) {
	ctx, span := r.tracer.Start(ctx, "repository.FindAllUsersExceptAdmin")
	defer span.End()

	var users []model.User
	err := r.db.WithContext(ctx).
		Where("LOWER(role) <> ?", "admin").
		Order("username ASC").
		Find(&users).Error
	if err != nil {
		span.SetStatus(codes.Error, "Error finding users")
		span.RecordError(err)

		r.log.Error("Error finding users", zap.Error(err))

		return nil, err
	}

	return model.UsersToEntity(users), nil
}

// FindAllByRole implements repository.UserRepository.
func (r *userRepository) FindAllByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	ctx, span := r.tracer.Start(ctx, "repository.FindAllUsersByRole")
	defer span.End()

	var users []model.User
	err := r.db.WithContext(ctx).
		Where("role = ?", string(role)).
		Find(&users).Error
	if err != nil {
		span.SetStatus(codes.Error, "Error finding users by role")
		span.RecordError(err)

		r.log.Error("Error finding users by role",
			zap.String("role", string(role)),
			zap.Error(err),
		)

		return nil, err
	}

	return model.UsersToEntity(users), nil
}

// Update implements repository.UserRepository.
func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	ctx, span := r.tracer.Start(ctx, "repository.UpdateUser")
	defer span.End()

	data := model.UserFromEntity(user)
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", user.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(&data).Error
	if err != nil {
		span.SetStatus(codes.Error, "Error updating user")
		span.RecordError(err)

		r.log.Error("Error updating user",
			zap.String("user_id", user.ID),
			zap.Error(err),
		)

		return err
	}

	return nil
}

// Delete implements repository.UserRepository.
func (r *userRepository) Delete(ctx context.Context, id string) error {
	ctx, span := r.tracer.Start(ctx, "repository.DeleteUser")
	defer span.End()

	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.User{})
	if result.Error != nil {
		span.SetStatus(codes.Error, "Error deleting user")
		span.RecordError(result.Error)

		r.log.Error("Error deleting user",
			zap.String("user_id", id),
			zap.Error(result.Error),
		)

		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.log.Info("User deleted", zap.String("user_id", id))

	return nil
}

func NewUserRepository(
	db *gorm.DB,
	meter metric.Meter,
	tracer trace.Tracer,
	log *zap.Logger,
) repository.UserRepository {
	return &userRepository{
		db:     db,
		meter:  meter,
		tracer: tracer,
		log:    log,
	}
}
