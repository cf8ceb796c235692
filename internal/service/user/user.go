package usersrv

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/saitejads/loanbook/internal/domain"
	"github.com/saitejads/loanbook/internal/dto"
	"github.com/saitejads/loanbook/internal/repository"
	"github.com/saitejads/loanbook/internal/service"
	"github.com/saitejads/loanbook/pkg/common"
	"github.com/saitejads/loanbook/pkg/mailer"
	"github.com/saitejads/loanbook/pkg/otp"
	"github.com/saitejads/loanbook/pkg/password"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const tokenTTL = 24 * time.Hour

type userService struct {
	userRepository repository.UserRepository
	otpStore       otp.Store
	mailSender     mailer.Sender

	jwtSecret string

	meter          metric.Meter
	tracer         trace.Tracer
	log            *zap.Logger
	operationCount metric.Int64Counter
	errorCount     metric.Int64Counter
}

// Register implements UserUsecases.
func (u *userService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	ctx, span := u.tracer.Start(ctx, "service.RegisterUser")
	defer span.End()

	u.operationCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", "register_user"),
	))
	span.SetAttributes(attribute.String("user.username", req.Username))

	existing, err := u.userRepository.FindByUsername(ctx, req.Username)
	if err != nil {
		span.SetStatus(codes.Error, "Failed to check existing user")
		span.RecordError(err)
		return nil, err
	}
	if existing != nil {
		return nil, common.ErrUsernameExists
	}

	hashed, err := password.HashPassword(req.Password)
	if err != nil {
		span.SetStatus(codes.Error, "Failed to hash password")
		span.RecordError(err)
		return nil, err
	}

	role := domain.SubadminRole
	if req.Role != "" {
		role = domain.Role(req.Role)
	}

	user := &domain.User{
		ID:          uuid.NewString(),
		Username:    req.Username,
		Email:       req.Email,
		Password:    hashed,
		Name:        req.Name,
		PhoneNo:     req.PhoneNo,
		Role:        role,
		LinesHandle: req.LinesHandle,
	}

	if err := u.userRepository.Create(ctx, user); err != nil {
		span.SetStatus(codes.Error, "Failed to create user")
		span.RecordError(err)
		u.errorCount.Add(ctx, 1, metric.WithAttributes(
			attribute.String("operation", "register_user"),
		))
		return nil, err
	}

	user.Password = ""

	return user, nil
}

// Login implements UserUsecases.
func (u *userService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	ctx, span := u.tracer.Start(ctx, "service.Login")
	defer span.End()

	u.operationCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", "login"),
	))

	user, err := u.userRepository.FindByUsername(ctx, req.Username)
	if err != nil {
		span.SetStatus(codes.Error, "Failed to find user")
		span.RecordError(err)
		return nil, err
	}
	if user == nil || !password.CheckPasswordHash(req.Password, user.Password) {
		u.log.Warn("Login rejected", zap.String("username", req.Username))
		return nil, common.ErrInvalidCredentials
	}

	claims := &domain.JwtCustomClaims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			Issuer:    "loanbook",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(u.jwtSecret))
	if err != nil {
		span.SetStatus(codes.Error, "Failed to sign token")
		span.RecordError(err)
		return nil, err
	}

	user.Password = ""

	u.log.Info("User logged in",
		zap.String("user_id", user.ID),
		zap.String("username", user.Username),
	)

	return &dto.LoginResponse{Token: signedToken, User: user}, nil
}

// List implements UserUsecases.
func (u *userService) List(ctx context.Context) ([]domain.User, error) {
	ctx, span := u.tracer.Start(ctx, "service.ListUsers")
	defer span.End()

	u.operationCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", "list_users"),
	))

	users, err := u.userRepository.FindAllExceptAdmin(ctx)
	if err != nil {
		span.SetStatus(codes.Error, "Failed to list users")
		span.RecordError(err)
		return nil, err
	}

	for i := range users {
		users[i].Password = ""
	}

	return users, nil
}

// Get implements UserUsecases.
func (u *userService) Get(ctx context.Context, id string) (*domain.User, error) {
	ctx, span := u.tracer.Start(ctx, "service.GetUser")
	defer span.End()

	u.operationCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", "get_user"),
	))
	span.SetAttributes(attribute.String("user.id", id))

	user, err := u.userRepository.FindByID(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, "Failed to find user")
		span.RecordError(err)
		return nil, err
	}
	if user == nil {
		return nil, common.ErrUserNotFound
	}

	user.Password = ""

	return user, nil
}

// Update implements UserUsecases.
func (u *userService) Update(ctx context.Context, id string, req dto.UpdateUserRequest) (*domain.User, error) {
	ctx, span := u.tracer.Start(ctx, "service.UpdateUser")
	defer span.End()

	u.operationCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", "update_user"),
	))
	span.SetAttributes(attribute.String("user.id", id))

	user, err := u.userRepository.FindByID(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, "Failed to find user")
		span.RecordError(err)
		return nil, err
	}
	if user == nil {
		return nil, common.ErrUserNotFound
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.PhoneNo != nil {
		user.PhoneNo = *req.PhoneNo
	}
	if req.Role != nil {
		user.Role = domain.Role(*req.Role)
	}
	if req.LinesHandle != nil {
		user.LinesHandle = req.LinesHandle
	}
	if req.Password != nil {
		hashed, err := password.HashPassword(*req.Password)
		if err != nil {
			span.SetStatus(codes.Error, "Failed to hash password")
			span.RecordError(err)
			return nil, err
		}
		user.Password = hashed
	}

	if err := u.userRepository.Update(ctx, user); err != nil {
		span.SetStatus(codes.Error, "Failed to update user")
		span.RecordError(err)
		u.errorCount.Add(ctx, 1, metric.WithAttributes(
			attribute.String("operation", "update_user"),
		))
		return nil, err
	}

	user.Password = ""

	return user, nil
}

// Delete implements UserUsecases.
func (u *userService) Delete(ctx context.Context, id string) error {
	ctx, span := u.tracer.Start(ctx, "service.DeleteUser")
	defer span.End()

	u.operationCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", "delete_user"),
	))
	span.SetAttributes(attribute.String("user.id", id))

	if err := u.userRepository.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.ErrUserNotFound
		}
		span.SetStatus(codes.Error, "Failed to delete user")
		span.RecordError(err)
		return err
	}

	return nil
}

// AddArea appends the area to every admin account's handled lines, skipping
// accounts that already carry it.
func (u *userService) AddArea(ctx context.Context, area string) error {
	ctx, span := u.tracer.Start(ctx, "service.AddArea")
	defer span.End()

	u.operationCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", "add_area"),
	))
	span.SetAttributes(attribute.String("area", area))

	admins, err := u.userRepository.FindAllByRole(ctx, domain.AdminRole)
	if err != nil {
		span.SetStatus(codes.Error, "Failed to find admin users")
		span.RecordError(err)
		return err
	}

	for i := range admins {
		if containsArea(admins[i].LinesHandle, area) {
			continue
		}

		admins[i].LinesHandle = append(admins[i].LinesHandle, area)
		if err := u.userRepository.Update(ctx, &admins[i]); err != nil {
			span.SetStatus(codes.Error, "Failed to update admin user")
			span.RecordError(err)
			return err
		}
	}

	u.log.Info("Area added to admin accounts",
		zap.String("area", area),
		zap.Int("admins", len(admins)),
	)

	return nil
}

// UpdatePassword resets a password by username. The caller proves identity
// through the OTP flow, not through a session.
func (u *userService) UpdatePassword(ctx context.Context, req dto.UpdatePasswordRequest) error {
	ctx, span := u.tracer.Start(ctx, "service.UpdatePassword")
	defer span.End()

	u.operationCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", "update_password"),
	))

	user, err := u.userRepository.FindByUsername(ctx, req.Username)
	if err != nil {
		span.SetStatus(codes.Error, "Failed to find user")
		span.RecordError(err)
		return err
	}
	if user == nil {
		return common.ErrUserNotFound
	}

	hashed, err := password.HashPassword(req.NewPassword)
	if err != nil {
		span.SetStatus(codes.Error, "Failed to hash password")
		span.RecordError(err)
		return err
	}

	user.Password = hashed
	if err := u.userRepository.Update(ctx, user); err != nil {
		span.SetStatus(codes.Error, "Failed to update password")
		span.RecordError(err)
		return err
	}

	u.log.Info("Password updated", zap.String("username", req.Username))

	return nil
}

// SendOTP implements UserUsecases.
func (u *userService) SendOTP(ctx context.Context, username string) error {
	ctx, span := u.tracer.Start(ctx, "service.SendOTP")
	defer span.End()

	u.operationCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", "send_otp"),
	))

	user, err := u.userRepository.FindByUsername(ctx, username)
	if err != nil {
		span.SetStatus(codes.Error, "Failed to find user")
		span.RecordError(err)
		return err
	}
	if user == nil || user.Email == "" {
		return common.ErrUserNotFound
	}

	code, err := otp.GenerateCode()
	if err != nil {
		span.SetStatus(codes.Error, "Failed to generate code")
		span.RecordError(err)
		return err
	}

	if err := u.otpStore.Save(ctx, username, code, otp.TTL); err != nil {
		span.SetStatus(codes.Error, "Failed to store code")
		span.RecordError(err)
		return err
	}

	if err := u.mailSender.SendOTP(ctx, user.Email, code); err != nil {
		span.SetStatus(codes.Error, "Failed to send code")
		span.RecordError(err)
		return err
	}

	u.log.Info("OTP issued", zap.String("username", username))

	return nil
}

// ValidateOTP redeems the stored code. The code is deleted only once it
// matches, so a wrong guess does not burn a still-valid code; a matched code
// validates at most once.
func (u *userService) ValidateOTP(ctx context.Context, req dto.ValidateOTPRequest) error {
	ctx, span := u.tracer.Start(ctx, "service.ValidateOTP")
	defer span.End()

	u.operationCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", "validate_otp"),
	))

	code, err := u.otpStore.Get(ctx, req.Username)
	if err != nil {
		if errors.Is(err, otp.ErrNotFound) {
			return common.ErrOTPExpired
		}
		span.SetStatus(codes.Error, "Failed to read stored code")
		span.RecordError(err)
		return err
	}

	if code != req.OTP {
		u.log.Warn("OTP mismatch", zap.String("username", req.Username))
		return common.ErrInvalidOTP
	}

	if err := u.otpStore.Delete(ctx, req.Username); err != nil {
		span.SetStatus(codes.Error, "Failed to delete redeemed code")
		span.RecordError(err)
		return err
	}

	return nil
}

func containsArea(areas []string, area string) bool {
	for _, a := range areas {
		if a == area {
			return true
		}
	}
	return false
}

func NewUserService(
	jwtSecret string,
	userRepository repository.UserRepository,
	otpStore otp.Store,
	mailSender mailer.Sender,
	meter metric.Meter,
	tracer trace.Tracer,
	log *zap.Logger,
) service.UserUsecases {
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

	return &userService{
		jwtSecret:      jwtSecret,
		userRepository: userRepository,
		otpStore:       otpStore,
		mailSender:     mailSender,
		meter:          meter,
		tracer:         tracer,
		log:            log,
		operationCount: operationCount,
		errorCount:     errorCount,
	}
}
