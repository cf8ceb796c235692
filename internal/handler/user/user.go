package userhandler

import (
	"errors"

	"github.com/saitejads/loanbook/internal/dto"
	"github.com/saitejads/loanbook/internal/service"
	"github.com/saitejads/loanbook/pkg/common"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type UserHandler struct {
	userService service.UserUsecases
	validate    *validator.Validate

	tracer trace.Tracer
	log    *zap.Logger
}

func NewUserHandler(
	userService service.UserUsecases,
	tracer trace.Tracer,
	log *zap.Logger,
) *UserHandler {
	return &UserHandler{
		userService: userService,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		tracer:      tracer,
		log:         log,
	}
}

func (h *UserHandler) Register(c *fiber.Ctx) error {
	ctx, span := h.tracer.Start(c.UserContext(), "handler.RegisterUser")
	defer span.End()

	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return common.ErrorResponse(c, fiber.StatusBadRequest, "Cannot parse request body")
	}

	if err := h.validate.Struct(req); err != nil {
		return common.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	user, err := h.userService.Register(ctx, req)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, common.ErrUsernameExists) {
			return common.ErrorResponse(c, fiber.StatusConflict, err.Error())
		}

		h.log.Error("Failed to register user", zap.String("username", req.Username), zap.Error(err))
		return common.ErrorResponse(c, fiber.StatusInternalServerError, "Internal server error")
	}

	return common.SuccessResponse(c, fiber.StatusCreated, "User registered", user)
}

func (h *UserHandler) Login(c *fiber.Ctx) error {
	ctx, span := h.tracer.Start(c.UserContext(), "handler.Login")
	defer span.End()

	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return common.ErrorResponse(c, fiber.StatusBadRequest, "Cannot parse request body")
	}

	if err := h.validate.Struct(req); err != nil {
		return common.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	res, err := h.userService.Login(ctx, req)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, common.ErrInvalidCredentials) {
			return common.ErrorResponse(c, fiber.StatusUnauthorized, err.Error())
		}

		h.log.Error("Failed to log in user", zap.String("username", req.Username), zap.Error(err))
		return common.ErrorResponse(c, fiber.StatusInternalServerError, "Internal server error")
	}

	return common.SuccessResponse(c, fiber.StatusOK, "Login successful", res)
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	ctx, span := h.tracer.Start(c.UserContext(), "handler.ListUsers")
	defer span.End()

	users, err := h.userService.List(ctx)
	if err != nil {
		span.RecordError(err)

		h.log.Error("Failed to list users", zap.Error(err))
		return common.ErrorResponse(c, fiber.StatusInternalServerError, "Internal server error")
	}

	return common.SuccessResponse(c, fiber.StatusOK, "", users)
}

func (h *UserHandler) Get(c *fiber.Ctx) error {
	ctx, span := h.tracer.Start(c.UserContext(), "handler.GetUser")
	defer span.End()

	id := c.Params("userId")

	user, err := h.userService.Get(ctx, id)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, common.ErrUserNotFound) {
			return common.ErrorResponse(c, fiber.StatusNotFound, err.Error())
		}

		h.log.Error("Failed to get user", zap.String("user_id", id), zap.Error(err))
		return common.ErrorResponse(c, fiber.StatusInternalServerError, "Internal server error")
	}

	return common.SuccessResponse(c, fiber.StatusOK, "", user)
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	ctx, span := h.tracer.Start(c.UserContext(), "handler.UpdateUser")
	defer span.End()

	id := c.Params("userId")

	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return common.ErrorResponse(c, fiber.StatusBadRequest, "Cannot parse request body")
	}

	if err := h.validate.Struct(req); err != nil {
		return common.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	user, err := h.userService.Update(ctx, id, req)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, common.ErrUserNotFound) {
			return common.ErrorResponse(c, fiber.StatusNotFound, err.Error())
		}

		h.log.Error("Failed to update user", zap.String("user_id", id), zap.Error(err))
		return common.ErrorResponse(c, fiber.StatusInternalServerError, "Internal server error")
	}

	return common.SuccessResponse(c, fiber.StatusOK, "User updated", user)
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	ctx, span := h.tracer.Start(c.UserContext(), "handler.DeleteUser")
	defer span.End()

	id := c.Params("userId")

	if err := h.userService.Delete(ctx, id); err != nil {
		span.RecordError(err)
		if errors.Is(err, common.ErrUserNotFound) {
			return common.ErrorResponse(c, fiber.StatusNotFound, err.Error())
		}

		h.log.Error("Failed to delete user", zap.String("user_id", id), zap.Error(err))
		return common.ErrorResponse(c, fiber.StatusInternalServerError, "Internal server error")
	}

	return common.SuccessResponse(c, fiber.StatusOK, "User deleted", nil)
}

// AddArea appends an area to every admin account's handled lines.
func (h *UserHandler) AddArea(c *fiber.Ctx) error {
	ctx, span := h.tracer.Start(c.UserContext(), "handler.AddArea")
	defer span.End()

	var req dto.AddAreaRequest
	if err := c.BodyParser(&req); err != nil {
		return common.ErrorResponse(c, fiber.StatusBadRequest, "Cannot parse request body")
	}

	if err := h.validate.Struct(req); err != nil {
		return common.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.userService.AddArea(ctx, req.AreaName); err != nil {
		span.RecordError(err)

		h.log.Error("Failed to add area", zap.String("area", req.AreaName), zap.Error(err))
		return common.ErrorResponse(c, fiber.StatusInternalServerError, "Internal server error")
	}

	return common.SuccessResponse(c, fiber.StatusOK, "Area added", nil)
}

func (h *UserHandler) UpdatePassword(c *fiber.Ctx) error {
	ctx, span := h.tracer.Start(c.UserContext(), "handler.UpdatePassword")
	defer span.End()

	var req dto.UpdatePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return common.ErrorResponse(c, fiber.StatusBadRequest, "Cannot parse request body")
	}

	if err := h.validate.Struct(req); err != nil {
		return common.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.userService.UpdatePassword(ctx, req); err != nil {
		span.RecordError(err)
		if errors.Is(err, common.ErrUserNotFound) {
			return common.ErrorResponse(c, fiber.StatusNotFound, err.Error())
		}

		h.log.Error("Failed to update password", zap.String("username", req.Username), zap.Error(err))
		return common.ErrorResponse(c, fiber.StatusInternalServerError, "Internal server error")
	}

	return common.SuccessResponse(c, fiber.StatusOK, "Password updated", nil)
}

func (h *UserHandler) SendOTP(c *fiber.Ctx) error {
	ctx, span := h.tracer.Start(c.UserContext(), "handler.SendOTP")
	defer span.End()

	var req dto.SendOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return common.ErrorResponse(c, fiber.StatusBadRequest, "Cannot parse request body")
	}

	if err := h.validate.Struct(req); err != nil {
		return common.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.userService.SendOTP(ctx, req.Username); err != nil {
		span.RecordError(err)
		if errors.Is(err, common.ErrUserNotFound) {
			return common.ErrorResponse(c, fiber.StatusNotFound, err.Error())
		}

		h.log.Error("Failed to send OTP", zap.String("username", req.Username), zap.Error(err))
		return common.ErrorResponse(c, fiber.StatusInternalServerError, "Internal server error")
	}

	return common.SuccessResponse(c, fiber.StatusOK, "OTP sent", nil)
}

func (h *UserHandler) ValidateOTP(c *fiber.Ctx) error {
	ctx, span := h.tracer.Start(c.UserContext(), "handler.ValidateOTP")
	defer span.End()

	var req dto.ValidateOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return common.ErrorResponse(c, fiber.StatusBadRequest, "Cannot parse request body")
	}

	if err := h.validate.Struct(req); err != nil {
		return common.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.userService.ValidateOTP(ctx, req); err != nil {
		span.RecordError(err)
		switch {
		case errors.Is(err, common.ErrOTPExpired):
			return common.ErrorResponse(c, fiber.StatusUnauthorized, err.Error())
		case errors.Is(err, common.ErrInvalidOTP):
			return common.ErrorResponse(c, fiber.StatusUnauthorized, err.Error())
		}

		h.log.Error("Failed to validate OTP", zap.String("username", req.Username), zap.Error(err))
		return common.ErrorResponse(c, fiber.StatusInternalServerError, "Internal server error")
	}

	return common.SuccessResponse(c, fiber.StatusOK, "OTP verified", nil)
}
