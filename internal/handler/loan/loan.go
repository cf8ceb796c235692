package loanhandler

import (
	"context"
	"errors"
	"time"

	"github.com/saitejads/loanbook/internal/domain"
	"github.com/saitejads/loanbook/internal/dto"
	"github.com/saitejads/loanbook/internal/service"
	"github.com/saitejads/loanbook/pkg/common"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type LoanHandler struct {
	loanService        service.LoanUsecases
	installmentService service.InstallmentUsecases
	validate           *validator.Validate

	meter           metric.Meter
	tracer          trace.Tracer
	log             *zap.Logger
	requestCount    metric.Int64Counter
	requestDuration metric.Float64Histogram
	errorCount      metric.Int64Counter
}

func NewLoanHandler(
	loanService service.LoanUsecases,
	installmentService service.InstallmentUsecases,
	meter metric.Meter,
	tracer trace.Tracer,
	log *zap.Logger,
) *LoanHandler {
	requestCount, err := meter.Int64Counter(
		"api.request.count",
		metric.WithDescription("Number of API requests received"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		zap.L().Fatal("Failed to create request count metric", zap.Error(err))
	}

	requestDuration, err := meter.Float64Histogram(
		"api.request.duration",
		metric.WithDescription("Duration of API requests"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		zap.L().Fatal("Failed to create request duration metric", zap.Error(err))
	}

	errorCount, err := meter.Int64Counter(
		"api.error.count",
		metric.WithDescription("Number of API errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		zap.L().Fatal("Failed to create error count metric", zap.Error(err))
	}

	return &LoanHandler{
		loanService:        loanService,
		installmentService: installmentService,
		validate:           validator.New(validator.WithRequiredStructEnabled()),
		meter:              meter,
		tracer:             tracer,
		log:                log,
		requestCount:       requestCount,
		requestDuration:    requestDuration,
		errorCount:         errorCount,
	}
}

// recordError records error metrics and returns the failure response.
func (h *LoanHandler) recordError(
	ctx context.Context, span trace.Span, c *fiber.Ctx,
	start time.Time, err error, statusCode int, errorType, message string, fields ...zap.Field) error {
	h.errorCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("endpoint", c.Path()),
		attribute.String("method", c.Method()),
		attribute.String("error_type", errorType),
		attribute.Int("status_code", statusCode),
	))

	duration := float64(time.Since(start).Nanoseconds()) / 1e6
	h.requestDuration.Record(ctx, duration, metric.WithAttributes(
		attribute.String("endpoint", c.Path()),
		attribute.String("method", c.Method()),
		attribute.Int("status_code", statusCode),
	))

	span.SetAttributes(
		attribute.String("error.type", errorType),
		attribute.Int("http.status_code", statusCode),
	)
	span.RecordError(err)

	logFields := append([]zap.Field{
		zap.String("trace_id", span.SpanContext().TraceID().String()),
		zap.Int("status_code", statusCode),
		zap.String("error_type", errorType),
	}, fields...)
	h.log.Error(message, logFields...)

	return common.ErrorResponse(c, statusCode, message)
}

// recordSuccess records request metrics and returns the success response.
func (h *LoanHandler) recordSuccess(
	ctx context.Context, span trace.Span, c *fiber.Ctx,
	start time.Time, statusCode int, message string, data any, fields ...zap.Field) error {
	duration := float64(time.Since(start).Nanoseconds()) / 1e6
	h.requestDuration.Record(ctx, duration, metric.WithAttributes(
		attribute.String("endpoint", c.Path()),
		attribute.String("method", c.Method()),
		attribute.Int("status_code", statusCode),
	))

	span.SetAttributes(
		attribute.Int("http.status_code", statusCode),
		attribute.Float64("request.duration_ms", duration),
	)

	logFields := append([]zap.Field{
		zap.String("trace_id", span.SpanContext().TraceID().String()),
		zap.Int("status_code", statusCode),
		zap.Float64("duration_ms", duration),
	}, fields...)
	h.log.Info("Request completed successfully", logFields...)

	return common.SuccessResponse(c, statusCode, message, data)
}

func (h *LoanHandler) begin(c *fiber.Ctx, name string) (context.Context, trace.Span, time.Time) {
	ctx := c.UserContext()
	ctx, span := h.tracer.Start(ctx, name)

	span.SetAttributes(
		attribute.String("http.method", c.Method()),
		attribute.String("http.route", c.Path()),
		attribute.String("http.client_ip", c.IP()),
	)

	h.requestCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("endpoint", c.Path()),
		attribute.String("method", c.Method()),
	))

	return ctx, span, time.Now()
}

func (h *LoanHandler) CreateLoan(c *fiber.Ctx) error {
	ctx, span, start := h.begin(c, "handler.CreateLoan")
	defer span.End()

	var req dto.CreateLoanRequest
	if err := c.BodyParser(&req); err != nil {
		return h.recordError(ctx, span, c, start, err,
			fiber.StatusBadRequest, "parse_error", "Cannot parse request body", zap.Error(err))
	}

	if err := h.validate.Struct(req); err != nil {
		return h.recordError(ctx, span, c, start, err,
			fiber.StatusBadRequest, "validation_error", err.Error(), zap.Error(err))
	}

	serviceCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	loan, err := h.loanService.Create(serviceCtx, req)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrDuplicateSequence):
			return h.recordError(ctx, span, c, start, err,
				fiber.StatusConflict, "duplicate_sequence", err.Error(),
				zap.Int("sno", req.Sno), zap.String("section", req.Section))
		default:
			return h.recordError(ctx, span, c, start, err,
				fiber.StatusInternalServerError, "service_error", "Internal server error", zap.Error(err))
		}
	}

	return h.recordSuccess(ctx, span, c, start,
		fiber.StatusCreated, "Loan created successfully", dto.LoanFromEntity(loan),
		zap.String("loan_id", loan.ID))
}

func (h *LoanHandler) ListLoans(c *fiber.Ctx) error {
	ctx, span, start := h.begin(c, "handler.ListLoans")
	defer span.End()

	section := domain.Section(c.Query("section"))
	if !section.Valid() {
		err := errors.New("a valid section query parameter is required")
		return h.recordError(ctx, span, c, start, err,
			fiber.StatusBadRequest, "validation_error", err.Error())
	}

	serviceCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	loans, err := h.loanService.List(serviceCtx, section)
	if err != nil {
		return h.recordError(ctx, span, c, start, err,
			fiber.StatusInternalServerError, "service_error", "Internal server error", zap.Error(err))
	}

	return h.recordSuccess(ctx, span, c, start,
		fiber.StatusOK, "", dto.LoansFromEntity(loans),
		zap.String("section", string(section)), zap.Int("count", len(loans)))
}

func (h *LoanHandler) UpdateLoan(c *fiber.Ctx) error {
	ctx, span, start := h.begin(c, "handler.UpdateLoan")
	defer span.End()

	loanID := c.Params("loanId")

	var req dto.UpdateLoanRequest
	if err := c.BodyParser(&req); err != nil {
		return h.recordError(ctx, span, c, start, err,
			fiber.StatusBadRequest, "parse_error", "Cannot parse request body", zap.Error(err))
	}

	if err := h.validate.Struct(req); err != nil {
		return h.recordError(ctx, span, c, start, err,
			fiber.StatusBadRequest, "validation_error", err.Error(), zap.Error(err))
	}

	serviceCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	loan, err := h.loanService.Update(serviceCtx, loanID, req)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrLoanNotFound):
			return h.recordError(ctx, span, c, start, err,
				fiber.StatusNotFound, "loan_not_found", err.Error(), zap.String("loan_id", loanID))
		case errors.Is(err, common.ErrDuplicateSequence):
			return h.recordError(ctx, span, c, start, err,
				fiber.StatusConflict, "duplicate_sequence", err.Error(), zap.String("loan_id", loanID))
		default:
			return h.recordError(ctx, span, c, start, err,
				fiber.StatusInternalServerError, "service_error", "Internal server error", zap.Error(err))
		}
	}

	return h.recordSuccess(ctx, span, c, start,
		fiber.StatusOK, "Loan updated successfully", dto.LoanFromEntity(loan),
		zap.String("loan_id", loan.ID))
}

func (h *LoanHandler) RenewLoan(c *fiber.Ctx) error {
	ctx, span, start := h.begin(c, "handler.RenewLoan")
	defer span.End()

	loanID := c.Params("loanId")

	var req dto.RenewLoanRequest
	if err := c.BodyParser(&req); err != nil {
		return h.recordError(ctx, span, c, start, err,
			fiber.StatusBadRequest, "parse_error", "Cannot parse request body", zap.Error(err))
	}

	if err := h.validate.Struct(req); err != nil {
		return h.recordError(ctx, span, c, start, err,
			fiber.StatusBadRequest, "validation_error", err.Error(), zap.Error(err))
	}

	serviceCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	loan, err := h.loanService.Renew(serviceCtx, loanID, req)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrLoanNotFound):
			return h.recordError(ctx, span, c, start, err,
				fiber.StatusNotFound, "loan_not_found", err.Error(), zap.String("loan_id", loanID))
		default:
			return h.recordError(ctx, span, c, start, err,
				fiber.StatusInternalServerError, "service_error", "Internal server error", zap.Error(err))
		}
	}

	return h.recordSuccess(ctx, span, c, start,
		fiber.StatusOK, "Loan renewed successfully", dto.LoanFromEntity(loan),
		zap.String("loan_id", loan.ID))
}

func (h *LoanHandler) DeleteLoan(c *fiber.Ctx) error {
	ctx, span, start := h.begin(c, "handler.DeleteLoan")
	defer span.End()

	loanID := c.Params("loanId")

	serviceCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := h.loanService.Delete(serviceCtx, loanID); err != nil {
		switch {
		case errors.Is(err, common.ErrLoanNotFound):
			return h.recordError(ctx, span, c, start, err,
				fiber.StatusNotFound, "loan_not_found", err.Error(), zap.String("loan_id", loanID))
		default:
			return h.recordError(ctx, span, c, start, err,
				fiber.StatusInternalServerError, "service_error", "Internal server error", zap.Error(err))
		}
	}

	return h.recordSuccess(ctx, span, c, start,
		fiber.StatusOK, "Loan deleted successfully", nil,
		zap.String("loan_id", loanID))
}

func (h *LoanHandler) Summary(c *fiber.Ctx) error {
	ctx, span, start := h.begin(c, "handler.LoanSummary")
	defer span.End()

	serviceCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	summary, err := h.loanService.Summary(serviceCtx)
	if err != nil {
		return h.recordError(ctx, span, c, start, err,
			fiber.StatusInternalServerError, "service_error", "Internal server error", zap.Error(err))
	}

	return h.recordSuccess(ctx, span, c, start, fiber.StatusOK, "", summary)
}

func (h *LoanHandler) AddInstallment(c *fiber.Ctx) error {
	ctx, span, start := h.begin(c, "handler.AddInstallment")
	defer span.End()

	loanID := c.Params("loanId")

	var req dto.AddInstallmentRequest
	if err := c.BodyParser(&req); err != nil {
		return h.recordError(ctx, span, c, start, err,
			fiber.StatusBadRequest, "parse_error", "Cannot parse request body", zap.Error(err))
	}

	if err := h.validate.Struct(req); err != nil {
		return h.recordError(ctx, span, c, start, err,
			fiber.StatusBadRequest, "validation_error", err.Error(), zap.Error(err))
	}

	serviceCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	installment, err := h.installmentService.Add(serviceCtx, loanID, req)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrLoanNotFound):
			return h.recordError(ctx, span, c, start, err,
				fiber.StatusNotFound, "loan_not_found", err.Error(), zap.String("loan_id", loanID))
		case errors.Is(err, common.ErrDuplicateEntry):
			return h.recordError(ctx, span, c, start, err,
				fiber.StatusConflict, "duplicate_entry", err.Error(),
				zap.String("loan_id", loanID), zap.String("date", req.Date))
		case errors.Is(err, common.ErrInvalidDate):
			return h.recordError(ctx, span, c, start, err,
				fiber.StatusBadRequest, "invalid_date", err.Error(), zap.String("date", req.Date))
		default:
			return h.recordError(ctx, span, c, start, err,
				fiber.StatusInternalServerError, "service_error", "Internal server error", zap.Error(err))
		}
	}

	return h.recordSuccess(ctx, span, c, start,
		fiber.StatusCreated, "Installment recorded successfully", dto.InstallmentFromEntity(*installment),
		zap.String("loan_id", loanID), zap.Float64("amount", installment.Amount))
}

func (h *LoanHandler) EditInstallment(c *fiber.Ctx) error {
	ctx, span, start := h.begin(c, "handler.EditInstallment")
	defer span.End()

	loanID := c.Params("loanId")

	var req dto.EditInstallmentRequest
	if err := c.BodyParser(&req); err != nil {
		return h.recordError(ctx, span, c, start, err,
			fiber.StatusBadRequest, "parse_error", "Cannot parse request body", zap.Error(err))
	}

	if err := h.validate.Struct(req); err != nil {
		return h.recordError(ctx, span, c, start, err,
			fiber.StatusBadRequest, "validation_error", err.Error(), zap.Error(err))
	}

	serviceCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	installment, err := h.installmentService.Edit(serviceCtx, loanID, req)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrInstallmentNotFound):
			return h.recordError(ctx, span, c, start, err,
				fiber.StatusNotFound, "installment_not_found", err.Error(),
				zap.String("loan_id", loanID), zap.String("date", req.Date))
		case errors.Is(err, common.ErrDuplicateEntry):
			return h.recordError(ctx, span, c, start, err,
				fiber.StatusConflict, "duplicate_entry", err.Error(), zap.String("loan_id", loanID))
		case errors.Is(err, common.ErrInvalidDate):
			return h.recordError(ctx, span, c, start, err,
				fiber.StatusBadRequest, "invalid_date", err.Error(), zap.String("date", req.Date))
		default:
			return h.recordError(ctx, span, c, start, err,
				fiber.StatusInternalServerError, "service_error", "Internal server error", zap.Error(err))
		}
	}

	return h.recordSuccess(ctx, span, c, start,
		fiber.StatusOK, "Installment updated successfully", dto.InstallmentFromEntity(*installment),
		zap.String("loan_id", loanID))
}

func (h *LoanHandler) ListInstallments(c *fiber.Ctx) error {
	ctx, span, start := h.begin(c, "handler.ListInstallments")
	defer span.End()

	loanID := c.Params("loanId")

	serviceCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	res, err := h.installmentService.List(serviceCtx, loanID)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrLoanNotFound):
			return h.recordError(ctx, span, c, start, err,
				fiber.StatusNotFound, "loan_not_found", err.Error(), zap.String("loan_id", loanID))
		default:
			return h.recordError(ctx, span, c, start, err,
				fiber.StatusInternalServerError, "service_error", "Internal server error", zap.Error(err))
		}
	}

	return h.recordSuccess(ctx, span, c, start, fiber.StatusOK, "", res,
		zap.String("loan_id", loanID), zap.Int("count", len(res.Entries)))
}
