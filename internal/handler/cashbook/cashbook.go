package cashbookhandler

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

type CashbookHandler struct {
	cashbookService service.CashbookUsecases
	validate        *validator.Validate

	tracer trace.Tracer
	log    *zap.Logger
}

func NewCashbookHandler(
	cashbookService service.CashbookUsecases,
	tracer trace.Tracer,
	log *zap.Logger,
) *CashbookHandler {
	return &CashbookHandler{
		cashbookService: cashbookService,
		validate:        validator.New(validator.WithRequiredStructEnabled()),
		tracer:          tracer,
		log:             log,
	}
}

func (h *CashbookHandler) SaveCashflow(c *fiber.Ctx) error {
	ctx, span := h.tracer.Start(c.UserContext(), "handler.SaveCashflow")
	defer span.End()

	var req dto.CashflowRequest
	if err := c.BodyParser(&req); err != nil {
		return common.ErrorResponse(c, fiber.StatusBadRequest, "Cannot parse request body")
	}

	if err := h.validate.Struct(req); err != nil {
		return common.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	entry, err := h.cashbookService.SaveCashflow(ctx, req)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, common.ErrInvalidDate) {
			return common.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
		}

		h.log.Error("Failed to save cashflow entry", zap.Error(err))
		return common.ErrorResponse(c, fiber.StatusInternalServerError, "Internal server error")
	}

	return common.SuccessResponse(c, fiber.StatusCreated, "Cashflow entry saved", entry)
}

func (h *CashbookHandler) ListCashflows(c *fiber.Ctx) error {
	ctx, span := h.tracer.Start(c.UserContext(), "handler.ListCashflows")
	defer span.End()

	entries, err := h.cashbookService.ListCashflows(ctx)
	if err != nil {
		span.RecordError(err)

		h.log.Error("Failed to list cashflow entries", zap.Error(err))
		return common.ErrorResponse(c, fiber.StatusInternalServerError, "Internal server error")
	}

	return common.SuccessResponse(c, fiber.StatusOK, "", entries)
}

func (h *CashbookHandler) ClearCashflows(c *fiber.Ctx) error {
	ctx, span := h.tracer.Start(c.UserContext(), "handler.ClearCashflows")
	defer span.End()

	if err := h.cashbookService.ClearCashflows(ctx); err != nil {
		span.RecordError(err)

		h.log.Error("Failed to clear cashflow entries", zap.Error(err))
		return common.ErrorResponse(c, fiber.StatusInternalServerError, "Internal server error")
	}

	return common.SuccessResponse(c, fiber.StatusOK, "Cashflow entries cleared", nil)
}

func (h *CashbookHandler) SaveBackupEntry(c *fiber.Ctx) error {
	ctx, span := h.tracer.Start(c.UserContext(), "handler.SaveBackupEntry")
	defer span.End()

	var req dto.BackupEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return common.ErrorResponse(c, fiber.StatusBadRequest, "Cannot parse request body")
	}

	if err := h.validate.Struct(req); err != nil {
		return common.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	entry, err := h.cashbookService.SaveBackupEntry(ctx, req)
	if err != nil {
		span.RecordError(err)

		h.log.Error("Failed to save backup entry", zap.Error(err))
		return common.ErrorResponse(c, fiber.StatusInternalServerError, "Internal server error")
	}

	return common.SuccessResponse(c, fiber.StatusCreated, "Backup entry saved", entry)
}

func (h *CashbookHandler) ListBackupEntries(c *fiber.Ctx) error {
	ctx, span := h.tracer.Start(c.UserContext(), "handler.ListBackupEntries")
	defer span.End()

	entries, err := h.cashbookService.ListBackupEntries(ctx)
	if err != nil {
		span.RecordError(err)

		h.log.Error("Failed to list backup entries", zap.Error(err))
		return common.ErrorResponse(c, fiber.StatusInternalServerError, "Internal server error")
	}

	return common.SuccessResponse(c, fiber.StatusOK, "", entries)
}

func (h *CashbookHandler) DeleteBackupEntry(c *fiber.Ctx) error {
	ctx, span := h.tracer.Start(c.UserContext(), "handler.DeleteBackupEntry")
	defer span.End()

	id := c.Params("entryId")
	if id == "" {
		return common.ErrorResponse(c, fiber.StatusBadRequest, "Entry id is required")
	}

	if err := h.cashbookService.DeleteBackupEntry(ctx, id); err != nil {
		span.RecordError(err)
		if errors.Is(err, common.ErrEntryNotFound) {
			return common.ErrorResponse(c, fiber.StatusNotFound, err.Error())
		}

		h.log.Error("Failed to delete backup entry", zap.String("entry_id", id), zap.Error(err))
		return common.ErrorResponse(c, fiber.StatusInternalServerError, "Internal server error")
	}

	return common.SuccessResponse(c, fiber.StatusOK, "Backup entry deleted", nil)
}
