package reporthandler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/saitejads/loanbook/internal/dto"
	"github.com/saitejads/loanbook/internal/service"
	"github.com/saitejads/loanbook/pkg/common"
	"github.com/saitejads/loanbook/pkg/render"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const excelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var customerColumns = []render.Column{
	{Header: "S.No", Key: "sno", Width: 8},
	{Header: "Loan ID", Key: "loan_id", Width: 30},
	{Header: "Section", Key: "section", Width: 12},
	{Header: "Area", Key: "area", Width: 12},
	{Header: "Day", Key: "day", Width: 15},
	{Header: "Name", Key: "name", Width: 20},
	{Header: "Address", Key: "address", Width: 25},
	{Header: "Phone", Key: "phone_number", Width: 15},
	{Header: "Alt Phone", Key: "alternative_no", Width: 15},
	{Header: "Work", Key: "work", Width: 15},
	{Header: "H/O / W/O", Key: "guardian", Width: 18},
	{Header: "Given Amount", Key: "given_amount", Width: 15},
	{Header: "Paid", Key: "paid", Width: 12},
	{Header: "Pending", Key: "pending", Width: 12},
	{Header: "Interest", Key: "interest", Width: 12},
	{Header: "Total", Key: "tamount", Width: 15},
	{Header: "Given Date", Key: "given_date", Width: 15},
	{Header: "Last Date", Key: "last_date", Width: 15},
	{Header: "Additional Info", Key: "additional_info", Width: 25},
}

var collectionColumns = []render.Column{
	{Header: "S.No", Key: "sno", Width: 8},
	{Header: "Name", Key: "name", Width: 20},
	{Header: "Date", Key: "date", Width: 15},
	{Header: "Amount", Key: "amount", Width: 15},
}

type ReportHandler struct {
	reportService service.ReportUsecases
	validate      *validator.Validate

	meter        metric.Meter
	tracer       trace.Tracer
	log          *zap.Logger
	requestCount metric.Int64Counter
	errorCount   metric.Int64Counter
}

func NewReportHandler(
	reportService service.ReportUsecases,
	meter metric.Meter,
	tracer trace.Tracer,
	log *zap.Logger,
) *ReportHandler {
	requestCount, err := meter.Int64Counter(
		"api.request.count",
		metric.WithDescription("Number of API requests received"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		zap.L().Fatal("Failed to create request count metric", zap.Error(err))
	}

	errorCount, err := meter.Int64Counter(
		"api.error.count",
		metric.WithDescription("Number of API errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		zap.L().Fatal("Failed to create error count metric", zap.Error(err))
	}

	return &ReportHandler{
		reportService: reportService,
		validate:      validator.New(validator.WithRequiredStructEnabled()),
		meter:         meter,
		tracer:        tracer,
		log:           log,
		requestCount:  requestCount,
		errorCount:    errorCount,
	}
}

func headerText(req dto.ReportRequest) string {
	orAll := func(s string) string {
		if s == "" {
			return "All"
		}
		return s
	}

	return fmt.Sprintf("Report: %s | Section: %s | Area: %s | Day: %s | From: %s | To: %s",
		req.DataType,
		orAll(req.Section),
		orAll(strings.Join(req.Areas, ", ")),
		orAll(req.Day),
		req.FromDate,
		req.ToDate,
	)
}

// Download renders the requested dataset and streams it as a file
// attachment: spreadsheets for the tabular datasets, a PDF for the
// narrative one.
func (h *ReportHandler) Download(c *fiber.Ctx) error {
	ctx := c.UserContext()
	ctx, span := h.tracer.Start(ctx, "handler.DownloadReport")
	defer span.End()

	h.requestCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("endpoint", c.Path()),
		attribute.String("method", c.Method()),
	))

	var req dto.ReportRequest
	if err := c.BodyParser(&req); err != nil {
		return common.ErrorResponse(c, fiber.StatusBadRequest, "Cannot parse request body")
	}

	if err := h.validate.Struct(req); err != nil {
		return common.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	span.SetAttributes(
		attribute.String("report.data_type", req.DataType),
		attribute.String("report.section", req.Section),
	)

	h.log.Info("Generating report",
		zap.String("data_type", req.DataType),
		zap.String("section", req.Section),
		zap.Strings("areas", req.Areas),
		zap.String("trace_id", span.SpanContext().TraceID().String()),
	)

	serviceCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	switch req.DataType {
	case "Customer Data":
		return h.downloadCustomerData(serviceCtx, span, c, req)
	case "Collection":
		return h.downloadCollection(serviceCtx, span, c, req)
	case "Full Data":
		return h.downloadFullData(serviceCtx, span, c, req)
	}

	return common.ErrorResponse(c, fiber.StatusBadRequest, "Invalid data type")
}

func (h *ReportHandler) downloadCustomerData(ctx context.Context, span trace.Span, c *fiber.Ctx, req dto.ReportRequest) error {
	dataset, err := h.reportService.CustomerData(ctx, req)
	if err != nil {
		return h.fail(ctx, span, c, err)
	}

	rows := make([]map[string]any, len(dataset.Rows))
	for i, row := range dataset.Rows {
		rows[i] = map[string]any{
			"sno":             row.Sno,
			"loan_id":         row.LoanID,
			"section":         row.Section,
			"area":            row.Area,
			"day":             row.Day,
			"name":            row.Name,
			"address":         row.Address,
			"phone_number":    row.PhoneNumber,
			"alternative_no":  row.AlternativeNo,
			"work":            row.Work,
			"guardian":        row.Guardian,
			"given_amount":    row.GivenAmount,
			"paid":            row.Paid,
			"pending":         row.Pending,
			"interest":        row.Interest,
			"tamount":         row.Tamount,
			"given_date":      row.GivenDate,
			"last_date":       row.LastDate,
			"additional_info": row.AdditionalInfo,
		}
	}

	totals := map[string]any{
		"name":         "TOTAL",
		"given_amount": dataset.Totals.GivenAmount,
		"paid":         dataset.Totals.Paid,
		"pending":      dataset.Totals.Pending,
		"interest":     dataset.Totals.Interest,
		"tamount":      dataset.Totals.Tamount,
	}

	content, err := render.Excel("Customers", headerText(req), customerColumns, rows, totals)
	if err != nil {
		return h.fail(ctx, span, c, err)
	}

	return h.sendAttachment(c, content, excelContentType,
		fmt.Sprintf("customers_%d.xlsx", time.Now().UnixMilli()))
}

func (h *ReportHandler) downloadCollection(ctx context.Context, span trace.Span, c *fiber.Ctx, req dto.ReportRequest) error {
	dataset, err := h.reportService.CollectionData(ctx, req)
	if err != nil {
		return h.fail(ctx, span, c, err)
	}

	rows := make([]map[string]any, len(dataset.Rows))
	for i, row := range dataset.Rows {
		rows[i] = map[string]any{
			"sno":    row.Sno,
			"name":   row.Name,
			"date":   row.Date,
			"amount": row.Amount,
		}
	}

	totals := map[string]any{
		"name":   "TOTAL",
		"amount": dataset.Total,
	}

	content, err := render.Excel("Collections", headerText(req), collectionColumns, rows, totals)
	if err != nil {
		return h.fail(ctx, span, c, err)
	}

	return h.sendAttachment(c, content, excelContentType,
		fmt.Sprintf("collections_%d.xlsx", time.Now().UnixMilli()))
}

func (h *ReportHandler) downloadFullData(ctx context.Context, span trace.Span, c *fiber.Ctx, req dto.ReportRequest) error {
	dataset, err := h.reportService.FullData(ctx, req)
	if err != nil {
		return h.fail(ctx, span, c, err)
	}

	loans := make([]render.FullReportLoan, len(dataset.Sections))
	for i, section := range dataset.Sections {
		loan := render.FullReportLoan{
			LoanID:          section.Loan.ID,
			Sno:             section.Loan.Sno,
			Section:         section.Loan.Section,
			Area:            section.Loan.Area,
			Day:             section.Loan.Day,
			Name:            section.Loan.Name,
			Address:         section.Loan.Address,
			PhoneNumber:     section.Loan.PhoneNumber,
			AlternativeNo:   section.Loan.AlternativeNo,
			Work:            section.Loan.Work,
			Guardian:        section.Loan.Guardian,
			ReferName:       section.Loan.ReferName,
			ReferNumber:     section.Loan.ReferNumber,
			GivenAmount:     section.Loan.GivenAmount,
			Paid:            section.Loan.Paid,
			Pending:         section.Loan.Pending,
			InterestPercent: section.Loan.InterestPercent,
			Interest:        section.Loan.Interest,
			Tamount:         section.Loan.Tamount,
			GivenDate:       section.Loan.GivenDate,
			LastDate:        section.Loan.LastDate,
			AdditionalInfo:  section.Loan.AdditionalInfo,
			VerifiedBy:      section.Loan.VerifiedBy,
			VerifiedByNo:    section.Loan.VerifiedByNo,
			TotalCollected:  section.TotalCollected,
		}
		for _, installment := range section.Installments {
			loan.Collections = append(loan.Collections, render.CollectionLine{
				Date:   installment.Date,
				Amount: installment.Amount,
			})
		}
		loans[i] = loan
	}

	content, err := render.FullReport(headerText(req), loans)
	if err != nil {
		return h.fail(ctx, span, c, err)
	}

	return h.sendAttachment(c, content, "application/pdf",
		fmt.Sprintf("full_report_%d.pdf", time.Now().UnixMilli()))
}

func (h *ReportHandler) fail(ctx context.Context, span trace.Span, c *fiber.Ctx, err error) error {
	h.errorCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("endpoint", c.Path()),
		attribute.String("method", c.Method()),
	))
	span.RecordError(err)

	if errors.Is(err, common.ErrNoValidLoans) {
		return common.ErrorResponse(c, fiber.StatusNotFound, err.Error())
	}

	h.log.Error("Report generation failed",
		zap.String("trace_id", span.SpanContext().TraceID().String()),
		zap.Error(err),
	)

	return common.ErrorResponse(c, fiber.StatusInternalServerError, "Internal server error")
}

func (h *ReportHandler) sendAttachment(c *fiber.Ctx, content []byte, contentType, filename string) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", filename))
	return c.Send(content)
}
