package reportsrv

import (
	"context"

	"github.com/saitejads/loanbook/internal/domain"
	"github.com/saitejads/loanbook/internal/dto"
	"github.com/saitejads/loanbook/internal/repository"
	"github.com/saitejads/loanbook/internal/service"
	"github.com/saitejads/loanbook/pkg/common"
	"github.com/saitejads/loanbook/pkg/dates"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type reportService struct {
	loanRepository        repository.LoanRepository
	installmentRepository repository.InstallmentRepository

	meter          metric.Meter
	tracer         trace.Tracer
	log            *zap.Logger
	operationCount metric.Int64Counter
}

func filterFromRequest(req dto.ReportRequest) domain.ReportFilter {
	return domain.ReportFilter{
		Section: domain.Section(req.Section),
		Areas:   req.Areas,
		Day:     req.Day,
	}
}

// CustomerData implements ReportUsecases.
func (r *reportService) CustomerData(ctx context.Context, req dto.ReportRequest) (*dto.CustomerDataset, error) {
	ctx, span := r.tracer.Start(ctx, "service.CustomerDataReport")
	defer span.End()

	r.operationCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", "customer_data_report"),
	))

	loans, err := r.loanRepository.FindFiltered(ctx, filterFromRequest(req))
	if err != nil {
		span.SetStatus(codes.Error, "Failed to fetch loans")
		span.RecordError(err)
		return nil, err
	}

	dataset := &dto.CustomerDataset{
		Rows: make([]dto.CustomerRow, 0, len(loans)),
	}

	for _, loan := range loans {
		pending := loan.Pending()

		dataset.Rows = append(dataset.Rows, dto.CustomerRow{
			Sno:            loan.Sno,
			LoanID:         loan.ID,
			Section:        string(loan.Section),
			Area:           loan.Area,
			Day:            loan.Day,
			Name:           loan.Name,
			Address:        loan.Address,
			PhoneNumber:    loan.PhoneNumber,
			AlternativeNo:  loan.AlternativeNo,
			Work:           loan.Work,
			Guardian:       loan.Guardian,
			GivenAmount:    loan.GivenAmount,
			Paid:           loan.Paid,
			Pending:        pending,
			Interest:       loan.Interest,
			Tamount:        loan.Tamount,
			GivenDate:      dates.FormatPtr(loan.GivenDate),
			LastDate:       dates.FormatPtr(loan.LastDate),
			AdditionalInfo: loan.AdditionalInfo,
			VerifiedBy:     loan.VerifiedBy,
		})

		dataset.Totals.GivenAmount += loan.GivenAmount
		dataset.Totals.Paid += loan.Paid
		dataset.Totals.Pending += pending
		dataset.Totals.Interest += loan.Interest
		dataset.Totals.Tamount += loan.Tamount
	}

	span.SetAttributes(attribute.Int("result.count", len(dataset.Rows)))

	return dataset, nil
}

// CollectionData joins repayments onto their borrowers, skipping loans with
// no usable identity, ordered by repayment date.
func (r *reportService) CollectionData(ctx context.Context, req dto.ReportRequest) (*dto.CollectionDataset, error) {
	ctx, span := r.tracer.Start(ctx, "service.CollectionDataReport")
	defer span.End()

	r.operationCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", "collection_data_report"),
	))

	loans, err := r.loanRepository.FindFiltered(ctx, filterFromRequest(req))
	if err != nil {
		span.SetStatus(codes.Error, "Failed to fetch loans")
		span.RecordError(err)
		return nil, err
	}

	type identity struct {
		sno  int
		name string
	}

	byLoan := make(map[string]identity, len(loans))
	loanIDs := make([]string, 0, len(loans))
	for _, loan := range loans {
		if loan.Sno == 0 || loan.Name == "" {
			continue
		}
		byLoan[loan.ID] = identity{sno: loan.Sno, name: loan.Name}
		loanIDs = append(loanIDs, loan.ID)
	}

	if len(loanIDs) == 0 {
		return nil, common.ErrNoValidLoans
	}

	installments, err := r.installmentRepository.FindAllByLoanIDs(ctx, loanIDs)
	if err != nil {
		span.SetStatus(codes.Error, "Failed to fetch installments")
		span.RecordError(err)
		return nil, err
	}

	dataset := &dto.CollectionDataset{
		Rows: make([]dto.CollectionRow, 0, len(installments)),
	}

	for _, installment := range installments {
		owner, ok := byLoan[installment.LoanID]
		if !ok {
			continue
		}

		dataset.Rows = append(dataset.Rows, dto.CollectionRow{
			Sno:    owner.sno,
			Name:   owner.name,
			Date:   dates.Format(installment.Date),
			Amount: installment.Amount,
		})
		dataset.Total += installment.Amount
	}

	span.SetAttributes(attribute.Int("result.count", len(dataset.Rows)))

	return dataset, nil
}

// FullData builds one section per loan with its complete repayment history
// and collected total.
func (r *reportService) FullData(ctx context.Context, req dto.ReportRequest) (*dto.FullDataset, error) {
	ctx, span := r.tracer.Start(ctx, "service.FullDataReport")
	defer span.End()

	r.operationCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", "full_data_report"),
	))

	loans, err := r.loanRepository.FindFiltered(ctx, filterFromRequest(req))
	if err != nil {
		span.SetStatus(codes.Error, "Failed to fetch loans")
		span.RecordError(err)
		return nil, err
	}

	loanIDs := make([]string, len(loans))
	for i, loan := range loans {
		loanIDs[i] = loan.ID
	}

	installments, err := r.installmentRepository.FindAllByLoanIDs(ctx, loanIDs)
	if err != nil {
		span.SetStatus(codes.Error, "Failed to fetch installments")
		span.RecordError(err)
		return nil, err
	}

	grouped := make(map[string][]domain.Installment, len(loans))
	for _, installment := range installments {
		grouped[installment.LoanID] = append(grouped[installment.LoanID], installment)
	}

	dataset := &dto.FullDataset{
		Sections: make([]dto.LoanFullSection, 0, len(loans)),
	}

	for i := range loans {
		history := grouped[loans[i].ID]

		section := dto.LoanFullSection{
			Loan:         dto.LoanFromEntity(&loans[i]),
			Installments: dto.InstallmentsFromEntity(history),
		}
		for _, installment := range history {
			section.TotalCollected += installment.Amount
		}

		dataset.Sections = append(dataset.Sections, section)
	}

	span.SetAttributes(attribute.Int("result.count", len(dataset.Sections)))

	return dataset, nil
}

func NewReportService(
	loanRepository repository.LoanRepository,
	installmentRepository repository.InstallmentRepository,
	meter metric.Meter,
	tracer trace.Tracer,
	log *zap.Logger,
) service.ReportUsecases {
	operationCount, _ := meter.Int64Counter(
		"service.operation.count",
		metric.WithDescription("Number of service operations"),
		metric.WithUnit("{operation}"),
	)

	return &reportService{
		loanRepository:        loanRepository,
		installmentRepository: installmentRepository,
		meter:                 meter,
		tracer:                tracer,
		log:                   log,
		operationCount:        operationCount,
	}
}
