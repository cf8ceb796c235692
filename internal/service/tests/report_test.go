package service_test

import (
	"context"
	"testing"

	"github.com/saitejads/loanbook/internal/domain"
	"github.com/saitejads/loanbook/internal/dto"
	"github.com/saitejads/loanbook/internal/model"
	"github.com/saitejads/loanbook/internal/repository"
	installmentrepo "github.com/saitejads/loanbook/internal/repository/installment"
	loanrepo "github.com/saitejads/loanbook/internal/repository/loan"
	"github.com/saitejads/loanbook/internal/service"
	reportsrv "github.com/saitejads/loanbook/internal/service/report"
	"github.com/saitejads/loanbook/pkg/common"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	noop_metric "go.opentelemetry.io/otel/metric/noop"
	noop_trace "go.opentelemetry.io/otel/trace/noop"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type ReportServiceTestSuite struct {
	suite.Suite
	db  *gorm.DB
	ctx context.Context

	loanRepository        repository.LoanRepository
	installmentRepository repository.InstallmentRepository
	reportService         service.ReportUsecases
}

func (suite *ReportServiceTestSuite) SetupSuite() {
	db, err := gorm.Open(sqlite.Open("file:report_service_test?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(suite.T(), err)

	suite.db = db
	suite.ctx = context.Background()

	log := zap.NewNop()
	tracer := noop_trace.NewTracerProvider().Tracer("test-report-service-tracer")
	meter := noop_metric.NewMeterProvider().Meter("test-report-service-meter")

	require.NoError(suite.T(), model.AutoMigrate(suite.db))

	suite.loanRepository = loanrepo.NewLoanRepository(suite.db, meter, tracer, log)
	suite.installmentRepository = installmentrepo.NewInstallmentRepository(suite.db, meter, tracer, log)
	suite.reportService = reportsrv.NewReportService(suite.loanRepository, suite.installmentRepository, meter, tracer, log)
}

func (suite *ReportServiceTestSuite) SetupTest() {
	suite.db.Exec("DELETE FROM installments")
	suite.db.Exec("DELETE FROM loans")
}

func (suite *ReportServiceTestSuite) seedLoan(sno int, name, area string) *domain.Loan {
	given := mustParseDay("01-03-2024")
	last := mustParseDay("01-06-2024")

	loan := &domain.Loan{
		ID:          uuid.NewString(),
		Sno:         sno,
		Section:     domain.SectionDaily,
		Area:        area,
		Name:        name,
		Address:     "12 Market Street",
		PhoneNumber: "9876543210",
		GivenAmount: 1000,
		Interest:    100,
		Tamount:     1100,
		GivenDate:   &given,
		LastDate:    &last,
	}
	require.NoError(suite.T(), suite.loanRepository.Create(suite.ctx, loan))
	return loan
}

func (suite *ReportServiceTestSuite) seedInstallment(loanID string, date string, amount float64) {
	require.NoError(suite.T(), suite.installmentRepository.Create(suite.ctx, &domain.Installment{
		LoanID: loanID,
		Amount: amount,
		Date:   mustParseDay(date),
	}))
}

func (suite *ReportServiceTestSuite) request() dto.ReportRequest {
	return dto.ReportRequest{
		Section:  "Daily",
		FromDate: "01-03-2024",
		ToDate:   "31-03-2024",
	}
}

func (suite *ReportServiceTestSuite) TestCustomerData_RowsAndTotals() {
	a := suite.seedLoan(1, "Ravi Kumar", "North")
	require.NoError(suite.T(), suite.loanRepository.AddPaid(suite.ctx, a.ID, 300))
	suite.seedLoan(2, "Suresh Babu", "South")

	dataset, err := suite.reportService.CustomerData(suite.ctx, suite.request())
	require.NoError(suite.T(), err)
	require.Len(suite.T(), dataset.Rows, 2)

	assert.Equal(suite.T(), "Ravi Kumar", dataset.Rows[0].Name)
	assert.Equal(suite.T(), 300.0, dataset.Rows[0].Paid)
	assert.Equal(suite.T(), 800.0, dataset.Rows[0].Pending)
	assert.Equal(suite.T(), "01-03-2024", dataset.Rows[0].GivenDate)

	assert.Equal(suite.T(), 2000.0, dataset.Totals.GivenAmount)
	assert.Equal(suite.T(), 300.0, dataset.Totals.Paid)
	assert.Equal(suite.T(), 1900.0, dataset.Totals.Pending)
	assert.Equal(suite.T(), 2200.0, dataset.Totals.Tamount)
}

func (suite *ReportServiceTestSuite) TestCustomerData_AreaFilter() {
	suite.seedLoan(1, "Ravi Kumar", "North")
	suite.seedLoan(2, "Suresh Babu", "South")

	req := suite.request()
	req.Areas = []string{"South"}

	dataset, err := suite.reportService.CustomerData(suite.ctx, req)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), dataset.Rows, 1)
	assert.Equal(suite.T(), "Suresh Babu", dataset.Rows[0].Name)
}

func (suite *ReportServiceTestSuite) TestCollectionData_OrderedWithTotal() {
	a := suite.seedLoan(1, "Ravi Kumar", "North")
	b := suite.seedLoan(2, "Suresh Babu", "North")

	suite.seedInstallment(a.ID, "12-03-2024", 200)
	suite.seedInstallment(b.ID, "10-03-2024", 100)

	dataset, err := suite.reportService.CollectionData(suite.ctx, suite.request())
	require.NoError(suite.T(), err)
	require.Len(suite.T(), dataset.Rows, 2)

	assert.Equal(suite.T(), "Suresh Babu", dataset.Rows[0].Name)
	assert.Equal(suite.T(), "10-03-2024", dataset.Rows[0].Date)
	assert.Equal(suite.T(), "Ravi Kumar", dataset.Rows[1].Name)
	assert.Equal(suite.T(), 300.0, dataset.Total)
}

func (suite *ReportServiceTestSuite) TestCollectionData_SkipsLoansWithoutIdentity() {
	anonymous := suite.seedLoan(3, "", "North")
	suite.seedInstallment(anonymous.ID, "10-03-2024", 500)

	named := suite.seedLoan(1, "Ravi Kumar", "North")
	suite.seedInstallment(named.ID, "11-03-2024", 100)

	dataset, err := suite.reportService.CollectionData(suite.ctx, suite.request())
	require.NoError(suite.T(), err)
	require.Len(suite.T(), dataset.Rows, 1)
	assert.Equal(suite.T(), "Ravi Kumar", dataset.Rows[0].Name)
	assert.Equal(suite.T(), 100.0, dataset.Total)
}

func (suite *ReportServiceTestSuite) TestCollectionData_NoValidLoans() {
	anonymous := suite.seedLoan(3, "", "North")
	suite.seedInstallment(anonymous.ID, "10-03-2024", 500)

	_, err := suite.reportService.CollectionData(suite.ctx, suite.request())
	assert.ErrorIs(suite.T(), err, common.ErrNoValidLoans)
}

func (suite *ReportServiceTestSuite) TestFullData_GroupsHistoryPerLoan() {
	a := suite.seedLoan(1, "Ravi Kumar", "North")
	b := suite.seedLoan(2, "Suresh Babu", "North")

	suite.seedInstallment(a.ID, "10-03-2024", 200)
	suite.seedInstallment(a.ID, "11-03-2024", 100)
	suite.seedInstallment(b.ID, "12-03-2024", 50)

	dataset, err := suite.reportService.FullData(suite.ctx, suite.request())
	require.NoError(suite.T(), err)
	require.Len(suite.T(), dataset.Sections, 2)

	first := dataset.Sections[0]
	assert.Equal(suite.T(), a.ID, first.Loan.ID)
	require.Len(suite.T(), first.Installments, 2)
	assert.Equal(suite.T(), 300.0, first.TotalCollected)

	second := dataset.Sections[1]
	assert.Equal(suite.T(), b.ID, second.Loan.ID)
	assert.Equal(suite.T(), 50.0, second.TotalCollected)
}

func TestReportServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportServiceTestSuite))
}
