package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/saitejads/loanbook/internal/domain"
	"github.com/saitejads/loanbook/internal/dto"
	"github.com/saitejads/loanbook/internal/model"
	"github.com/saitejads/loanbook/internal/repository"
	installmentrepo "github.com/saitejads/loanbook/internal/repository/installment"
	loanrepo "github.com/saitejads/loanbook/internal/repository/loan"
	"github.com/saitejads/loanbook/internal/service"
	loansrv "github.com/saitejads/loanbook/internal/service/loan"
	"github.com/saitejads/loanbook/pkg/common"
	"github.com/saitejads/loanbook/pkg/dates"

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

type LoanServiceTestSuite struct {
	suite.Suite
	db  *gorm.DB
	ctx context.Context

	loanRepository        repository.LoanRepository
	installmentRepository repository.InstallmentRepository
	loanService           service.LoanUsecases
}

func (suite *LoanServiceTestSuite) SetupSuite() {
	db, err := gorm.Open(sqlite.Open("file:loan_service_test?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(suite.T(), err)

	suite.db = db
	suite.ctx = context.Background()

	log := zap.NewNop()
	tracer := noop_trace.NewTracerProvider().Tracer("test-loan-service-tracer")
	meter := noop_metric.NewMeterProvider().Meter("test-loan-service-meter")

	require.NoError(suite.T(), model.AutoMigrate(suite.db))

	suite.loanRepository = loanrepo.NewLoanRepository(suite.db, meter, tracer, log)
	suite.installmentRepository = installmentrepo.NewInstallmentRepository(suite.db, meter, tracer, log)
	suite.loanService = loansrv.NewLoanService(suite.db, suite.loanRepository, suite.installmentRepository, meter, tracer, log)
}

func (suite *LoanServiceTestSuite) SetupTest() {
	suite.db.Exec("DELETE FROM installments")
	suite.db.Exec("DELETE FROM loans")
}

func (suite *LoanServiceTestSuite) createRequest(sno int, section string) dto.CreateLoanRequest {
	return dto.CreateLoanRequest{
		Sno:             sno,
		Section:         section,
		Area:            "North",
		Name:            "Ravi Kumar",
		Address:         "12 Market Street",
		PhoneNumber:     "9876543210",
		GivenAmount:     1000,
		InterestPercent: 10,
		GivenDate:       "01-03-2024",
		LastDate:        "01-06-2024",
	}
}

func (suite *LoanServiceTestSuite) TestCreate_InterestSectionDerivesInterest() {
	loan, err := suite.loanService.Create(suite.ctx, suite.createRequest(1, "Interest"))
	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), loan)

	assert.Equal(suite.T(), 100.0, loan.Interest)
	assert.Equal(suite.T(), 1100.0, loan.Tamount)
	// 1 March 2024 is a Friday.
	assert.Equal(suite.T(), "Friday", loan.Day)
	assert.NotEmpty(suite.T(), loan.ID)
}

func (suite *LoanServiceTestSuite) TestCreate_OtherSectionsKeepGivenInterest() {
	req := suite.createRequest(1, "Monthly")
	req.Interest = 250

	loan, err := suite.loanService.Create(suite.ctx, req)
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), 250.0, loan.Interest)
	assert.Equal(suite.T(), 1250.0, loan.Tamount)
}

func (suite *LoanServiceTestSuite) TestCreate_DuplicateSequence() {
	_, err := suite.loanService.Create(suite.ctx, suite.createRequest(5, "Monthly"))
	require.NoError(suite.T(), err)

	_, err = suite.loanService.Create(suite.ctx, suite.createRequest(5, "Monthly"))
	assert.ErrorIs(suite.T(), err, common.ErrDuplicateSequence)

	// The same sequence number is free in another section.
	_, err = suite.loanService.Create(suite.ctx, suite.createRequest(5, "Daily"))
	assert.NoError(suite.T(), err)
}

func (suite *LoanServiceTestSuite) TestUpdate_NotFound() {
	_, err := suite.loanService.Update(suite.ctx, "missing", dto.UpdateLoanRequest{
		Sno:     1,
		Section: "Monthly",
	})
	assert.ErrorIs(suite.T(), err, common.ErrLoanNotFound)
}

func (suite *LoanServiceTestSuite) TestUpdate_RecomputesTotals() {
	loan, err := suite.loanService.Create(suite.ctx, suite.createRequest(1, "Interest"))
	require.NoError(suite.T(), err)

	newAmount := 2000.0
	updated, err := suite.loanService.Update(suite.ctx, loan.ID, dto.UpdateLoanRequest{
		Sno:         1,
		Section:     "Interest",
		GivenAmount: &newAmount,
	})
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), 200.0, updated.Interest)
	assert.Equal(suite.T(), 2200.0, updated.Tamount)
}

func (suite *LoanServiceTestSuite) TestUpdate_SequenceConflict() {
	first, err := suite.loanService.Create(suite.ctx, suite.createRequest(1, "Monthly"))
	require.NoError(suite.T(), err)
	_, err = suite.loanService.Create(suite.ctx, suite.createRequest(2, "Monthly"))
	require.NoError(suite.T(), err)

	_, err = suite.loanService.Update(suite.ctx, first.ID, dto.UpdateLoanRequest{
		Sno:     2,
		Section: "Monthly",
	})
	assert.ErrorIs(suite.T(), err, common.ErrDuplicateSequence)
}

func (suite *LoanServiceTestSuite) TestRenew_ResetsPaidAndHistory() {
	loan, err := suite.loanService.Create(suite.ctx, suite.createRequest(1, "Monthly"))
	require.NoError(suite.T(), err)

	require.NoError(suite.T(), suite.installmentRepository.Create(suite.ctx, &domain.Installment{
		LoanID: loan.ID,
		Amount: 300,
		Date:   mustParseDay("10-03-2024"),
	}))
	require.NoError(suite.T(), suite.loanRepository.AddPaid(suite.ctx, loan.ID, 300))

	newAmount := 5000.0
	renewed, err := suite.loanService.Renew(suite.ctx, loan.ID, dto.RenewLoanRequest{
		GivenAmount: &newAmount,
	})
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), 0.0, renewed.Paid)
	assert.Equal(suite.T(), 5000.0, renewed.GivenAmount)

	entries, err := suite.installmentRepository.FindAllByLoan(suite.ctx, loan.ID)
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), entries)
}

func (suite *LoanServiceTestSuite) TestRenew_NotFound() {
	_, err := suite.loanService.Renew(suite.ctx, "missing", dto.RenewLoanRequest{})
	assert.ErrorIs(suite.T(), err, common.ErrLoanNotFound)
}

func (suite *LoanServiceTestSuite) TestDelete_RemovesLoanAndInstallments() {
	loan, err := suite.loanService.Create(suite.ctx, suite.createRequest(1, "Monthly"))
	require.NoError(suite.T(), err)

	require.NoError(suite.T(), suite.installmentRepository.Create(suite.ctx, &domain.Installment{
		LoanID: loan.ID,
		Amount: 300,
		Date:   mustParseDay("10-03-2024"),
	}))

	require.NoError(suite.T(), suite.loanService.Delete(suite.ctx, loan.ID))

	found, err := suite.loanRepository.FindByID(suite.ctx, loan.ID)
	require.NoError(suite.T(), err)
	assert.Nil(suite.T(), found)

	entries, err := suite.installmentRepository.FindAllByLoan(suite.ctx, loan.ID)
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), entries)
}

func (suite *LoanServiceTestSuite) TestDelete_NotFound() {
	err := suite.loanService.Delete(suite.ctx, "missing")
	assert.ErrorIs(suite.T(), err, common.ErrLoanNotFound)
}

func (suite *LoanServiceTestSuite) TestSummary() {
	_, err := suite.loanService.Create(suite.ctx, suite.createRequest(1, "Interest"))
	require.NoError(suite.T(), err)

	monthly := suite.createRequest(2, "Monthly")
	monthly.Interest = 100
	loan, err := suite.loanService.Create(suite.ctx, monthly)
	require.NoError(suite.T(), err)
	require.NoError(suite.T(), suite.loanRepository.AddPaid(suite.ctx, loan.ID, 400))

	daily := suite.createRequest(3, "Daily")
	daily.Interest = 50
	_, err = suite.loanService.Create(suite.ctx, daily)
	require.NoError(suite.T(), err)

	summary, err := suite.loanService.Summary(suite.ctx)
	require.NoError(suite.T(), err)

	// Interest loans stay out of the section rows; the rows come back in
	// section order.
	require.Len(suite.T(), summary.Sections, 2)
	assert.Equal(suite.T(), "Daily", summary.Sections[0].Section)
	assert.Equal(suite.T(), "Monthly", summary.Sections[1].Section)
	assert.Equal(suite.T(), 1050.0, summary.Sections[0].TotalAmount)

	// The overall line still spans every loan, Interest included.
	assert.Equal(suite.T(), "Total", summary.Total.Section)
	assert.Equal(suite.T(), 3250.0, summary.Total.TotalAmount)
	assert.Equal(suite.T(), 400.0, summary.Total.PaidAmount)
	assert.Equal(suite.T(), 2850.0, summary.Total.BalanceAmount)
}

func TestLoanServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LoanServiceTestSuite))
}

func mustParseDay(value string) time.Time {
	t, err := dates.Parse(value)
	if err != nil {
		panic(err)
	}
	return t
}
