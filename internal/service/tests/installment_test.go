package service_test

import (
	"context"
	"testing"

	"github.com/saitejads/loanbook/internal/dto"
	"github.com/saitejads/loanbook/internal/model"
	"github.com/saitejads/loanbook/internal/repository"
	installmentrepo "github.com/saitejads/loanbook/internal/repository/installment"
	loanrepo "github.com/saitejads/loanbook/internal/repository/loan"
	"github.com/saitejads/loanbook/internal/service"
	installmentsrv "github.com/saitejads/loanbook/internal/service/installment"
	loansrv "github.com/saitejads/loanbook/internal/service/loan"
	"github.com/saitejads/loanbook/pkg/common"

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

type InstallmentServiceTestSuite struct {
	suite.Suite
	db  *gorm.DB
	ctx context.Context

	loanRepository     repository.LoanRepository
	loanService        service.LoanUsecases
	installmentService service.InstallmentUsecases

	loanID string
}

func (suite *InstallmentServiceTestSuite) SetupSuite() {
	db, err := gorm.Open(sqlite.Open("file:installment_service_test?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(suite.T(), err)

	suite.db = db
	suite.ctx = context.Background()

	log := zap.NewNop()
	tracer := noop_trace.NewTracerProvider().Tracer("test-installment-service-tracer")
	meter := noop_metric.NewMeterProvider().Meter("test-installment-service-meter")

	require.NoError(suite.T(), model.AutoMigrate(suite.db))

	suite.loanRepository = loanrepo.NewLoanRepository(suite.db, meter, tracer, log)
	installmentRepository := installmentrepo.NewInstallmentRepository(suite.db, meter, tracer, log)
	suite.loanService = loansrv.NewLoanService(suite.db, suite.loanRepository, installmentRepository, meter, tracer, log)
	suite.installmentService = installmentsrv.NewInstallmentService(suite.db, suite.loanRepository, installmentRepository, meter, tracer, log)
}

func (suite *InstallmentServiceTestSuite) SetupTest() {
	suite.db.Exec("DELETE FROM installments")
	suite.db.Exec("DELETE FROM loans")

	loan, err := suite.loanService.Create(suite.ctx, dto.CreateLoanRequest{
		Sno:         1,
		Section:     "Weekly",
		Area:        "North",
		Name:        "Ravi Kumar",
		Address:     "12 Market Street",
		PhoneNumber: "9876543210",
		GivenAmount: 1000,
		Interest:    100,
		GivenDate:   "01-03-2024",
		LastDate:    "01-06-2024",
	})
	require.NoError(suite.T(), err)
	suite.loanID = loan.ID
}

func (suite *InstallmentServiceTestSuite) TestAdd_MovesPaidCounter() {
	installment, err := suite.installmentService.Add(suite.ctx, suite.loanID, dto.AddInstallmentRequest{
		Date:   "10-03-2024",
		Amount: 200,
	})
	require.NoError(suite.T(), err)
	assert.NotZero(suite.T(), installment.ID)

	loan, err := suite.loanRepository.FindByID(suite.ctx, suite.loanID)
	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), loan)
	assert.Equal(suite.T(), 200.0, loan.Paid)
}

func (suite *InstallmentServiceTestSuite) TestAdd_DuplicateDate() {
	_, err := suite.installmentService.Add(suite.ctx, suite.loanID, dto.AddInstallmentRequest{
		Date:   "10-03-2024",
		Amount: 200,
	})
	require.NoError(suite.T(), err)

	_, err = suite.installmentService.Add(suite.ctx, suite.loanID, dto.AddInstallmentRequest{
		Date:   "10-03-2024",
		Amount: 300,
	})
	assert.ErrorIs(suite.T(), err, common.ErrDuplicateEntry)

	// The failed add must not move the counter.
	loan, err := suite.loanRepository.FindByID(suite.ctx, suite.loanID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 200.0, loan.Paid)
}

func (suite *InstallmentServiceTestSuite) TestAdd_LoanNotFound() {
	_, err := suite.installmentService.Add(suite.ctx, "missing", dto.AddInstallmentRequest{
		Date:   "10-03-2024",
		Amount: 200,
	})
	assert.ErrorIs(suite.T(), err, common.ErrLoanNotFound)
}

func (suite *InstallmentServiceTestSuite) TestAdd_InvalidDate() {
	_, err := suite.installmentService.Add(suite.ctx, suite.loanID, dto.AddInstallmentRequest{
		Date:   "Invalid date",
		Amount: 200,
	})
	assert.ErrorIs(suite.T(), err, common.ErrInvalidDate)
}

func (suite *InstallmentServiceTestSuite) TestEdit_AmountMovesCounterByDelta() {
	_, err := suite.installmentService.Add(suite.ctx, suite.loanID, dto.AddInstallmentRequest{
		Date:   "10-03-2024",
		Amount: 200,
	})
	require.NoError(suite.T(), err)

	newAmount := 350.0
	installment, err := suite.installmentService.Edit(suite.ctx, suite.loanID, dto.EditInstallmentRequest{
		Date:   "10-03-2024",
		Amount: &newAmount,
	})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 350.0, installment.Amount)

	loan, err := suite.loanRepository.FindByID(suite.ctx, suite.loanID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 350.0, loan.Paid)
}

func (suite *InstallmentServiceTestSuite) TestEdit_MoveToFreeDate() {
	_, err := suite.installmentService.Add(suite.ctx, suite.loanID, dto.AddInstallmentRequest{
		Date:   "10-03-2024",
		Amount: 200,
	})
	require.NoError(suite.T(), err)

	newDate := "11-03-2024"
	installment, err := suite.installmentService.Edit(suite.ctx, suite.loanID, dto.EditInstallmentRequest{
		Date:    "10-03-2024",
		NewDate: &newDate,
	})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), mustParseDay(newDate), installment.Date.UTC())

	// The counter is untouched when only the date moves.
	loan, err := suite.loanRepository.FindByID(suite.ctx, suite.loanID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 200.0, loan.Paid)
}

func (suite *InstallmentServiceTestSuite) TestEdit_MoveToOccupiedDate() {
	for _, req := range []dto.AddInstallmentRequest{
		{Date: "10-03-2024", Amount: 200},
		{Date: "11-03-2024", Amount: 100},
	} {
		_, err := suite.installmentService.Add(suite.ctx, suite.loanID, req)
		require.NoError(suite.T(), err)
	}

	newDate := "11-03-2024"
	_, err := suite.installmentService.Edit(suite.ctx, suite.loanID, dto.EditInstallmentRequest{
		Date:    "10-03-2024",
		NewDate: &newDate,
	})
	assert.ErrorIs(suite.T(), err, common.ErrDuplicateEntry)
}

func (suite *InstallmentServiceTestSuite) TestEdit_NotFound() {
	newAmount := 100.0
	_, err := suite.installmentService.Edit(suite.ctx, suite.loanID, dto.EditInstallmentRequest{
		Date:   "25-03-2024",
		Amount: &newAmount,
	})
	assert.ErrorIs(suite.T(), err, common.ErrInstallmentNotFound)
}

func (suite *InstallmentServiceTestSuite) TestList() {
	for _, req := range []dto.AddInstallmentRequest{
		{Date: "12-03-2024", Amount: 200},
		{Date: "10-03-2024", Amount: 100},
	} {
		_, err := suite.installmentService.Add(suite.ctx, suite.loanID, req)
		require.NoError(suite.T(), err)
	}

	res, err := suite.installmentService.List(suite.ctx, suite.loanID)
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), suite.loanID, res.Loan.ID)
	assert.Equal(suite.T(), 300.0, res.Loan.Paid)
	require.Len(suite.T(), res.Entries, 2)
	assert.Equal(suite.T(), "10-03-2024", res.Entries[0].Date)
	assert.Equal(suite.T(), "12-03-2024", res.Entries[1].Date)
}

func (suite *InstallmentServiceTestSuite) TestList_LoanNotFound() {
	_, err := suite.installmentService.List(suite.ctx, "missing")
	assert.ErrorIs(suite.T(), err, common.ErrLoanNotFound)
}

func TestInstallmentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InstallmentServiceTestSuite))
}
