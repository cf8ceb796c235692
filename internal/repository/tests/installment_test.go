package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/saitejads/loanbook/internal/domain"
	"github.com/saitejads/loanbook/internal/model"
	"github.com/saitejads/loanbook/internal/repository"
	installmentrepo "github.com/saitejads/loanbook/internal/repository/installment"
	loanrepo "github.com/saitejads/loanbook/internal/repository/loan"

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

type InstallmentRepositoryTestSuite struct {
	suite.Suite
	db                    *gorm.DB
	ctx                   context.Context
	loanRepository        repository.LoanRepository
	installmentRepository repository.InstallmentRepository

	loanID string
}

func (suite *InstallmentRepositoryTestSuite) SetupSuite() {
	db, err := gorm.Open(sqlite.Open("file:installment_repo_test?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(suite.T(), err)

	suite.db = db
	suite.ctx = context.Background()

	log := zap.NewNop()
	tracer := noop_trace.NewTracerProvider().Tracer("test-installment-repository-tracer")
	meter := noop_metric.NewMeterProvider().Meter("test-installment-repository-meter")

	err = model.AutoMigrate(suite.db)
	require.NoError(suite.T(), err)

	suite.loanRepository = loanrepo.NewLoanRepository(suite.db, meter, tracer, log)
	suite.installmentRepository = installmentrepo.NewInstallmentRepository(suite.db, meter, tracer, log)
}

func (suite *InstallmentRepositoryTestSuite) SetupTest() {
	suite.db.Exec("DELETE FROM installments")
	suite.db.Exec("DELETE FROM loans")

	loan := &domain.Loan{
		ID:          uuid.NewString(),
		Sno:         1,
		Section:     domain.SectionWeekly,
		Area:        "North",
		Name:        "Ravi Kumar",
		Address:     "12 Market Street",
		PhoneNumber: "9876543210",
		GivenAmount: 10000,
		Tamount:     11000,
	}
	require.NoError(suite.T(), suite.loanRepository.Create(suite.ctx, loan))
	suite.loanID = loan.ID
}

func day(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

func (suite *InstallmentRepositoryTestSuite) TestCreateAndFindByLoanAndDate() {
	installment := &domain.Installment{
		LoanID: suite.loanID,
		Amount: 500,
		Date:   day(10),
	}
	require.NoError(suite.T(), suite.installmentRepository.Create(suite.ctx, installment))
	assert.NotZero(suite.T(), installment.ID)

	found, err := suite.installmentRepository.FindByLoanAndDate(suite.ctx, suite.loanID, day(10))
	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), found)
	assert.Equal(suite.T(), 500.0, found.Amount)

	missing, err := suite.installmentRepository.FindByLoanAndDate(suite.ctx, suite.loanID, day(11))
	require.NoError(suite.T(), err)
	assert.Nil(suite.T(), missing)
}

func (suite *InstallmentRepositoryTestSuite) TestCreate_DuplicateDateRejected() {
	first := &domain.Installment{LoanID: suite.loanID, Amount: 500, Date: day(10)}
	require.NoError(suite.T(), suite.installmentRepository.Create(suite.ctx, first))

	second := &domain.Installment{LoanID: suite.loanID, Amount: 700, Date: day(10)}
	err := suite.installmentRepository.Create(suite.ctx, second)
	assert.Error(suite.T(), err)
}

func (suite *InstallmentRepositoryTestSuite) TestFindAllByLoan_OrderedByDate() {
	for _, d := range []int{20, 5, 12} {
		installment := &domain.Installment{LoanID: suite.loanID, Amount: 100, Date: day(d)}
		require.NoError(suite.T(), suite.installmentRepository.Create(suite.ctx, installment))
	}

	entries, err := suite.installmentRepository.FindAllByLoan(suite.ctx, suite.loanID)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), entries, 3)
	assert.Equal(suite.T(), day(5), entries[0].Date.UTC())
	assert.Equal(suite.T(), day(12), entries[1].Date.UTC())
	assert.Equal(suite.T(), day(20), entries[2].Date.UTC())
}

func (suite *InstallmentRepositoryTestSuite) TestFindAllByLoanIDs() {
	other := &domain.Loan{
		ID:          uuid.NewString(),
		Sno:         2,
		Section:     domain.SectionWeekly,
		Area:        "South",
		Name:        "Suresh Babu",
		Address:     "4 Temple Road",
		PhoneNumber: "9123456780",
		GivenAmount: 5000,
		Tamount:     5500,
	}
	require.NoError(suite.T(), suite.loanRepository.Create(suite.ctx, other))

	require.NoError(suite.T(), suite.installmentRepository.Create(suite.ctx,
		&domain.Installment{LoanID: suite.loanID, Amount: 100, Date: day(1)}))
	require.NoError(suite.T(), suite.installmentRepository.Create(suite.ctx,
		&domain.Installment{LoanID: other.ID, Amount: 200, Date: day(2)}))

	entries, err := suite.installmentRepository.FindAllByLoanIDs(suite.ctx, []string{suite.loanID, other.ID})
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), entries, 2)

	none, err := suite.installmentRepository.FindAllByLoanIDs(suite.ctx, nil)
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), none)
}

func (suite *InstallmentRepositoryTestSuite) TestUpdate() {
	installment := &domain.Installment{LoanID: suite.loanID, Amount: 500, Date: day(10)}
	require.NoError(suite.T(), suite.installmentRepository.Create(suite.ctx, installment))

	installment.Amount = 650
	installment.Date = day(11)
	require.NoError(suite.T(), suite.installmentRepository.Update(suite.ctx, installment))

	found, err := suite.installmentRepository.FindByLoanAndDate(suite.ctx, suite.loanID, day(11))
	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), found)
	assert.Equal(suite.T(), 650.0, found.Amount)
}

func (suite *InstallmentRepositoryTestSuite) TestDeleteByLoan() {
	for _, d := range []int{1, 2, 3} {
		installment := &domain.Installment{LoanID: suite.loanID, Amount: 100, Date: day(d)}
		require.NoError(suite.T(), suite.installmentRepository.Create(suite.ctx, installment))
	}

	require.NoError(suite.T(), suite.installmentRepository.DeleteByLoan(suite.ctx, suite.loanID))

	entries, err := suite.installmentRepository.FindAllByLoan(suite.ctx, suite.loanID)
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), entries)
}

func TestInstallmentRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(InstallmentRepositoryTestSuite))
}
