package service_test

import (
	"context"
	"testing"

	"github.com/saitejads/loanbook/internal/dto"
	"github.com/saitejads/loanbook/internal/model"
	"github.com/saitejads/loanbook/internal/service"
	cashbooksrv "github.com/saitejads/loanbook/internal/service/cashbook"
	backuprepo "github.com/saitejads/loanbook/internal/repository/backup"
	cashflowrepo "github.com/saitejads/loanbook/internal/repository/cashflow"
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

type CashbookServiceTestSuite struct {
	suite.Suite
	db  *gorm.DB
	ctx context.Context

	cashbookService service.CashbookUsecases
}

func (suite *CashbookServiceTestSuite) SetupSuite() {
	db, err := gorm.Open(sqlite.Open("file:cashbook_service_test?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(suite.T(), err)

	suite.db = db
	suite.ctx = context.Background()

	require.NoError(suite.T(), model.AutoMigrate(suite.db))

	log := zap.NewNop()
	tracer := noop_trace.NewTracerProvider().Tracer("test-cashbook-service-tracer")
	meter := noop_metric.NewMeterProvider().Meter("test-cashbook-service-meter")

	cashflowRepository := cashflowrepo.NewCashflowRepository(suite.db, meter, tracer, log)
	backupRepository := backuprepo.NewBackupRepository(suite.db, meter, tracer, log)
	suite.cashbookService = cashbooksrv.NewCashbookService(cashflowRepository, backupRepository, meter, tracer, log)
}

func (suite *CashbookServiceTestSuite) SetupTest() {
	suite.db.Exec("DELETE FROM cashflows")
	suite.db.Exec("DELETE FROM backup_entries")
}

func (suite *CashbookServiceTestSuite) TestCashflow_RoundTrip() {
	entry, err := suite.cashbookService.SaveCashflow(suite.ctx, dto.CashflowRequest{
		Sno:    1,
		Date:   "10-03-2024",
		Amount: 1500,
	})
	require.NoError(suite.T(), err)
	assert.NotEmpty(suite.T(), entry.ID)

	_, err = suite.cashbookService.SaveCashflow(suite.ctx, dto.CashflowRequest{
		Sno:    2,
		Date:   "11-03-2024",
		Amount: -500,
	})
	require.NoError(suite.T(), err)

	entries, err := suite.cashbookService.ListCashflows(suite.ctx)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), entries, 2)
	assert.Equal(suite.T(), 1, entries[0].Sno)

	require.NoError(suite.T(), suite.cashbookService.ClearCashflows(suite.ctx))

	entries, err = suite.cashbookService.ListCashflows(suite.ctx)
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), entries)
}

func (suite *CashbookServiceTestSuite) TestCashflow_InvalidDate() {
	_, err := suite.cashbookService.SaveCashflow(suite.ctx, dto.CashflowRequest{
		Sno:    1,
		Date:   "Invalid date",
		Amount: 1500,
	})
	assert.ErrorIs(suite.T(), err, common.ErrInvalidDate)
}

func (suite *CashbookServiceTestSuite) TestBackupEntry_RoundTrip() {
	entry, err := suite.cashbookService.SaveBackupEntry(suite.ctx, dto.BackupEntryRequest{
		Sno:    1,
		Name:   "Ravi Kumar",
		Amount: 2000,
		Area:   "North",
	})
	require.NoError(suite.T(), err)
	assert.NotEmpty(suite.T(), entry.ID)

	entries, err := suite.cashbookService.ListBackupEntries(suite.ctx)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), entries, 1)

	require.NoError(suite.T(), suite.cashbookService.DeleteBackupEntry(suite.ctx, entry.ID))

	entries, err = suite.cashbookService.ListBackupEntries(suite.ctx)
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), entries)
}

func (suite *CashbookServiceTestSuite) TestDeleteBackupEntry_NotFound() {
	err := suite.cashbookService.DeleteBackupEntry(suite.ctx, "missing")
	assert.ErrorIs(suite.T(), err, common.ErrEntryNotFound)
}

func TestCashbookServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CashbookServiceTestSuite))
}
