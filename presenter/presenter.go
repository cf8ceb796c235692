package presenter

import (
	cashbookhandler "github.com/saitejads/loanbook/internal/handler/cashbook"
	loanhandler "github.com/saitejads/loanbook/internal/handler/loan"
	reporthandler "github.com/saitejads/loanbook/internal/handler/report"
	userhandler "github.com/saitejads/loanbook/internal/handler/user"
	backuprepo "github.com/saitejads/loanbook/internal/repository/backup"
	cashflowrepo "github.com/saitejads/loanbook/internal/repository/cashflow"
	installmentrepo "github.com/saitejads/loanbook/internal/repository/installment"
	loanrepo "github.com/saitejads/loanbook/internal/repository/loan"
	userrepo "github.com/saitejads/loanbook/internal/repository/user"
	cashbooksrv "github.com/saitejads/loanbook/internal/service/cashbook"
	installmentsrv "github.com/saitejads/loanbook/internal/service/installment"
	loansrv "github.com/saitejads/loanbook/internal/service/loan"
	reportsrv "github.com/saitejads/loanbook/internal/service/report"
	usersrv "github.com/saitejads/loanbook/internal/service/user"

	"github.com/saitejads/loanbook/config"
	"github.com/saitejads/loanbook/pkg/mailer"
	"github.com/saitejads/loanbook/pkg/otp"
	"github.com/saitejads/loanbook/pkg/telemetry"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Presenter struct {
	LoanPresenter     *loanhandler.LoanHandler
	ReportPresenter   *reporthandler.ReportHandler
	CashbookPresenter *cashbookhandler.CashbookHandler
	UserPresenter     *userhandler.UserHandler
}

func NewPresenter(
	db *gorm.DB,
	redisClient *redis.Client,
	cfg *config.Config,
	tel *telemetry.OpenTelemetry,
) Presenter {
	// Repository
	loanRepositoryMeter := tel.MeterProvider.Meter("loan-repository-meter")
	loanRepositoryTracer := tel.TracerProvider.Tracer("loan-repository-tracer")
	loanRepository := loanrepo.NewLoanRepository(
		db,
		loanRepositoryMeter,
		loanRepositoryTracer,
		tel.Log,
	)

	installmentRepositoryMeter := tel.MeterProvider.Meter("installment-repository-meter")
	installmentRepositoryTracer := tel.TracerProvider.Tracer("installment-repository-tracer")
	installmentRepository := installmentrepo.NewInstallmentRepository(
		db,
		installmentRepositoryMeter,
		installmentRepositoryTracer,
		tel.Log,
	)

	cashflowRepositoryMeter := tel.MeterProvider.Meter("cashflow-repository-meter")
	cashflowRepositoryTracer := tel.TracerProvider.Tracer("cashflow-repository-tracer")
	cashflowRepository := cashflowrepo.NewCashflowRepository(
		db,
		cashflowRepositoryMeter,
		cashflowRepositoryTracer,
		tel.Log,
	)

	backupRepositoryMeter := tel.MeterProvider.Meter("backup-repository-meter")
	backupRepositoryTracer := tel.TracerProvider.Tracer("backup-repository-tracer")
	backupRepository := backuprepo.NewBackupRepository(
		db,
		backupRepositoryMeter,
		backupRepositoryTracer,
		tel.Log,
	)

	userRepositoryMeter := tel.MeterProvider.Meter("user-repository-meter")
	userRepositoryTracer := tel.TracerProvider.Tracer("user-repository-tracer")
	userRepository := userrepo.NewUserRepository(
		db,
		userRepositoryMeter,
		userRepositoryTracer,
		tel.Log,
	)

	// Service
	loanServiceMeter := tel.MeterProvider.Meter("loan-service-meter")
	loanServiceTracer := tel.TracerProvider.Tracer("loan-service-trace")
	loanService := loansrv.NewLoanService(
		db,
		loanRepository,
		installmentRepository,
		loanServiceMeter,
		loanServiceTracer,
		tel.Log,
	)

	installmentServiceMeter := tel.MeterProvider.Meter("installment-service-meter")
	installmentServiceTracer := tel.TracerProvider.Tracer("installment-service-trace")
	installmentService := installmentsrv.NewInstallmentService(
		db,
		loanRepository,
		installmentRepository,
		installmentServiceMeter,
		installmentServiceTracer,
		tel.Log,
	)

	reportServiceMeter := tel.MeterProvider.Meter("report-service-meter")
	reportServiceTracer := tel.TracerProvider.Tracer("report-service-trace")
	reportService := reportsrv.NewReportService(
		loanRepository,
		installmentRepository,
		reportServiceMeter,
		reportServiceTracer,
		tel.Log,
	)

	cashbookServiceMeter := tel.MeterProvider.Meter("cashbook-service-meter")
	cashbookServiceTracer := tel.TracerProvider.Tracer("cashbook-service-trace")
	cashbookService := cashbooksrv.NewCashbookService(
		cashflowRepository,
		backupRepository,
		cashbookServiceMeter,
		cashbookServiceTracer,
		tel.Log,
	)

	otpStore := otp.NewRedisStore(redisClient)
	mailSender := mailer.NewResendSender(cfg.RESEND_API_KEY, cfg.OTP_FROM_ADDRESS, tel.Log)

	userServiceMeter := tel.MeterProvider.Meter("user-service-meter")
	userServiceTracer := tel.TracerProvider.Tracer("user-service-trace")
	userService := usersrv.NewUserService(
		cfg.JWT_SECRET_KEY,
		userRepository,
		otpStore,
		mailSender,
		userServiceMeter,
		userServiceTracer,
		tel.Log,
	)

	// Handler
	loanHandlerMeter := tel.MeterProvider.Meter("loan-handler-meter")
	loanHandlerTracer := tel.TracerProvider.Tracer("loan-handler-trace")
	loanHandler := loanhandler.NewLoanHandler(
		loanService,
		installmentService,
		loanHandlerMeter,
		loanHandlerTracer,
		tel.Log,
	)

	reportHandlerMeter := tel.MeterProvider.Meter("report-handler-meter")
	reportHandlerTracer := tel.TracerProvider.Tracer("report-handler-trace")
	reportHandler := reporthandler.NewReportHandler(
		reportService,
		reportHandlerMeter,
		reportHandlerTracer,
		tel.Log,
	)

	cashbookHandlerTracer := tel.TracerProvider.Tracer("cashbook-handler-trace")
	cashbookHandler := cashbookhandler.NewCashbookHandler(
		cashbookService,
		cashbookHandlerTracer,
		tel.Log,
	)

	userHandlerTracer := tel.TracerProvider.Tracer("user-handler-trace")
	userHandler := userhandler.NewUserHandler(
		userService,
		userHandlerTracer,
		tel.Log,
	)

	return Presenter{
		LoanPresenter:     loanHandler,
		ReportPresenter:   reportHandler,
		CashbookPresenter: cashbookHandler,
		UserPresenter:     userHandler,
	}
}
