package router

import (
	"errors"
	"time"

	"github.com/saitejads/loanbook/config"
	mysqldb "github.com/saitejads/loanbook/infra/mysql"
	"github.com/saitejads/loanbook/internal/domain"
	"github.com/saitejads/loanbook/middleware"
	ratelimiter "github.com/saitejads/loanbook/pkg/rate-limiter"
	"github.com/saitejads/loanbook/pkg/telemetry"
	"github.com/saitejads/loanbook/presenter"

	"github.com/gofiber/contrib/otelfiber/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func NewRouter(
	presenter presenter.Presenter,
	db *gorm.DB,
	tel *telemetry.OpenTelemetry,
	cfg *config.Config,
	limiter *ratelimiter.RateLimiter,
) *fiber.App {

	jwtAuth := middleware.NewJWTAuthMiddleware(cfg.JWT_SECRET_KEY)
	requireAdmin := middleware.RequireRole(domain.AdminRole)

	app := fiber.New(fiber.Config{
		BodyLimit:    10 * 1024 * 1024,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: ErrorCustomHandler(tel.Log),
	})

	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "http://localhost:5000",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, PATCH, OPTIONS",
	}))

	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${ip} ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(otelfiber.Middleware(
		otelfiber.WithTracerProvider(tel.TracerProvider),
		otelfiber.WithPropagators(otel.GetTextMapPropagator()),
	))

	app.Use(middleware.NewTrimMiddleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := mysqldb.Ping(db, c.Context()); err != nil {
			zap.L().Error("Health check failed: database ping error", zap.Error(err))
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "unhealthy",
				"error":  "database connection failed",
			})
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":      "healthy",
			"service":     cfg.SERVICE_NAME,
			"version":     cfg.SERVICE_VERSION,
			"environment": cfg.ENVIRONMENT,
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
		})
	})

	api := app.Group("/api/v1")

	api.Use(limiter.RateLimitMiddleware())

	authAPI := api.Group("/auth")
	{
		authAPI.Post("/register", presenter.UserPresenter.Register)
		authAPI.Post("/login", presenter.UserPresenter.Login)
		authAPI.Post("/update-password", presenter.UserPresenter.UpdatePassword)
		authAPI.Post("/send-otp", presenter.UserPresenter.SendOTP)
		authAPI.Post("/validate-otp", presenter.UserPresenter.ValidateOTP)
	}

	loansAPI := api.Group("/loans", jwtAuth)
	{
		loansAPI.Post("/", presenter.LoanPresenter.CreateLoan)
		loansAPI.Get("/", presenter.LoanPresenter.ListLoans)
		loansAPI.Get("/summary", presenter.LoanPresenter.Summary)
		loansAPI.Put("/:loanId", presenter.LoanPresenter.UpdateLoan)
		loansAPI.Put("/:loanId/renew", presenter.LoanPresenter.RenewLoan)
		loansAPI.Delete("/:loanId", presenter.LoanPresenter.DeleteLoan)
		loansAPI.Post("/:loanId/installments", presenter.LoanPresenter.AddInstallment)
		loansAPI.Put("/:loanId/installments", presenter.LoanPresenter.EditInstallment)
		loansAPI.Get("/:loanId/installments", presenter.LoanPresenter.ListInstallments)
	}

	reportsAPI := api.Group("/reports", jwtAuth)
	{
		reportsAPI.Post("/download", presenter.ReportPresenter.Download)
	}

	cashflowsAPI := api.Group("/cashflows", jwtAuth)
	{
		cashflowsAPI.Post("/", presenter.CashbookPresenter.SaveCashflow)
		cashflowsAPI.Get("/", presenter.CashbookPresenter.ListCashflows)
		cashflowsAPI.Delete("/", presenter.CashbookPresenter.ClearCashflows)
	}

	backupsAPI := api.Group("/backups", jwtAuth)
	{
		backupsAPI.Post("/", presenter.CashbookPresenter.SaveBackupEntry)
		backupsAPI.Get("/", presenter.CashbookPresenter.ListBackupEntries)
		backupsAPI.Delete("/:entryId", presenter.CashbookPresenter.DeleteBackupEntry)
	}

	usersAPI := api.Group("/users", jwtAuth, requireAdmin)
	{
		usersAPI.Get("/", presenter.UserPresenter.List)
		usersAPI.Get("/:userId", presenter.UserPresenter.Get)
		usersAPI.Put("/:userId", presenter.UserPresenter.Update)
		usersAPI.Delete("/:userId", presenter.UserPresenter.Delete)
		usersAPI.Post("/areas", presenter.UserPresenter.AddArea)
	}

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   true,
			"message": "Resource not found",
			"path":    c.Path(),
		})
	})

	return app
}

func ErrorCustomHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal Server Error"

		var e *fiber.Error
		if errors.As(err, &e) {
			code = e.Code
			message = e.Message
		}

		log.Error("Request error occured",
			zap.Error(err),
			zap.String("path", c.Path()),
			zap.String("method", c.Method()),
			zap.Int("status_code", code),
		)

		return c.Status(code).JSON(fiber.Map{
			"error":   true,
			"message": message,
			"code":    code,
		})
	}
}
