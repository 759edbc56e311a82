package main

import (
	"github.com/gin-gonic/gin"

	"github.com/dentiq/dentiq-api/internal/application/service"
	"github.com/dentiq/dentiq-api/internal/config"
	"github.com/dentiq/dentiq-api/internal/infrastructure/database"
	"github.com/dentiq/dentiq-api/internal/infrastructure/qr"
	"github.com/dentiq/dentiq-api/internal/infrastructure/repository"
	"github.com/dentiq/dentiq-api/internal/logging"
	"github.com/dentiq/dentiq-api/internal/presentation/http/handler"
	"github.com/dentiq/dentiq-api/internal/presentation/http/routes"
	"github.com/dentiq/dentiq-api/pkg/discount"
	"github.com/dentiq/dentiq-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger := logging.Setup(cfg.Log.Format)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Seed the procedure catalog and optional admin account
	if err := database.SeedDefaultData(db); err != nil {
		logger.Warn().Err(err).Msg("failed to seed default data")
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	treatmentRepo := repository.NewTreatmentRepository(db)
	receiptRepo := repository.NewReceiptRepository(db)
	patientRepo := repository.NewPatientRepository(db)
	dentistRepo := repository.NewDentistRepository(db)
	procedureRepo := repository.NewProcedureRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	reportRepo := repository.NewReportRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)
	txManager := repository.NewTxManager(db)

	// Discount code registry
	codes := discount.ParseCodes(cfg.Billing.DiscountCodes)
	if len(codes) == 0 {
		codes = discount.DefaultCodes()
	}
	registry := discount.NewStaticRegistry(codes)

	qrGenerator := qr.New(logger)
	auditor := service.NewAuditor(auditRepo, logger)

	// Initialize services
	authService := service.NewAuthService(dentistRepo, jwtManager, logger)
	treatmentService := service.NewTreatmentService(
		treatmentRepo, receiptRepo, patientRepo, dentistRepo, procedureRepo,
		txManager, auditor, logger,
	)
	receiptService := service.NewReceiptService(
		receiptRepo, treatmentRepo, txManager, registry, qrGenerator, auditor,
		logger, cfg.Billing.TaxRate, cfg.Billing.ReceiptPrefix,
	)
	paymentService := service.NewPaymentService(receiptRepo, treatmentRepo, txManager, auditor, logger)
	reportService := service.NewReportService(reportRepo, logger)
	directoryService := service.NewDirectoryService(patientRepo, procedureRepo)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Treatment: handler.NewTreatmentHandler(treatmentService),
		Receipt:   handler.NewReceiptHandler(receiptService, paymentService),
		Report:    handler.NewReportHandler(reportService),
		Directory: handler.NewDirectoryHandler(directoryService, registry),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		Logger:          logger,
		IdempotencyRepo: idempotencyRepo,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	logger.Info().
		Str("service", cfg.App.Name).
		Str("env", cfg.App.Env).
		Str("port", port).
		Msg("starting server")

	if err := router.Run(":" + port); err != nil {
		logger.Fatal().Err(err).Msg("failed to start server")
	}
}
