package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/dentiq/dentiq-api/internal/config"
	domainRepo "github.com/dentiq/dentiq-api/internal/domain/repository"
	"github.com/dentiq/dentiq-api/internal/presentation/http/handler"
	"github.com/dentiq/dentiq-api/internal/presentation/http/middleware"
	"github.com/dentiq/dentiq-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth      *handler.AuthHandler
	Treatment *handler.TreatmentHandler
	Receipt   *handler.ReceiptHandler
	Report    *handler.ReportHandler
	Directory *handler.DirectoryHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	Logger          zerolog.Logger
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		rateLimiter := middleware.NewUserRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerTreatmentRoutes(protected, h)
		registerReceiptRoutes(protected, h, deps)
		registerDirectoryRoutes(protected, h)
		registerReportRoutes(protected, h)
	}

	return router
}

func registerTreatmentRoutes(protected *gin.RouterGroup, h *Handlers) {
	treatments := protected.Group("/treatments")
	{
		treatments.GET("", h.Treatment.List)
		treatments.POST("", h.Treatment.Create)
		treatments.GET("/:id", h.Treatment.Get)
		treatments.POST("/:id/items", h.Treatment.AddItem)
		treatments.DELETE("/:id/items/:item_id", h.Treatment.DeleteItem)
		treatments.PUT("/:id/items/:item_id/status", h.Treatment.UpdateItemStatus)
		treatments.PUT("/:id/discount", h.Treatment.SetDiscount)
		treatments.POST("/:id/recalculate", h.Treatment.Recalculate)
		treatments.POST("/:id/receipt", h.Receipt.Generate)
	}
}

func registerReceiptRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	receipts := protected.Group("/receipts")
	{
		receipts.GET("", h.Receipt.List)
		receipts.GET("/:id", h.Receipt.Get)
		receipts.GET("/number/:number", h.Receipt.GetByNumber)
		// Payments replay through idempotency keys so a retried POST cannot
		// apply the same payment twice
		receipts.POST("/:id/payments", middleware.IdempotencyRequired(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.Receipt.Pay)
	}
}

func registerDirectoryRoutes(protected *gin.RouterGroup, h *Handlers) {
	patients := protected.Group("/patients")
	{
		patients.GET("", h.Directory.ListPatients)
		patients.GET("/:id", h.Directory.GetPatient)
	}

	procedures := protected.Group("/procedures")
	{
		procedures.GET("", h.Directory.ListProcedures)
		procedures.GET("/:id", h.Directory.GetProcedure)
	}

	protected.GET("/discount-codes", h.Directory.ListDiscountCodes)
}

func registerReportRoutes(protected *gin.RouterGroup, h *Handlers) {
	reports := protected.Group("/reports")
	reports.Use(middleware.RequireRole("admin", "dentist", "orthodontist"))
	{
		reports.GET("/billing-summary", h.Report.BillingSummary)
	}
}
