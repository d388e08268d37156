package routes

import (
	"prestamax/internal/adapters/http/handlers"
	"prestamax/internal/adapters/http/middleware"
	"prestamax/internal/adapters/persistence/repositories"
	"prestamax/internal/config"
	"prestamax/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application and returns the
// scheduler so main can control its lifecycle
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) *services.CronService {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	applicationRepo := repositories.NewApplicationRepository(db)
	productRepo := repositories.NewProductRepository(db)
	applicantRepo := repositories.NewApplicantRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg)
	notifyService := services.NewNotificationService()
	applicationService := services.NewApplicationService(applicationRepo, productRepo, applicantRepo, notifyService)
	simulationService := services.NewSimulationService(productRepo)
	catalogService := services.NewCatalogService(productRepo, applicantRepo)
	dashboardService := services.NewDashboardService(db)
	cronService := services.NewCronService(
		applicationService,
		applicationRepo,
		refreshTokenRepo,
		notifyService,
		cfg.Cron.DraftExpiryDays,
		cfg.Cron.DocsReminderDays,
	)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	applicationHandler := handlers.NewApplicationHandler(applicationService)
	simulationHandler := handlers.NewSimulationHandler(simulationService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	setupAPIV1Routes(apiV1, healthHandler, authHandler, applicationHandler,
		simulationHandler, catalogHandler, dashboardHandler, cfg)

	return cronService
}

// setupAPIV1Routes configures API v1 routes
func setupAPIV1Routes(
	router fiber.Router,
	healthHandler *handlers.HealthHandler,
	authHandler *handlers.AuthHandler,
	applicationHandler *handlers.ApplicationHandler,
	simulationHandler *handlers.SimulationHandler,
	catalogHandler *handlers.CatalogHandler,
	dashboardHandler *handlers.DashboardHandler,
	cfg *config.Config,
) {
	// API Info
	router.Get("/", healthHandler.APIInfo)

	// Auth routes (staff)
	authRoutes := router.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, cfg)

	// Public routes (tenant resolved from X-Tenant-ID header)
	publicRoutes := router.Group("/public")
	publicRoutes.Use(middleware.TenantMiddleware())
	setupPublicRoutes(publicRoutes, applicationHandler, simulationHandler, catalogHandler)

	// Staff application routes (Analyst/Supervisor/Admin)
	staffRoutes := router.Group("/applications")
	staffRoutes.Use(middleware.AuthMiddleware(cfg))
	setupStaffApplicationRoutes(staffRoutes, applicationHandler)

	// Catalog management routes (Admin only)
	catalogRoutes := router.Group("/catalog")
	catalogRoutes.Use(middleware.AuthMiddleware(cfg))
	catalogRoutes.Use(middleware.AdminOnly())
	setupCatalogRoutes(catalogRoutes, catalogHandler)

	// Applicant lookup routes (staff)
	applicantRoutes := router.Group("/applicants")
	applicantRoutes.Use(middleware.AuthMiddleware(cfg))
	applicantRoutes.Get("/", catalogHandler.SearchApplicants)
	applicantRoutes.Get("/:id", catalogHandler.GetApplicant)

	// Dashboard routes (staff)
	dashboardRoutes := router.Group("/dashboard")
	dashboardRoutes.Use(middleware.AuthMiddleware(cfg))
	setupDashboardRoutes(dashboardRoutes, dashboardHandler)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes (rate limited)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", middleware.AuthRateLimiter(), handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
	router.Post("/logout-all", middleware.AuthMiddleware(cfg), handler.LogoutAll)

	// Staff registration (Admin only)
	router.Post("/register", middleware.AuthMiddleware(cfg), middleware.AdminOnly(), handler.Register)
}

// setupPublicRoutes configures applicant-facing routes
func setupPublicRoutes(
	router fiber.Router,
	applicationHandler *handlers.ApplicationHandler,
	simulationHandler *handlers.SimulationHandler,
	catalogHandler *handlers.CatalogHandler,
) {
	// Simulations (rate limited)
	router.Post("/simulations", middleware.SimulationRateLimiter(), simulationHandler.Simulate)
	router.Get("/products", simulationHandler.ListProducts)
	router.Get("/products/:id", simulationHandler.GetProduct)

	// Applicants
	router.Post("/applicants", catalogHandler.CreateApplicant)

	// Application lifecycle driven by the applicant
	router.Post("/applications", applicationHandler.Create)
	router.Get("/applications/folio/:folio", applicationHandler.GetByFolio)
	router.Post("/applications/:id/submit", applicationHandler.Submit)
	router.Post("/applications/:id/cancel", applicationHandler.Cancel)
	router.Post("/applications/:id/counter-offer/respond", applicationHandler.RespondToCounterOffer)
}

// setupStaffApplicationRoutes configures workflow routes for analysts
func setupStaffApplicationRoutes(router fiber.Router, handler *handlers.ApplicationHandler) {
	router.Get("/", handler.List)
	router.Get("/:id", handler.Get)
	router.Get("/:id/history", handler.GetHistory)
	router.Post("/:id/transition", handler.Transition)
	router.Post("/:id/counter-offer", handler.SendCounterOffer)

	// Decisions (Supervisor/Admin only)
	decisionRoutes := router.Group("")
	decisionRoutes.Use(middleware.SupervisorOrAdmin())
	decisionRoutes.Post("/:id/approve", handler.Approve)
	decisionRoutes.Post("/:id/reject", handler.Reject)
	decisionRoutes.Post("/:id/sync", handler.MarkSynced)
	decisionRoutes.Post("/:id/disburse", handler.Disburse)
}

// setupCatalogRoutes configures product management routes (Admin only)
func setupCatalogRoutes(router fiber.Router, handler *handlers.CatalogHandler) {
	router.Post("/products", handler.CreateProduct)
	router.Post("/products/:id/deactivate", handler.DeactivateProduct)
}

// setupDashboardRoutes configures dashboard routes
func setupDashboardRoutes(router fiber.Router, handler *handlers.DashboardHandler) {
	// Pipeline overview (all staff)
	router.Get("/", handler.GetDashboard)

	// Analyst workload (Supervisor/Admin only)
	router.Get("/workload", middleware.SupervisorOrAdmin(), handler.GetAnalystWorkload)
}
