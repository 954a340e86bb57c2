package routes

import (
	"caoguia-api/internal/adapters/http/handlers"
	"caoguia-api/internal/adapters/http/middleware"
	"caoguia-api/internal/adapters/persistence/repositories"
	"caoguia-api/internal/config"
	"caoguia-api/internal/core/domain"
	"caoguia-api/internal/core/services"
	"caoguia-api/internal/pkg/jwt"
	"caoguia-api/internal/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Deps carries the process-wide collaborators the routes are built from
type Deps struct {
	DB          *gorm.DB
	Config      *config.Config
	Log         *logrus.Logger
	AuthMetrics *metrics.Auth
}

// Setup configures all routes for the application
func Setup(app *fiber.App, deps Deps) {
	db, cfg, log, m := deps.DB, deps.Config, deps.Log, deps.AuthMetrics

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	institutionRepo := repositories.NewInstitutionRepository(db)
	guideDogRepo := repositories.NewGuideDogRepository(db)
	cardRepo := repositories.NewCardRepository(db)

	// Token codec shared by login and identity resolution
	codec := jwt.NewCodec(cfg.JWT.Secret, cfg.JWT.TokenTTL)

	// Initialize services
	authService := services.NewAuthService(userRepo, institutionRepo, codec, log, m)
	identityService := services.NewIdentityService(userRepo, institutionRepo, codec, log, m)
	userService := services.NewUserService(userRepo, log)
	institutionService := services.NewInstitutionService(institutionRepo)
	validationService := services.NewValidationService(userRepo, institutionRepo, log)
	guideDogService := services.NewGuideDogService(guideDogRepo, institutionRepo, log)
	cardService := services.NewCardService(cardRepo, guideDogRepo, log)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db, cfg)
	authHandler := handlers.NewAuthHandler(authService, log)
	userHandler := handlers.NewUserHandler(userService, log)
	institutionHandler := handlers.NewInstitutionHandler(institutionService, log)
	validationHandler := handlers.NewValidationHandler(validationService, log)
	guideDogHandler := handlers.NewGuideDogHandler(guideDogService, log)
	cardHandler := handlers.NewCardHandler(cardService, log)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Prometheus metrics
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	auth := middleware.AuthMiddleware(identityService)

	// Auth routes (public)
	authRoutes := apiV1.Group("/auth", middleware.NoCacheHeaders())
	setupAuthRoutes(authRoutes, authHandler)

	// User account routes
	userRoutes := apiV1.Group("/users", auth)
	setupUserRoutes(userRoutes, userHandler, m)

	// Institution routes
	institutionRoutes := apiV1.Group("/institutions", auth)
	setupInstitutionRoutes(institutionRoutes, institutionHandler, m)

	// Approval workflow (Admin only)
	validationRoutes := apiV1.Group("/validations", auth, middleware.AdminOnly(m))
	setupValidationRoutes(validationRoutes, validationHandler)

	// Guide dog routes
	guideDogRoutes := apiV1.Group("/guide-dogs", auth)
	setupGuideDogRoutes(guideDogRoutes, guideDogHandler, m)

	// Guide dog identity cards
	cardRoutes := apiV1.Group("/cards", auth)
	setupCardRoutes(cardRoutes, cardHandler, m)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, h *handlers.AuthHandler) {
	router.Post("/login", middleware.AuthRateLimiter(), h.Login)
	router.Post("/login-institution", middleware.AuthRateLimiter(), h.LoginInstitution)
	router.Post("/register", middleware.AuthRateLimiter(), h.Register)
	router.Post("/register-institution", middleware.AuthRateLimiter(), h.RegisterInstitution)
}

// setupUserRoutes configures user account routes
func setupUserRoutes(router fiber.Router, h *handlers.UserHandler, m *metrics.Auth) {
	router.Get("/me", middleware.NoCacheHeaders(), h.GetMe)
	router.Get("/:id", h.GetByID)
	router.Put("/:id", middleware.SelfOrAdmin("id", m), h.Update)
	router.Delete("/:id", middleware.SelfOrAdmin("id", m), h.Delete)
}

// setupInstitutionRoutes configures institution routes
func setupInstitutionRoutes(router fiber.Router, h *handlers.InstitutionHandler, m *metrics.Auth) {
	institutionOnly := middleware.RoleIn(m, domain.RoleInstitution)

	router.Get("/search", h.SearchByCNPJ)
	router.Get("/me", institutionOnly, middleware.NoCacheHeaders(), h.GetMe)
	router.Put("/me", institutionOnly, h.UpdateMe)
}

// setupValidationRoutes configures approval workflow routes
func setupValidationRoutes(router fiber.Router, h *handlers.ValidationHandler) {
	router.Get("/:kind", h.List)
	router.Put("/:kind/:id", h.SetStatus)
}

// setupGuideDogRoutes configures guide dog routes
func setupGuideDogRoutes(router fiber.Router, h *handlers.GuideDogHandler, m *metrics.Auth) {
	owners := middleware.RoleIn(m, domain.RolePCD, domain.RoleInstitution)

	router.Post("/", owners, h.Create)
	router.Get("/mine", h.ListMine)
	router.Get("/:id", h.GetMine)
	router.Put("/:id", owners, h.Update)
	router.Delete("/:id", owners, h.Delete)
}

// setupCardRoutes configures identity card routes
func setupCardRoutes(router fiber.Router, h *handlers.CardHandler, m *metrics.Auth) {
	router.Post("/", middleware.RoleIn(m, domain.RolePCD), h.Generate)
	router.Get("/dog/:id", h.GetByDog)
	router.Get("/code/:code", h.GetByCode)
}
