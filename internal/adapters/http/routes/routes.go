package routes

import (
	"time"

	"goldloan-ledger/internal/adapters/http/handlers"
	"goldloan-ledger/internal/adapters/http/middleware"
	"goldloan-ledger/internal/adapters/persistence/repositories"
	"goldloan-ledger/internal/config"
	"goldloan-ledger/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Services holds the wired application services shared by routes and
// background jobs
type Services struct {
	Auth     *services.AuthService
	Repledge *services.RepledgeService
	Digest   *services.DigestService

	bankRepo   repositories.BankRepository
	branchRepo repositories.BranchRepository
}

// NewServices builds repositories and services on db
func NewServices(db *gorm.DB, cfg *config.Config, zl *zap.Logger) (*Services, error) {
	strategy, err := services.ParseStrategy(cfg.Search.Strategy, services.StrategyRemote)
	if err != nil {
		return nil, err
	}

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	bankRepo := repositories.NewBankRepository(db)
	branchRepo := repositories.NewBranchRepository(db)
	repledgeRepo := repositories.NewRepledgeRepository(db)

	// Both strategies read the same table
	remote := services.NewRemoteSearchAdapter(repledgeRepo, cfg.Now)
	local := services.NewLocalFilterAdapter(repledgeRepo, cfg.Now)

	return &Services{
		Auth: services.NewAuthService(userRepo, refreshTokenRepo, cfg, zl.Named("auth")),
		Repledge: services.NewRepledgeService(
			remote,
			local,
			branchRepo,
			strategy,
			cfg.Search.Timeout,
			zl.Named("repledge"),
		),
		Digest:     services.NewDigestService(branchRepo, local, cfg.Now, zl.Named("digest")),
		bankRepo:   bankRepo,
		branchRepo: branchRepo,
	}, nil
}

// Setup configures all routes for the application
func Setup(app *fiber.App, cfg *config.Config, svc *Services, zl *zap.Logger) {
	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg, nil)
	authHandler := handlers.NewAuthHandler(svc.Auth, cfg)
	repledgeHandler := handlers.NewRepledgeHandler(svc.Repledge, svc.Digest, cfg.Search.Location, zl.Named("http"))
	masterHandler := handlers.NewMasterHandler(svc.bankRepo, svc.branchRepo)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	setupAPIV1Routes(apiV1, authHandler, repledgeHandler, masterHandler, cfg)
}

// setupAPIV1Routes configures API v1 routes
func setupAPIV1Routes(
	router fiber.Router,
	authHandler *handlers.AuthHandler,
	repledgeHandler *handlers.RepledgeHandler,
	masterHandler *handlers.MasterHandler,
	cfg *config.Config,
) {
	// Auth routes (public)
	authRoutes := router.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, cfg)

	// Repledge routes (authenticated, scoped by role and branch)
	repledgeRoutes := router.Group("/repledges")
	repledgeRoutes.Use(middleware.AuthMiddleware(cfg))
	setupRepledgeRoutes(repledgeRoutes, repledgeHandler)

	// Master routes for the filter dropdowns
	masterRoutes := router.Group("/master")
	masterRoutes.Use(middleware.AuthMiddleware(cfg))
	setupMasterRoutes(masterRoutes, masterHandler)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
}

// setupRepledgeRoutes configures repledge listing routes
func setupRepledgeRoutes(router fiber.Router, handler *handlers.RepledgeHandler) {
	router.Get("/", middleware.NoCacheHeaders(), handler.List)

	// Admin only
	router.Get("/digest", middleware.AdminOnly(), middleware.NoCacheHeaders(), handler.Digest)
}

// setupMasterRoutes configures master data routes
func setupMasterRoutes(router fiber.Router, handler *handlers.MasterHandler) {
	router.Get("/banks", middleware.PrivateCacheHeaders(10*time.Minute), handler.ListBanks)

	// Admin only
	router.Get("/branches", middleware.AdminOnly(), handler.ListBranches)
}
