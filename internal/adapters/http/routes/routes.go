package routes

import (
	"time"

	"princip-gym/internal/adapters/cache"
	"princip-gym/internal/adapters/http/handlers"
	"princip-gym/internal/adapters/http/middleware"
	"princip-gym/internal/config"
	"princip-gym/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config, store cache.Store, svc *services.Container, log *zap.Logger) {
	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db, svc.Users, store, cfg.AppMode, log)
	authHandler := handlers.NewAuthHandler(svc.Auth, cfg, log)
	userHandler := handlers.NewUserHandler(svc.User, svc.Checkin, log)
	membershipHandler := handlers.NewMembershipHandler(svc.Membership, log)
	checkinHandler := handlers.NewCheckinHandler(svc.Checkin, log)
	dashboardHandler := handlers.NewDashboardHandler(svc.Dashboard, log)
	cronHandler := handlers.NewCronHandler(svc.Membership, cfg.CronSecret, log)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", middleware.NoCacheHeaders(), healthHandler.HealthCheck)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	auth := middleware.AuthMiddleware(svc.Auth)

	apiV1 := app.Group("/api/v1")
	setupAuthRoutes(apiV1.Group("/auth"), authHandler, auth)
	setupPublicRoutes(apiV1, userHandler, cronHandler)
	setupMemberRoutes(apiV1, userHandler, checkinHandler, dashboardHandler, auth)
	setupAdminRoutes(apiV1.Group("/admin", auth, middleware.AdminOnly()),
		userHandler, membershipHandler, checkinHandler, dashboardHandler)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, auth fiber.Handler) {
	// Public routes
	router.Post("/register", middleware.AuthRateLimiter(), handler.Register)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", middleware.AuthRateLimiter(), handler.RefreshToken)
	router.Post("/logout", handler.Logout)
	router.Get("/verify-email", handler.VerifyEmail)

	// Protected routes
	router.Get("/me", auth, handler.Me)
	router.Post("/logout-all", auth, handler.LogoutAll)
}

// setupPublicRoutes configures routes that need no session
func setupPublicRoutes(router fiber.Router, userHandler *handlers.UserHandler, cronHandler *handlers.CronHandler) {
	router.Get("/gym-qr", middleware.PublicCache(24*time.Hour), userHandler.GetGymQR)

	router.Get("/cron/expire-memberships", cronHandler.ExpireMemberships)
	router.Post("/cron/expire-memberships", cronHandler.ExpireMemberships)
}

// setupMemberRoutes configures routes for any signed-in user
func setupMemberRoutes(
	router fiber.Router,
	userHandler *handlers.UserHandler,
	checkinHandler *handlers.CheckinHandler,
	dashboardHandler *handlers.DashboardHandler,
	auth fiber.Handler,
) {
	profile := router.Group("/profile", auth)
	profile.Get("/", userHandler.GetProfile)
	profile.Get("/qr", middleware.PrivateCache(5*time.Minute), userHandler.GetQRCode)
	profile.Get("/checkins", userHandler.GetCheckins)

	router.Get("/dashboard", auth, dashboardHandler.GetMyDashboard)

	checkin := router.Group("/checkin", auth)
	checkin.Post("/", checkinHandler.SelfCheckIn)
	checkin.Post("/scan", middleware.AdminOnly(), checkinHandler.Scan)
}

// setupAdminRoutes configures admin routes
func setupAdminRoutes(
	router fiber.Router,
	userHandler *handlers.UserHandler,
	membershipHandler *handlers.MembershipHandler,
	checkinHandler *handlers.CheckinHandler,
	dashboardHandler *handlers.DashboardHandler,
) {
	router.Get("/dashboard", dashboardHandler.GetAdminDashboard)

	router.Get("/users", userHandler.ListUsers)
	router.Get("/users/:id", userHandler.GetUser)
	router.Delete("/users/:id", userHandler.DeleteUser)

	router.Post("/users/:id/membership/activate", membershipHandler.Activate)
	router.Post("/users/:id/membership/extend", membershipHandler.Extend)
	router.Post("/users/:id/membership/deactivate", membershipHandler.Deactivate)
	router.Post("/memberships/expire", membershipHandler.ExpireNow)

	router.Get("/checkins", checkinHandler.DayReport)
	router.Post("/checkins", checkinHandler.Manual)
}
