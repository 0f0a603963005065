package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/selfora/backend/internal/apps"
	"github.com/selfora/backend/internal/config"
	"github.com/selfora/backend/internal/handlers"
	"github.com/selfora/backend/internal/middleware"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	adminUsersHandler *handlers.AdminUsersHandler,
	healthHandler *handlers.HealthHandler,
	plugins []apps.Plugin,
) {
	// Prometheus scrape endpoint (outside /api, not rate limited)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Public plugin routes are mounted before the /p and /admin groups so the
	// JWT middleware of those groups never sees them.
	for _, p := range plugins {
		if pp, ok := p.(apps.PublicPlugin); ok {
			pp.RegisterPublicRoutes(api, db, cfg)
		}
	}

	// Auth (public)
	// Auth-specific rate limit: 10 req/min per IP (stricter)
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	// Protected auth routes - apply middleware to individual routes
	// This prevents JWT middleware from affecting public routes
	auth.Post("/logout", middleware.JWTProtected(cfg), authHandler.Logout)
	auth.Get("/me", middleware.JWTProtected(cfg), authHandler.Me)
	auth.Delete("/account", middleware.JWTProtected(cfg), authHandler.DeleteAccount)

	// Admin panel (protected + staff required)
	staff := middleware.NewStaffChecker(db, cfg)
	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.AdminRequired(staff))
	admin.Get("/users", adminUsersHandler.List)
	admin.Get("/users/:id", adminUsersHandler.Get)
	admin.Put("/users/:id", adminUsersHandler.Update)
	admin.Delete("/users/:id", adminUsersHandler.Delete)

	// Plugin routes - create a protected group for plugins only
	protected := api.Group("/p", middleware.JWTProtected(cfg))
	for _, p := range plugins {
		p.RegisterRoutes(protected, db, cfg)
		// If the plugin also implements AdminPlugin, register admin routes
		if ap, ok := p.(apps.AdminPlugin); ok {
			ap.RegisterAdminRoutes(admin, db, cfg)
		}
	}
}
