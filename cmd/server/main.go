package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/selfora/backend/internal/apps"
	"github.com/selfora/backend/internal/apps/content"
	"github.com/selfora/backend/internal/apps/documents"
	"github.com/selfora/backend/internal/apps/feedback"
	"github.com/selfora/backend/internal/apps/pages"
	"github.com/selfora/backend/internal/apps/streaks"
	"github.com/selfora/backend/internal/apps/templates"
	"github.com/selfora/backend/internal/apps/uploads"
	"github.com/selfora/backend/internal/config"
	"github.com/selfora/backend/internal/database"
	"github.com/selfora/backend/internal/dto"
	"github.com/selfora/backend/internal/handlers"
	"github.com/selfora/backend/internal/jobs"
	"github.com/selfora/backend/internal/logging"
	"github.com/selfora/backend/internal/middleware"
	"github.com/selfora/backend/internal/routes"
	"github.com/selfora/backend/internal/services"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	// Migrate shared models
	if err := database.MigrateShared(); err != nil {
		slog.Error("shared migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.AttachDatabase(database.DB)

	// Retention jobs (system logs, refresh tokens)
	scheduler, err := jobs.StartRetention(database.DB, cfg.LogRetentionDays)
	if err != nil {
		slog.Error("failed to start retention jobs", "error", err)
		os.Exit(1)
	}

	// Optional backends
	rdb := connectRedis(cfg)
	docStore, mongoStore := connectMongo(cfg)
	storage, err := uploads.NewS3Storage(context.Background(), cfg)
	if err != nil {
		slog.Warn("object storage disabled", "error", err)
	}

	// Streak engine shared by the streaks plugin, pages and the login flow
	streakService := streaks.NewService(database.DB, cfg.Location(),
		streaks.NewLeaderboardCache(rdb, cfg.LeaderboardCacheTTL))

	plugins := []apps.Plugin{
		streaks.New(streakService),
		pages.New(streakService),
		templates.New(),
		content.New(),
		feedback.New(),
		documents.New(docStore),
		uploads.New(storage),
	}

	// Migrate plugin models
	for _, p := range plugins {
		if models := p.Models(); len(models) > 0 {
			if err := database.MigrateModels(models); err != nil {
				slog.Error("plugin migration failed", "plugin", p.ID(), "error", err)
				os.Exit(1)
			}
			slog.Info("plugin migrated", "plugin", p.ID(), "models", len(models))
		}
	}

	// Services
	authService := services.NewAuthService(database.DB, cfg, apps.Purgers(plugins))
	authService.OnLogin(func(ctx context.Context, userID uuid.UUID) error {
		_, err := streakService.RecordActivity(ctx, userID, streaks.DailyLogin)
		return err
	})

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	adminUsersHandler := handlers.NewAdminUsersHandler(authService)
	healthHandler := handlers.NewHealthHandler(len(plugins))

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app (body limit leaves room for 10MB uploads plus multipart framing)
	app := fiber.New(fiber.Config{
		BodyLimit:    12 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.Metrics())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${locals:requestid}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	// Routes
	routes.Setup(app, cfg, database.DB, authHandler, adminUsersHandler, healthHandler, plugins)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "plugins", len(plugins))
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if err := scheduler.Shutdown(); err != nil {
		slog.Error("scheduler shutdown error", "error", err)
	}
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if mongoStore != nil {
		if err := mongoStore.Close(ctx); err != nil {
			slog.Error("mongo close error", "error", err)
		}
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			slog.Error("redis close error", "error", err)
		}
	}

	// Close database connections
	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

// connectRedis returns nil when REDIS_ADDR is unset or unreachable; the
// leaderboard then reads straight from the database.
func connectRedis(cfg *config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Warn("redis unavailable, leaderboard cache disabled", "addr", cfg.RedisAddr, "error", err)
		_ = rdb.Close()
		return nil
	}
	slog.Info("redis connected", "addr", cfg.RedisAddr)
	return rdb
}

// connectMongo returns a nil Store when MONGO_URI is unset; the document
// routes then answer 503. The store dials on first use.
func connectMongo(cfg *config.Config) (documents.Store, *documents.MongoStore) {
	if cfg.MongoURI == "" {
		return nil, nil
	}
	store := documents.NewMongoStore(cfg.MongoURI, cfg.MongoDB)
	return store, store
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		requestID, _ := c.Locals("requestid").(string)
		slog.Error("unhandled server error",
			"method", c.Method(),
			"path", c.Path(),
			"request_id", requestID,
			"error", err.Error(),
		)
		message = "Internal server error"
	}

	return c.Status(code).JSON(dto.ErrorResponse{Error: true, Message: message})
}
