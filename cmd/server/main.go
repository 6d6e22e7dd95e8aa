package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"princip-gym/internal/adapters/cache"
	"princip-gym/internal/adapters/http/middleware"
	"princip-gym/internal/adapters/http/routes"
	"princip-gym/internal/adapters/persistence/models"
	"princip-gym/internal/config"
	"princip-gym/internal/core/services"
	"princip-gym/internal/pkg/logger"
	"princip-gym/internal/pkg/mailer"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	_ "princip-gym/docs" // Swagger docs
)

// @title Princip Gym API
// @version 1.0
// @description Membership, access control and check-in API for Princip Gym

// @contact.name API Support
// @contact.email support@principgym.rs

// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	zlog, err := logger.Init(cfg.Log)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	// Connect to database
	db, err := config.ConnectDatabase(cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := config.CloseDatabase(db); err != nil {
			zlog.Error("close database", zap.Error(err))
		}
	}()

	if err := models.AutoMigrate(db); err != nil {
		zlog.Fatal("failed to auto migrate", zap.Error(err))
	}
	zlog.Info("database migration completed")

	if err := config.NewSeeder(db, cfg.Admin, zlog).Run(); err != nil {
		zlog.Warn("seeding failed", zap.Error(err))
	}

	store := openStore(cfg, zlog)
	svc := services.NewContainer(db, cfg, store, mailer.New(mailer.Config(cfg.SMTP), zlog), zlog)

	if err := svc.Cron.Start(); err != nil {
		zlog.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer svc.Cron.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Princip Gym API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	})

	middleware.Setup(app, cfg, zlog)
	routes.Setup(app, db, cfg, store, svc, zlog)

	go gracefulShutdown(app, zlog)

	zlog.Info("server starting", zap.String("port", cfg.Port), zap.String("mode", cfg.AppMode))
	if err := app.Listen(":" + cfg.Port); err != nil {
		zlog.Error("server stopped", zap.Error(err))
	}
}

// openStore connects to Redis when configured, otherwise denylisting and reminder dedup are disabled
func openStore(cfg *config.Config, zlog *zap.Logger) cache.Store {
	if cfg.Redis.Addr == "" {
		zlog.Warn("REDIS_ADDR not set, token denylist disabled")
		return cache.NoopStore{}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	store, err := cache.NewRedisStore(ctx, cache.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		zlog.Fatal("failed to connect to redis", zap.Error(err))
	}
	zlog.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
	return store
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App, zlog *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		zlog.Error("error during shutdown", zap.Error(err))
	}
	zlog.Info("server stopped gracefully")
}
