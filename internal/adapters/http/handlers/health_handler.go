package handlers

import (
	"context"
	"time"

	"princip-gym/internal/adapters/cache"
	"princip-gym/internal/adapters/persistence/repositories"
	"princip-gym/internal/config"
	"princip-gym/internal/core/domain"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const healthTimeout = 3 * time.Second

// HealthHandler handles health check endpoints
type HealthHandler struct {
	db       *gorm.DB
	userRepo repositories.UserRepository
	store    cache.Store
	mode     string
	log      *zap.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *gorm.DB, userRepo repositories.UserRepository, store cache.Store, mode string, log *zap.Logger) *HealthHandler {
	return &HealthHandler{
		db:       db,
		userRepo: userRepo,
		store:    store,
		mode:     mode,
		log:      log,
	}
}

// Root handles root endpoint
// @Summary Root endpoint
// @Description Returns API status
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "running",
		"message": "Princip Gym API v1 is running",
		"mode":    h.mode,
		"docs":    "/swagger/index.html",
	})
}

// HealthCheck handles health check
// @Summary Health check
// @Description Database and cache health plus user counts
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
	defer cancel()

	status := fiber.StatusOK
	dbStatus := "healthy"
	if err := config.HealthCheck(ctx, h.db); err != nil {
		h.log.Warn("database health check failed", zap.Error(err))
		dbStatus = "unhealthy"
		status = fiber.StatusServiceUnavailable
	}

	cacheStatus := "healthy"
	if err := h.store.Ping(ctx); err != nil {
		h.log.Warn("cache health check failed", zap.Error(err))
		cacheStatus = "unhealthy"
	}

	body := fiber.Map{
		"status": "ok",
		"checks": fiber.Map{
			"api":      "healthy",
			"database": dbStatus,
			"cache":    cacheStatus,
		},
	}
	if status != fiber.StatusOK {
		body["status"] = "degraded"
		return c.Status(status).JSON(body)
	}

	users, err := h.userRepo.Count(ctx)
	if err != nil {
		h.log.Warn("count users failed", zap.Error(err))
	}
	admins, err := h.userRepo.CountByRole(ctx, string(domain.RoleAdmin))
	if err != nil {
		h.log.Warn("count admins failed", zap.Error(err))
	}
	body["users"] = fiber.Map{"total": users, "admins": admins}

	return c.JSON(body)
}
