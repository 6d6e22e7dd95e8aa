package handlers

import (
	"errors"

	"princip-gym/internal/adapters/http/middleware"
	"princip-gym/internal/core/domain"
	"princip-gym/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// respondError maps a service error onto the response envelope.
// Unexpected errors are logged and answered with fallback.
func respondError(c *fiber.Ctx, log *zap.Logger, err error, fallback string) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		return response.Unauthorized(c, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		return response.Forbidden(c, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return response.NotFound(c, err.Error())
	case errors.Is(err, domain.ErrConflict):
		return response.Conflict(c, err.Error())
	}

	log.Error(fallback,
		zap.String("request_id", middleware.RequestID(c)),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return response.InternalServerError(c, fallback)
}
