package handlers

import (
	"crypto/subtle"

	"princip-gym/internal/adapters/http/middleware"
	"princip-gym/internal/core/services"
	"princip-gym/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CronHandler exposes the expiry sweep to external schedulers
type CronHandler struct {
	sweeper services.Sweeper
	secret  string
	log     *zap.Logger
}

// NewCronHandler creates a new cron handler. An empty secret leaves the endpoint open.
func NewCronHandler(sweeper services.Sweeper, secret string, log *zap.Logger) *CronHandler {
	return &CronHandler{
		sweeper: sweeper,
		secret:  secret,
		log:     log,
	}
}

// ExpireMemberships runs one expiry sweep
// @Summary Expire due memberships
// @Description Called by an external scheduler with the CRON_SECRET bearer token
// @Tags Cron
// @Produce json
// @Param Authorization header string true "Bearer CRON_SECRET"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /cron/expire-memberships [post]
func (h *CronHandler) ExpireMemberships(c *fiber.Ctx) error {
	if h.secret != "" {
		token := middleware.BearerToken(c)
		if subtle.ConstantTimeCompare([]byte(token), []byte(h.secret)) != 1 {
			return response.Unauthorized(c, "Unauthorized")
		}
	}

	result, err := h.sweeper.BulkExpireSweep(c.UserContext(), services.TriggerEndpoint)
	if err != nil {
		return respondError(c, h.log, err, "Failed to expire memberships")
	}

	return response.Success(c, "Expired memberships deactivated", result)
}
