package handlers

import (
	"princip-gym/internal/adapters/http/middleware"
	"princip-gym/internal/core/services"
	"princip-gym/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// DashboardHandler handles dashboard endpoints
type DashboardHandler struct {
	dashboardService *services.DashboardService
	log              *zap.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService, log *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		log:              log,
	}
}

// GetAdminDashboard handles admin dashboard
// @Summary Admin dashboard
// @Description Member, membership, visit and revenue totals
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /admin/dashboard [get]
func (h *DashboardHandler) GetAdminDashboard(c *fiber.Ctx) error {
	id, ok := middleware.Identity(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	data, err := h.dashboardService.GetAdminDashboard(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err, "Failed to get dashboard data")
	}

	return response.Success(c, "Dashboard data retrieved", data)
}

// GetMyDashboard handles the member's own dashboard
// @Summary Member dashboard
// @Description Membership status and visit statistics of the caller
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /dashboard [get]
func (h *DashboardHandler) GetMyDashboard(c *fiber.Ctx) error {
	id, ok := middleware.Identity(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	data, err := h.dashboardService.GetMemberDashboard(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err, "Failed to get dashboard data")
	}

	return response.Success(c, "Dashboard data retrieved", data)
}
