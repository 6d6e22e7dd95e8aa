package handlers

import (
	"princip-gym/internal/adapters/http/middleware"
	"princip-gym/internal/core/services"
	"princip-gym/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// MembershipHandler handles admin membership mutations
type MembershipHandler struct {
	membershipService *services.MembershipService
	log               *zap.Logger
}

// NewMembershipHandler creates a new membership handler
func NewMembershipHandler(membershipService *services.MembershipService, log *zap.Logger) *MembershipHandler {
	return &MembershipHandler{
		membershipService: membershipService,
		log:               log,
	}
}

// Activate starts a membership from now
// @Summary Activate membership
// @Description Exactly one of months or days. Plan, type and price default from the duration.
// @Tags Memberships
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param body body services.ActivateInput true "Duration and payment"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/users/{id}/membership/activate [post]
func (h *MembershipHandler) Activate(c *fiber.Ctx) error {
	id, ok := middleware.Identity(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	userID, ok := userIDParam(c)
	if !ok {
		return response.BadRequest(c, "Invalid user ID")
	}

	var req services.ActivateInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	status, err := h.membershipService.Activate(c.UserContext(), id, userID, &req)
	if err != nil {
		return respondError(c, h.log, err, "Failed to activate membership")
	}

	return response.Success(c, "Membership activated", status)
}

// Extend pushes the expiry forward
// @Summary Extend membership
// @Description Adds calendar months to the later of now and the current expiry
// @Tags Memberships
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param body body services.ExtendInput true "Months and payment"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/users/{id}/membership/extend [post]
func (h *MembershipHandler) Extend(c *fiber.Ctx) error {
	id, ok := middleware.Identity(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	userID, ok := userIDParam(c)
	if !ok {
		return response.BadRequest(c, "Invalid user ID")
	}

	var req services.ExtendInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	status, err := h.membershipService.Extend(c.UserContext(), id, userID, &req)
	if err != nil {
		return respondError(c, h.log, err, "Failed to extend membership")
	}

	return response.Success(c, "Membership extended", status)
}

// Deactivate switches a membership off
// @Summary Deactivate membership
// @Tags Memberships
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/users/{id}/membership/deactivate [post]
func (h *MembershipHandler) Deactivate(c *fiber.Ctx) error {
	id, ok := middleware.Identity(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	userID, ok := userIDParam(c)
	if !ok {
		return response.BadRequest(c, "Invalid user ID")
	}

	status, err := h.membershipService.Deactivate(c.UserContext(), id, userID)
	if err != nil {
		return respondError(c, h.log, err, "Failed to deactivate membership")
	}

	return response.Success(c, "Membership deactivated", status)
}

// ExpireNow runs the expiry sweep
// @Summary Expire due memberships
// @Description Deactivates every active membership past its expiry
// @Tags Memberships
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /admin/memberships/expire [post]
func (h *MembershipHandler) ExpireNow(c *fiber.Ctx) error {
	id, ok := middleware.Identity(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	result, err := h.membershipService.ExpireNow(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err, "Failed to expire memberships")
	}

	return response.Success(c, "Expired memberships deactivated", result)
}
