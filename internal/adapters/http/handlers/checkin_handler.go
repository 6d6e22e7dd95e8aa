package handlers

import (
	"time"

	"princip-gym/internal/adapters/http/middleware"
	"princip-gym/internal/core/domain"
	"princip-gym/internal/core/services"
	"princip-gym/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CheckinHandler handles admission endpoints
type CheckinHandler struct {
	checkinService *services.CheckinService
	log            *zap.Logger
}

// NewCheckinHandler creates a new check-in handler
func NewCheckinHandler(checkinService *services.CheckinService, log *zap.Logger) *CheckinHandler {
	return &CheckinHandler{
		checkinService: checkinService,
		log:            log,
	}
}

// ScanRequest carries the payload read from a member's QR code
type ScanRequest struct {
	Payload string `json:"payload"`
}

// ManualCheckinRequest identifies the member admitted at the desk
type ManualCheckinRequest struct {
	UserID string `json:"user_id"`
}

// SelfCheckIn admits the caller
// @Summary Self check-in
// @Description Admits the caller when the membership is authorized
// @Tags Check-in
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /checkin [post]
func (h *CheckinHandler) SelfCheckIn(c *fiber.Ctx) error {
	id, ok := middleware.Identity(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	result, err := h.checkinService.SelfCheckIn(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err, "Failed to check in")
	}

	return checkinResult(c, result)
}

// Scan admits the member whose QR code was scanned
// @Summary Scanner check-in
// @Tags Check-in
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ScanRequest true "QR payload"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /checkin/scan [post]
func (h *CheckinHandler) Scan(c *fiber.Ctx) error {
	id, ok := middleware.Identity(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req ScanRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.checkinService.ScanCheckIn(c.UserContext(), id, req.Payload)
	if err != nil {
		return respondError(c, h.log, err, "Failed to check in")
	}

	return checkinResult(c, result)
}

// Manual admits a member by id (Admin only)
// @Summary Manual check-in
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ManualCheckinRequest true "Member"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/checkins [post]
func (h *CheckinHandler) Manual(c *fiber.Ctx) error {
	id, ok := middleware.Identity(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req ManualCheckinRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.UserID == "" {
		return response.BadRequest(c, "user_id is required")
	}

	result, err := h.checkinService.ManualCheckIn(c.UserContext(), id, req.UserID)
	if err != nil {
		return respondError(c, h.log, err, "Failed to check in")
	}

	return checkinResult(c, result)
}

// DayReport lists the visits of one day (Admin only)
// @Summary Daily check-ins
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param date query string false "Day as YYYY-MM-DD, defaults to today (UTC)"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /admin/checkins [get]
func (h *CheckinHandler) DayReport(c *fiber.Ctx) error {
	id, ok := middleware.Identity(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	day := time.Now().UTC()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return response.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		}
		day = parsed
	}

	report, err := h.checkinService.DayReport(c.UserContext(), id, day)
	if err != nil {
		return respondError(c, h.log, err, "Failed to get check-ins")
	}

	return response.Success(c, "Check-ins retrieved successfully", report)
}

// checkinResult answers 200 on admission and 403 with the reason on denial
func checkinResult(c *fiber.Ctx, result *domain.CheckinResult) error {
	if !result.Admitted {
		return response.Refused(c, fiber.StatusForbidden, result.Reason, result)
	}
	return response.Success(c, "Check-in successful", result)
}
