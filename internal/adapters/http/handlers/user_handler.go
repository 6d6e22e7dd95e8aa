package handlers

import (
	"princip-gym/internal/adapters/http/middleware"
	"princip-gym/internal/core/services"
	"princip-gym/internal/pkg/pagination"
	"princip-gym/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserHandler handles profile and user management endpoints
type UserHandler struct {
	userService    *services.UserService
	checkinService *services.CheckinService
	log            *zap.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService, checkinService *services.CheckinService, log *zap.Logger) *UserHandler {
	return &UserHandler{
		userService:    userService,
		checkinService: checkinService,
		log:            log,
	}
}

// ListUsers handles listing all users (Admin only)
// @Summary List all users
// @Description Users with membership status and their last five check-ins, newest first
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /admin/users [get]
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	id, ok := middleware.Identity(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	result, err := h.userService.ListUsers(c.UserContext(), id, pagination.GetParams(c))
	if err != nil {
		return respondError(c, h.log, err, "Failed to list users")
	}

	return response.Success(c, "Users retrieved successfully", result)
}

// GetUser handles getting a user by ID (Admin only)
// @Summary Get user by ID
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/users/{id} [get]
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, ok := middleware.Identity(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	userID, ok := userIDParam(c)
	if !ok {
		return response.BadRequest(c, "Invalid user ID")
	}

	user, err := h.userService.GetUser(c.UserContext(), id, userID)
	if err != nil {
		return respondError(c, h.log, err, "Failed to get user")
	}

	return response.Success(c, "User retrieved successfully", user)
}

// DeleteUser handles deleting a user (Admin only)
// @Summary Delete user
// @Description Removes the user with membership, check-ins and sessions. Admins cannot delete themselves.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/users/{id} [delete]
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	id, ok := middleware.Identity(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	userID, ok := userIDParam(c)
	if !ok {
		return response.BadRequest(c, "Invalid user ID")
	}

	if err := h.userService.DeleteUser(c.UserContext(), id, userID); err != nil {
		return respondError(c, h.log, err, "Failed to delete user")
	}

	return response.Success(c, "User deleted successfully", nil)
}

// GetProfile gets own profile
// @Summary Get own profile
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /profile [get]
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	id, ok := middleware.Identity(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	profile, err := h.userService.Profile(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err, "Failed to get profile")
	}

	return response.Success(c, "Profile retrieved successfully", profile)
}

// GetQRCode returns the caller's check-in QR code
// @Summary Own check-in QR code
// @Tags Profile
// @Produce png
// @Security BearerAuth
// @Success 200 {file} binary
// @Router /profile/qr [get]
func (h *UserHandler) GetQRCode(c *fiber.Ctx) error {
	id, ok := middleware.Identity(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	png, err := h.userService.QRCode(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err, "Failed to generate QR code")
	}

	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}

// GetCheckins lists the caller's recent check-ins
// @Summary Own check-in history
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max records" default(20)
// @Success 200 {object} response.Response
// @Router /profile/checkins [get]
func (h *UserHandler) GetCheckins(c *fiber.Ctx) error {
	id, ok := middleware.Identity(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	list, err := h.checkinService.History(c.UserContext(), id, id.UserID, c.QueryInt("limit"))
	if err != nil {
		return respondError(c, h.log, err, "Failed to list check-ins")
	}

	return response.Success(c, "Check-ins retrieved successfully", list)
}

// GetGymQR returns the poster QR code that opens the self check-in page
// @Summary Gym entrance QR code
// @Tags Public
// @Produce png
// @Success 200 {file} binary
// @Router /gym-qr [get]
func (h *UserHandler) GetGymQR(c *fiber.Ctx) error {
	png, err := h.userService.GymQR()
	if err != nil {
		return respondError(c, h.log, err, "Failed to generate QR code")
	}

	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}

func userIDParam(c *fiber.Ctx) (string, bool) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}
