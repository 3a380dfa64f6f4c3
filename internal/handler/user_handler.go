package handler

import (
	"quizmaster/internal/middleware"
	"quizmaster/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles requests about the signed-in user.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetMyProfile godoc
// @Summary Get current user's profile
// @Description Retrieves the profile and generation usage of the authenticated user.
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.UserProfileResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /users/me [get]
func (h *UserHandler) GetMyProfile(c *fiber.Ctx) error {
	profile, err := h.userService.GetProfile(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(profile)
}

// Upgrade godoc
// @Summary Upgrade plan
// @Description Simulated payment. Raises the generation limit and returns the updated profile.
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.UserProfileResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Router /users/me/upgrade [post]
func (h *UserHandler) Upgrade(c *fiber.Ctx) error {
	profile, err := h.userService.Upgrade(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(profile)
}
