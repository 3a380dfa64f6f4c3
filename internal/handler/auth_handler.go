package handler

import (
	"quizmaster/internal/domain"
	"quizmaster/internal/dto"
	"quizmaster/internal/service"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles sign up and sign in.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// SignUp godoc
// @Summary Create an account
// @Description Creates an account with the default generation limit and returns an access token.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.SignUpRequest true "Account details"
// @Success 201 {object} dto.TokenResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /auth/signup [post]
func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	var req dto.SignUpRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	token, err := h.authService.SignUp(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(token)
}

// SignIn godoc
// @Summary Sign in
// @Description Exchanges email and password for an access token.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.SignInRequest true "Credentials"
// @Success 200 {object} dto.TokenResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Router /auth/signin [post]
func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	var req dto.SignInRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	token, err := h.authService.SignIn(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(token)
}
