package handler

import (
	"quizmaster/internal/domain"
	"quizmaster/internal/dto"
	"quizmaster/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ContactHandler accepts contact form submissions.
type ContactHandler struct {
	contactService service.ContactService
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(contactService service.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// SubmitMessage godoc
// @Summary Send a contact message
// @Description Stores a message from the public contact form. No account is required.
// @Tags contact
// @Accept json
// @Produce json
// @Param request body dto.ContactRequest true "Contact form"
// @Success 201 {object} dto.MessageResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /contact [post]
func (h *ContactHandler) SubmitMessage(c *fiber.Ctx) error {
	var req dto.ContactRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	resp, err := h.contactService.SubmitMessage(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}
