package handler

import (
	"quizmaster/internal/domain"
	"quizmaster/internal/dto"
	"quizmaster/internal/middleware"
	"quizmaster/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GenerationHandler handles quiz creation and the generation history.
type GenerationHandler struct {
	quizService service.QuizService
}

// NewGenerationHandler creates a new GenerationHandler.
func NewGenerationHandler(quizService service.QuizService) *GenerationHandler {
	return &GenerationHandler{quizService: quizService}
}

// CreateQuiz godoc
// @Summary Generate a quiz
// @Description Generates count multiple-choice questions from the given subject and content and stores them as one generation.
// @Tags generations
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.CreateQuizRequest true "Quiz request"
// @Success 201 {object} dto.GenerationResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 402 {object} middleware.ErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /generations [post]
func (h *GenerationHandler) CreateQuiz(c *fiber.Ctx) error {
	var req dto.CreateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	generation, err := h.quizService.CreateQuiz(c.UserContext(), middleware.UserID(c), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(generation)
}

// ListGenerations godoc
// @Summary List generations
// @Description Lists the caller's generations, newest first, with quota usage.
// @Tags generations
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.GenerationListResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Router /generations [get]
func (h *GenerationHandler) ListGenerations(c *fiber.Ctx) error {
	list, err := h.quizService.ListGenerations(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(list)
}

// GetGeneration godoc
// @Summary Get a generation
// @Description Returns one of the caller's generations with its questions and answer key.
// @Tags generations
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Generation ID"
// @Success 200 {object} dto.GenerationResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /generations/{id} [get]
func (h *GenerationHandler) GetGeneration(c *fiber.Ctx) error {
	generation, err := h.quizService.GetGeneration(c.UserContext(), middleware.UserID(c), validatedID(c))
	if err != nil {
		return err
	}
	return c.JSON(generation)
}

// validatedID prefers the ID stored by the ID validation middleware.
func validatedID(c *fiber.Ctx) string {
	if id, ok := c.Locals(middleware.ValidatedIDKey).(string); ok {
		return id
	}
	return c.Params("id")
}
