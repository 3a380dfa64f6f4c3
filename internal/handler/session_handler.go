package handler

import (
	"quizmaster/internal/domain"
	"quizmaster/internal/dto"
	"quizmaster/internal/middleware"
	"quizmaster/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SessionHandler handles taking a quiz.
type SessionHandler struct {
	sessionService service.SessionService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessionService service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// StartSession godoc
// @Summary Start a quiz session
// @Description Starts a timed attempt at one of the caller's generations.
// @Tags sessions
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Generation ID"
// @Success 201 {object} dto.SessionResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /generations/{id}/sessions [post]
func (h *SessionHandler) StartSession(c *fiber.Ctx) error {
	resp, err := h.sessionService.Start(c.UserContext(), middleware.UserID(c), validatedID(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetSession godoc
// @Summary Get session state
// @Description Returns the current question (without the answer key), the timer and progress.
// @Tags sessions
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /sessions/{id} [get]
func (h *SessionHandler) GetSession(c *fiber.Ctx) error {
	resp, err := h.sessionService.State(middleware.UserID(c), validatedID(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// SelectAnswer godoc
// @Summary Select an answer
// @Description Records the chosen option for the current question.
// @Tags sessions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Session ID"
// @Param request body dto.AnswerRequest true "Selected option"
// @Success 200 {object} dto.SessionResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /sessions/{id}/answer [put]
func (h *SessionHandler) SelectAnswer(c *fiber.Ctx) error {
	var req dto.AnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	resp, err := h.sessionService.Answer(middleware.UserID(c), validatedID(c), req.Key)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Next godoc
// @Summary Next question
// @Description Moves to the next question. On the last question this submits the quiz.
// @Tags sessions
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /sessions/{id}/next [post]
func (h *SessionHandler) Next(c *fiber.Ctx) error {
	resp, err := h.sessionService.Next(middleware.UserID(c), validatedID(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Previous godoc
// @Summary Previous question
// @Tags sessions
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /sessions/{id}/previous [post]
func (h *SessionHandler) Previous(c *fiber.Ctx) error {
	resp, err := h.sessionService.Previous(middleware.UserID(c), validatedID(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetResult godoc
// @Summary Get quiz result
// @Description Score, per-question review and the AI feedback status of a submitted quiz.
// @Tags sessions
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Session ID"
// @Success 200 {object} dto.ResultResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /sessions/{id}/result [get]
func (h *SessionHandler) GetResult(c *fiber.Ctx) error {
	resp, err := h.sessionService.Result(middleware.UserID(c), validatedID(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Abandon godoc
// @Summary Abandon a session
// @Description Stops the timer and discards the session.
// @Tags sessions
// @Security ApiKeyAuth
// @Param id path string true "Session ID"
// @Success 204
// @Failure 404 {object} middleware.ErrorResponse
// @Router /sessions/{id} [delete]
func (h *SessionHandler) Abandon(c *fiber.Ctx) error {
	if err := h.sessionService.Abandon(middleware.UserID(c), validatedID(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
