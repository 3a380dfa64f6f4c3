package handler

import (
	"quizmaster/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// Handlers groups every handler the API serves.
type Handlers struct {
	Auth       *AuthHandler
	User       *UserHandler
	Generation *GenerationHandler
	Session    *SessionHandler
	Health     *HealthHandler
	Contact    *ContactHandler
}

// RegisterRoutes mounts the API under /api and the health check at /healthz.
func RegisterRoutes(app *fiber.App, h Handlers, tokens middleware.TokenValidator) {
	if h.Health != nil {
		app.Get("/healthz", h.Health.Healthz)
	}

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/signup", h.Auth.SignUp)
	auth.Post("/signin", h.Auth.SignIn)

	if h.Contact != nil {
		api.Post("/contact", h.Contact.SubmitMessage)
	}

	protected := middleware.Protected(tokens)

	users := api.Group("/users", protected)
	users.Get("/me", h.User.GetMyProfile)
	users.Post("/me/upgrade", h.User.Upgrade)

	generationID := middleware.ValidateGenerationID("id")
	generations := api.Group("/generations", protected)
	generations.Post("", h.Generation.CreateQuiz)
	generations.Get("", h.Generation.ListGenerations)
	generations.Get("/:id", generationID, h.Generation.GetGeneration)
	generations.Post("/:id/sessions", generationID, h.Session.StartSession)

	sessionID := middleware.ValidateSessionID("id")
	sessions := api.Group("/sessions", protected)
	sessions.Get("/:id", sessionID, h.Session.GetSession)
	sessions.Put("/:id/answer", sessionID, h.Session.SelectAnswer)
	sessions.Post("/:id/next", sessionID, h.Session.Next)
	sessions.Post("/:id/previous", sessionID, h.Session.Previous)
	sessions.Get("/:id/result", sessionID, h.Session.GetResult)
	sessions.Delete("/:id", sessionID, h.Session.Abandon)
}
