package middleware

import (
	"quizmaster/internal/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// ValidatedIDKey holds the path ID accepted by ValidateGenerationID or
// ValidateSessionID.
const ValidatedIDKey = "validated_id"

// ValidateGenerationID rejects :param values that are not ULIDs. They can
// never match a stored generation, so they get the same NOT_FOUND as an
// unknown ID.
func ValidateGenerationID(param string) fiber.Handler {
	return validateID(param, "generation not found", func(s string) error {
		_, err := ulid.ParseStrict(s)
		return err
	})
}

// ValidateSessionID does the same for session UUIDs.
func ValidateSessionID(param string) fiber.Handler {
	return validateID(param, "quiz session not found", func(s string) error {
		_, err := uuid.Parse(s)
		return err
	})
}

func validateID(param, notFound string, parse func(string) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params(param)
		if id == "" {
			return domain.ValidationErrors{*domain.NewMissingFieldError(param)}
		}
		if err := parse(id); err != nil {
			return domain.NewNotFoundError(notFound)
		}
		c.Locals(ValidatedIDKey, id)
		return c.Next()
	}
}
