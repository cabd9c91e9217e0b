package serverutils

import (
	"errors"

	"document-bot-be/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware maps errors bubbling out of the handlers to HTTP
// responses. A rejected question is a client problem (422) and carries its
// reason verbatim; everything else is a 500 with a generic message.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var invalid *validation.InvalidQuestionError
		if errors.As(err, &invalid) {
			return ctx.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error":  "invalid_question",
				"reason": invalid.Reason,
			})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(fiber.Map{
				"message": fiberErr.Message,
			})
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Internal server error",
		})
	}
}
