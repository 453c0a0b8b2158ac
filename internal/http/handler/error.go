package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"acadrepo/internal/apperror"
	"acadrepo/internal/http/middleware"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError writes a standardized JSON error response without leaking internal errors.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: middleware.RequestIDFrom(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// ErrorHandler returns a Fiber global error handler that renders application
// errors and framework errors in the same envelope. Causes of internal errors
// are logged and never returned.
func ErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return writeFiberError(c, fe)
		}

		kind := apperror.KindOf(err)
		if kind == apperror.KindInternal {
			log.Error().
				Err(err).
				Str("request_id", middleware.RequestIDFrom(c)).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Msg("request_failed")
		}
		return writeError(c, apperror.StatusOf(kind), string(kind), apperror.PublicMessage(err))
	}
}

func writeFiberError(c *fiber.Ctx, fe *fiber.Error) error {
	switch fe.Code {
	case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
		return writeError(c, fe.Code, string(apperror.KindInvalidInput), "bad request")
	case fiber.StatusNotFound:
		return writeError(c, fe.Code, string(apperror.KindNotFound), "resource not found")
	case fiber.StatusMethodNotAllowed:
		return writeError(c, fe.Code, "METHOD_NOT_ALLOWED", "method not allowed")
	case fiber.StatusRequestEntityTooLarge:
		return writeError(c, fe.Code, string(apperror.KindPayloadTooLarge), "request body too large")
	case fiber.StatusTooManyRequests:
		return writeError(c, fe.Code, string(apperror.KindRateLimited), "too many requests")
	case fiber.StatusServiceUnavailable:
		return writeError(c, fe.Code, "SERVICE_UNAVAILABLE", "dependency unavailable")
	default:
		return writeError(c, fiber.StatusInternalServerError, string(apperror.KindInternal), "internal server error")
	}
}
