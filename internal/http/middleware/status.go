package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"acadrepo/internal/apperror"
)

// statusOf returns the HTTP status a handler error will be rendered with.
func statusOf(c *fiber.Ctx, err error) int {
	if err == nil {
		return c.Response().StatusCode()
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return apperror.StatusOf(apperror.KindOf(err))
}
