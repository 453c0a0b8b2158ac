package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"acadrepo/internal/apperror"
)

var errRateLimited = apperror.New(apperror.KindRateLimited, "too many attempts, try again later")

// LoginLimiter caps requests per client IP within window. A nil storage keeps
// the counters in process memory.
func LoginLimiter(max int, window time.Duration, storage fiber.Storage) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return "login:" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return errRateLimited
		},
		Storage: storage,
	})
}
