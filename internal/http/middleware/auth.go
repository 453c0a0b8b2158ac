package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"acadrepo/internal/apperror"
	"acadrepo/internal/model"
)

// PrincipalLocalKey is the key under which RequireAuth stores the verified principal.
const PrincipalLocalKey = "principal"

var errUnauthenticated = apperror.New(apperror.KindUnauthenticated, "authentication required")

// TokenVerifier resolves a bearer token to a principal.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*model.Principal, error)
}

// RequireAuth rejects requests without a valid "Authorization: Bearer" token.
func RequireAuth(v TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return errUnauthenticated
		}
		p, err := v.Verify(c.UserContext(), token)
		if err != nil {
			return err
		}
		c.Locals(PrincipalLocalKey, p)
		return c.Next()
	}
}

// PrincipalFrom returns the principal stored by RequireAuth, or nil.
func PrincipalFrom(c *fiber.Ctx) *model.Principal {
	p, _ := c.Locals(PrincipalLocalKey).(*model.Principal)
	return p
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
