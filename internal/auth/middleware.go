package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/kanishk44/social-media/internal/errs"
)

const identityKey = "identity"

var errMissingToken = errs.New(errs.KindInvalidToken, "No token provided")

// Verifier is satisfied by *TokenIssuer and *Service.
type Verifier interface {
	Verify(token string) (Identity, error)
}

// JWTMiddleware validates bearer tokens and stores the Identity in locals.
func JWTMiddleware(v Verifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerFromHeader(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			return errMissingToken
		}

		id, err := v.Verify(token)
		if err != nil {
			return err
		}

		c.Locals(identityKey, id)
		return c.Next()
	}
}

// CurrentIdentity returns the identity stored by JWTMiddleware.
func CurrentIdentity(c *fiber.Ctx) (Identity, bool) {
	id, ok := c.Locals(identityKey).(Identity)
	return id, ok
}

// MustIdentity is for handlers mounted behind JWTMiddleware.
func MustIdentity(c *fiber.Ctx) (Identity, error) {
	id, ok := CurrentIdentity(c)
	if !ok {
		return Identity{}, errMissingToken
	}
	return id, nil
}

func bearerFromHeader(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
