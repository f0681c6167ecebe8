package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/complyhub/complyhub/internal/authz"
	"github.com/complyhub/complyhub/internal/token"
	"github.com/complyhub/complyhub/internal/web/handler"
)

const bearerPrefix = "bearer "

// Bearer is a Fiber middleware that verifies the Authorization bearer token
// and stores its subject in the username local.
func Bearer(issuer *token.Issuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
			return handler.Error(c, authz.ErrNotAuthorized)
		}

		claims, err := issuer.Verify(strings.TrimSpace(header[len(bearerPrefix):]))
		if err != nil {
			log.Info().Err(err).Str("ip", c.IP()).Msg("rejected bearer token")
			return handler.Error(c, authz.ErrNotAuthorized)
		}

		c.Locals(handler.LocalsUsername, claims.Subject)

		return c.Next()
	}
}

// RequirePrivilege creates Fiber middleware that requires the authenticated user
// to hold a privilege. The authorized principal is stored in the principal local.
func RequirePrivilege(resolver *authz.Resolver, privilege string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, err := resolver.Require(c.UserContext(), Username(c), privilege)
		if err != nil {
			return handler.Error(c, err)
		}

		c.Locals(handler.LocalsPrincipal, principal)

		return c.Next()
	}
}

// Username returns the authenticated username, or an empty string.
func Username(c *fiber.Ctx) string {
	username, _ := c.Locals(handler.LocalsUsername).(string)
	return username
}

// Principal returns the principal stored by RequirePrivilege.
// Handlers behind RequirePrivilege can rely on it being set.
func Principal(c *fiber.Ctx) *authz.Principal {
	principal, _ := c.Locals(handler.LocalsPrincipal).(*authz.Principal)
	return principal
}
