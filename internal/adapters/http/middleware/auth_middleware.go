package middleware

import (
	"strconv"

	"caoguia-api/internal/core/domain"
	"caoguia-api/internal/core/services"
	"caoguia-api/internal/pkg/metrics"
	"caoguia-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// identityLocal is the c.Locals key holding the resolved identity
const identityLocal = "identity"

// AuthMiddleware resolves the bearer token into an identity on every request.
// Handlers read it with IdentityFrom and never parse the token themselves.
func AuthMiddleware(resolver services.IdentityResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// 1. Extract token from Authorization header
		token, err := services.ExtractBearer(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return response.FromError(c, err)
		}

		// 2. Decode and re-fetch the principal
		identity, err := resolver.Resolve(c.UserContext(), token)
		if err != nil {
			return response.FromError(c, err)
		}

		// 3. Attach identity for handlers and gates
		c.Locals(identityLocal, identity)
		c.SetUserContext(domain.ContextWithIdentity(c.UserContext(), identity))

		return c.Next()
	}
}

// IdentityFrom returns the identity attached by AuthMiddleware, or nil
func IdentityFrom(c *fiber.Ctx) *domain.Identity {
	identity, _ := c.Locals(identityLocal).(*domain.Identity)
	return identity
}

// Gate turns a domain gate into a Fiber handler.
// It only reads the resolved identity; a missing one yields 401.
func Gate(name string, gate domain.Gate, m *metrics.Auth) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := gate(IdentityFrom(c)); err != nil {
			m.Deny(name)
			return response.FromError(c, err)
		}
		return c.Next()
	}
}

// AdminOnly allows only ADMIN identities
func AdminOnly(m *metrics.Auth) fiber.Handler {
	return Gate("admin_only", domain.AdminOnly(), m)
}

// RoleIn allows identities whose role is in roles
func RoleIn(m *metrics.Auth, roles ...domain.Role) fiber.Handler {
	return Gate("role_in", domain.RoleIn(roles...), m)
}

// SelfOrAdmin allows the user named by the route param, or an admin
func SelfOrAdmin(param string, m *metrics.Auth) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params(param), 10, 64)
		if err != nil {
			return response.BadRequest(c, "Invalid ID")
		}
		return Gate("self_or_admin", domain.SelfOrAdmin(uint(id)), m)(c)
	}
}
