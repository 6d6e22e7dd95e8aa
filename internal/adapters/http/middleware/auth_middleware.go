package middleware

import (
	"context"
	"errors"
	"strings"

	"princip-gym/internal/core/domain"
	"princip-gym/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const identityKey = "identity"

// Authenticator resolves an access token into the caller identity
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*domain.Identity, error)
}

// AccessToken reads the access token from the cookie first, then the Authorization header
func AccessToken(c *fiber.Ctx) string {
	if token := c.Cookies("access_token"); token != "" {
		return token
	}
	return BearerToken(c)
}

// BearerToken returns the token of an "Authorization: Bearer" header
func BearerToken(c *fiber.Ctx) string {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	return ""
}

// AuthMiddleware creates authentication middleware
func AuthMiddleware(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := AccessToken(c)
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		identity, err := auth.Authenticate(c.UserContext(), accessToken)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrTokenExpired):
				return response.Unauthorized(c, "Access token expired")
			case errors.Is(err, domain.ErrTokenRevoked):
				return response.Unauthorized(c, "Access token revoked")
			default:
				return response.Unauthorized(c, "Invalid access token")
			}
		}

		c.Locals(identityKey, *identity)
		return c.Next()
	}
}

// Identity returns the caller set by AuthMiddleware
func Identity(c *fiber.Ctx) (domain.Identity, bool) {
	id, ok := c.Locals(identityKey).(domain.Identity)
	return id, ok
}

// RoleMiddleware creates role-based authorization middleware
func RoleMiddleware(allowedRoles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := Identity(c)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		for _, allowedRole := range allowedRoles {
			if id.Role == allowedRole {
				return c.Next()
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// AdminOnly middleware allows only ADMIN role
func AdminOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleAdmin)
}
