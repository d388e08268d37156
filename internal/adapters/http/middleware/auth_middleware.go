package middleware

import (
	"strconv"
	"strings"

	"prestamax/internal/config"
	"prestamax/internal/pkg/jwt"
	"prestamax/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware creates authentication middleware for staff endpoints
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var accessToken string

		// 1. Try to get token from cookie first
		accessToken = c.Cookies("access_token")

		// 2. If not in cookie, try Authorization header
		if accessToken == "" {
			authHeader := c.Get("Authorization")
			if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
				accessToken = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		// 3. No token found
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		// 4. Validate token
		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if err == jwt.ErrTokenExpired {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		// 5. Set user info in context
		c.Locals("userID", claims.UserID)
		c.Locals("tenantID", claims.TenantID)
		c.Locals("username", claims.Username)
		c.Locals("role", claims.Role)

		return c.Next()
	}
}

// TenantMiddleware resolves the tenant for public (applicant-facing) routes
// from the X-Tenant-ID header. Staff routes get their tenant from the JWT
// instead and never pass through here.
func TenantMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("X-Tenant-ID")
		if header == "" {
			return response.BadRequest(c, "X-Tenant-ID header required")
		}

		tenantID, err := strconv.ParseUint(header, 10, 32)
		if err != nil || tenantID == 0 {
			return response.BadRequest(c, "Invalid X-Tenant-ID header")
		}

		c.Locals("tenantID", uint(tenantID))
		return c.Next()
	}
}

// TenantID reads the resolved tenant from the request context
func TenantID(c *fiber.Ctx) uint {
	tenantID, _ := c.Locals("tenantID").(uint)
	return tenantID
}

// UserID reads the authenticated staff user from the request context
func UserID(c *fiber.Ctx) uint {
	userID, _ := c.Locals("userID").(uint)
	return userID
}

// RoleMiddleware creates role-based authorization middleware
func RoleMiddleware(allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(string)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		// Check if user's role is in allowed roles
		for _, allowedRole := range allowedRoles {
			if role == allowedRole {
				return c.Next()
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// AdminOnly middleware allows only ADMIN role
func AdminOnly() fiber.Handler {
	return RoleMiddleware("ADMIN")
}

// SupervisorOrAdmin middleware allows SUPERVISOR or ADMIN roles
func SupervisorOrAdmin() fiber.Handler {
	return RoleMiddleware("SUPERVISOR", "ADMIN")
}
