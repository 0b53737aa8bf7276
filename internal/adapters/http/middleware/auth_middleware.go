package middleware

import (
	"errors"
	"strings"

	"goldloan-ledger/internal/config"
	"goldloan-ledger/internal/core/domain"
	"goldloan-ledger/internal/pkg/jwt"
	"goldloan-ledger/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by AuthMiddleware
const (
	LocalUserID   = "userID"
	LocalUsername = "username"
	LocalRole     = "role"
	LocalBranchID = "branchID"
)

// AuthMiddleware creates authentication middleware
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := bearerToken(c)
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalUsername, claims.Username)
		c.Locals(LocalRole, string(domain.ParseRole(claims.Role)))
		if claims.BranchID != nil && *claims.BranchID != "" {
			c.Locals(LocalBranchID, *claims.BranchID)
		}

		return c.Next()
	}
}

// bearerToken reads the access token from the cookie, then the
// Authorization header
func bearerToken(c *fiber.Ctx) string {
	if token := c.Cookies("access_token"); token != "" {
		return token
	}
	authHeader := c.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	return ""
}

// RoleMiddleware creates role-based authorization middleware
func RoleMiddleware(allowedRoles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(LocalRole).(string)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		for _, allowed := range allowedRoles {
			if domain.Role(role) == allowed {
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

// Principal rebuilds the authenticated principal and the session branch id
// from the locals set by AuthMiddleware. It returns nil when the request is
// not authenticated.
func Principal(c *fiber.Ctx) (*domain.Principal, *string) {
	userID, ok := c.Locals(LocalUserID).(string)
	if !ok || userID == "" {
		return nil, nil
	}
	username, _ := c.Locals(LocalUsername).(string)
	role, _ := c.Locals(LocalRole).(string)

	p := &domain.Principal{ID: userID, Username: username, Role: domain.ParseRole(role)}

	if branchID, ok := c.Locals(LocalBranchID).(string); ok && branchID != "" {
		return p, &branchID
	}
	return p, nil
}
