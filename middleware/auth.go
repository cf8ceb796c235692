package middleware

import (
	"errors"
	"strings"

	"github.com/saitejads/loanbook/internal/domain"
	"github.com/saitejads/loanbook/pkg/common"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

func NewJWTAuthMiddleware(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return common.ErrorResponse(c, fiber.StatusUnauthorized, "Missing authorization header")
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenStr == authHeader {
			return common.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid authorization header format")
		}

		claims := &domain.JwtCustomClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(secret), nil
		})

		if err != nil || !token.Valid {
			return common.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid or expired token")
		}

		c.Locals("user", claims)
		return c.Next()
	}
}

func RequireRole(allowedRoles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userClaims, ok := c.Locals("user").(*domain.JwtCustomClaims)
		if !ok {
			return common.ErrorResponse(c, fiber.StatusInternalServerError, "Could not parse user claims")
		}

		for _, role := range allowedRoles {
			if userClaims.Role == role {
				return c.Next()
			}
		}

		return common.ErrorResponse(c, fiber.StatusForbidden, "Access denied: insufficient permissions")
	}
}

func GetClaimsFromLocals(c *fiber.Ctx) (*domain.JwtCustomClaims, error) {
	claims, ok := c.Locals("user").(*domain.JwtCustomClaims)
	if !ok {
		return nil, errors.New("user claims not found in context")
	}
	return claims, nil
}
