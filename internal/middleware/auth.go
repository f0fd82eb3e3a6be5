package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fridgechef/backend/internal/types"
)

// Context keys set by the auth middlewares.
const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
)

// TokenValidator is an interface for validating JWT tokens
type TokenValidator interface {
	ValidateToken(token string) (*types.TokenClaims, error)
}

func bearerToken(c *gin.Context) (string, bool) {
	parts := strings.Fields(c.GetHeader("Authorization"))
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// AuthMiddleware creates a middleware that validates JWT tokens
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "missing authorization header"})
			return
		}

		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid authorization header format"})
			return
		}

		claims, err := validator.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid token"})
			return
		}

		// Store user info in context
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUsername, claims.Username)
		c.Next()
	}
}

// OptionalAuth stores the token's identity when a valid bearer token is
// present and lets every other request through unchanged.
func OptionalAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if claims, err := validator.ValidateToken(token); err == nil {
				c.Set(ContextUserID, claims.UserID)
				c.Set(ContextUsername, claims.Username)
			}
		}
		c.Next()
	}
}

// Username returns the authenticated username, or fallback when the request
// carries no valid token.
func Username(c *gin.Context, fallback string) string {
	if name := c.GetString(ContextUsername); name != "" {
		return name
	}
	return strings.TrimSpace(fallback)
}
