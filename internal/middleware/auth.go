package middleware

import (
	"errors"
	"net/http"
	"strings"

	"ChurnRadar_AnalyticsProject/internal/auth"

	"github.com/gin-gonic/gin"
)

// UsernameKey is the gin context key holding the authenticated username.
const UsernameKey = "username"

// AuthMiddleware requires "Authorization: Bearer <token>".
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			return
		}

		authenticate(c, strings.TrimPrefix(authHeader, "Bearer "))
	}
}

// QueryTokenMiddleware reads the token from ?token=, for browser WebSocket
// clients that cannot set headers. A bearer header is accepted too.
func QueryTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			token = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token required"})
			return
		}
		authenticate(c, token)
	}
}

func authenticate(c *gin.Context, tokenString string) {
	claims, err := auth.ValidateToken(tokenString)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token has expired"})
			return
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}
	c.Set(UsernameKey, claims.Username)
	c.Next()
}

// Username returns the authenticated user set by the auth middleware.
func Username(c *gin.Context) string {
	return c.GetString(UsernameKey)
}
