package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// InviteCodeMiddleware gates registration behind the X-Invite-Code header.
// An empty code leaves registration open.
func InviteCodeMiddleware(inviteCode string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if inviteCode == "" {
			c.Next()
			return
		}
		clientKey := c.GetHeader("X-Invite-Code")
		if subtle.ConstantTimeCompare([]byte(clientKey), []byte(inviteCode)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid invite code"})
			return
		}
		c.Next()
	}
}
