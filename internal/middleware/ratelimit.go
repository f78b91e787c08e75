package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	limit "github.com/yangxikun/gin-limit-by-key"
	"golang.org/x/time/rate"
)

// limiterIdle is how long an unused per-client limiter is kept.
const limiterIdle = time.Hour

// RateLimit allows perMinute requests per client IP with a burst of the same
// size. perMinute <= 0 disables limiting.
func RateLimit(perMinute int) gin.HandlerFunc {
	if perMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	every := time.Minute / time.Duration(perMinute)
	return limit.NewRateLimiter(
		func(c *gin.Context) string {
			return c.ClientIP() + c.FullPath()
		},
		func(c *gin.Context) (*rate.Limiter, time.Duration) {
			return rate.NewLimiter(rate.Every(every), perMinute), limiterIdle
		},
		func(c *gin.Context) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests, slow down"})
		},
	)
}
