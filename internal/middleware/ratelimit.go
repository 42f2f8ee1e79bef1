package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/deepkiyada/product-catalog/internal/ratelimit"

	"github.com/gin-gonic/gin"
)

// RateLimit runs the limiter's admission check before the handler chain.
// A quota excess aborts with 429, a Retry-After header and a human-readable
// wait hint; the limiter never retries on the client's behalf.
func RateLimit(l *ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := l.Admit(c.Request); err != nil {
			var rle *ratelimit.RateLimitedError
			if errors.As(err, &rle) {
				secs := rle.RetryAfterSeconds()
				c.Header("Retry-After", fmt.Sprintf("%d", secs))
				c.JSON(http.StatusTooManyRequests, gin.H{
					"error":      "Too many requests",
					"message":    fmt.Sprintf("Rate limit exceeded. Try again in %d seconds.", secs),
					"retryAfter": secs,
				})
				c.Abort()
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Admission check failed"})
			c.Abort()
			return
		}
		c.Next()
	}
}
