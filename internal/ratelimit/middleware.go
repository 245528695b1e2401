package ratelimit

import (
	"net/http"

	"finance-platform/pkg/logger"

	"github.com/gin-gonic/gin"
)

// PerClient limits requests per client IP and route. The limiter fails open:
// when Redis is unreachable the request proceeds, so authentication never
// hard-depends on Redis availability.
func PerClient(l *Limiter, scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ratelimit:" + scope + ":" + c.ClientIP()

		ok, err := l.Allow(c.Request.Context(), key)
		if err != nil {
			logger.FromGin(c).Warn("rate limiter unavailable, failing open", "scope", scope, "err", err.Error())
			c.Next()
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limited"})
			return
		}
		c.Next()
	}
}
