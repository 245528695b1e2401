package auth

import (
	"net/http"
	"strings"
	"time"

	"finance-platform/pkg/logger"

	"github.com/gin-gonic/gin"
)

const authorizationHeader = "Authorization"
const bearerPrefix = "Bearer "

// RequireAccessToken extracts the bearer credential, verifies it as an
// access token and injects the subject into the request context.
//
// Every rejection uses the same status and body. Which verification step
// failed (signature, expiry, type, subject) is recorded on the request
// logger only; distinguishing them externally would hand an attacker an
// oracle on the signing scheme.
func RequireAccessToken(m *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(authorizationHeader))
		if raw == "" || !strings.HasPrefix(raw, bearerPrefix) {
			logger.FromGin(c).Debug("auth rejected", "reason", "missing bearer credential")
			abortUnauthenticated(c)
			return
		}
		tok := strings.TrimPrefix(raw, bearerPrefix)

		claims, err := m.Verify(tok, TokenTypeAccess, time.Now())
		if err != nil {
			logger.FromGin(c).Debug("auth rejected", "reason", err.Error())
			abortUnauthenticated(c)
			return
		}

		ctx := WithSubject(c.Request.Context(), claims.Subject)
		c.Request = c.Request.WithContext(ctx)

		// Also store on gin context for handler and log-middleware convenience.
		c.Set("subject", claims.Subject)

		c.Next()
	}
}

func abortUnauthenticated(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
}
