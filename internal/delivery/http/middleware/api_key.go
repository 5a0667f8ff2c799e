package middleware

import (
	"crypto/subtle"
	"strings"

	"job-tracker-backend/internal/delivery/http/response"
	"job-tracker-backend/pkg/apperror"
	"job-tracker-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

// APIKeyAuth admits requests that carry "Authorization: Bearer <secret>".
// An empty secret rejects everything with a server error.
func APIKeyAuth(secret string) gin.HandlerFunc {
	expected := []byte(secret)

	return func(c *gin.Context) {
		if len(expected) == 0 {
			security.DefaultLogger().Log(c.Request.Context(), security.SecurityEvent{
				Event:     security.EventMisconfigured,
				IP:        c.ClientIP(),
				RequestID: response.RequestID(c),
				Details:   map[string]any{"reason": "API_KEY not set"},
			})
			c.Error(apperror.Misconfigured("Server misconfiguration: API key not set"))
			c.Abort()
			return
		}

		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			reject(c, "missing_bearer")
			return
		}
		if subtle.ConstantTimeCompare([]byte(token), expected) != 1 {
			reject(c, "invalid_token")
			return
		}

		c.Next()
	}
}

func reject(c *gin.Context, reason string) {
	security.DefaultLogger().LogUnauthorized(
		c.Request.Context(),
		c.ClientIP(),
		c.GetHeader("User-Agent"),
		response.RequestID(c),
		reason,
	)
	c.Error(apperror.Unauthorized("Invalid or missing API key"))
	c.Abort()
}

// bearerToken extracts the credential; the scheme is matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
