package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/invoicing/backend/internal/infrastructure/config"
	"github.com/invoicing/backend/internal/interfaces/http/dto"
)

// DefaultWebhookHeader carries the shared webhook secret
const DefaultWebhookHeader = "X-Webhook-Token"

// WebhookToken rejects requests whose token header does not match the
// configured secret. An empty secret disables the check.
func WebhookToken(cfg config.WebhookConfig) gin.HandlerFunc {
	header := cfg.Header
	if header == "" {
		header = DefaultWebhookHeader
	}
	secret := []byte(cfg.Token)

	return func(c *gin.Context) {
		if len(secret) == 0 {
			c.Next()
			return
		}
		if subtle.ConstantTimeCompare([]byte(c.GetHeader(header)), secret) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				dto.ErrCodeUnauthorized, "Invalid webhook token", GetRequestID(c)))
			return
		}
		c.Next()
	}
}
