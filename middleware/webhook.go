package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/go-github/v61/github"
)

// WebhookAuth validates the X-Hub-Signature-256 header of webhook
// deliveries against a shared secret. With an empty secret it is a no-op
// and any POST to the webhook endpoint is trusted.
func WebhookAuth(webhookSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if webhookSecret == "" {
			c.Next()
			return
		}

		payload, err := github.ValidatePayload(c.Request, []byte(webhookSecret))
		if err != nil {
			slog.Warn("Invalid webhook signature", "error", err)
			c.String(http.StatusForbidden, "invalid webhook signature")
			c.Abort()
			return
		}

		// ValidatePayload consumes the body, put it back for the handler.
		c.Request.Body = io.NopCloser(bytes.NewReader(payload))
		c.Next()
	}
}
