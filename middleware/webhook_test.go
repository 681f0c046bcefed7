package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func signBody(secret string, body string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(body))
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func webhookTestRouter(secret string, seenBody *string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/webhook", WebhookAuth(secret), func(c *gin.Context) {
		body, _ := io.ReadAll(c.Request.Body)
		*seenBody = string(body)
		c.String(http.StatusOK, "ok")
	})
	return r
}

func TestWebhookAuthAcceptsValidSignature(t *testing.T) {
	body := `{"action": "reordered"}`
	var seenBody string
	r := webhookTestRouter("topsecret", &seenBody)

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Hub-Signature-256", signBody("topsecret", body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, body, seenBody, "handler must see the original body after validation")
}

func TestWebhookAuthRejectsInvalidSignature(t *testing.T) {
	body := `{"action": "reordered"}`
	var seenBody string
	r := webhookTestRouter("topsecret", &seenBody)

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Hub-Signature-256", signBody("wrongsecret", body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, seenBody)
}

func TestWebhookAuthRejectsMissingSignature(t *testing.T) {
	var seenBody string
	r := webhookTestRouter("topsecret", &seenBody)

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestWebhookAuthNoopWithoutSecret(t *testing.T) {
	body := `{"action": "reordered"}`
	var seenBody string
	r := webhookTestRouter("", &seenBody)

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, body, seenBody)
}
