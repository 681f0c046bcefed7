package bootstrap

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/projectcardmover/backend/config"
	"github.com/projectcardmover/backend/controllers"
	"github.com/projectcardmover/backend/utils"
)

func testEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Server: config.ServerConfig{Port: 3030},
		Log:    config.LogConfig{Level: "ERROR"},
		GitHub: config.GitHubConfig{
			Token:      "test-token",
			GraphQLURL: "http://127.0.0.1:0",
		},
	}
	projectsController := controllers.ProjectsController{
		Config:               cfg,
		GithubClientProvider: &utils.GithubRealClientProvider{},
	}
	return Bootstrap(cfg, projectsController)
}

func TestHealthEndpoint(t *testing.T) {
	r := testEngine()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "version")
}

func TestWebhookRouteAcknowledgesIrrelevantEvents(t *testing.T) {
	r := testEngine()

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{"action": "created"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, controllers.WebhookAckBody, w.Body.String())
}
