package bootstrap

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	pprof_gin "github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	sloggin "github.com/samber/slog-gin"

	"github.com/projectcardmover/backend/config"
	"github.com/projectcardmover/backend/controllers"
	"github.com/projectcardmover/backend/middleware"
	"github.com/projectcardmover/backend/utils"
)

// based on https://www.digitalocean.com/community/tutorials/using-ldflags-to-set-version-information-for-go-applications
var Version = "dev"

// Bootstrap wires logging, error reporting and routes into a gin engine.
// Configuration is expected to be loaded and validated by the caller.
func Bootstrap(cfg *config.Config, projectsController controllers.ProjectsController) *gin.Engine {
	initLogging(cfg.Log.Level)

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              os.Getenv("SENTRY_DSN"),
		EnableTracing:    true,
		TracesSampleRate: 0.1,
		Release:          "cardmover@" + Version,
		DebugWriter:      utils.NewSentrySlogWriter(slog.Default().WithGroup("sentry")),
	}); err != nil {
		slog.Error("Sentry initialization failed", "error", err)
	}

	r := gin.Default()

	r.Use(sloggin.New(slog.Default().WithGroup("http")))

	if cfg.Server.PprofDebugEnabled {
		pprof_gin.Register(r)
	}

	r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"commit_sha": Version,
		})
	})

	r.POST("/webhook", middleware.WebhookAuth(cfg.GitHub.WebhookSecret), projectsController.ProjectsV2ItemWebhook)

	return r
}

func initLogging(logLevel string) {
	var level slog.Leveler

	switch logLevel {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)
}
