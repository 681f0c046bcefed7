package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/projectcardmover/backend/bootstrap"
	"github.com/projectcardmover/backend/config"
	"github.com/projectcardmover/backend/controllers"
	"github.com/projectcardmover/backend/utils"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	projectsController := controllers.ProjectsController{
		Config:               cfg,
		GithubClientProvider: &utils.GithubRealClientProvider{},
	}
	r := bootstrap.Bootstrap(cfg, projectsController)
	r.Run(fmt.Sprintf(":%d", cfg.Server.Port))
}
