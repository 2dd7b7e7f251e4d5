package main

import (
	"post-board/pkg/config"
	"post-board/pkg/logger"
	"post-board/services/post/internal/app"
)

// @title           Post Board API
// @version         1.0
// @description     Bulletin board posts guarded by per-post passwords

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /api

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New()

	deps, err := app.Connect(cfg, log)
	if err != nil {
		log.Error("Failed to connect dependencies: %v", err)
		panic(err)
	}

	// Migrations are handled by goose - see cmd/migrate/main.go

	app.Run(cfg, log, deps)
}
