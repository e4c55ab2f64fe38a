package main

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/plsx/internal/pls"
	"github.com/desertthunder/plsx/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	configPath := os.Getenv("PLSX_CONFIG")
	if configPath == "" {
		configPath = "config.toml"
	}
	config, err := shared.LoadOrDefault(configPath)
	if err != nil {
		logger.Warn("failed to load config, using defaults", "path", configPath, "error", err)
		config = shared.DefaultConfig()
	}
	if level, err := shared.ParseLevel(config.Log.Level); err == nil {
		shared.SetLogLevel(logger, level)
	}

	var db *sql.DB
	if config.Browse.History {
		if db, err = shared.OpenMigrated(config.Database); err != nil {
			logger.Warn("browse history disabled", "path", config.Database.Path, "error", err)
			db = nil
		}
	}

	runner := NewRunner(RunnerOpts{
		Config: config,
		Logger: logger,
		DB:     db,
	})
	defer runner.Close()

	app := &cli.Command{
		Name:     "plsx",
		Usage:    "Browse, inspect and export local playlists",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		if errors.Is(err, pls.ErrCancelled) {
			logger.Warn("browse cancelled")
			return
		}
		runner.Close()
		logger.Fatalf("application error: %v", err)
	}
}
