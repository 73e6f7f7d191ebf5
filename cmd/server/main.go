// Package main is the entry point for the script worker.
//
// main stays minimal: load config, build the logger and the host-function
// registry, hand everything to internal/server. All real logic lives in the
// imported packages.
package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/sakif/script-worker/internal/config"
	"github.com/sakif/script-worker/internal/executor"
	"github.com/sakif/script-worker/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Make sure the database directory exists before sqlite tries to open it.
	if cfg.DBPath != ":memory:" {
		if dir := filepath.Dir(cfg.DBPath); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				logger.Error("failed to create database directory",
					slog.String("dir", dir),
					slog.String("error", err.Error()),
				)
				os.Exit(1)
			}
		}
	}

	// Host functions callable from scripts. Deployments extend this set with
	// their own bindings; the worker ships with a small baseline.
	registry := executor.NewRegistry()
	registry.Register("now", func(args []any) (any, error) {
		return time.Now().Unix(), nil
	})

	srv, err := server.New(cfg, registry, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until SIGINT/SIGTERM.
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
