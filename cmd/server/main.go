// Dooficoin - Game economy and progression engine
package main

import (
	"context"
	"os"

	"github.com/dooflabs/dooficoin/internal/config"
	"github.com/dooflabs/dooficoin/internal/logging"
	"github.com/dooflabs/dooficoin/internal/server"
)

// Build info - set by ldflags
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	logger := logging.New("info", "text")

	logger.Info("starting dooficoin",
		"version", Version,
		"commit", Commit,
		"build_time", BuildTime,
	)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"env", cfg.Env,
		"mining_tick", cfg.MiningTickInterval,
		"catch_up_all", cfg.MiningCatchUpAll,
	)

	srv, err := server.New(cfg, server.WithLogger(logger))
	if err != nil {
		logger.Error("failed to create server", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
