package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samvad-hq/samvad-media-wall/internal/app"
	"github.com/samvad-hq/samvad-media-wall/internal/config"
	"github.com/samvad-hq/samvad-media-wall/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "mediawall start failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.InfoObj("mediawall starting", "config", cfg.Redacted())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	viewer, err := app.NewViewer(ctx, cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize viewer", "error", err.Error())
		return err
	}

	if err := viewer.Run(ctx); err != nil {
		return fmt.Errorf("viewer run: %w", err)
	}
	return nil
}
