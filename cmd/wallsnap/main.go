package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samvad-hq/samvad-media-wall/internal/app"
	"github.com/samvad-hq/samvad-media-wall/internal/config"
	"github.com/samvad-hq/samvad-media-wall/internal/logger"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "wallsnap failed: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet("wallsnap", pflag.ContinueOnError)
	flags.String("feed", "", "subreddit or multireddit (a+b) to render")
	flags.String("sort", "", "listing sort: best, hot, new, top, rising, controversial")
	flags.String("time-window", "", "time window for top: hour, day, week, month, year, all")
	flags.Int("limit", 0, "number of posts to fetch (1-100)")
	flags.String("layout", "", "grid or list")
	flags.Int("columns", 0, "grid columns (1-10)")
	flags.Int("thumbnail-size", 0, "thumbnail size in pixels (50-600)")
	flags.String("preset", "", "preset id from the presets file")
	flags.String("presets-file", "", "YAML/JSON presets file")
	flags.StringP("output", "o", "", "write HTML here instead of stdout")
	flags.Bool("probe-media", false, "verify media URLs before writing the page")
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := config.LoadWithFlags(flags)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.InfoObj("wallsnap starting", "config", cfg.Redacted())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	snap, err := app.NewSnapshot(ctx, cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize snapshot", "error", err.Error())
		return err
	}
	return snap.Run(ctx, os.Stdout)
}
