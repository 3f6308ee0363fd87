package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RedditAuthURL != "https://www.reddit.com/api/v1/access_token" {
		t.Fatalf("unexpected auth url %q", cfg.RedditAuthURL)
	}
	if cfg.HTTPTimeout != 15*time.Second {
		t.Fatalf("unexpected http timeout %v", cfg.HTTPTimeout)
	}
	if cfg.StorageType != "none" {
		t.Fatalf("expected storage disabled by default, got %q", cfg.StorageType)
	}
	if cfg.DefaultLimit != 5 {
		t.Fatalf("unexpected default limit %d", cfg.DefaultLimit)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("REDDIT_CLIENT_ID", "cid")
	t.Setenv("REDDIT_CLIENT_SECRET", "shh")
	t.Setenv("PROBE_MEDIA", "true")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RedditClientID != "cid" || cfg.RedditClientSecret != "shh" {
		t.Fatalf("credentials not loaded: %+v", cfg)
	}
	if !cfg.ProbeMedia {
		t.Fatalf("expected probe_media enabled")
	}
	if cfg.HTTPTimeout != 3*time.Second {
		t.Fatalf("unexpected http timeout %v", cfg.HTTPTimeout)
	}
	if got := cfg.Redacted().RedditClientSecret; got != "***" {
		t.Fatalf("secret not redacted: %q", got)
	}
}

func TestLoadRejectsInvalidTimeout(t *testing.T) {
	t.Setenv("HTTP_TIMEOUT_SECONDS", "0")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for zero timeout")
	}
}

func TestLoadWithFlagsOverridesEnv(t *testing.T) {
	t.Setenv("DEFAULT_FEED", "pics")

	flags := pflag.NewFlagSet("wallsnap", pflag.ContinueOnError)
	flags.String("default-feed", "", "")
	flags.String("output", "", "")
	if err := flags.Parse([]string{"--default-feed=aww", "--output=wall.html"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := LoadWithFlags(flags)
	if err != nil {
		t.Fatalf("LoadWithFlags: %v", err)
	}
	if cfg.DefaultFeed != "aww" {
		t.Fatalf("expected flag to win, got %q", cfg.DefaultFeed)
	}
	if cfg.OutputPath != "wall.html" {
		t.Fatalf("unexpected output %q", cfg.OutputPath)
	}
}

func TestLoadWithFlagsShortNames(t *testing.T) {
	flags := pflag.NewFlagSet("wallsnap", pflag.ContinueOnError)
	flags.String("feed", "", "")
	flags.String("time-window", "", "")
	flags.Int("limit", 0, "")
	if err := flags.Parse([]string{"--feed=earthporn", "--time-window=week"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := LoadWithFlags(flags)
	if err != nil {
		t.Fatalf("LoadWithFlags: %v", err)
	}
	if cfg.DefaultFeed != "earthporn" || cfg.DefaultTimeWindow != "week" {
		t.Fatalf("short flags not mapped: feed=%q window=%q", cfg.DefaultFeed, cfg.DefaultTimeWindow)
	}
	if cfg.DefaultLimit != 5 {
		t.Fatalf("unset flag should keep default limit, got %d", cfg.DefaultLimit)
	}
}
