package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/samvad-hq/samvad-media-wall/internal/config"
	"github.com/samvad-hq/samvad-media-wall/internal/domain"
	"github.com/samvad-hq/samvad-media-wall/internal/gallery"
	"github.com/samvad-hq/samvad-media-wall/internal/logger"
	"github.com/samvad-hq/samvad-media-wall/internal/media"
	"github.com/samvad-hq/samvad-media-wall/internal/storage"
	"github.com/samvad-hq/samvad-media-wall/pkg/httpclient"
	"github.com/samvad-hq/samvad-media-wall/pkg/presets"
	"github.com/samvad-hq/samvad-media-wall/pkg/publishers"
	"github.com/samvad-hq/samvad-media-wall/pkg/reddit"
)

// runtime holds everything both binaries share.
type runtime struct {
	cfg     *config.Config
	log     logger.Logger
	store   storage.Store
	fanout  *publishers.Fanout
	presets *presets.Registry
	wall    *gallery.Service
}

func newRuntime(ctx context.Context, cfg *config.Config, log logger.Logger) (*runtime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	log = logger.Ensure(log)
	if ctx == nil {
		ctx = context.Background()
	}

	presetReg, err := presets.LoadRegistry(cfg.PresetsFile)
	if err != nil {
		return nil, fmt.Errorf("load presets registry: %w", err)
	}
	log.InfoObj("presets registry loaded", "presets_meta", map[string]any{
		"count": len(presetReg.All()),
		"file":  cfg.PresetsFile,
	})

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		EntryTTL:        cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"entry_ttl_seconds":        int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	fanout, err := publishers.NewFanoutFromFile(ctx, cfg.PublishersFile, log)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("build publishers: %w", err), store.Close())
	}
	log.InfoObj("publishers initialized", "publishers_meta", map[string]any{
		"count": fanout.Size(),
		"file":  cfg.PublishersFile,
	})

	httpClient := httpclient.NewRestyClient(cfg.HTTPTimeout)
	status := gallery.NewStatusBoard(log)
	client := reddit.NewClient(reddit.Options{
		AuthURL:   cfg.RedditAuthURL,
		APIURL:    cfg.RedditAPIURL,
		UserAgent: cfg.RedditUserAgent,
	}, httpClient, status)

	var prober gallery.Prober
	if cfg.ProbeMedia {
		prober = media.NewProber(httpClient, store, media.ProberOptions{
			UserAgent:   cfg.RedditUserAgent,
			Concurrency: cfg.ProbeConcurrency,
		}, log)
	}

	wall := gallery.New(gallery.Options{
		Client:    client,
		Prober:    prober,
		Cache:     store,
		Publisher: fanout,
		Status:    status,
		Logger:    log,
	})

	return &runtime{
		cfg:     cfg,
		log:     log,
		store:   store,
		fanout:  fanout,
		presets: presetReg,
		wall:    wall,
	}, nil
}

// defaults converts the configured defaults into raw view input.
func (r *runtime) defaults() domain.ViewInput {
	return domain.ViewInput{
		ClientID:     r.cfg.RedditClientID,
		ClientSecret: r.cfg.RedditClientSecret,
		Feed:         r.cfg.DefaultFeed,
		Sort:         r.cfg.DefaultSort,
		TimeWindow:   r.cfg.DefaultTimeWindow,
		Limit:        strconv.Itoa(r.cfg.DefaultLimit),
		Layout:       r.cfg.DefaultLayout,
		Columns:      strconv.Itoa(r.cfg.DefaultColumns),
		ThumbSize:    strconv.Itoa(r.cfg.DefaultThumbSize),
	}
}

// close releases storage and sink connections, logging failures.
func (r *runtime) close() {
	if r == nil {
		return
	}
	r.wall.Close()
	if err := r.fanout.Close(); err != nil {
		r.log.ErrorObj("publishers close failed", "error", err.Error())
	}
	if err := r.store.Close(); err != nil {
		r.log.ErrorObj("storage close failed", "error", err.Error())
	}
}
