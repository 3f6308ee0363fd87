package app

import (
	"context"
	"fmt"

	"github.com/samvad-hq/samvad-media-wall/internal/config"
	"github.com/samvad-hq/samvad-media-wall/internal/domain"
	"github.com/samvad-hq/samvad-media-wall/internal/logger"
	"github.com/samvad-hq/samvad-media-wall/internal/server"
)

// Viewer is the long-running media wall: an HTTP server over the gallery.
type Viewer struct {
	rt     *runtime
	server *server.Server
}

// NewViewer builds the viewer runtime from config.
func NewViewer(ctx context.Context, cfg *config.Config, log logger.Logger) (*Viewer, error) {
	rt, err := newRuntime(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	srv := server.New(server.Options{
		Wall:     rt.wall,
		Defaults: rt.defaults(),
		Presets:  rt.presets,
		Title:    cfg.AppName,
		Logger:   rt.log,
	})
	return &Viewer{rt: rt, server: srv}, nil
}

// Run renders the default feed once, then serves until ctx is cancelled.
func (v *Viewer) Run(ctx context.Context) error {
	if v == nil || v.rt == nil {
		return fmt.Errorf("viewer is not initialized")
	}
	defer v.rt.close()

	view := domain.NewViewState(v.rt.defaults())
	v.rt.wall.Guard("initial refresh", func() error {
		return v.rt.wall.Refresh(ctx, view).Err
	})

	if err := v.server.ListenAndServe(ctx, v.rt.cfg.ListenAddr); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
