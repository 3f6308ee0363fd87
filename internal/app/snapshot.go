package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/samvad-hq/samvad-media-wall/internal/config"
	"github.com/samvad-hq/samvad-media-wall/internal/domain"
	"github.com/samvad-hq/samvad-media-wall/internal/logger"
	"github.com/samvad-hq/samvad-media-wall/internal/render"
)

// Snapshot refreshes once and writes a static HTML page.
type Snapshot struct {
	rt *runtime
}

// NewSnapshot builds the one-shot runtime from config.
func NewSnapshot(ctx context.Context, cfg *config.Config, log logger.Logger) (*Snapshot, error) {
	rt, err := newRuntime(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	return &Snapshot{rt: rt}, nil
}

// Run performs the refresh and writes the page to the configured output file,
// or to stdout when none is set. The page is written even when the refresh
// failed, so the status bar explains what went wrong; the error is returned too.
func (s *Snapshot) Run(ctx context.Context, stdout io.Writer) error {
	if s == nil || s.rt == nil {
		return fmt.Errorf("snapshot is not initialized")
	}
	defer s.rt.close()

	in := s.rt.defaults()
	if id := strings.TrimSpace(s.rt.cfg.Preset); id != "" {
		p, ok := s.rt.presets.ByID(id)
		if !ok {
			return fmt.Errorf("unknown preset %q", id)
		}
		in = p.Apply(in)
	}
	view := domain.NewViewState(in)

	res := s.rt.wall.Refresh(ctx, view)
	snap := s.rt.wall.Current()

	out, closeOut, err := openOutput(s.rt.cfg.OutputPath, stdout)
	if err != nil {
		return err
	}
	renderErr := render.Render(out, render.PageData{
		Title:  s.rt.cfg.AppName,
		Page:   snap.Page,
		Status: snap.Status,
		Form:   render.FormFromView(view),
	})
	if err := closeOut(); err != nil && renderErr == nil {
		renderErr = fmt.Errorf("close output: %w", err)
	}
	if renderErr != nil {
		return renderErr
	}

	tiles, fallback := snap.Page.Counts()
	s.rt.log.InfoObj("snapshot written", "snapshot", map[string]any{
		"output":   s.rt.cfg.OutputPath,
		"feed":     view.Feed(),
		"tiles":    tiles,
		"fallback": fallback,
	})
	if res.Err != nil {
		return fmt.Errorf("refresh: %w", res.Err)
	}
	return nil
}

func openOutput(path string, stdout io.Writer) (io.Writer, func() error, error) {
	path = strings.TrimSpace(path)
	if path == "" || path == "-" {
		return stdout, func() error { return nil }, nil
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output: %w", err)
	}
	return f, f.Close, nil
}
