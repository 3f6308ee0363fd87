package media

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/samvad-hq/samvad-media-wall/internal/logger"
	"github.com/samvad-hq/samvad-media-wall/pkg/httpclient"
	"golang.org/x/sync/errgroup"
)

const defaultProbeConcurrency = 4

// BrokenCache remembers media URLs that failed to load.
type BrokenCache interface {
	IsBroken(url string) (bool, error)
	MarkBroken(url string) error
}

// Target is one tile to verify.
type Target struct {
	ID  string
	URL string
}

// Outcome is the verdict for one Target. When OK is false the tile should be
// demoted; when Resolved is set the tile should use it as its new source.
type Outcome struct {
	ID       string
	OK       bool
	Resolved *Classification
	Reason   string
}

// Prober checks media reachability from the server side, standing in for the
// browser's element error event.
type Prober struct {
	client      httpclient.Client
	resolver    *Resolver
	cache       BrokenCache
	userAgent   string
	concurrency int
	log         logger.Logger
}

// ProberOptions configures a Prober.
type ProberOptions struct {
	UserAgent   string
	Concurrency int
}

// NewProber builds a prober. cache and log may be nil.
func NewProber(client httpclient.Client, cache BrokenCache, opts ProberOptions, log logger.Logger) *Prober {
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultProbeConcurrency
	}
	return &Prober{
		client:      client,
		resolver:    NewResolver(client, opts.UserAgent),
		cache:       cache,
		userAgent:   opts.UserAgent,
		concurrency: opts.Concurrency,
		log:         logger.Ensure(log),
	}
}

// Probe verifies every target with bounded concurrency. Outcomes are returned
// in target order; a failure on one target never affects another.
func (p *Prober) Probe(ctx context.Context, targets []Target) []Outcome {
	outcomes := make([]Outcome, len(targets))
	if len(targets) == 0 {
		return outcomes
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, t := range targets {
		g.Go(func() error {
			outcomes[i] = p.probeOne(gctx, t)
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

func (p *Prober) probeOne(ctx context.Context, t Target) Outcome {
	out := Outcome{ID: t.ID, OK: true}

	if err := ctx.Err(); err != nil {
		// Unverified tiles stay; the browser still gets its chance to fail them.
		return out
	}

	if p.cache != nil {
		broken, err := p.cache.IsBroken(t.URL)
		if err != nil {
			p.log.WarnObj("broken media lookup failed", "probe_cache_error", map[string]any{
				"url":   t.URL,
				"error": err.Error(),
			})
		} else if broken {
			out.OK = false
			out.Reason = "previously failed to load"
			return out
		}
	}

	reason, resolved := p.check(ctx, t.URL)
	if ctx.Err() != nil {
		return Outcome{ID: t.ID, OK: true}
	}
	if resolved != nil {
		out.Resolved = resolved
		return out
	}
	if reason == "" {
		return out
	}

	out.OK = false
	out.Reason = reason
	p.log.WarnObj("media probe failed", "probe_error", map[string]any{
		"tile_id": t.ID,
		"url":     t.URL,
		"reason":  reason,
	})
	if p.cache != nil {
		if err := p.cache.MarkBroken(t.URL); err != nil {
			p.log.WarnObj("broken media mark failed", "probe_cache_error", map[string]any{
				"url":   t.URL,
				"error": err.Error(),
			})
		}
	}
	return out
}

// check returns a failure reason, or a resolved classification for landing
// pages, or neither when the URL serves media directly.
func (p *Prober) check(ctx context.Context, url string) (string, *Classification) {
	var headers map[string]string
	if p.userAgent != "" {
		headers = map[string]string{"User-Agent": p.userAgent}
	}

	resp, err := p.client.Head(ctx, url, headers)
	if err != nil {
		return fmt.Sprintf("request failed: %v", err), nil
	}

	status := resp.StatusCode()
	switch {
	case status == http.StatusMethodNotAllowed:
		// Host refuses HEAD; leave the verdict to the browser.
		return "", nil
	case status >= 400:
		return fmt.Sprintf("status %d", status), nil
	}

	contentType := strings.ToLower(resp.Header("Content-Type"))
	if !strings.HasPrefix(contentType, "text/html") {
		return "", nil
	}

	resolved, err := p.resolver.Resolve(ctx, url)
	if err != nil {
		return fmt.Sprintf("landing page without media: %v", err), nil
	}
	return "", &resolved
}
