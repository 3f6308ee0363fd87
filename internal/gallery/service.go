package gallery

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/samvad-hq/samvad-media-wall/internal/domain"
	"github.com/samvad-hq/samvad-media-wall/internal/logger"
	"github.com/samvad-hq/samvad-media-wall/internal/media"
	"github.com/samvad-hq/samvad-media-wall/internal/render"
	"github.com/samvad-hq/samvad-media-wall/pkg/publishers"
	"github.com/samvad-hq/samvad-media-wall/pkg/reddit"
)

const (
	msgMissingCredentials = "Please enter Client ID and Secret"
	msgMissingFeed        = "Please enter a subreddit or multireddit"
	msgMediaFailed        = "Failed to load media: "

	publishTimeout = 10 * time.Second
)

var (
	// ErrSuperseded is returned by a refresh that a newer refresh replaced.
	ErrSuperseded = errors.New("refresh superseded by a newer one")
	// ErrMissingCredentials and ErrMissingFeed reject a refresh before any request.
	ErrMissingCredentials = reddit.ErrMissingCredentials
	ErrMissingFeed        = reddit.ErrMissingFeed
)

// Prober verifies media tiles before a page is installed.
type Prober interface {
	Probe(ctx context.Context, targets []media.Target) []media.Outcome
}

// EventPublisher receives an event after every installed refresh.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// Options wires a Service. Client is required; the rest may be nil.
type Options struct {
	Client    *reddit.Client
	Prober    Prober
	Cache     media.BrokenCache
	Publisher EventPublisher
	Status    *StatusBoard
	Logger    logger.Logger
}

// Result describes one refresh.
type Result struct {
	Generation uint64
	Page       *render.Page
	Stale      bool
	Err        error
}

// Snapshot is a copy of what the wall currently shows.
type Snapshot struct {
	Generation uint64
	Page       *render.Page
	View       domain.ViewState
	HasView    bool
	Status     domain.Status
}

// Service owns the current wall. Every refresh gets a generation number;
// starting a refresh cancels the one in flight, and only the newest
// generation may install its page or write status.
type Service struct {
	client    *reddit.Client
	prober    Prober
	cache     media.BrokenCache
	publisher EventPublisher
	status    *StatusBoard
	log       logger.Logger
	now       func() time.Time

	mu        sync.Mutex
	gen       uint64
	cancel    context.CancelFunc
	installed uint64
	current   *render.Page
	view      domain.ViewState
	hasView   bool
}

// New builds a Service.
func New(opts Options) *Service {
	log := logger.Ensure(opts.Logger)
	status := opts.Status
	if status == nil {
		status = NewStatusBoard(log)
	}
	client := opts.Client
	if client == nil {
		client = reddit.NewClient(reddit.Options{}, nil, nil)
	}
	return &Service{
		client:    client,
		prober:    opts.Prober,
		cache:     opts.Cache,
		publisher: opts.Publisher,
		status:    status,
		log:       log,
		now:       time.Now,
	}
}

// Status exposes the status board.
func (s *Service) Status() *StatusBoard { return s.status }

// Refresh runs one fetch-render cycle for view and installs the result,
// unless a newer refresh started in the meantime.
func (s *Service) Refresh(ctx context.Context, view domain.ViewState) Result {
	gen, ctx, done := s.begin(ctx)
	defer done()
	reporter := scopedReporter{svc: s, gen: gen}

	if !view.Credentials().Complete() {
		reporter.Report(msgMissingCredentials, true)
		return Result{Generation: gen, Err: ErrMissingCredentials}
	}
	if view.Feed() == "" {
		reporter.Report(msgMissingFeed, true)
		return Result{Generation: gen, Err: ErrMissingFeed}
	}

	posts, fetchErr := s.client.WithReporter(reporter).FetchPosts(ctx, view.Credentials(), reddit.QueryFromView(view))
	if !s.isCurrent(gen) {
		return s.stale(gen, view)
	}

	// A failed fetch still clears the wall, like any other render pass.
	page := render.Build(posts, view, s.log)
	if fetchErr == nil {
		s.probe(ctx, reporter, page)
	}

	if !s.install(gen, view, page) {
		return s.stale(gen, view)
	}
	s.log.InfoObj("wall refreshed", "refresh", map[string]any{
		"generation": gen,
		"feed":       view.Feed(),
		"sort":       view.Sort(),
		"posts":      len(posts),
		"tiles":      len(page.Tiles),
		"fallback":   len(page.Fallback),
	})

	if fetchErr == nil {
		s.publish(ctx, refreshEvent(gen, view, page, s.now()))
	}
	return Result{Generation: gen, Page: page.Clone(), Err: fetchErr}
}

// Current returns a copy of the installed page, the view that produced it
// and the current status.
func (s *Service) Current() Snapshot {
	s.mu.Lock()
	snap := Snapshot{
		Generation: s.installed,
		Page:       s.current.Clone(),
		View:       s.view,
		HasView:    s.hasView,
	}
	s.mu.Unlock()
	snap.Status = s.status.Current()
	return snap
}

// ReportFailure demotes a tile whose media failed to load in the browser.
// Tile ids repeat across refreshes, so the report must carry the source the
// tile is showing now. It reports false when the tile is unknown, already
// demoted, or showing a different URL.
func (s *Service) ReportFailure(tileID, url string) bool {
	url = strings.TrimSpace(url)
	s.mu.Lock()
	tile, ok := s.current.Tile(tileID)
	if ok && tile.Src != url {
		ok = false
	}
	if ok {
		ok = s.current.Demote(tileID, "failed to load in browser")
	}
	s.mu.Unlock()
	if !ok {
		s.log.DebugObj("ignored media failure report", "media_failure", map[string]any{
			"tile_id": tileID,
			"url":     url,
		})
		return false
	}

	if s.cache != nil {
		if err := s.cache.MarkBroken(tile.Src); err != nil {
			s.log.WarnObj("broken media mark failed", "media_failure", map[string]any{
				"url":   tile.Src,
				"error": err.Error(),
			})
		}
	}
	s.status.Report(msgMediaFailed+tile.Src, true)
	return true
}

// Close cancels any refresh still in flight.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Service) begin(parent context.Context) (uint64, context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	gen := s.gen
	s.cancel = cancel
	s.mu.Unlock()

	return gen, ctx, cancel
}

func (s *Service) isCurrent(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen == gen
}

func (s *Service) install(gen uint64, view domain.ViewState, page *render.Page) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return false
	}
	s.installed = gen
	s.current = page.Clone()
	s.view = view
	s.hasView = true
	return true
}

func (s *Service) stale(gen uint64, view domain.ViewState) Result {
	s.log.DebugObj("discarded stale refresh", "refresh", map[string]any{
		"generation": gen,
		"feed":       view.Feed(),
	})
	return Result{Generation: gen, Stale: true, Err: ErrSuperseded}
}

func (s *Service) probe(ctx context.Context, reporter scopedReporter, page *render.Page) {
	if s.prober == nil || len(page.Tiles) == 0 {
		return
	}

	targets := make([]media.Target, 0, len(page.Tiles))
	for _, t := range page.Tiles {
		targets = append(targets, media.Target{ID: t.ID, URL: t.Src})
	}

	for _, out := range s.prober.Probe(ctx, targets) {
		switch {
		case out.Resolved != nil:
			page.Retarget(out.ID, *out.Resolved)
		case !out.OK:
			tile, ok := page.Tile(out.ID)
			if ok && page.Demote(out.ID, out.Reason) {
				reporter.Report(msgMediaFailed+tile.Src, true)
			}
		}
	}
}

func (s *Service) publish(ctx context.Context, evt publishers.Event) {
	if s.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	delivered, err := s.publisher.Publish(ctx, evt)
	if err != nil {
		s.log.WarnObj("refresh event publish failed", "publish", map[string]any{
			"generation": evt.Generation,
			"delivered":  delivered,
			"error":      err.Error(),
		})
		return
	}
	s.log.DebugObj("refresh event published", "publish", map[string]any{
		"generation": evt.Generation,
		"delivered":  delivered,
	})
}
