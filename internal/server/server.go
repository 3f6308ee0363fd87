package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/samvad-hq/samvad-media-wall/internal/domain"
	"github.com/samvad-hq/samvad-media-wall/internal/gallery"
	"github.com/samvad-hq/samvad-media-wall/internal/logger"
	"github.com/samvad-hq/samvad-media-wall/pkg/presets"
)

const shutdownTimeout = 10 * time.Second

// Wall is the gallery surface the handlers drive.
type Wall interface {
	Refresh(ctx context.Context, view domain.ViewState) gallery.Result
	Current() gallery.Snapshot
	ReportFailure(tileID, url string) bool
	Guard(action string, fn func() error)
}

// Options configures a Server.
type Options struct {
	Wall     Wall
	Defaults domain.ViewInput
	Presets  *presets.Registry
	Title    string
	Logger   logger.Logger
}

// Server serves the wall page and its small JSON API.
type Server struct {
	wall     Wall
	defaults domain.ViewInput
	presets  *presets.Registry
	title    string
	log      logger.Logger
	mux      *http.ServeMux

	// Credentials typed into the form live here for the process lifetime only.
	credMu sync.RWMutex
	creds  domain.Credentials
}

// New builds a Server and registers its routes.
func New(opts Options) *Server {
	reg := opts.Presets
	if reg == nil {
		reg = presets.Empty()
	}
	s := &Server{
		wall:     opts.Wall,
		defaults: opts.Defaults,
		presets:  reg,
		title:    opts.Title,
		log:      logger.Ensure(opts.Logger),
		mux:      http.NewServeMux(),
		creds: domain.Credentials{
			ID:     opts.Defaults.ClientID,
			Secret: opts.Defaults.ClientSecret,
		},
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("POST /refresh", s.handleRefresh)
	s.mux.HandleFunc("GET /api/wall", s.handleWall)
	s.mux.HandleFunc("POST /api/media-failures", s.handleMediaFailure)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
}

// Handler returns the root handler with request logging.
func (s *Server) Handler() http.Handler {
	return s.logRequests(s.mux)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.InfoObj("media wall listening", "server", map[string]any{"addr": addr})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.log.InfoObj("media wall stopped", "server", map[string]any{"reason": ctx.Err().Error()})
	return nil
}

func (s *Server) credentials() domain.Credentials {
	s.credMu.RLock()
	defer s.credMu.RUnlock()
	return s.creds
}

func (s *Server) remember(creds domain.Credentials) {
	s.credMu.Lock()
	defer s.credMu.Unlock()
	s.creds = creds
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.DebugObj("http request", "http", map[string]any{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     rec.status,
			"elapsed_ms": time.Since(start).Milliseconds(),
		})
	})
}
