package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/samvad-hq/samvad-media-wall/internal/domain"
	"github.com/samvad-hq/samvad-media-wall/internal/render"
)

const maxFailureBody = 4 << 10

type wallResponse struct {
	Generation uint64        `json:"generation"`
	Status     domain.Status `json:"status"`
	Page       *render.Page  `json:"page"`
}

type failureReport struct {
	TileID string `json:"tile_id"`
	URL    string `json:"url"`
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	snap := s.wall.Current()
	view := s.baseView(snap.View, snap.HasView)

	links := make([]render.PresetLink, 0)
	for _, p := range s.presets.All() {
		links = append(links, render.PresetLink{ID: p.ID, Name: p.Name})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := render.Render(w, render.PageData{
		Title:       s.title,
		Page:        snap.Page,
		Status:      snap.Status,
		Form:        render.FormFromView(view),
		Presets:     links,
		Interactive: true,
	})
	if err != nil {
		s.log.ErrorObj("render page failed", "http", map[string]any{"error": err.Error()})
	}
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	snap := s.wall.Current()
	in := viewInput(s.baseView(snap.View, snap.HasView))
	in = overlayForm(in, r)

	if id := strings.TrimSpace(r.PostFormValue("preset")); id != "" {
		p, ok := s.presets.ByID(id)
		if !ok {
			http.Error(w, "unknown preset", http.StatusBadRequest)
			return
		}
		in = p.Apply(in)
	}

	view := domain.NewViewState(in).WithCredentials(s.credentials())
	s.remember(view.Credentials())

	s.wall.Guard("refresh", func() error {
		return s.wall.Refresh(r.Context(), view).Err
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleWall(w http.ResponseWriter, _ *http.Request) {
	snap := s.wall.Current()
	writeJSON(w, http.StatusOK, wallResponse{
		Generation: snap.Generation,
		Status:     snap.Status,
		Page:       snap.Page,
	})
}

func (s *Server) handleMediaFailure(w http.ResponseWriter, r *http.Request) {
	var report failureReport
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxFailureBody))
	if err := dec.Decode(&report); err != nil || strings.TrimSpace(report.TileID) == "" {
		http.Error(w, "tile_id is required", http.StatusBadRequest)
		return
	}

	demoted := false
	s.wall.Guard("media failure", func() error {
		demoted = s.wall.ReportFailure(strings.TrimSpace(report.TileID), report.URL)
		return nil
	})
	writeJSON(w, http.StatusOK, map[string]bool{"demoted": demoted})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// baseView is what the form starts from: the installed view, or the
// configured defaults before the first refresh.
func (s *Server) baseView(current domain.ViewState, ok bool) domain.ViewState {
	if !ok {
		current = domain.NewViewState(s.defaults)
	}
	return current.WithCredentials(s.credentials())
}

func viewInput(v domain.ViewState) domain.ViewInput {
	return domain.ViewInput{
		ClientID:     v.Credentials().ID,
		ClientSecret: v.Credentials().Secret,
		Feed:         v.Feed(),
		Sort:         string(v.Sort()),
		TimeWindow:   string(v.SelectedWindow()),
		Limit:        strconv.Itoa(v.Limit()),
		Layout:       string(v.Layout()),
		Columns:      strconv.Itoa(v.Columns()),
		ThumbSize:    strconv.Itoa(v.ThumbSize()),
	}
}

// overlayForm applies submitted fields onto in. Credentials only override
// when typed; the secret is never echoed back, so a blank one means "keep".
func overlayForm(in domain.ViewInput, r *http.Request) domain.ViewInput {
	if v := strings.TrimSpace(r.PostFormValue("client_id")); v != "" {
		in.ClientID = v
	}
	if v := strings.TrimSpace(r.PostFormValue("client_secret")); v != "" {
		in.ClientSecret = v
	}
	set := func(dst *string, keys ...string) {
		for _, k := range keys {
			if vals, ok := r.PostForm[k]; ok {
				*dst = vals[0]
				return
			}
		}
	}
	set(&in.Feed, "feed")
	set(&in.Limit, "limit")
	set(&in.Sort, "sort", "current_sort")
	set(&in.TimeWindow, "time_window", "current_time_window")
	set(&in.Layout, "layout", "current_layout")
	set(&in.Columns, "columns")
	set(&in.ThumbSize, "thumbnail_size")
	return in
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
