package render

import (
	"fmt"
	"unicode/utf8"

	"github.com/samvad-hq/samvad-media-wall/internal/domain"
	"github.com/samvad-hq/samvad-media-wall/internal/logger"
	"github.com/samvad-hq/samvad-media-wall/internal/media"
)

// MaxTitleRunes bounds the title shown on a tile.
const MaxTitleRunes = 100

// Tile is one inline media element in the grid.
type Tile struct {
	ID    string      `json:"id"`
	Title string      `json:"title"`
	Alt   string      `json:"alt"`
	Src   string      `json:"src"`
	Href  string      `json:"href"`
	Kind  media.Kind  `json:"kind"`
	Post  domain.Post `json:"-"`
}

// FallbackEntry is one line in the textual list of items not shown inline.
type FallbackEntry struct {
	Permalink string `json:"permalink"`
	URL       string `json:"url"`
	Failed    bool   `json:"failed"`
	Reason    string `json:"reason,omitempty"`
}

// Page is the output of one render pass.
type Page struct {
	Feed      string          `json:"feed"`
	Layout    domain.Layout   `json:"layout"`
	Columns   int             `json:"columns"`
	ThumbSize int             `json:"thumbnail_size"`
	Tiles     []Tile          `json:"tiles"`
	Fallback  []FallbackEntry `json:"fallback"`

	demoted map[string]bool
}

// Counts reports the number of grid tiles and fallback entries.
func (p *Page) Counts() (tiles, fallback int) {
	if p == nil {
		return 0, 0
	}
	return len(p.Tiles), len(p.Fallback)
}

// Build runs one render pass over posts. The page starts empty, so nothing
// from a previous pass survives. A post that cannot be rendered is logged and
// skipped without aborting the pass.
func Build(posts []domain.Post, view domain.ViewState, log logger.Logger) *Page {
	log = logger.Ensure(log)
	page := &Page{
		Feed:      view.Feed(),
		Layout:    view.Layout(),
		Columns:   view.Columns(),
		ThumbSize: view.ThumbSize(),
		Tiles:     make([]Tile, 0, len(posts)),
		Fallback:  make([]FallbackEntry, 0),
		demoted:   make(map[string]bool),
	}

	for i, post := range posts {
		if err := page.add(i, post); err != nil {
			log.WarnObj("post render failed", "render_error", map[string]any{
				"index": i,
				"url":   post.URL,
				"error": err.Error(),
			})
		}
	}
	return page
}

func (p *Page) add(i int, post domain.Post) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	c := media.Classify(post.URL)
	if !c.Media {
		p.Fallback = append(p.Fallback, FallbackEntry{
			Permalink: post.PermalinkURL(),
			URL:       post.URL,
		})
		return nil
	}

	p.Tiles = append(p.Tiles, Tile{
		ID:    fmt.Sprintf("tile-%d", i),
		Title: TruncateTitle(post.Title),
		Alt:   post.Title,
		Src:   c.URL,
		Href:  c.URL,
		Kind:  c.Kind,
		Post:  post,
	})
	return nil
}

// Demote moves a tile to the fallback list. It returns false, and changes
// nothing, when the tile is unknown or was already demoted.
func (p *Page) Demote(tileID, reason string) bool {
	if p == nil || p.demoted[tileID] {
		return false
	}
	for i, t := range p.Tiles {
		if t.ID != tileID {
			continue
		}
		p.Tiles = append(p.Tiles[:i:i], p.Tiles[i+1:]...)
		p.Fallback = append(p.Fallback, FallbackEntry{
			Permalink: t.Post.PermalinkURL(),
			URL:       t.Post.URL,
			Failed:    true,
			Reason:    reason,
		})
		if p.demoted == nil {
			p.demoted = make(map[string]bool)
		}
		p.demoted[tileID] = true
		return true
	}
	return false
}

// Retarget swaps a tile's source, used when a landing page resolves to direct media.
func (p *Page) Retarget(tileID string, c media.Classification) bool {
	if p == nil || !c.Media {
		return false
	}
	for i := range p.Tiles {
		if p.Tiles[i].ID == tileID {
			p.Tiles[i].Src = c.URL
			p.Tiles[i].Kind = c.Kind
			return true
		}
	}
	return false
}

// Tile returns the tile with the given id.
func (p *Page) Tile(tileID string) (Tile, bool) {
	if p == nil {
		return Tile{}, false
	}
	for _, t := range p.Tiles {
		if t.ID == tileID {
			return t, true
		}
	}
	return Tile{}, false
}

// Clone returns a deep copy so snapshots can be handed out while the original
// keeps changing.
func (p *Page) Clone() *Page {
	if p == nil {
		return nil
	}
	out := *p
	out.Tiles = make([]Tile, len(p.Tiles))
	copy(out.Tiles, p.Tiles)
	out.Fallback = make([]FallbackEntry, len(p.Fallback))
	copy(out.Fallback, p.Fallback)
	out.demoted = make(map[string]bool, len(p.demoted))
	for k, v := range p.demoted {
		out.demoted[k] = v
	}
	return &out
}

// TruncateTitle cuts s to MaxTitleRunes runes.
func TruncateTitle(s string) string {
	if utf8.RuneCountInString(s) <= MaxTitleRunes {
		return s
	}
	return string([]rune(s)[:MaxTitleRunes])
}
