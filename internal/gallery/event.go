package gallery

import (
	"time"

	"github.com/samvad-hq/samvad-media-wall/internal/domain"
	"github.com/samvad-hq/samvad-media-wall/internal/render"
	"github.com/samvad-hq/samvad-media-wall/pkg/publishers"
)

func refreshEvent(gen uint64, view domain.ViewState, page *render.Page, at time.Time) publishers.Event {
	tiles, fallback := page.Counts()
	evt := publishers.Event{
		Feed:          view.Feed(),
		Sort:          string(view.Sort()),
		TimeWindow:    string(view.TimeWindowParam()),
		Generation:    gen,
		MediaCount:    tiles,
		FallbackCount: fallback,
		Items:         make([]publishers.EventItem, 0, tiles+fallback),
		RenderedAt:    at.UTC(),
	}
	for _, t := range page.Tiles {
		evt.Items = append(evt.Items, publishers.EventItem{
			Title:     t.Post.Title,
			URL:       t.Src,
			Permalink: t.Post.PermalinkURL(),
			Kind:      string(t.Kind),
			Displayed: true,
		})
	}
	for _, f := range page.Fallback {
		evt.Items = append(evt.Items, publishers.EventItem{
			URL:       f.URL,
			Permalink: f.Permalink,
		})
	}
	return evt
}
