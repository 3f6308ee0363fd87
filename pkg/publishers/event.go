package publishers

import "time"

// Event describes one installed refresh of the media wall.
type Event struct {
	Feed          string      `json:"feed"`
	Sort          string      `json:"sort"`
	TimeWindow    string      `json:"time_window,omitempty"`
	Generation    uint64      `json:"generation"`
	MediaCount    int         `json:"media_count"`
	FallbackCount int         `json:"fallback_count"`
	Items         []EventItem `json:"items"`
	RenderedAt    time.Time   `json:"rendered_at"`
}

// EventItem is one post as it ended up on the wall.
type EventItem struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	Permalink string `json:"permalink"`
	Kind      string `json:"kind,omitempty"`
	Displayed bool   `json:"displayed"`
}

// attributes returns the routing attributes attached to queue/topic messages.
func (e Event) attributes() map[string]string {
	return map[string]string{
		"feed": e.Feed,
		"sort": e.Sort,
	}
}
