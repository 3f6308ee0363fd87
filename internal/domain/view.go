package domain

import "strings"

// ViewState is everything one refresh reads. It is built once at the start of
// the refresh and never mutated afterwards.
type ViewState struct {
	credentials Credentials
	feed        string
	sort        Sort
	window      TimeWindow
	limit       int
	layout      Layout
	columns     int
	thumbSize   int
}

// ViewInput is the raw, untrusted form of a ViewState.
type ViewInput struct {
	ClientID     string
	ClientSecret string
	Feed         string
	Sort         string
	TimeWindow   string
	Limit        string
	Layout       string
	Columns      string
	ThumbSize    string
}

// NewViewState trims, parses and clamps raw input.
func NewViewState(in ViewInput) ViewState {
	return ViewState{
		credentials: Credentials{
			ID:     strings.TrimSpace(in.ClientID),
			Secret: strings.TrimSpace(in.ClientSecret),
		},
		feed:      strings.TrimSpace(in.Feed),
		sort:      ParseSort(in.Sort),
		window:    ParseTimeWindow(in.TimeWindow),
		limit:     ParseLimit(in.Limit),
		layout:    ParseLayout(in.Layout),
		columns:   parseClamped(in.Columns, DefaultColumns, MinColumns, MaxColumns),
		thumbSize: parseClamped(in.ThumbSize, DefaultThumbSize, MinThumbSize, MaxThumbSize),
	}
}

func (v ViewState) Credentials() Credentials { return v.credentials }
func (v ViewState) Feed() string             { return v.feed }
func (v ViewState) Sort() Sort               { return v.sort }
func (v ViewState) Limit() int               { return v.limit }
func (v ViewState) Layout() Layout           { return v.layout }
func (v ViewState) Columns() int             { return v.columns }
func (v ViewState) ThumbSize() int           { return v.thumbSize }

// SelectedWindow is the window the controls show, regardless of sort.
func (v ViewState) SelectedWindow() TimeWindow { return v.window }

// TimeWindowParam returns the window to send upstream; empty unless sort is top.
func (v ViewState) TimeWindowParam() TimeWindow {
	if v.sort != SortTop {
		return ""
	}
	return v.window
}

// WithCredentials returns a copy whose blank credential fields are filled from creds.
func (v ViewState) WithCredentials(creds Credentials) ViewState {
	if v.credentials.ID == "" {
		v.credentials.ID = strings.TrimSpace(creds.ID)
	}
	if v.credentials.Secret == "" {
		v.credentials.Secret = strings.TrimSpace(creds.Secret)
	}
	return v
}
