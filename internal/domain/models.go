package domain

import (
	"strconv"
	"strings"
	"time"
)

// Domain contains core models shared by the fetch, classify and render stages.

// Credentials is the client id/secret pair used for the token grant.
type Credentials struct {
	ID     string
	Secret string
}

// Complete reports whether both halves are present.
func (c Credentials) Complete() bool {
	return strings.TrimSpace(c.ID) != "" && strings.TrimSpace(c.Secret) != ""
}

// String never prints the secret.
func (c Credentials) String() string {
	if c.Secret == "" {
		return "Credentials{ID:" + c.ID + "}"
	}
	return "Credentials{ID:" + c.ID + " Secret:***}"
}

// Post is a single listing record.
type Post struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	Permalink string `json:"permalink"`
}

const permalinkHost = "https://reddit.com"

// PermalinkURL returns the absolute discussion link for the post.
func (p Post) PermalinkURL() string {
	if p.Permalink == "" {
		return ""
	}
	if strings.HasPrefix(p.Permalink, "http://") || strings.HasPrefix(p.Permalink, "https://") {
		return p.Permalink
	}
	return permalinkHost + p.Permalink
}

// Sort is the listing order.
type Sort string

const (
	SortBest          Sort = "best"
	SortHot           Sort = "hot"
	SortNew           Sort = "new"
	SortTop           Sort = "top"
	SortRising        Sort = "rising"
	SortControversial Sort = "controversial"
)

// Sorts lists the supported sort modes in display order.
var Sorts = []Sort{SortBest, SortHot, SortNew, SortTop, SortRising, SortControversial}

// ParseSort maps raw input to a Sort, falling back to best.
func ParseSort(raw string) Sort {
	raw = strings.ToLower(strings.TrimSpace(raw))
	for _, s := range Sorts {
		if string(s) == raw {
			return s
		}
	}
	return SortBest
}

// TimeWindow bounds a top listing.
type TimeWindow string

const (
	WindowHour  TimeWindow = "hour"
	WindowDay   TimeWindow = "day"
	WindowWeek  TimeWindow = "week"
	WindowMonth TimeWindow = "month"
	WindowYear  TimeWindow = "year"
	WindowAll   TimeWindow = "all"
)

// TimeWindows lists the supported windows in display order.
var TimeWindows = []TimeWindow{WindowHour, WindowDay, WindowWeek, WindowMonth, WindowYear, WindowAll}

// ParseTimeWindow maps raw input to a TimeWindow, falling back to day.
func ParseTimeWindow(raw string) TimeWindow {
	raw = strings.ToLower(strings.TrimSpace(raw))
	for _, w := range TimeWindows {
		if string(w) == raw {
			return w
		}
	}
	return WindowDay
}

// Layout selects how tiles are arranged.
type Layout string

const (
	LayoutGrid Layout = "grid"
	LayoutList Layout = "list"
)

// Layouts lists the supported layouts.
var Layouts = []Layout{LayoutGrid, LayoutList}

// ParseLayout maps raw input to a Layout, falling back to grid.
func ParseLayout(raw string) Layout {
	if Layout(strings.ToLower(strings.TrimSpace(raw))) == LayoutList {
		return LayoutList
	}
	return LayoutGrid
}

const (
	MinLimit     = 1
	MaxLimit     = 100
	DefaultLimit = 5

	MinColumns     = 1
	MaxColumns     = 10
	DefaultColumns = 4

	MinThumbSize     = 50
	MaxThumbSize     = 600
	DefaultThumbSize = 200
)

// ClampLimit bounds n to [MinLimit, MaxLimit].
func ClampLimit(n int) int {
	return clamp(n, MinLimit, MaxLimit)
}

// ParseLimit parses a user-typed count. Non-numeric input yields DefaultLimit;
// numbers are clamped, so "0" becomes 1 and "500" becomes 100.
func ParseLimit(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return DefaultLimit
	}
	return ClampLimit(n)
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

func parseClamped(raw string, def, lo, hi int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return def
	}
	return clamp(n, lo, hi)
}

// Status is the single shared status indicator.
type Status struct {
	Message   string    `json:"message"`
	IsError   bool      `json:"is_error"`
	UpdatedAt time.Time `json:"updated_at"`
}
