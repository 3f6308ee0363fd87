package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLimit(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"0", 1},
		{"500", 100},
		{"-3", 1},
		{"25", 25},
		{"", DefaultLimit},
		{"abc", DefaultLimit},
		{" 7 ", 7},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLimit(tt.input))
		})
	}
}

func TestParseSortAndWindowFallbacks(t *testing.T) {
	assert.Equal(t, SortTop, ParseSort("TOP"))
	assert.Equal(t, SortBest, ParseSort("sideways"))
	assert.Equal(t, WindowWeek, ParseTimeWindow("week"))
	assert.Equal(t, WindowDay, ParseTimeWindow(""))
	assert.Equal(t, LayoutList, ParseLayout("list"))
	assert.Equal(t, LayoutGrid, ParseLayout("masonry"))
}

func TestViewStateTimeWindowOnlyForTop(t *testing.T) {
	top := NewViewState(ViewInput{Sort: "top", TimeWindow: "year"})
	assert.Equal(t, WindowYear, top.TimeWindowParam())

	hot := NewViewState(ViewInput{Sort: "hot", TimeWindow: "year"})
	assert.Equal(t, TimeWindow(""), hot.TimeWindowParam())
	assert.Equal(t, WindowYear, hot.SelectedWindow())
}

func TestViewStateClampsSliders(t *testing.T) {
	v := NewViewState(ViewInput{Columns: "40", ThumbSize: "10"})
	assert.Equal(t, MaxColumns, v.Columns())
	assert.Equal(t, MinThumbSize, v.ThumbSize())

	v = NewViewState(ViewInput{})
	assert.Equal(t, DefaultColumns, v.Columns())
	assert.Equal(t, DefaultThumbSize, v.ThumbSize())
	assert.Equal(t, DefaultLimit, v.Limit())
}

func TestViewStateWithCredentialsKeepsExplicit(t *testing.T) {
	v := NewViewState(ViewInput{ClientID: " id ", ClientSecret: "secret"})
	got := v.WithCredentials(Credentials{ID: "other", Secret: "other"})
	assert.Equal(t, "id", got.Credentials().ID)

	empty := NewViewState(ViewInput{})
	got = empty.WithCredentials(Credentials{ID: "cfg", Secret: "s"})
	assert.Equal(t, "cfg", got.Credentials().ID)
	assert.Equal(t, "", empty.Credentials().ID)

	idOnly := NewViewState(ViewInput{ClientID: "mine"})
	got = idOnly.WithCredentials(Credentials{ID: "cfg", Secret: "s"})
	assert.Equal(t, "mine", got.Credentials().ID)
	assert.Equal(t, "s", got.Credentials().Secret)
}

func TestCredentialsStringRedactsSecret(t *testing.T) {
	c := Credentials{ID: "abc", Secret: "hunter2"}
	assert.NotContains(t, fmt.Sprint(c), "hunter2")
	assert.True(t, c.Complete())
	assert.False(t, Credentials{ID: "abc", Secret: "  "}.Complete())
}

func TestPermalinkURL(t *testing.T) {
	assert.Equal(t, "https://reddit.com/r/pics/comments/1/x/", Post{Permalink: "/r/pics/comments/1/x/"}.PermalinkURL())
	assert.Equal(t, "", Post{}.PermalinkURL())
}
