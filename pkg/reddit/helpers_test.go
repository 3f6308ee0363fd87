package reddit

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestResponseSnippetKeepsRunesWhole(t *testing.T) {
	body := "a" + strings.Repeat("é", 300)

	got := responseSnippet([]byte(body))

	assert.True(t, utf8.ValidString(got))
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Equal(t, 511, len(strings.TrimSuffix(got, "...")))
}

func TestResponseSnippetShortBodies(t *testing.T) {
	assert.Equal(t, "<empty>", responseSnippet([]byte("  ")))
	assert.Equal(t, "nope", responseSnippet([]byte(" nope\n")))
}
