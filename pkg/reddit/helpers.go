package reddit

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

func responseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		cut := maxLen
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		return s[:cut] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}

// apiError captures the error fields both endpoints may return. The listing
// API sends numeric codes ({"error":403,"message":"Forbidden"}); the token
// endpoint sends strings ({"error":"invalid_grant"}).
type apiError struct {
	Code    json.RawMessage `json:"error"`
	Message string          `json:"message"`
}

func (e apiError) err() error {
	raw := strings.TrimSpace(string(e.Code))
	if raw == "" || raw == "null" {
		return nil
	}

	code := raw
	var s string
	if err := json.Unmarshal(e.Code, &s); err == nil {
		code = s
	} else if n, err := strconv.ParseFloat(raw, 64); err == nil {
		code = strconv.FormatFloat(n, 'f', -1, 64)
	}
	if code == "" {
		return nil
	}

	if msg := strings.TrimSpace(e.Message); msg != "" {
		return fmt.Errorf("%s: %s", code, msg)
	}
	return fmt.Errorf("%s", code)
}
