package media

import "strings"

// Kind is the element a media URL renders as.
type Kind string

const (
	KindNone  Kind = ""
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

var (
	imageExtensions = []string{".gif", ".jpg", ".jpeg", ".png"}
	videoExtensions = []string{".mp4", ".webm"}

	// imageHosts serve stills only; every other known host is treated as video.
	imageHosts = []string{"i.redd.it"}
	videoHosts = []string{"gfycat.com", "giphy.com", "tenor.com", "imgur.com", "redgifs.com", "v.redd.it"}
)

// Classification is the display decision for one URL.
type Classification struct {
	// URL is the normalized URL with its original casing preserved.
	URL   string
	Media bool
	Kind  Kind
}

// Normalize rewrites the one known container variant (.gifv) to its direct video form.
func Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasSuffix(strings.ToLower(raw), ".gifv") {
		return raw[:len(raw)-len(".gifv")] + ".mp4"
	}
	return raw
}

// Classify decides whether raw is directly displayable media and, if so, as what.
// It is a pure function of the URL text.
func Classify(raw string) Classification {
	normalized := Normalize(raw)
	lower := strings.ToLower(normalized)

	out := Classification{URL: normalized}
	// Video hosts win over image extensions: imgur and giphy serve .png and
	// .gif links that play as video.
	switch {
	case hasAnySuffix(lower, videoExtensions), containsAny(lower, videoHosts):
		out.Media, out.Kind = true, KindVideo
	case hasAnySuffix(lower, imageExtensions), containsAny(lower, imageHosts):
		out.Media, out.Kind = true, KindImage
	}
	return out
}

// KnownHosts returns the media host allow list.
func KnownHosts() []string {
	out := make([]string, 0, len(imageHosts)+len(videoHosts))
	out = append(out, videoHosts...)
	return append(out, imageHosts...)
}

func hasAnySuffix(s string, suffixes []string) bool {
	for _, suf := range suffixes {
		if strings.HasSuffix(s, suf) {
			return true
		}
	}
	return false
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
