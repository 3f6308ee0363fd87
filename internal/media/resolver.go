package media

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/samvad-hq/samvad-media-wall/pkg/httpclient"
)

const (
	maxHTMLBodyBytes = 1 << 20 // 1 MiB
)

// Resolver turns a media-host landing page into a direct media URL using its
// Open Graph tags.
type Resolver struct {
	client    httpclient.Client
	userAgent string
}

// NewResolver constructs a resolver around the shared HTTP client.
func NewResolver(client httpclient.Client, userAgent string) *Resolver {
	return &Resolver{client: client, userAgent: userAgent}
}

// Resolve fetches pageURL and returns the classification of the first direct
// media URL advertised in its metadata.
func (r *Resolver) Resolve(ctx context.Context, pageURL string) (Classification, error) {
	if r == nil || r.client == nil {
		return Classification{}, fmt.Errorf("resolver is not initialized")
	}

	resp, err := r.client.Get(ctx, pageURL, r.headers())
	if err != nil {
		return Classification{}, fmt.Errorf("http fetch: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return Classification{}, fmt.Errorf("status %d", resp.StatusCode())
	}

	body := resp.Body()
	if len(body) > maxHTMLBodyBytes {
		body = body[:maxHTMLBodyBytes]
	}

	meta, err := parseMeta(body)
	if err != nil {
		return Classification{}, err
	}

	for _, candidate := range []string{meta.VideoURL, meta.ImageURL} {
		abs := resolveURL(candidate, pageURL)
		if abs == "" {
			continue
		}
		if c := Classify(abs); c.Media {
			return c, nil
		}
	}
	return Classification{}, fmt.Errorf("no media metadata on page")
}

func (r *Resolver) headers() map[string]string {
	if r.userAgent == "" {
		return nil
	}
	return map[string]string{"User-Agent": r.userAgent}
}

type pageMeta struct {
	VideoURL string
	ImageURL string
}

func parseMeta(body []byte) (pageMeta, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return pageMeta{}, fmt.Errorf("parse html: %w", err)
	}

	extract := func(sel string) string {
		if node := doc.Find(sel).First(); node.Length() > 0 {
			if val, ok := node.Attr("content"); ok {
				return strings.TrimSpace(val)
			}
		}
		return ""
	}

	return pageMeta{
		VideoURL: firstNonEmpty(
			extract(`meta[property="og:video:secure_url"]`),
			extract(`meta[property="og:video"]`),
			extract(`meta[name="twitter:player:stream"]`),
		),
		ImageURL: firstNonEmpty(
			extract(`meta[property="og:image"]`),
			extract(`meta[name="twitter:image"]`),
		),
	}, nil
}

func resolveURL(ref, base string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return ref
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return baseURL.ResolveReference(refURL).String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
