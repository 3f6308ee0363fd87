package reddit

import (
	"errors"
	"strings"
	"time"

	"github.com/samvad-hq/samvad-media-wall/pkg/httpclient"
)

const (
	DefaultAuthURL   = "https://www.reddit.com/api/v1/access_token"
	DefaultAPIURL    = "https://oauth.reddit.com"
	DefaultUserAgent = "samvad-media-wall/1.0"

	defaultTimeout = 15 * time.Second
)

var (
	// ErrMissingCredentials is returned before any request when id or secret is blank.
	ErrMissingCredentials = errors.New("client id and secret are required")
	// ErrMissingFeed is returned before any request when the feed name is blank.
	ErrMissingFeed = errors.New("feed name is required")
	// ErrNoToken marks a listing fetch that stopped because the token grant failed.
	ErrNoToken = errors.New("no access token")
)

// StatusReporter receives progress and failure messages for the status indicator.
type StatusReporter interface {
	Report(message string, isError bool)
}

type nopReporter struct{}

func (nopReporter) Report(string, bool) {}

// Options configures endpoints and identification.
type Options struct {
	AuthURL   string
	APIURL    string
	UserAgent string
}

// Client performs the token grant and listing fetch. It holds no token state:
// every FetchPosts call acquires a fresh token.
type Client struct {
	http     httpclient.Client
	authURL  string
	apiURL   string
	agent    string
	reporter StatusReporter
}

// NewClient builds a Client. A nil http client falls back to resty with the default timeout.
func NewClient(opts Options, client httpclient.Client, reporter StatusReporter) *Client {
	if client == nil {
		client = httpclient.NewRestyClient(defaultTimeout)
	}
	if reporter == nil {
		reporter = nopReporter{}
	}
	return &Client{
		http:     client,
		authURL:  firstNonEmpty(opts.AuthURL, DefaultAuthURL),
		apiURL:   strings.TrimRight(firstNonEmpty(opts.APIURL, DefaultAPIURL), "/"),
		agent:    firstNonEmpty(opts.UserAgent, DefaultUserAgent),
		reporter: reporter,
	}
}

// WithReporter returns a copy of c that reports to r instead.
func (c *Client) WithReporter(r StatusReporter) *Client {
	if r == nil {
		r = nopReporter{}
	}
	cp := *c
	cp.reporter = r
	return &cp
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
