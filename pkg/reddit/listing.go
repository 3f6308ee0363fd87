package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/samvad-hq/samvad-media-wall/internal/domain"
)

// Query selects one page of a feed.
type Query struct {
	Feed       string
	Sort       domain.Sort
	Limit      int
	TimeWindow domain.TimeWindow
}

// QueryFromView builds the upstream query for a view state.
func QueryFromView(v domain.ViewState) Query {
	return Query{
		Feed:       v.Feed(),
		Sort:       v.Sort(),
		Limit:      v.Limit(),
		TimeWindow: v.TimeWindowParam(),
	}
}

type listingEnvelope struct {
	apiError
	Data struct {
		Children []struct {
			Kind string      `json:"kind"`
			Data domain.Post `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// FetchPosts acquires a token and fetches one listing page. Every failure
// yields a nil slice and an error; nothing panics and nothing is retried.
func (c *Client) FetchPosts(ctx context.Context, creds domain.Credentials, q Query) ([]domain.Post, error) {
	c.reporter.Report("Fetching posts...", false)

	if normalizeFeed(q.Feed) == "" {
		c.reporter.Report("Error fetching posts: "+ErrMissingFeed.Error(), true)
		return nil, ErrMissingFeed
	}

	token, err := c.AccessToken(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoToken, err)
	}

	posts, err := c.fetchListing(ctx, token, q)
	if err != nil {
		c.reporter.Report("Error fetching posts: "+err.Error(), true)
		return nil, err
	}

	c.reporter.Report("Posts fetched successfully", false)
	return posts, nil
}

func (c *Client) fetchListing(ctx context.Context, token string, q Query) ([]domain.Post, error) {
	endpoint, err := ListingURL(c.apiURL, q)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Get(ctx, endpoint, map[string]string{
		"Authorization": "Bearer " + token,
		"User-Agent":    c.agent,
	})
	if err != nil {
		return nil, fmt.Errorf("listing request: %w", err)
	}

	body := resp.Body()
	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return nil, fmt.Errorf("listing returned status %d body: %s", resp.StatusCode(), responseSnippet(body))
	}

	return parseListing(body)
}

func parseListing(body []byte) ([]domain.Post, error) {
	var env listingEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}
	if err := env.err(); err != nil {
		return nil, err
	}

	posts := make([]domain.Post, 0, len(env.Data.Children))
	for _, child := range env.Data.Children {
		posts = append(posts, child.Data)
	}
	return posts, nil
}

// ListingURL builds <api>/r/<feed>/<sort>.json?limit=<n>[&t=<window>].
// A leading "r/" on the feed is tolerated; "+"-joined multi-feeds pass through.
func ListingURL(apiURL string, q Query) (string, error) {
	feed := normalizeFeed(q.Feed)
	if feed == "" {
		return "", ErrMissingFeed
	}

	sort := q.Sort
	if sort == "" {
		sort = domain.SortBest
	}

	segments := strings.Split(feed, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}

	params := url.Values{}
	params.Set("limit", strconv.Itoa(domain.ClampLimit(q.Limit)))
	if sort == domain.SortTop && q.TimeWindow != "" {
		params.Set("t", string(q.TimeWindow))
	}

	return fmt.Sprintf("%s/r/%s/%s.json?%s",
		strings.TrimRight(apiURL, "/"),
		strings.Join(segments, "/"),
		url.PathEscape(string(sort)),
		params.Encode(),
	), nil
}

func normalizeFeed(feed string) string {
	feed = strings.TrimSpace(feed)
	feed = strings.TrimPrefix(feed, "/")
	if strings.HasPrefix(strings.ToLower(feed), "r/") {
		feed = feed[2:]
	}
	return strings.Trim(feed, "/")
}
