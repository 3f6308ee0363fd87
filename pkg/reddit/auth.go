package reddit

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/samvad-hq/samvad-media-wall/internal/domain"
)

type tokenResponse struct {
	apiError
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// AccessToken exchanges creds for a bearer token with a single client-credentials grant.
// The token is returned as-is and never cached.
func (c *Client) AccessToken(ctx context.Context, creds domain.Credentials) (string, error) {
	c.reporter.Report("Fetching access token...", false)

	token, err := c.accessToken(ctx, creds)
	if err != nil {
		c.reporter.Report("Error getting access token: "+err.Error(), true)
		return "", err
	}

	c.reporter.Report("Access token retrieved", false)
	return token, nil
}

func (c *Client) accessToken(ctx context.Context, creds domain.Credentials) (string, error) {
	if !creds.Complete() {
		return "", ErrMissingCredentials
	}

	headers := map[string]string{
		"Authorization": basicAuth(creds),
		"Content-Type":  "application/x-www-form-urlencoded",
		"User-Agent":    c.agent,
	}
	resp, err := c.http.PostForm(ctx, c.authURL, headers, map[string]string{
		"grant_type": "client_credentials",
	})
	if err != nil {
		return "", fmt.Errorf("token request: %w", err)
	}

	body := resp.Body()
	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return "", fmt.Errorf("token endpoint returned status %d body: %s", resp.StatusCode(), responseSnippet(body))
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if err := tr.err(); err != nil {
		return "", err
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("token response missing access_token")
	}
	return tr.AccessToken, nil
}

func basicAuth(creds domain.Credentials) string {
	raw := creds.ID + ":" + creds.Secret
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(raw))
}
