package torvik

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const BaseURL = "https://barttorvik.com"

// CurrentSeasonYear maps a wall-clock time to the season label the feeds use:
// seasons are named for the year they end in, and a new one starts with
// practice in the fall.
func CurrentSeasonYear(now time.Time) int {
	if now.Month() >= time.August {
		return now.Year() + 1
	}
	return now.Year()
}

// userAgent identifies us politely; the site serves plain HTTP clients fine
// but rejects empty agents on some endpoints.
const userAgent = "athena-stats/1.0"

// Client fetches the season CSV, the gzipped game log feed, the team results
// JSON, and the team directory page.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client with a custom base URL, used by tests to point at a
// local server.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = BaseURL
	}
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 90 * time.Second,
		},
	}
}

// NewClient creates a client with default settings.
func NewClient() *Client {
	return New(BaseURL)
}

// FetchSeasonCSV downloads the headerless advanced-stats CSV for a year.
func (c *Client) FetchSeasonCSV(ctx context.Context, year int) (io.ReadCloser, error) {
	url := fmt.Sprintf("%s/getadvstats.php?year=%d&csv=1", c.baseURL, year)
	return c.get(ctx, url)
}

// FetchGameLog downloads and transparently decompresses the gzipped
// game-by-game feed for a year. Close the returned reader when done.
func (c *Client) FetchGameLog(ctx context.Context, year int) (io.ReadCloser, error) {
	url := fmt.Sprintf("%s/%d_all_advgames.json.gz", c.baseURL, year)
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	gz, err := gzip.NewReader(body)
	if err != nil {
		body.Close()
		return nil, fmt.Errorf("opening gzip stream: %w", err)
	}
	return &gzipBody{gz: gz, body: body}, nil
}

// FetchTeamResults downloads the team results JSON for a year.
func (c *Client) FetchTeamResults(ctx context.Context, year int) (io.ReadCloser, error) {
	url := fmt.Sprintf("%s/%d_team_results.json", c.baseURL, year)
	return c.get(ctx, url)
}

// FetchTeamDirectory downloads the HTML team index for a year.
func (c *Client) FetchTeamDirectory(ctx context.Context, year int) (io.ReadCloser, error) {
	url := fmt.Sprintf("%s/teams.php?year=%d", c.baseURL, year)
	return c.get(ctx, url)
}

func (c *Client) get(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	log.Printf("[torvik-client] GET %s", url)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetching %s: unexpected status %d", url, resp.StatusCode)
	}
	return resp.Body, nil
}

// gzipBody closes both the gzip reader and the underlying response body.
type gzipBody struct {
	gz   *gzip.Reader
	body io.ReadCloser
}

func (g *gzipBody) Read(p []byte) (int, error) { return g.gz.Read(p) }

func (g *gzipBody) Close() error {
	gzErr := g.gz.Close()
	if err := g.body.Close(); err != nil {
		return err
	}
	return gzErr
}
