package wikipedia

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://en.wikipedia.org/api/rest_v1"

// summaryResponse is the minimal response shape of the page summary endpoint.
type summaryResponse struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Extract string `json:"extract"`
}

// HTTPStatusError captures non-2xx upstream responses with status-aware context.
type HTTPStatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("wikipedia: unexpected status %d from %s: %s", e.StatusCode, e.URL, e.Body)
}

func (e *HTTPStatusError) HTTPStatusCode() int {
	return e.StatusCode
}

// Client fetches plain-text page summaries.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if v := strings.TrimSpace(baseURL); v != "" {
			c.baseURL = v
		}
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if v := strings.TrimSpace(ua); v != "" {
			c.userAgent = v
		}
	}
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		userAgent:  "deskmate/1.0",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) resolvedHTTPClient() *http.Client {
	if c.httpClient != nil {
		return c.httpClient
	}
	return &http.Client{Timeout: 10 * time.Second}
}

func summaryURL(baseURL, term string) string {
	base := strings.TrimRight(baseURL, "/")
	if base == "" {
		base = defaultBaseURL
	}
	title := strings.ReplaceAll(strings.TrimSpace(term), " ", "_")
	return base + "/page/summary/" + url.PathEscape(title)
}

// Summarize returns the plain-text extract for term. A missing page or a
// disambiguation page yields "" and no error.
func (c *Client) Summarize(ctx context.Context, term string) (string, error) {
	if strings.TrimSpace(term) == "" {
		return "", errors.New("wikipedia: term must not be empty")
	}

	u := summaryURL(c.baseURL, term)
	req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if reqErr != nil {
		return "", fmt.Errorf("wikipedia: create request: %w", reqErr)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	raw, err := c.doJSONRequest(req, u)
	if err != nil {
		var se *HTTPStatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
			return "", nil
		}
		return "", fmt.Errorf("wikipedia: request failed: %w", err)
	}

	var payload summaryResponse
	if decErr := json.Unmarshal(raw, &payload); decErr != nil {
		return "", fmt.Errorf("wikipedia: decode response: %w", decErr)
	}
	if payload.Type == "disambiguation" {
		return "", nil
	}
	return strings.TrimSpace(payload.Extract), nil
}

func (c *Client) doJSONRequest(req *http.Request, url string) ([]byte, error) {
	res, doErr := c.resolvedHTTPClient().Do(req)
	if doErr != nil {
		return nil, doErr
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		buf, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return nil, &HTTPStatusError{
			StatusCode: res.StatusCode,
			URL:        url,
			Body:       string(buf),
		}
	}

	buf, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return buf, nil
}
