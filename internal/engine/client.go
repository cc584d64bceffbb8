package engine

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

// Providers are plain web APIs; a desktop browser user agent keeps them
// from rejecting the requests.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:91.0) Gecko/20100101 Firefox/91.0"

const defaultTimeout = 30 * time.Second

// ErrUnavailable marks any failure to reach or read a provider. Callers
// map it to "data fetch failed" rather than an internal error.
var ErrUnavailable = errors.New("source unavailable")

// Client issues provider requests with a bounded timeout. Failures are a
// single error to the caller; there is no retry layer.
type Client struct {
	http *http.Client
}

func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{http: &http.Client{Timeout: timeout}}
}

func (c *Client) do(req *http.Request, referer string) ([]byte, error) {
	req.Header.Set("User-Agent", defaultUserAgent)
	if referer != "" {
		req.Header.Set("Referer", referer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w: %v", req.Method, req.URL, ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s %s: unexpected status %d: %w", req.Method, req.URL, resp.StatusCode, ErrUnavailable)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: reading body: %w: %v", req.Method, req.URL, ErrUnavailable, err)
	}
	return body, nil
}

// GetBytes fetches a raw resource (card art, audio blobs).
func (c *Client) GetBytes(ctx context.Context, rawURL, referer string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", rawURL, err)
	}
	return c.do(req, referer)
}

// GetJSON fetches and decodes a JSON document.
func (c *Client) GetJSON(ctx context.Context, rawURL, referer string, v any) error {
	body, err := c.GetBytes(ctx, rawURL, referer)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decoding %s: %w", rawURL, err)
	}
	return nil
}

// PostFormJSON posts a URL-encoded form and decodes the JSON response.
func (c *Client) PostFormJSON(ctx context.Context, rawURL string, form url.Values, referer string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("building request for %s: %w", rawURL, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, err := c.do(req, referer)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decoding %s: %w", rawURL, err)
	}
	return nil
}
