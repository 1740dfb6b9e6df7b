package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ErrTooLarge is returned when a document exceeds the client's byte limit.
var ErrTooLarge = errors.New("document exceeds size limit")

// Client downloads source documents over HTTP.
type Client struct {
	maxBytes   int64
	userAgent  string
	httpClient *http.Client
}

func NewClient(timeout time.Duration, maxBytes int64, userAgent string) *Client {
	return &Client{
		maxBytes:  maxBytes,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fetch GETs rawURL and returns the body. Only http and https URLs are
// accepted.
func (c *Client) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported url scheme %q", u.Scheme)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/pdf")
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("fetch document: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("fetch %s: status %d: %s", rawURL, resp.StatusCode, string(respBody))
	}

	if c.maxBytes > 0 && resp.ContentLength > c.maxBytes {
		return nil, fmt.Errorf("fetch %s: %w (%d bytes)", rawURL, ErrTooLarge, c.maxBytes)
	}
	body := io.Reader(resp.Body)
	if c.maxBytes > 0 {
		body = io.LimitReader(resp.Body, c.maxBytes+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	if c.maxBytes > 0 && int64(len(data)) > c.maxBytes {
		return nil, fmt.Errorf("fetch %s: %w (%d bytes)", rawURL, ErrTooLarge, c.maxBytes)
	}
	return data, nil
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
