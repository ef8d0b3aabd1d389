// Package reddit is the read-only HTTP client for the upstream JSON API.
package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultBaseURL   = "https://api.reddit.com"
	defaultUserAgent = "reddlist/1.0 (personal subreddit list)"
	defaultTimeout   = 30 * time.Second
)

// Config tunes a Client. Zero values fall back to the package defaults,
// except MaxRetries: zero means a single attempt, no retries.
type Config struct {
	BaseURL    string
	UserAgent  string
	Timeout    time.Duration
	MaxRetries uint64
}

// Client fetches listings, metadata and comment trees. Transient failures
// (transport errors, 429, 5xx) are retried with capped exponential
// backoff; other HTTP errors are permanent.
type Client struct {
	http       *http.Client
	baseURL    string
	userAgent  string
	maxRetries uint64
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}

	return &Client{
		http:       &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		userAgent:  cfg.UserAgent,
		maxRetries: cfg.MaxRetries,
	}
}

// Listing fetches one page of a subreddit's posts. An empty after fetches
// the first page.
func (c *Client) Listing(ctx context.Context, feed, sort, after string) (*Listing, error) {
	endpoint := fmt.Sprintf("%s/r/%s/%s", c.baseURL, url.PathEscape(feed), url.PathEscape(sort))
	if after != "" {
		endpoint += "?after=" + url.QueryEscape(after)
	}

	var listing Listing
	if err := c.getJSON(ctx, endpoint, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

// About fetches a subreddit's metadata record.
func (c *Client) About(ctx context.Context, feed string) (*AboutData, error) {
	endpoint := fmt.Sprintf("%s/r/%s/about", c.baseURL, url.PathEscape(feed))

	var wrapper struct {
		Data AboutData `json:"data"`
	}
	if err := c.getJSON(ctx, endpoint, &wrapper); err != nil {
		return nil, err
	}
	return &wrapper.Data, nil
}

// Comments fetches a post's comment listing. The endpoint answers with a
// two-element array; the first element repeats the post and only the
// second carries the comments.
func (c *Client) Comments(ctx context.Context, postID string, depth, limit int) (*Listing, error) {
	endpoint := fmt.Sprintf("%s/comments/%s?depth=%d&limit=%d",
		c.baseURL, url.PathEscape(postID), depth, limit)

	var parts []json.RawMessage
	if err := c.getJSON(ctx, endpoint, &parts); err != nil {
		return nil, err
	}
	if len(parts) < 2 {
		return nil, &TransportError{URL: endpoint, Err: fmt.Errorf("expected two listing elements, got %d", len(parts))}
	}

	var listing Listing
	if err := json.Unmarshal(parts[1], &listing); err != nil {
		return nil, &TransportError{URL: endpoint, Err: fmt.Errorf("decoding comment listing: %w", err)}
	}
	return &listing, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, v any) error {
	attempt := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return backoff.Permanent(&TransportError{URL: endpoint, Err: err})
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return &TransportError{URL: endpoint, Err: err}
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			return &TransportError{URL: endpoint, Status: resp.StatusCode}
		case resp.StatusCode >= 400:
			return backoff.Permanent(&TransportError{URL: endpoint, Status: resp.StatusCode})
		}

		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			return backoff.Permanent(&TransportError{URL: endpoint, Err: fmt.Errorf("decoding response: %w", err)})
		}
		return nil
	}

	bo := backoff.WithContext(backoff.WithMaxRetries(newBackOff(), c.maxRetries), ctx)
	return backoff.RetryNotify(attempt, bo, func(err error, wait time.Duration) {
		log.WithFields(log.Fields{"url": endpoint, "wait": wait}).Debugf("retrying after error: %v", err)
	})
}

func newBackOff() *backoff.ExponentialBackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 250 * time.Millisecond
	bo.MaxInterval = 5 * time.Second
	return bo
}
