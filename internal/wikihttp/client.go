// Package wikihttp retrieves wikipedia article pages over HTTP under a
// bounded global concurrency gate.
package wikihttp

import (
	"context"
	"errors"
	"io"
	"net/http"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

const (
	// DefaultFetchGate is the maximum number of concurrent in-flight
	// requests to wikipedia. Higher values were found to slow things
	// down through page-fault and scheduler overhead rather than speed
	// them up.
	DefaultFetchGate = 750
	// DefaultTimeout is the per-request timeout.
	DefaultTimeout = 10 * time.Second
	// DefaultMaxBodySize caps how much of a response body is read.
	DefaultMaxBodySize = 4 * 1024 * 1024
	// DefaultUserAgent identifies the engine to wikipedia.
	DefaultUserAgent = "wikiracer/1.0"
	// DefaultPrefix is the article URL prefix.
	DefaultPrefix = "https://en.wikipedia.org/wiki/"
)

// Config configures a Client.
type Config struct {
	Prefix      string
	Timeout     time.Duration
	UserAgent   string
	MaxBodySize int64
	FetchGate   int64
	Logger      *zap.Logger
}

// Client fetches wikipedia pages, honoring a global concurrency gate.
// Safe for concurrent use by multiple goroutines.
type Client struct {
	httpClient  *http.Client
	prefix      string
	userAgent   string
	maxBodySize int64
	gate        *semaphore.Weighted
	logger      *zap.Logger
}

// New creates a Client with the given configuration, filling in
// defaults for anything left zero.
func New(cfg Config) *Client {
	if cfg.Prefix == "" {
		cfg.Prefix = DefaultPrefix
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.MaxBodySize == 0 {
		cfg.MaxBodySize = DefaultMaxBodySize
	}
	if cfg.FetchGate == 0 {
		cfg.FetchGate = DefaultFetchGate
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Client{
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		prefix:      cfg.Prefix,
		userAgent:   cfg.UserAgent,
		maxBodySize: cfg.MaxBodySize,
		gate:        semaphore.NewWeighted(cfg.FetchGate),
		logger:      cfg.Logger,
	}
}

// Fetch retrieves the raw HTML body for title. It checks cancel's
// context both before and after acquiring the fetch gate and returns
// (nil, false) immediately once cancellation is observed. A remote
// disconnect (the server refusing connections) is treated as a signal
// that further attempts this request are futile: it invokes cancel and
// returns (nil, false).
func (c *Client) Fetch(ctx context.Context, cancel context.CancelFunc, title string) ([]byte, bool) {
	if ctx.Err() != nil {
		return nil, false
	}
	if err := c.gate.Acquire(ctx, 1); err != nil {
		return nil, false
	}
	defer c.gate.Release(1)

	if ctx.Err() != nil {
		return nil, false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.prefix+title, nil)
	if err != nil {
		return nil, false
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isRemoteDisconnect(err) {
			c.logger.Warn("wikipedia refused connection, cancelling search",
				zap.String("title", title), zap.Error(err))
			cancel()
		}
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Debug("non-200 fetching title",
			zap.String("title", title),
			zap.Error(&FetchError{StatusCode: resp.StatusCode, Title: title}))
		io.Copy(io.Discard, io.LimitReader(resp.Body, c.maxBodySize))
		return nil, false
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize))
	if err != nil {
		return nil, false
	}
	return body, true
}

// Exists issues a single GET and reports whether the title resolves to
// a 200 response. Used only for pre-flight validation of source and
// destination titles.
func (c *Client) Exists(ctx context.Context, title string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.prefix+title, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, c.maxBodySize))

	return resp.StatusCode == http.StatusOK, nil
}

// isRemoteDisconnect reports whether err indicates the server actively
// tore down the connection, as opposed to an ordinary HTTP error, a
// DNS failure, a dial timeout, or this client's own read timeout —
// none of which mean the search as a whole should give up.
func isRemoteDisconnect(err error) bool {
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	return errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED)
}
