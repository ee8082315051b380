package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/matt-fiveeighty/odyssey-collector/pkg/config"
	"github.com/matt-fiveeighty/odyssey-collector/pkg/delimited"
	"github.com/matt-fiveeighty/odyssey-collector/pkg/retry"
)

// RetrievalExhaustedError is the transport's terminal failure: every
// attempt against URL failed, the last one for reason Err.
type RetrievalExhaustedError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *RetrievalExhaustedError) Error() string {
	return fmt.Sprintf("retrieval exhausted after %d attempts: %s: %v", e.Attempts, e.URL, e.Err)
}

// Unwrap exposes the last attempt's error to errors.Is/As chains.
func (e *RetrievalExhaustedError) Unwrap() error { return e.Err }

// Client retrieves agency pages with a fixed identifying User-Agent and
// deterministic exponential backoff between attempts. One client is shared
// by every source in a run. There is no circuit breaker and no cross-source
// rate pooling; politeness between sources is the batch runner's job.
type Client struct {
	httpClient  *http.Client
	userAgent   string
	maxAttempts int
	maxBody     int64
	sleep       func(ctx context.Context, d time.Duration) error
	logger      *zap.Logger
}

// NewClient builds a Client from collector configuration.
func NewClient(cfg config.CollectorConfig, logger *zap.Logger) *Client {
	return NewClientWithHTTP(cfg, &http.Client{Timeout: cfg.RequestTimeout()}, logger)
}

// NewClientWithHTTP is NewClient with a caller-supplied HTTP client, used by tests.
func NewClientWithHTTP(cfg config.CollectorConfig, httpClient *http.Client, logger *zap.Logger) *Client {
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 10 * 1024 * 1024 // 10MB
	}
	return &Client{
		httpClient:  httpClient,
		userAgent:   cfg.UserAgent,
		maxAttempts: cfg.MaxAttempts,
		maxBody:     maxBody,
		logger:      logger,
	}
}

// Retrieve fetches url and returns the response body as text. A failed
// attempt is logged and retried after 1s, 2s, 4s, ... waits. Once attempts
// are exhausted the returned error is a *RetrievalExhaustedError wrapping
// the last failure.
func (c *Client) Retrieve(ctx context.Context, url string) (string, error) {
	cfg := &retry.Config{
		MaxAttempts:  c.maxAttempts,
		InitialDelay: 1 * time.Second,
		MaxDelay:     32 * time.Second,
		Multiplier:   2.0,
		Sleep:        c.sleep,
	}

	attempt := 0
	body, err := retry.DoWithResult(ctx, cfg, func() (string, error) {
		attempt++
		text, ferr := c.fetchOnce(ctx, url)
		if ferr != nil {
			c.logger.Warn("retrieval attempt failed",
				zap.String("url", url),
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", c.maxAttempts),
				zap.Error(ferr))
		}
		return text, ferr
	})
	if err != nil {
		// Cancellation aborts the ladder early; everything else means it ran out.
		if ctx.Err() != nil {
			return "", fmt.Errorf("retrieval canceled: %w", err)
		}
		return "", &RetrievalExhaustedError{URL: url, Attempts: c.maxAttempts, Err: err}
	}
	return body, nil
}

// RetrieveRows fetches url and tokenizes the response body as delimited text.
func (c *Client) RetrieveRows(ctx context.Context, url string) ([][]string, error) {
	text, err := c.Retrieve(ctx, url)
	if err != nil {
		return nil, err
	}
	return delimited.Tokenize(text), nil
}

func (c *Client) fetchOnce(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody))
	if err != nil {
		return "", fmt.Errorf("failed to read body: %w", err)
	}
	return string(body), nil
}
