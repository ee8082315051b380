package retry

import (
	"context"
	"time"
)

// Config defines retry behavior with exponential backoff
type Config struct {
	// MaxAttempts is the total number of calls to fn, first attempt included.
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64

	// Sleep performs the wait between attempts. Nil means a context-aware
	// timer wait. Tests inject a recorder here so backoff is observable
	// without real waiting.
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultConfig returns the ladder used by the transport:
// 3 attempts with waits of 1s then 2s between them, doubling each time.
// Waits are deterministic; agency sites are fetched one at a time, so
// there is no herd to jitter against.
func DefaultConfig() *Config {
	return &Config{
		MaxAttempts:  3,
		InitialDelay: 1 * time.Second,
		MaxDelay:     32 * time.Second,
		Multiplier:   2.0,
	}
}

// wait blocks for d using the injected sleep when present, otherwise a
// timer wait that honors context cancellation.
func (c *Config) wait(ctx context.Context, d time.Duration) error {
	if c.Sleep != nil {
		return c.Sleep(ctx, d)
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Do executes fn with exponential backoff retry logic
// Returns nil on success, or last error after all attempts exhausted
// Respects context cancellation during wait periods
func Do(ctx context.Context, cfg *Config, fn func() error) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	var lastErr error
	delay := cfg.InitialDelay

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err

			if attempt < cfg.MaxAttempts {
				if werr := cfg.wait(ctx, delay); werr != nil {
					return werr
				}
				delay = time.Duration(float64(delay) * cfg.Multiplier)
				if delay > cfg.MaxDelay {
					delay = cfg.MaxDelay
				}
			}
		}
	}

	return lastErr
}

// DoWithResult executes fn and returns both result and error
// Useful for functions that return values (like pgxpool.New)
// Respects context cancellation during wait periods
func DoWithResult[T any](ctx context.Context, cfg *Config, fn func() (T, error)) (T, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	var result T
	var lastErr error
	delay := cfg.InitialDelay

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		r, err := fn()
		if err == nil {
			return r, nil
		}

		lastErr = err
		result = r // Keep last result even on error

		if attempt < cfg.MaxAttempts {
			if werr := cfg.wait(ctx, delay); werr != nil {
				return result, werr
			}
			delay = time.Duration(float64(delay) * cfg.Multiplier)
			if delay > cfg.MaxDelay {
				delay = cfg.MaxDelay
			}
		}
	}

	return result, lastErr
}
