package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

// recordingSleep returns a Sleep implementation that records requested
// waits without actually waiting.
func recordingSleep(waits *[]time.Duration) func(ctx context.Context, d time.Duration) error {
	return func(ctx context.Context, d time.Duration) error {
		*waits = append(*waits, d)
		return nil
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.MaxAttempts != 3 {
		t.Errorf("expected MaxAttempts=3, got %d", cfg.MaxAttempts)
	}
	if cfg.InitialDelay != 1*time.Second {
		t.Errorf("expected InitialDelay=1s, got %v", cfg.InitialDelay)
	}
	if cfg.MaxDelay != 32*time.Second {
		t.Errorf("expected MaxDelay=32s, got %v", cfg.MaxDelay)
	}
	if cfg.Multiplier != 2.0 {
		t.Errorf("expected Multiplier=2.0, got %f", cfg.Multiplier)
	}
}

func TestDo_Success(t *testing.T) {
	ctx := context.Background()
	var waits []time.Duration
	cfg := &Config{
		MaxAttempts:  3,
		InitialDelay: 1 * time.Second,
		MaxDelay:     32 * time.Second,
		Multiplier:   2.0,
		Sleep:        recordingSleep(&waits),
	}

	callCount := 0
	err := Do(ctx, cfg, func() error {
		callCount++
		return nil
	})

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if callCount != 1 {
		t.Errorf("expected 1 call, got %d", callCount)
	}
	if len(waits) != 0 {
		t.Errorf("expected no waits on immediate success, got %v", waits)
	}
}

func TestDo_SuccessAfterRetries(t *testing.T) {
	ctx := context.Background()
	var waits []time.Duration
	cfg := &Config{
		MaxAttempts:  4,
		InitialDelay: 1 * time.Second,
		MaxDelay:     32 * time.Second,
		Multiplier:   2.0,
		Sleep:        recordingSleep(&waits),
	}

	callCount := 0
	err := Do(ctx, cfg, func() error {
		callCount++
		if callCount < 3 {
			return errors.New("transient error")
		}
		return nil
	})

	if err != nil {
		t.Errorf("expected no error after retries, got %v", err)
	}
	if callCount != 3 {
		t.Errorf("expected 3 calls, got %d", callCount)
	}
}

func TestDo_AttemptsExhausted(t *testing.T) {
	ctx := context.Background()
	var waits []time.Duration
	cfg := &Config{
		MaxAttempts:  3,
		InitialDelay: 1 * time.Second,
		MaxDelay:     32 * time.Second,
		Multiplier:   2.0,
		Sleep:        recordingSleep(&waits),
	}

	expectedErr := errors.New("persistent error")
	callCount := 0
	err := Do(ctx, cfg, func() error {
		callCount++
		return expectedErr
	})

	if err != expectedErr {
		t.Errorf("expected error %v, got %v", expectedErr, err)
	}
	if callCount != 3 {
		t.Errorf("expected 3 calls, got %d", callCount)
	}
	// No wait after the final attempt
	if len(waits) != 2 {
		t.Errorf("expected 2 waits, got %d (%v)", len(waits), waits)
	}
}

func TestDo_BackoffLadder(t *testing.T) {
	ctx := context.Background()
	var waits []time.Duration
	cfg := &Config{
		MaxAttempts:  4,
		InitialDelay: 1 * time.Second,
		MaxDelay:     32 * time.Second,
		Multiplier:   2.0,
		Sleep:        recordingSleep(&waits),
	}

	callCount := 0
	err := Do(ctx, cfg, func() error {
		callCount++
		return errors.New("error")
	})

	if err == nil {
		t.Error("expected error after exhausting attempts")
	}
	if callCount != 4 {
		t.Errorf("expected 4 calls, got %d", callCount)
	}

	expected := []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
	if len(waits) != len(expected) {
		t.Fatalf("expected %d waits, got %d (%v)", len(expected), len(waits), waits)
	}
	for i, want := range expected {
		if waits[i] != want {
			t.Errorf("wait %d: expected %v, got %v", i, want, waits[i])
		}
	}
}

func TestDo_MaxDelayRespected(t *testing.T) {
	ctx := context.Background()
	var waits []time.Duration
	cfg := &Config{
		MaxAttempts:  6,
		InitialDelay: 1 * time.Second,
		MaxDelay:     4 * time.Second,
		Multiplier:   2.0,
		Sleep:        recordingSleep(&waits),
	}

	err := Do(ctx, cfg, func() error {
		return errors.New("error")
	})

	if err == nil {
		t.Error("expected error after exhausting attempts")
	}
	for i, w := range waits {
		if w > 4*time.Second {
			t.Errorf("wait %d exceeds MaxDelay: %v", i, w)
		}
	}
	if last := waits[len(waits)-1]; last != 4*time.Second {
		t.Errorf("expected final wait capped at 4s, got %v", last)
	}
}

func TestDo_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := &Config{
		MaxAttempts:  5,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     1 * time.Second,
		Multiplier:   2.0,
	}

	callCount := 0
	start := time.Now()

	// Cancel context after first failure
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	err := Do(ctx, cfg, func() error {
		callCount++
		return errors.New("error")
	})

	elapsed := time.Since(start)

	if err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	// Should only make 1 call before context is canceled
	if callCount != 1 {
		t.Errorf("expected 1 call, got %d", callCount)
	}
	// Should return quickly after context cancellation
	if elapsed > 200*time.Millisecond {
		t.Errorf("expected quick cancellation, took %v", elapsed)
	}
}

func TestDo_NilConfig(t *testing.T) {
	ctx := context.Background()

	callCount := 0
	err := Do(ctx, nil, func() error {
		callCount++
		return nil
	})

	if err != nil {
		t.Errorf("expected no error with nil config, got %v", err)
	}
	if callCount != 1 {
		t.Errorf("expected 1 call, got %d", callCount)
	}
}

func TestDoWithResult_Success(t *testing.T) {
	ctx := context.Background()
	var waits []time.Duration
	cfg := &Config{
		MaxAttempts:  3,
		InitialDelay: 1 * time.Second,
		MaxDelay:     32 * time.Second,
		Multiplier:   2.0,
		Sleep:        recordingSleep(&waits),
	}

	callCount := 0
	result, err := DoWithResult(ctx, cfg, func() (string, error) {
		callCount++
		return "success", nil
	})

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if result != "success" {
		t.Errorf("expected 'success', got %s", result)
	}
	if callCount != 1 {
		t.Errorf("expected 1 call, got %d", callCount)
	}
}

func TestDoWithResult_SuccessAfterRetries(t *testing.T) {
	ctx := context.Background()
	var waits []time.Duration
	cfg := &Config{
		MaxAttempts:  4,
		InitialDelay: 1 * time.Second,
		MaxDelay:     32 * time.Second,
		Multiplier:   2.0,
		Sleep:        recordingSleep(&waits),
	}

	callCount := 0
	result, err := DoWithResult(ctx, cfg, func() (int, error) {
		callCount++
		if callCount < 3 {
			return 0, errors.New("transient error")
		}
		return 42, nil
	})

	if err != nil {
		t.Errorf("expected no error after retries, got %v", err)
	}
	if result != 42 {
		t.Errorf("expected 42, got %d", result)
	}
	if callCount != 3 {
		t.Errorf("expected 3 calls, got %d", callCount)
	}
}

func TestDoWithResult_AttemptsExhausted(t *testing.T) {
	ctx := context.Background()
	var waits []time.Duration
	cfg := &Config{
		MaxAttempts:  3,
		InitialDelay: 1 * time.Second,
		MaxDelay:     32 * time.Second,
		Multiplier:   2.0,
		Sleep:        recordingSleep(&waits),
	}

	expectedErr := errors.New("persistent error")
	callCount := 0
	result, err := DoWithResult(ctx, cfg, func() (string, error) {
		callCount++
		return "partial", expectedErr
	})

	if err != expectedErr {
		t.Errorf("expected error %v, got %v", expectedErr, err)
	}
	if result != "partial" {
		t.Errorf("expected 'partial' result, got %s", result)
	}
	if callCount != 3 {
		t.Errorf("expected 3 calls, got %d", callCount)
	}
}

func TestDoWithResult_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := &Config{
		MaxAttempts:  5,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     1 * time.Second,
		Multiplier:   2.0,
	}

	callCount := 0

	// Cancel context after first failure
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	result, err := DoWithResult(ctx, cfg, func() (int, error) {
		callCount++
		return callCount, errors.New("error")
	})

	if err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if result != 1 {
		t.Errorf("expected result=1 (last attempt), got %d", result)
	}
	if callCount != 1 {
		t.Errorf("expected 1 call, got %d", callCount)
	}
}

func TestDoWithResult_NilConfig(t *testing.T) {
	ctx := context.Background()

	result, err := DoWithResult(ctx, nil, func() (bool, error) {
		return true, nil
	})

	if err != nil {
		t.Errorf("expected no error with nil config, got %v", err)
	}
	if !result {
		t.Error("expected true result")
	}
}
