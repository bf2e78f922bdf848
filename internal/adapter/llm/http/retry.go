package http

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// RetryConfig tunes the retry loop around provider calls.
type RetryConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Multiplier     float64
}

// DefaultRetryConfig matches the documented defaults: five retries starting
// at 2s and doubling up to a 32s ceiling.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     5,
		InitialBackoff: 2 * time.Second,
		MaxBackoff:     32 * time.Second,
		Multiplier:     2.0,
	}
}

// ExponentialBackoff returns the wait before retry number attempt:
// initial * multiplier^attempt capped at MaxBackoff, with up to 25% jitter
// either way so concurrent chunk workers do not retry in lockstep.
func ExponentialBackoff(attempt int, config RetryConfig) time.Duration {
	wait := float64(config.InitialBackoff) * math.Pow(config.Multiplier, float64(attempt))
	wait = math.Min(wait, float64(config.MaxBackoff))

	jitter := (rand.Float64() - 0.5) * 0.5 * wait
	wait = math.Min(wait+jitter, float64(config.MaxBackoff))

	return time.Duration(math.Max(wait, 0))
}

// ShouldRetry reports whether err is worth another attempt. Only typed
// *Error values marked retryable qualify; anything untyped fails fast.
func ShouldRetry(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.IsRetryable()
}

// Operation is a retryable unit of work.
type Operation func(ctx context.Context) error

// RetryWithBackoff runs operation up to 1+MaxRetries times, sleeping an
// exponential backoff between attempts. The context is honored both before
// each attempt and through the waits.
func RetryWithBackoff(ctx context.Context, operation Operation, config RetryConfig) error {
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := operation(ctx)
		if err == nil {
			return nil
		}
		if !ShouldRetry(err) || attempt >= config.MaxRetries {
			return err
		}

		select {
		case <-time.After(ExponentialBackoff(attempt, config)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
