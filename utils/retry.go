package utils

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// retryBaseDelay is the wait after the first failed attempt. It doubles on
// every further failure.
var retryBaseDelay = 2 * time.Second

// Retry runs fn up to maxAttempts times and stops at the first success.
// Between attempts it waits with exponential backoff:
//
//	attempt 1 fails → wait 2s
//	attempt 2 fails → wait 4s
//	attempt 3 fails → wait 8s
//
// A cancelled ctx ends the loop early with the context error.
//
// Usage:
//
//	err := utils.Retry(ctx, 3, func(ctx context.Context) error {
//	    return driver.Navigate(ctx, url)
//	})
func Retry(ctx context.Context, maxAttempts int, fn func(context.Context) error) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if attempt == maxAttempts || ctx.Err() != nil {
			break
		}

		wait := retryBaseDelay << uint(attempt-1)
		slog.Warn("attempt failed, retrying",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", maxAttempts),
			slog.Duration("wait", wait),
			slog.Any("error", lastErr),
		)
		if err := Sleep(ctx, wait); err != nil {
			return err
		}
	}

	if maxAttempts == 1 {
		return lastErr
	}
	return fmt.Errorf("all %d attempts failed: %w", maxAttempts, lastErr)
}
