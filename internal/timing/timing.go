package timing

import (
	"context"
	"time"
)

// Wait suspends the calling goroutine for d, honoring context cancellation.
// Sub-second pacing delays are the common case. Returns early with the
// context error if ctx is cancelled first.
func Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
