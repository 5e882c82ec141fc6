package gemini

import (
	"context"
	"time"
)

var sleep = time.Sleep

// waitFor blocks for d or until ctx is done, whichever comes first.
func waitFor(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	pause := sleep
	done := make(chan struct{})
	go func() {
		defer close(done)
		pause(d)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}
