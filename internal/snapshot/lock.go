package snapshot

import (
	"context"
	"fmt"
	"time"
)

const lockRetryInterval = 50 * time.Millisecond

// waitLock calls try until the lock is taken, try fails, ctx ends or wait elapses.
// try reports busy while another process holds the lock.
func waitLock(ctx context.Context, path string, wait time.Duration, try func() (busy bool, err error)) error {
	deadline := time.Now().Add(wait)
	for {
		busy, err := try()
		if err != nil {
			return err
		}
		if !busy {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("%w: %s after %s", ErrLockTimeout, path, wait)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(lockRetryInterval):
		}
	}
}
