//go:build windows

package snapshot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/windows"
)

// acquireLock takes an exclusive lock on the first byte of path, polling until wait elapses.
func acquireLock(ctx context.Context, path string, wait time.Duration) (func(), error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}
	handle := windows.Handle(file.Fd())

	err = waitLock(ctx, path, wait, func() (bool, error) {
		err := windows.LockFileEx(handle, windows.LOCKFILE_EXCLUSIVE_LOCK|windows.LOCKFILE_FAIL_IMMEDIATELY, 0, 1, 0, &windows.Overlapped{})
		switch {
		case err == nil:
			return false, nil
		case errors.Is(err, windows.ERROR_LOCK_VIOLATION):
			return true, nil
		default:
			return false, fmt.Errorf("LockFileEx %s: %w", path, err)
		}
	})
	if err != nil {
		file.Close()
		return nil, err
	}

	return func() {
		_ = windows.UnlockFileEx(handle, 0, 1, 0, &windows.Overlapped{})
		_ = file.Close()
	}, nil
}
