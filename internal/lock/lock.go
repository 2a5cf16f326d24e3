// Package lock serializes hardware access between mosys processes with an
// advisory file lock.
package lock

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

const retryDelay = 50 * time.Millisecond

// ErrBusy is returned when another process holds the lock past the timeout.
var ErrBusy = errors.New("machine lock busy")

// Lock is a held machine lock.
type Lock struct {
	fl *flock.Flock
}

// Acquire takes the lock at path, retrying until timeout elapses or ctx is
// done. A zero timeout tries exactly once.
func Acquire(ctx context.Context, path string, timeout time.Duration) (*Lock, error) {
	if path == "" {
		return nil, errors.New("acquire lock: empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}

	fl := flock.New(path)
	var (
		ok  bool
		err error
	)
	if timeout <= 0 {
		ok, err = fl.TryLock()
	} else {
		lockCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		ok, err = fl.TryLockContext(lockCtx, retryDelay)
		if err != nil && errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			err = nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBusy, path)
	}
	return &Lock{fl: fl}, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	if l == nil {
		return ""
	}
	return l.fl.Path()
}

// Release drops the lock. Releasing a nil lock is a no-op.
func (l *Lock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	if err := l.fl.Unlock(); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	return nil
}
