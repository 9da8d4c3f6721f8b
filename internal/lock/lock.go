package lock

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/rotisserie/eris"
)

// DefaultTimeout bounds how long a command waits for another track process
const DefaultTimeout = 5 * time.Second

const retryDelay = 50 * time.Millisecond

// ErrLocked is returned when another process holds the lock past the timeout
var ErrLocked = eris.New("another track command is running")

// Lock is an exclusive advisory lock on a file
type Lock struct {
	flock *flock.Flock
}

// Acquire takes the exclusive lock at path, creating the file and its parent
// directory when needed. It retries until the lock is free or timeout elapses.
func Acquire(ctx context.Context, path string, timeout time.Duration) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, eris.Wrapf(err, "failed to create lock directory for %s", path)
	}

	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	fl := flock.New(path)
	locked, err := fl.TryLockContext(ctx, retryDelay)
	if err != nil {
		if eris.Is(err, context.DeadlineExceeded) {
			return nil, eris.Wrapf(ErrLocked, "lock %s held for more than %s", path, timeout)
		}
		return nil, eris.Wrapf(err, "failed to lock %s", path)
	}
	if !locked {
		return nil, eris.Wrapf(ErrLocked, "lock %s", path)
	}

	return &Lock{flock: fl}, nil
}

// Path returns the lock file path
func (l *Lock) Path() string {
	return l.flock.Path()
}

// Release unlocks and closes the lock file
func (l *Lock) Release() error {
	if err := l.flock.Unlock(); err != nil {
		return eris.Wrapf(err, "failed to unlock %s", l.flock.Path())
	}
	return nil
}
