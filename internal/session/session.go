// Package session serializes misettings invocations that write settings or
// touch the MotionInput processes. A session holds an exclusive file lock for
// its lifetime and carries an id that tags every log line it emits.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

// ErrBusy is returned when another session already holds the lock.
var ErrBusy = errors.New("another misettings session is running")

// Session is an acquired lock plus its correlation id.
type Session struct {
	ID       string
	lockPath string
	lock     *flock.Flock
}

// NewID returns a fresh session id without taking the lock. Read-only
// commands use it to correlate log lines.
func NewID() string {
	return uuid.NewString()
}

// Acquire takes the lock at lockPath without blocking. The lock file's
// directory must already exist.
func Acquire(lockPath string) (*Session, error) {
	if dir := filepath.Dir(lockPath); dir != "" {
		if _, err := os.Stat(dir); err != nil {
			return nil, fmt.Errorf("lock directory: %w", err)
		}
	}
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock %s)", ErrBusy, lockPath)
	}
	return &Session{ID: NewID(), lockPath: lockPath, lock: lock}, nil
}

// LockPath returns the lock file location.
func (s *Session) LockPath() string {
	return s.lockPath
}

// Release drops the lock. It is safe to call more than once.
func (s *Session) Release() error {
	if s == nil || s.lock == nil {
		return nil
	}
	if err := s.lock.Unlock(); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	return nil
}
