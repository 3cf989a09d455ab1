package session_test

import (
	"errors"
	"path/filepath"
	"testing"

	"misettings/internal/session"
)

func TestAcquireIsExclusive(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "misettings.lock")

	first, err := session.Acquire(lockPath)
	if err != nil {
		t.Fatalf("first Acquire: %v", err)
	}
	if first.ID == "" || first.LockPath() != lockPath {
		t.Fatalf("unexpected session: %+v", first)
	}

	if _, err := session.Acquire(lockPath); !errors.Is(err, session.ErrBusy) {
		t.Fatalf("expected ErrBusy while held, got %v", err)
	}

	if err := first.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if err := first.Release(); err != nil {
		t.Fatalf("second Release: %v", err)
	}

	second, err := session.Acquire(lockPath)
	if err != nil {
		t.Fatalf("Acquire after release: %v", err)
	}
	defer second.Release()
	if second.ID == first.ID {
		t.Fatal("expected a fresh session id")
	}
}

func TestAcquireMissingDirectory(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "absent", "misettings.lock")
	if _, err := session.Acquire(lockPath); err == nil {
		t.Fatal("expected error for missing data directory")
	}
}

func TestNilSessionRelease(t *testing.T) {
	var s *session.Session
	if err := s.Release(); err != nil {
		t.Fatalf("nil Release: %v", err)
	}
}
