package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gofrs/flock"

	"talkline/internal/config"
	"talkline/internal/store"
)

// MustOpenStore opens a document store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// HoldIngestLock acquires the ingest lock for the given config so tests can
// exercise contention. Callers must Unlock when done.
func HoldIngestLock(t testing.TB, cfg *config.Config) *flock.Flock {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(cfg.LockPath()), 0o755); err != nil {
		t.Fatalf("mkdir data dir: %v", err)
	}
	lock := flock.New(cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil || !locked {
		t.Fatalf("acquire ingest lock: locked=%v err=%v", locked, err)
	}
	return lock
}
