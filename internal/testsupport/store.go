package testsupport

import (
	"context"
	"testing"
	"time"

	"mosys/internal/config"
	"mosys/internal/journal"
)

// MustOpenJournal opens the journal named by cfg and registers cleanup.
func MustOpenJournal(t testing.TB, cfg *config.Config) *journal.Store {
	t.Helper()

	store, err := journal.Open(context.Background(), cfg.Journal.Path)
	if err != nil {
		t.Fatalf("journal.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

// RecordEntry appends an entry for tests, filling StartedAt when unset.
func RecordEntry(t testing.TB, store *journal.Store, e journal.Entry) string {
	t.Helper()

	if e.StartedAt.IsZero() {
		e.StartedAt = time.Now().UTC()
	}
	id, err := store.Record(context.Background(), e)
	if err != nil {
		t.Fatalf("store.Record: %v", err)
	}
	return id
}
