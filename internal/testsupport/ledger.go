package testsupport

import (
	"context"
	"testing"

	"photoscript/internal/config"
	"photoscript/internal/ledger"
)

// MustOpenLedger opens the export ledger named by cfg and registers cleanup.
func MustOpenLedger(t testing.TB, cfg *config.Config) *ledger.Store {
	t.Helper()

	store, err := ledger.Open(context.Background(), cfg.Ledger.Path)
	if err != nil {
		t.Fatalf("ledger.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
