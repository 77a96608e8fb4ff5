package ledger_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"photoscript/internal/ledger"
)

func openStore(t *testing.T) *ledger.Store {
	t.Helper()
	store, err := ledger.Open(context.Background(), filepath.Join(t.TempDir(), "state", "ledger.db"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndExported(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	dest := t.TempDir()

	exported, err := store.Exported(ctx, "UUID-1", dest)
	if err != nil || exported {
		t.Fatalf("fresh ledger Exported = %v, %v", exported, err)
	}
	err = store.Record(ctx,
		ledger.Export{PhotoUUID: "UUID-1", Album: "Trip", DestDir: dest, Path: filepath.Join(dest, "a.jpeg"), Bytes: 10},
		ledger.Export{PhotoUUID: "UUID-1", Album: "Trip", DestDir: dest + "/", Path: filepath.Join(dest, "a.mov"), Bytes: 20, Original: true},
	)
	if err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	exported, err = store.Exported(ctx, "UUID-1", dest)
	if err != nil || !exported {
		t.Fatalf("Exported after record = %v, %v", exported, err)
	}
	if exported, _ := store.Exported(ctx, "UUID-1", t.TempDir()); exported {
		t.Fatal("other destinations should not count")
	}
}

func TestListNewestFirst(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, uuid := range []string{"A", "B", "C"} {
		if err := store.Record(ctx, ledger.Export{PhotoUUID: uuid, DestDir: "/out", Path: "/out/" + uuid, ExportedAt: base.Add(time.Duration(i) * time.Hour)}); err != nil {
			t.Fatal(err)
		}
	}
	if err := store.Record(ctx, ledger.Export{PhotoUUID: "Z", DestDir: "/elsewhere", Path: "/elsewhere/Z", RunID: "run-1"}); err != nil {
		t.Fatal(err)
	}

	rows, err := store.List(ctx, "/out", 2)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(rows) != 2 || rows[0].PhotoUUID != "C" || rows[1].PhotoUUID != "B" {
		t.Fatalf("unexpected rows %+v", rows)
	}
	if !rows[0].ExportedAt.Equal(base.Add(2 * time.Hour)) {
		t.Fatalf("unexpected timestamp %v", rows[0].ExportedAt)
	}
	all, _ := store.List(ctx, "", 0)
	if len(all) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(all))
	}
}

func TestForget(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	if err := store.Record(ctx, ledger.Export{PhotoUUID: "A", DestDir: "/out", Path: "/out/a"}); err != nil {
		t.Fatal(err)
	}
	removed, err := store.Forget(ctx, "A", "/out")
	if err != nil || removed != 1 {
		t.Fatalf("Forget = %d, %v", removed, err)
	}
	if exported, _ := store.Exported(ctx, "A", "/out"); exported {
		t.Fatal("forgotten export should not be reported")
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	ctx := context.Background()
	store, err := ledger.Open(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Record(ctx, ledger.Export{PhotoUUID: "A", DestDir: "/out", Path: "/out/a"}); err != nil {
		t.Fatal(err)
	}
	_ = store.Close()

	reopened, err := ledger.Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen returned error: %v", err)
	}
	defer reopened.Close()
	if exported, _ := reopened.Exported(ctx, "A", "/out"); !exported {
		t.Fatal("expected record to survive reopen")
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := ledger.Open(context.Background(), " "); err == nil {
		t.Fatal("expected error for empty path")
	}
}
