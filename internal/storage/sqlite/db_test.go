package sqlite

import (
	"context"
	"strings"
	"testing"

	"github.com/kushdevteam/bunproj-sub004/internal/metrics"
)

func TestOpenMemory(t *testing.T) {
	db, err := Open(MemoryPath)
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	defer db.Close()

	store := NewExecutionStore(db)
	ctx := context.Background()
	if err := store.Save(ctx, execution("b1", base, metrics.TxConfirmed)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Save(ctx, execution("b2", base, metrics.TxFailed)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	n, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 2 {
		t.Errorf("Count = %d, want 2", n)
	}
	if db.Path() != MemoryPath {
		t.Errorf("Path = %q", db.Path())
	}
}

func TestSaveRollsBackBatch(t *testing.T) {
	store := NewExecutionStore(setupTestDB(t))
	ctx := context.Background()

	err := store.Save(ctx, execution("ok", base, metrics.TxConfirmed), execution("", base))
	if err == nil {
		t.Fatal("expected error for execution without id")
	}

	n, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 0 {
		t.Errorf("Count = %d after failed batch, want 0", n)
	}
}

func TestDSN(t *testing.T) {
	file := dsn("/tmp/h.db", false)
	for _, want := range []string{"_journal_mode=WAL", "_busy_timeout=5000", "_foreign_keys=on"} {
		if !strings.Contains(file, want) {
			t.Errorf("dsn %q missing %s", file, want)
		}
	}
	if mem := dsn(MemoryPath, true); strings.Contains(mem, "_journal_mode") {
		t.Errorf("in-memory dsn %q sets a journal mode", mem)
	}
}
