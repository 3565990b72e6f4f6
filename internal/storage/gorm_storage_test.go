package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/bher20/expensemanager/internal/expense"
)

func newSQLite(t *testing.T) *GormStorage {
	t.Helper()
	st, err := NewGormStorage("sqlite", filepath.Join(t.TempDir(), "expenses.db"))
	if err != nil {
		t.Fatalf("NewGormStorage: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	if err := st.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return st
}

func TestGormStorage_SQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := newSQLite(t)

	got, err := st.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty table, got %d rows", len(got))
	}

	in := sampleExpenses()
	if err := st.Save(ctx, in); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err = st.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	assertSameExpenses(t, in, got)
}

func TestGormStorage_SaveReplacesRows(t *testing.T) {
	ctx := context.Background()
	st := newSQLite(t)
	in := sampleExpenses()

	if err := st.Save(ctx, in); err != nil {
		t.Fatalf("Save: %v", err)
	}
	reordered := []expense.Expense{in[2], in[0]}
	if err := st.Save(ctx, reordered); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, _ := st.Load(ctx)
	assertSameExpenses(t, reordered, got)

	if err := st.Save(ctx, nil); err != nil {
		t.Fatalf("Save empty: %v", err)
	}
	got, _ = st.Load(ctx)
	if len(got) != 0 {
		t.Errorf("expected all rows cleared, got %d", len(got))
	}
}

func TestGormStorage_UnknownDriver(t *testing.T) {
	if _, err := NewGormStorage("mysql", ""); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}
