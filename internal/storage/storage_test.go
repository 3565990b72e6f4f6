package storage

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bher20/expensemanager/internal/expense"
)

func sampleExpenses() []expense.Expense {
	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	return []expense.Expense{
		{ID: uuid.New(), Date: base, Description: "Rent", Category: "Housing", Amount: decimal.RequireFromString("1200.00")},
		{ID: uuid.New(), Date: base.Add(2 * time.Hour), Description: "Coffee", Category: "Food", Amount: decimal.RequireFromString("3.333")},
		{ID: uuid.New(), Date: base.AddDate(0, 0, 3), Description: "Bus", Category: "Transport", Amount: decimal.RequireFromString("0.01")},
	}
}

// assertSameExpenses compares field by field; dates and amounts by value.
func assertSameExpenses(t *testing.T, want, got []expense.Expense) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d expenses, got %d", len(want), len(got))
	}
	for i := range want {
		w, g := want[i], got[i]
		if g.ID != w.ID || g.Description != w.Description || g.Category != w.Category {
			t.Errorf("[%d] want %+v, got %+v", i, w, g)
		}
		if !g.Amount.Equal(w.Amount) {
			t.Errorf("[%d] amount %s, want %s", i, g.Amount, w.Amount)
		}
		if !g.Date.Equal(w.Date) {
			t.Errorf("[%d] date %v, want %v", i, g.Date, w.Date)
		}
	}
}

func TestMemoryStorage(t *testing.T) {
	ctx := context.Background()
	st := NewMemory()

	got, err := st.Load(ctx)
	if err != nil || len(got) != 0 {
		t.Fatalf("new memory storage should be empty: %v %v", got, err)
	}

	in := sampleExpenses()
	if err := st.Save(ctx, in); err != nil {
		t.Fatalf("Save: %v", err)
	}
	in[0].Description = "mutated after save"

	got, _ = st.Load(ctx)
	if got[0].Description != "Rent" {
		t.Errorf("Save must copy its input")
	}
	got[1].Description = "mutated after load"
	again, _ := st.Load(ctx)
	if again[1].Description != "Coffee" {
		t.Errorf("Load must return a copy")
	}
	if st.Saves() != 1 {
		t.Errorf("saves = %d", st.Saves())
	}
	if err := st.Ping(ctx); err != nil {
		t.Errorf("Ping: %v", err)
	}
}

func TestRecordConversion(t *testing.T) {
	in := sampleExpenses()
	records := toRecords(in)
	for i, r := range records {
		if r.Position != i {
			t.Errorf("record %d has position %d", i, r.Position)
		}
	}
	if records[1].Amount != "3.333" {
		t.Errorf("amount stored as %q", records[1].Amount)
	}

	out, err := fromRecords(records)
	if err != nil {
		t.Fatalf("fromRecords: %v", err)
	}
	assertSameExpenses(t, in, out)

	records[0].Amount = "twelve"
	if _, err := fromRecords(records); err == nil {
		t.Errorf("expected error for a bad amount")
	}
}
