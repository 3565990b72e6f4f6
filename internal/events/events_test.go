package events

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bher20/expensemanager/internal/expense"
)

func TestCreatedEventCarriesExpense(t *testing.T) {
	e := expense.Expense{
		ID:          uuid.New(),
		Date:        time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Description: "Dinner",
		Category:    "Food",
		Amount:      decimal.RequireFromString("50.25"),
	}

	ev := Created(e)
	if ev.Type != ExpenseCreated {
		t.Fatalf("unexpected type: %q", ev.Type)
	}

	data, err := ev.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	got, err := FromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if got.ExpenseID != e.ID || got.Expense == nil {
		t.Fatalf("expense lost in encoding: %+v", got)
	}
	if !got.Expense.Amount.Equal(e.Amount) || !got.Expense.Date.Equal(e.Date) {
		t.Errorf("fields changed: want %+v got %+v", e, *got.Expense)
	}
}

func TestDeletedEventOmitsExpense(t *testing.T) {
	id := uuid.New()
	ev := Deleted(id)
	if ev.Type != ExpenseDeleted || ev.ExpenseID != id || ev.Expense != nil {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if ev.OccurredAt.IsZero() {
		t.Errorf("expected OccurredAt to be set")
	}
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = Nop{}
	if err := p.Publish(context.Background(), Deleted(uuid.New())); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
