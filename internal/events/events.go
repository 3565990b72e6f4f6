// Package events publishes expense lifecycle events to external consumers.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/bher20/expensemanager/internal/expense"
)

// Type identifies an expense event. It doubles as the AMQP routing key.
type Type string

const (
	ExpenseCreated Type = "expense.created"
	ExpenseDeleted Type = "expense.deleted"
)

// Event describes a committed change to the expense collection.
type Event struct {
	Type       Type             `json:"type"`
	ExpenseID  uuid.UUID        `json:"expense_id"`
	Expense    *expense.Expense `json:"expense,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}

// Created returns the event emitted after e was added.
func Created(e expense.Expense) Event {
	return Event{Type: ExpenseCreated, ExpenseID: e.ID, Expense: &e, OccurredAt: time.Now()}
}

// Deleted returns the event emitted after the expense with id was removed.
func Deleted(id uuid.UUID) Event {
	return Event{Type: ExpenseDeleted, ExpenseID: id, OccurredAt: time.Now()}
}

// ToJSON converts the event to JSON bytes.
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// FromJSON decodes an event.
func FromJSON(data []byte) (Event, error) {
	var e Event
	err := json.Unmarshal(data, &e)
	return e, err
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }
