package storage

import (
	"context"

	"github.com/bher20/expensemanager/internal/expense"
)

// Storage abstracts persistence of the full expense collection.
type Storage interface {
	// Load returns the persisted collection in insertion order.
	Load(ctx context.Context) ([]expense.Expense, error)
	// Save overwrites the backing store with the given collection.
	Save(ctx context.Context, expenses []expense.Expense) error

	Ping(ctx context.Context) error

	// Close releases any resources (no-op for in-memory and file).
	Close() error
}
