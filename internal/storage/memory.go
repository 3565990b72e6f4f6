package storage

import (
	"context"
	"slices"
	"sync"

	"github.com/bher20/expensemanager/internal/expense"
)

// MemoryStorage is an in-memory Storage implementation, useful for tests.
// It keeps nothing across process lifetimes and always starts empty.
type MemoryStorage struct {
	mu       sync.RWMutex
	expenses []expense.Expense
	saves    int
}

// NewMemory returns an empty MemoryStorage.
func NewMemory() *MemoryStorage {
	return &MemoryStorage{}
}

func (m *MemoryStorage) Close() error { return nil }

func (m *MemoryStorage) Ping(ctx context.Context) error { return nil }

func (m *MemoryStorage) Load(ctx context.Context) ([]expense.Expense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.expenses), nil
}

func (m *MemoryStorage) Save(ctx context.Context, expenses []expense.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expenses = slices.Clone(expenses)
	m.saves++
	return nil
}

// Saves returns how many times Save has been called.
func (m *MemoryStorage) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}
