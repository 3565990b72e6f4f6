// Package expense holds the expense record, its validation rules and the
// Manager that owns the in-memory collection.
package expense

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store loads and persists the full expense collection.
type Store interface {
	Load(ctx context.Context) ([]Expense, error)
	Save(ctx context.Context, expenses []Expense) error
}

// Manager owns the ordered expense collection. It performs no locking;
// callers sharing a Manager across goroutines must serialize access.
type Manager struct {
	store    Store
	expenses []Expense
	logger   *slog.Logger
	now      func() time.Time
}

// New loads the collection from store and returns a Manager over it.
// Loaded records that break the model invariants are dropped with a warning.
func New(ctx context.Context, store Store, logger *slog.Logger) (*Manager, error) {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		store:  store,
		logger: logger.With("component", "expense_manager"),
		now:    time.Now,
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load expenses: %w", err)
	}

	seen := make(map[uuid.UUID]struct{}, len(loaded))
	for _, e := range loaded {
		if err := e.Validate(); err != nil {
			m.logger.Warn("dropping invalid stored expense", "id", e.ID, "error", err)
			continue
		}
		if _, dup := seen[e.ID]; dup {
			m.logger.Warn("dropping duplicate stored expense", "id", e.ID)
			continue
		}
		seen[e.ID] = struct{}{}
		m.expenses = append(m.expenses, e)
	}

	m.logger.Info("expenses loaded", "count", len(m.expenses))
	return m, nil
}

// Add validates the input, appends a new expense and persists the
// collection. A zero date defaults to the current time. Dates are kept
// at microsecond precision, the finest Postgres stores. When persisting
// fails the collection is left unchanged.
func (m *Manager) Add(ctx context.Context, description, category string, amount decimal.Decimal, date time.Time) (Expense, error) {
	if err := validate(description, category, amount); err != nil {
		return Expense{}, err
	}
	if date.IsZero() {
		date = m.now()
	}
	date = date.Truncate(time.Microsecond)

	e := Expense{
		ID:          uuid.New(),
		Date:        date,
		Description: description,
		Category:    category,
		Amount:      amount,
	}

	next := append(slices.Clip(m.expenses), e)
	if err := m.persist(ctx, next); err != nil {
		return Expense{}, err
	}
	m.expenses = next

	m.logger.Debug("expense added", "id", e.ID, "category", e.Category, "amount", e.Amount.String())
	return e, nil
}

// GetAll returns a copy of the collection in insertion order.
func (m *Manager) GetAll() ([]Expense, error) {
	if len(m.expenses) == 0 {
		return nil, ErrEmptyCollection
	}
	return slices.Clone(m.expenses), nil
}

// Delete removes the expense with the given id and persists the collection.
func (m *Manager) Delete(ctx context.Context, id uuid.UUID) error {
	idx := slices.IndexFunc(m.expenses, func(e Expense) bool { return e.ID == id })
	if idx < 0 {
		return &NotFoundError{ID: id}
	}

	next := slices.Delete(slices.Clone(m.expenses), idx, idx+1)
	if err := m.persist(ctx, next); err != nil {
		return err
	}
	m.expenses = next

	m.logger.Debug("expense deleted", "id", id)
	return nil
}

// GroupByCategory partitions the collection by category. Each group keeps
// the original relative order.
func (m *Manager) GroupByCategory() (map[string][]Expense, error) {
	if len(m.expenses) == 0 {
		return nil, ErrEmptyCollection
	}

	groups := make(map[string][]Expense)
	for _, e := range m.expenses {
		groups[e.Category] = append(groups[e.Category], e)
	}

	for _, c := range m.Categories() {
		m.logger.Debug("expense group",
			"category", c,
			"count", len(groups[c]),
			"total", sum(groups[c]).String(),
		)
	}
	return groups, nil
}

// Categories returns the distinct categories in order of first appearance.
func (m *Manager) Categories() []string {
	var out []string
	seen := make(map[string]struct{})
	for _, e := range m.expenses {
		if _, ok := seen[e.Category]; ok {
			continue
		}
		seen[e.Category] = struct{}{}
		out = append(out, e.Category)
	}
	return out
}

// TotalsByCategory sums amounts per category.
func (m *Manager) TotalsByCategory() (map[string]decimal.Decimal, error) {
	if len(m.expenses) == 0 {
		return nil, ErrEmptyCollection
	}

	totals := make(map[string]decimal.Decimal)
	for _, e := range m.expenses {
		totals[e.Category] = totals[e.Category].Add(e.Amount)
	}
	return totals, nil
}

// TotalAmount sums every amount in the collection.
func (m *Manager) TotalAmount() (decimal.Decimal, error) {
	if len(m.expenses) == 0 {
		return decimal.Zero, ErrEmptyCollection
	}
	return sum(m.expenses), nil
}

// FilterByDateRange returns, in order, the expenses dated within
// [start, end]. No match yields an empty slice, not an error.
func (m *Manager) FilterByDateRange(start, end time.Time) ([]Expense, error) {
	if len(m.expenses) == 0 {
		return nil, ErrEmptyCollection
	}
	if start.After(end) {
		return nil, ErrInvalidRange
	}

	out := make([]Expense, 0)
	for _, e := range m.expenses {
		if e.InRange(start, end) {
			out = append(out, e)
		}
	}
	return out, nil
}

// Len returns the number of expenses held.
func (m *Manager) Len() int {
	return len(m.expenses)
}

func (m *Manager) persist(ctx context.Context, expenses []Expense) error {
	if err := m.store.Save(ctx, expenses); err != nil {
		return fmt.Errorf("save expenses: %w", err)
	}
	return nil
}

func sum(expenses []Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}
