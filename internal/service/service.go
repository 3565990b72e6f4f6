// Package service makes an expense.Manager safe for concurrent use and
// attaches the side effects of each mutation: events and metrics.
package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bher20/expensemanager/internal/events"
	"github.com/bher20/expensemanager/internal/expense"
	"github.com/bher20/expensemanager/internal/metrics"
)

// Service serializes writers and lets readers run in parallel.
type Service struct {
	mu        sync.RWMutex
	mgr       *expense.Manager
	publisher events.Publisher
	logger    *slog.Logger
}

// Summary is a consistent snapshot of the per-category view.
type Summary struct {
	Categories []string
	Groups     map[string][]expense.Expense
	Totals     map[string]decimal.Decimal
	Overall    decimal.Decimal
}

func New(mgr *expense.Manager, publisher events.Publisher, logger *slog.Logger) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	metrics.ExpensesStored.Set(float64(mgr.Len()))
	return &Service{
		mgr:       mgr,
		publisher: publisher,
		logger:    logger.With("component", "expense_service"),
	}
}

func (s *Service) Add(ctx context.Context, description, category string, amount decimal.Decimal, date time.Time) (expense.Expense, error) {
	s.mu.Lock()
	e, err := s.mgr.Add(ctx, description, category, amount, date)
	n := s.mgr.Len()
	s.mu.Unlock()

	if err != nil {
		s.recordFailure(err)
		return expense.Expense{}, err
	}
	metrics.ExpensesStored.Set(float64(n))
	s.publish(ctx, events.Created(e))
	return e, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	err := s.mgr.Delete(ctx, id)
	n := s.mgr.Len()
	s.mu.Unlock()

	if err != nil {
		s.recordFailure(err)
		return err
	}
	metrics.ExpensesStored.Set(float64(n))
	s.publish(ctx, events.Deleted(id))
	return nil
}

func (s *Service) GetAll() ([]expense.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mgr.GetAll()
}

func (s *Service) GroupByCategory() (map[string][]expense.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mgr.GroupByCategory()
}

func (s *Service) TotalsByCategory() (map[string]decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mgr.TotalsByCategory()
}

func (s *Service) TotalAmount() (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mgr.TotalAmount()
}

func (s *Service) FilterByDateRange(start, end time.Time) ([]expense.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out, err := s.mgr.FilterByDateRange(start, end)
	if errors.Is(err, expense.ErrInvalidRange) {
		metrics.ValidationFailuresTotal.WithLabelValues(reason(err)).Inc()
	}
	return out, err
}

func (s *Service) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mgr.Categories()
}

func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mgr.Len()
}

// Summary returns groups and totals computed under a single read lock.
func (s *Service) Summary() (Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	groups, err := s.mgr.GroupByCategory()
	if err != nil {
		return Summary{}, err
	}
	totals, err := s.mgr.TotalsByCategory()
	if err != nil {
		return Summary{}, err
	}
	overall, err := s.mgr.TotalAmount()
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		Categories: s.mgr.Categories(),
		Groups:     groups,
		Totals:     totals,
		Overall:    overall,
	}, nil
}

// publish is best effort; the mutation is already durable.
func (s *Service) publish(ctx context.Context, e events.Event) {
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.logger.WarnContext(ctx, "publish event failed",
			"type", e.Type,
			"id", e.ExpenseID,
			"error", err)
	}
}

func (s *Service) recordFailure(err error) {
	switch {
	case expense.IsValidation(err):
		metrics.ValidationFailuresTotal.WithLabelValues(reason(err)).Inc()
	case errors.Is(err, expense.ErrExpenseNotFound):
	default:
		metrics.PersistFailuresTotal.Inc()
		s.logger.Error("expense mutation rolled back", "error", err)
	}
}

func reason(err error) string {
	switch {
	case errors.Is(err, expense.ErrEmptyDescription):
		return "empty_description"
	case errors.Is(err, expense.ErrEmptyCategory):
		return "empty_category"
	case errors.Is(err, expense.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, expense.ErrInvalidRange):
		return "invalid_range"
	default:
		return "other"
	}
}
