package expense

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Expense is a single recorded expense.
type Expense struct {
	ID          uuid.UUID       `json:"id"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
}

// Validate checks the invariants every stored Expense must hold.
func (e Expense) Validate() error {
	return validate(e.Description, e.Category, e.Amount)
}

func validate(description, category string, amount decimal.Decimal) error {
	if description == "" {
		return ErrEmptyDescription
	}
	if category == "" {
		return ErrEmptyCategory
	}
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

// InRange reports whether the expense date lies within [start, end].
func (e Expense) InRange(start, end time.Time) bool {
	return !e.Date.Before(start) && !e.Date.After(end)
}
