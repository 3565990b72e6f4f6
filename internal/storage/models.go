package storage

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bher20/expensemanager/internal/expense"
)

// ExpenseRecord is the row shape shared by the database backends. Amount is
// kept as its decimal string so every dialect round-trips it exactly.
type ExpenseRecord struct {
	ID          string    `gorm:"primaryKey;column:id"`
	Position    int       `gorm:"column:position;not null;index"`
	Date        time.Time `gorm:"column:date;not null"`
	Description string    `gorm:"column:description;not null"`
	Category    string    `gorm:"column:category;not null"`
	Amount      string    `gorm:"column:amount;not null"`
}

func (ExpenseRecord) TableName() string { return "expenses" }

func toRecords(expenses []expense.Expense) []ExpenseRecord {
	out := make([]ExpenseRecord, 0, len(expenses))
	for i, e := range expenses {
		out = append(out, ExpenseRecord{
			ID:          e.ID.String(),
			Position:    i,
			Date:        e.Date,
			Description: e.Description,
			Category:    e.Category,
			Amount:      e.Amount.String(),
		})
	}
	return out
}

func (r ExpenseRecord) toExpense() (expense.Expense, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return expense.Expense{}, fmt.Errorf("parse id %q: %w", r.ID, err)
	}
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return expense.Expense{}, fmt.Errorf("parse amount %q for %s: %w", r.Amount, r.ID, err)
	}
	return expense.Expense{
		ID:          id,
		Date:        r.Date,
		Description: r.Description,
		Category:    r.Category,
		Amount:      amount,
	}, nil
}

func fromRecords(records []ExpenseRecord) ([]expense.Expense, error) {
	out := make([]expense.Expense, 0, len(records))
	for _, r := range records {
		e, err := r.toExpense()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
