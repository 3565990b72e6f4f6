package expense

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrEmptyDescription = errors.New("Description cannot be empty!")
	ErrEmptyCategory    = errors.New("Category cannot be empty!")
	ErrInvalidAmount    = errors.New("Amount cannot be 0 or negative!")
	ErrEmptyCollection  = errors.New("No expenses found!")
	ErrExpenseNotFound  = errors.New("Expense not found!")
	ErrInvalidRange     = errors.New("Start date must be before or equal to end date!")
)

// NotFoundError is returned by Delete when no expense carries the requested id.
type NotFoundError struct {
	ID uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Expense with ID %s not found.", e.ID)
}

// Is lets errors.Is(err, ErrExpenseNotFound) match.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrExpenseNotFound
}

// IsValidation reports whether err is caused by invalid caller input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptyDescription) ||
		errors.Is(err, ErrEmptyCategory) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidRange)
}
