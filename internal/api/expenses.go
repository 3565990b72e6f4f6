package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bher20/expensemanager/internal/expense"
	"github.com/bher20/expensemanager/internal/service"
)

const dateOnly = "2006-01-02"

type expenseHandler struct {
	svc    *service.Service
	logger *slog.Logger
}

type addExpenseRequest struct {
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Date        *time.Time      `json:"date,omitempty"`
}

type addExpenseResponse struct {
	Message string          `json:"message"`
	Expense expense.Expense `json:"expense"`
}

type totalAmountResponse struct {
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// list returns every expense
// @Summary List expenses
// @Description Return every expense in insertion order
// @Tags expenses
// @Produce json
// @Success 200 {array} expense.Expense
// @Failure 404 {object} messageResponse
// @Router /expenses [get]
func (h *expenseHandler) list(w http.ResponseWriter, r *http.Request) {
	all, err := h.svc.GetAll()
	if err != nil {
		h.writeError(w, r, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, all)
}

// add stores a new expense
// @Summary Add expense
// @Tags expenses
// @Accept json
// @Produce json
// @Param expense body addExpenseRequest true "Expense to add"
// @Success 200 {object} addExpenseResponse
// @Failure 400 {object} messageResponse
// @Failure 500 {object} messageResponse
// @Router /expenses [post]
func (h *expenseHandler) add(w http.ResponseWriter, r *http.Request) {
	var req addExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	var date time.Time
	if req.Date != nil {
		date = *req.Date
	}

	e, err := h.svc.Add(r.Context(), req.Description, req.Category, req.Amount, date)
	if err != nil {
		h.writeError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, addExpenseResponse{Message: "Expense added successfully.", Expense: e})
}

// delete removes an expense by id
// @Summary Delete expense
// @Tags expenses
// @Produce json
// @Param id path string true "Expense ID"
// @Success 200 {object} messageResponse
// @Failure 400 {object} messageResponse
// @Failure 404 {object} messageResponse
// @Router /expenses/{id} [delete]
func (h *expenseHandler) delete(w http.ResponseWriter, r *http.Request) {
	raw := r.PathValue("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, fmt.Sprintf("Invalid expense ID %q.", raw))
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeMessage(w, http.StatusOK, fmt.Sprintf("Expense with ID %s was deleted successfully!", id))
}

// byCategory
// @Summary Expenses grouped by category
// @Tags reports
// @Produce json
// @Success 200 {object} map[string][]expense.Expense
// @Failure 404 {object} messageResponse
// @Router /expenses/category [get]
func (h *expenseHandler) byCategory(w http.ResponseWriter, r *http.Request) {
	groups, err := h.svc.GroupByCategory()
	if err != nil {
		h.writeError(w, r, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

// @Summary Total amount per category
// @Tags reports
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 404 {object} messageResponse
// @Router /expenses/category/totalAmount [get]
func (h *expenseHandler) categoryTotals(w http.ResponseWriter, r *http.Request) {
	totals, err := h.svc.TotalsByCategory()
	if err != nil {
		h.writeError(w, r, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

// @Summary Overall total amount
// @Tags reports
// @Produce json
// @Success 200 {object} totalAmountResponse
// @Failure 404 {object} messageResponse
// @Router /expenses/totalAmount [get]
func (h *expenseHandler) totalAmount(w http.ResponseWriter, r *http.Request) {
	total, err := h.svc.TotalAmount()
	if err != nil {
		h.writeError(w, r, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, totalAmountResponse{TotalAmount: total})
}

// filterByDate returns the expenses dated within [startDate, endDate]
// @Summary Filter expenses by date range
// @Tags expenses
// @Produce json
// @Param startDate query string true "Start of range (RFC 3339 or YYYY-MM-DD)"
// @Param endDate query string true "End of range (RFC 3339 or YYYY-MM-DD)"
// @Success 200 {array} expense.Expense
// @Failure 400 {object} messageResponse
// @Failure 404 {object} messageResponse
// @Router /expenses/filterByDate [get]
func (h *expenseHandler) filterByDate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, err := parseDate(q.Get("startDate"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, fmt.Sprintf("Invalid startDate: %v", err))
		return
	}
	end, err := parseDate(q.Get("endDate"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, fmt.Sprintf("Invalid endDate: %v", err))
		return
	}

	found, err := h.svc.FilterByDateRange(start, end)
	if err != nil {
		h.writeError(w, r, err, http.StatusBadRequest)
		return
	}
	if len(found) == 0 {
		writeMessage(w, http.StatusNotFound, "No expenses found within the given date range!")
		return
	}
	writeJSON(w, http.StatusOK, found)
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("value is required")
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(dateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected RFC 3339 or %s, got %q", dateOnly, s)
	}
	return t, nil
}

// writeError maps domain errors to status codes; anything unrecognised
// gets fallback.
func (h *expenseHandler) writeError(w http.ResponseWriter, r *http.Request, err error, fallback int) {
	status := fallback
	switch {
	case errors.Is(err, expense.ErrEmptyCollection), errors.Is(err, expense.ErrExpenseNotFound):
		status = http.StatusNotFound
	case expense.IsValidation(err):
		status = http.StatusBadRequest
	}

	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err)
	}
	writeMessage(w, status, err.Error())
}
