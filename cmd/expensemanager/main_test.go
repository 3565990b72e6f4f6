package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bher20/expensemanager/internal/expense"
	"github.com/bher20/expensemanager/internal/logging"
	"github.com/bher20/expensemanager/internal/storage"
)

func TestRootCommandWiring(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"serve", "migrate", "report"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("missing subcommand %q: %v", name, err)
		}
	}
	mig, _, _ := root.Find([]string{"migrate", "status"})
	if mig.Name() != "status" {
		t.Errorf("missing migrate status")
	}
}

func TestReportFromFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "expenses.json")

	seed := storage.NewFile(path, logging.Discard())
	day := time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)
	err := seed.Save(ctx, []expense.Expense{
		{ID: uuid.New(), Date: day, Description: "Lunch", Category: "Food", Amount: decimal.RequireFromString("8.5")},
		{ID: uuid.New(), Date: day, Description: "Train", Category: "Transport", Amount: decimal.NewFromInt(20)},
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	var out bytes.Buffer
	if err := report(ctx, storage.Config{Driver: "file", Path: path}, logging.Discard(), &out, false); err != nil {
		t.Fatalf("report: %v", err)
	}
	got := out.String()
	for _, want := range []string{
		"Category: Food",
		"Lunch",
		"2024-05-02",
		"Total amount spent for Food: 8.50",
		"Total amount spent for Transport: 20.00",
		"Overall total expense: 28.50",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("report missing %q:\n%s", want, got)
		}
	}

	out.Reset()
	if err := report(ctx, storage.Config{Driver: "file", Path: path}, logging.Discard(), &out, true); err != nil {
		t.Fatalf("report totals: %v", err)
	}
	if strings.Contains(out.String(), "Category:") {
		t.Errorf("totals-only report printed groups:\n%s", out.String())
	}
}

func TestReportEmpty(t *testing.T) {
	var out bytes.Buffer
	if err := report(context.Background(), storage.Config{Driver: "memory"}, logging.Discard(), &out, false); err != nil {
		t.Fatalf("report: %v", err)
	}
	if strings.TrimSpace(out.String()) != expense.ErrEmptyCollection.Error() {
		t.Errorf("unexpected output %q", out.String())
	}
}
