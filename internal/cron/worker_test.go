package cron

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"

	"github.com/bher20/expensemanager/internal/expense"
	"github.com/bher20/expensemanager/internal/logging"
	"github.com/bher20/expensemanager/internal/metrics"
	"github.com/bher20/expensemanager/internal/service"
)

type stubSummarizer struct {
	sum service.Summary
	err error
}

func (s stubSummarizer) Summary() (service.Summary, error) { return s.sum, s.err }

type captureNotifier struct {
	subjects []string
	bodies   []string
	err      error
}

func (c *captureNotifier) Notify(ctx context.Context, subject, body string) error {
	c.subjects = append(c.subjects, subject)
	c.bodies = append(c.bodies, body)
	return c.err
}

type stubLocker struct {
	ok       bool
	released bool
}

func (l *stubLocker) TryLock(ctx context.Context, key int64) (func(), bool, error) {
	if !l.ok {
		return nil, false, nil
	}
	return func() { l.released = true }, true, nil
}

func sampleSummary() service.Summary {
	return service.Summary{
		Categories: []string{"Food", "Travel"},
		Totals: map[string]decimal.Decimal{
			"Food":   decimal.RequireFromString("12.5"),
			"Travel": decimal.NewFromInt(100),
		},
		Overall: decimal.RequireFromString("112.5"),
	}
}

func TestNewWorkerRejectsBadSchedule(t *testing.T) {
	if _, err := NewWorker(stubSummarizer{}, &captureNotifier{}, "every tuesday", logging.Discard()); err == nil {
		t.Fatal("expected schedule error")
	}
	if _, err := NewWorker(stubSummarizer{}, &captureNotifier{}, "@daily", logging.Discard()); err != nil {
		t.Fatalf("descriptor rejected: %v", err)
	}
}

func TestRunOnceSendsTotals(t *testing.T) {
	n := &captureNotifier{}
	w, err := NewWorker(stubSummarizer{sum: sampleSummary()}, n, "0 8 * * *", logging.Discard())
	if err != nil {
		t.Fatalf("NewWorker: %v", err)
	}

	if err := w.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if len(n.bodies) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(n.bodies))
	}
	want := "Total amount spent for Food: 12.50\n" +
		"Total amount spent for Travel: 100.00\n" +
		"Overall total expense: 112.50\n"
	if n.bodies[0] != want {
		t.Errorf("unexpected body:\n%s", n.bodies[0])
	}
	if n.subjects[0] != subject {
		t.Errorf("unexpected subject %q", n.subjects[0])
	}
}

func TestRunOnceDropsStaleCategoryTotals(t *testing.T) {
	metrics.CategoryTotalAmount.WithLabelValues("Deleted").Set(42)

	w, _ := NewWorker(stubSummarizer{sum: sampleSummary()}, &captureNotifier{}, "@hourly", logging.Discard())
	if err := w.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	if n := testutil.CollectAndCount(metrics.CategoryTotalAmount); n != 2 {
		t.Errorf("expected 2 category series, got %d", n)
	}
	if got := testutil.ToFloat64(metrics.CategoryTotalAmount.WithLabelValues("Food")); got != 12.5 {
		t.Errorf("Food total = %v, want 12.5", got)
	}
}

func TestRunOnceSkipsEmptyCollection(t *testing.T) {
	n := &captureNotifier{}
	w, _ := NewWorker(stubSummarizer{err: expense.ErrEmptyCollection}, n, "@hourly", logging.Discard())

	if err := w.RunOnce(context.Background()); err != nil {
		t.Fatalf("empty collection should not fail: %v", err)
	}
	if len(n.bodies) != 0 {
		t.Errorf("expected no notification")
	}
}

func TestRunOnceReportsNotifierError(t *testing.T) {
	boom := errors.New("smtp down")
	w, _ := NewWorker(stubSummarizer{sum: sampleSummary()}, &captureNotifier{err: boom}, "@hourly", logging.Discard())

	if err := w.RunOnce(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected notifier error, got %v", err)
	}
}

func TestRunOnceHonoursLock(t *testing.T) {
	n := &captureNotifier{}
	held := &stubLocker{ok: false}
	w, _ := NewWorker(stubSummarizer{sum: sampleSummary()}, n, "@hourly", logging.Discard())
	w.WithLocker(held)

	if err := w.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if len(n.bodies) != 0 {
		t.Fatalf("run should be skipped while the lock is held elsewhere")
	}

	free := &stubLocker{ok: true}
	w.WithLocker(free)
	if err := w.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if len(n.bodies) != 1 || !free.released {
		t.Errorf("expected one notification and a released lock")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	w, _ := NewWorker(stubSummarizer{sum: sampleSummary()}, &captureNotifier{}, "@yearly", logging.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestBodyMentionsEveryCategory(t *testing.T) {
	n := &captureNotifier{}
	w, _ := NewWorker(stubSummarizer{sum: sampleSummary()}, n, "@hourly", logging.Discard())
	_ = w.RunOnce(context.Background())
	for _, c := range sampleSummary().Categories {
		if !strings.Contains(n.bodies[0], c) {
			t.Errorf("body missing %s", c)
		}
	}
}
