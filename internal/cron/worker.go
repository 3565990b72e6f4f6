// Package cron runs the scheduled expense summary job.
package cron

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/bher20/expensemanager/internal/expense"
	"github.com/bher20/expensemanager/internal/metrics"
	"github.com/bher20/expensemanager/internal/notification"
	"github.com/bher20/expensemanager/internal/service"
)

const (
	jobName        = "expense_summary"
	summaryLockKey = int64(4242)
	subject        = "Expense summary"
)

// Summarizer provides a consistent snapshot of the collection.
type Summarizer interface {
	Summary() (service.Summary, error)
}

// Locker is implemented by storage backends that can coordinate replicas.
type Locker interface {
	TryLock(ctx context.Context, key int64) (unlock func(), ok bool, err error)
}

// Worker renders the per-category totals on a cron schedule and sends them
// through a Notifier.
type Worker struct {
	src      Summarizer
	notifier notification.Notifier
	schedule string
	locker   Locker
	logger   *slog.Logger
}

// NewWorker validates schedule, a standard five-field cron expression or a
// descriptor such as "@daily".
func NewWorker(src Summarizer, notifier notification.Notifier, schedule string, logger *slog.Logger) (*Worker, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid report schedule %q: %w", schedule, err)
	}
	return &Worker{
		src:      src,
		notifier: notifier,
		schedule: schedule,
		logger:   logger.With("component", "cron", "job", jobName),
	}, nil
}

// WithLocker makes each run skip unless it wins the advisory lock.
func (w *Worker) WithLocker(l Locker) *Worker {
	w.locker = l
	return w
}

// Run schedules the job and blocks until ctx is cancelled. A job already in
// flight is allowed to finish.
func (w *Worker) Run(ctx context.Context) error {
	c := cron.New()
	if _, err := c.AddFunc(w.schedule, func() {
		if err := w.RunOnce(ctx); err != nil {
			w.logger.ErrorContext(ctx, "summary job failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("schedule summary job: %w", err)
	}

	w.logger.InfoContext(ctx, "cron worker starting", "schedule", w.schedule)
	c.Start()

	<-ctx.Done()
	<-c.Stop().Done()
	w.logger.Info("cron worker stopped")
	return nil
}

// RunOnce executes a single summary run.
func (w *Worker) RunOnce(ctx context.Context) (err error) {
	started := time.Now()
	defer func() { metrics.UpdateJobMetrics(jobName, started, err) }()

	if w.locker != nil {
		unlock, ok, lerr := w.locker.TryLock(ctx, summaryLockKey)
		if lerr != nil {
			return fmt.Errorf("acquire lock: %w", lerr)
		}
		if !ok {
			w.logger.InfoContext(ctx, "lock held by another worker, skipping run")
			return nil
		}
		defer unlock()
	}

	sum, err := w.src.Summary()
	if errors.Is(err, expense.ErrEmptyCollection) {
		w.logger.InfoContext(ctx, "no expenses recorded, skipping summary")
		return nil
	}
	if err != nil {
		return fmt.Errorf("summarize: %w", err)
	}

	metrics.CategoryTotalAmount.Reset()
	for c, total := range sum.Totals {
		metrics.CategoryTotalAmount.WithLabelValues(c).Set(total.InexactFloat64())
	}
	metrics.OverallTotalAmount.Set(sum.Overall.InexactFloat64())

	var body bytes.Buffer
	if err := expense.RenderTotals(&body, sum.Categories, sum.Totals, sum.Overall); err != nil {
		return fmt.Errorf("render totals: %w", err)
	}
	if err := w.notifier.Notify(ctx, subject, body.String()); err != nil {
		return fmt.Errorf("notify: %w", err)
	}

	w.logger.InfoContext(ctx, "summary sent",
		"categories", len(sum.Categories),
		"overall", sum.Overall.StringFixed(2),
		"duration", time.Since(started))
	return nil
}
