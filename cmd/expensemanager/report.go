package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/bher20/expensemanager/internal/config"
	"github.com/bher20/expensemanager/internal/expense"
	"github.com/bher20/expensemanager/internal/logging"
	"github.com/bher20/expensemanager/internal/storage"
)

func newReportCmd() *cobra.Command {
	var totalsOnly bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print expenses grouped by category followed by the totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := logging.Setup(cfg.Logging())
			return report(cmd.Context(), cfg.Storage(), logger, cmd.OutOrStdout(), totalsOnly)
		},
	}
	cmd.Flags().BoolVar(&totalsOnly, "totals", false, "print only the per-category and overall totals")
	return cmd
}

func report(ctx context.Context, sc storage.Config, logger *slog.Logger, w io.Writer, totalsOnly bool) error {
	st, err := storage.Open(ctx, sc, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	mgr, err := expense.New(ctx, st, logger)
	if err != nil {
		return err
	}

	groups, err := mgr.GroupByCategory()
	if errors.Is(err, expense.ErrEmptyCollection) {
		fmt.Fprintln(w, err)
		return nil
	}
	if err != nil {
		return err
	}
	totals, err := mgr.TotalsByCategory()
	if err != nil {
		return err
	}
	overall, err := mgr.TotalAmount()
	if err != nil {
		return err
	}

	categories := mgr.Categories()
	if !totalsOnly {
		if err := expense.RenderGroups(w, categories, groups); err != nil {
			return err
		}
	}
	return expense.RenderTotals(w, categories, totals, overall)
}
