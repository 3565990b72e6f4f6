package expense

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shopspring/decimal"
)

const reportDateLayout = "2006-01-02"

// RenderGroups writes a table per category, in the given category order.
func RenderGroups(w io.Writer, categories []string, groups map[string][]Expense) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, c := range categories {
		fmt.Fprintf(tw, "Category: %s\n", c)
		fmt.Fprintln(tw, "-----------------------------")
		fmt.Fprintln(tw, "ID\tDescription\tAmount\tDate")
		for _, e := range groups[c] {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.ID, e.Description, e.Amount.StringFixed(2), e.Date.Format(reportDateLayout))
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

// RenderTotals writes the per-category totals followed by the overall total.
func RenderTotals(w io.Writer, categories []string, totals map[string]decimal.Decimal, overall decimal.Decimal) error {
	for _, c := range categories {
		if _, err := fmt.Fprintf(w, "Total amount spent for %s: %s\n", c, totals[c].StringFixed(2)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Overall total expense: %s\n", overall.StringFixed(2))
	return err
}
