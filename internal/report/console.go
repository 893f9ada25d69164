// Package report renders recommendations and grading stats for the terminal.
package report

import (
	"fmt"
	"io"
	"os"

	"github.com/olekukonko/tablewriter"

	"github.com/wandererfin/wanderer/internal/domain"
)

// Console writes tabular reports to a writer.
type Console struct {
	out io.Writer
}

// NewConsole creates a reporter that writes to stdout.
func NewConsole() *Console {
	return &Console{out: os.Stdout}
}

// NewConsoleWriter creates a reporter for tests.
func NewConsoleWriter(w io.Writer) *Console {
	return &Console{out: w}
}

// PrintPicks prints the latest day's recommendations, graded or pending.
func (c *Console) PrintPicks(recs []domain.Recommendation) {
	if len(recs) == 0 {
		fmt.Fprintln(c.out, "No recommendations yet. Run an analysis first.")
		return
	}

	fmt.Fprintf(c.out, "\nPicks for %s\n", recs[0].RecordDate.Format(domain.DateFormat))

	table := tablewriter.NewWriter(c.out)
	table.Header("Ticker", "Action", "Prev Close", "Close", "Change%", "S&P%", "Result", "Why")

	for _, r := range recs {
		table.Append(
			r.Ticker,
			string(r.Action),
			fmt.Sprintf("%.2f", r.PreviousClose),
			floatCell(r.CurrentClose),
			pctCell(r.PercentChange),
			pctCell(r.BenchmarkPercentChange),
			verdictCell(r.Evaluation),
			truncate(r.Explanation, 48),
		)
	}
	table.Render()
}

// PrintStats prints the win/loss aggregate per action.
func (c *Console) PrintStats(stats domain.EvaluationStats) {
	fmt.Fprintf(c.out, "\nGraded: %d  Pending: %d\n", stats.Evaluated, stats.Pending)
	if len(stats.Actions) == 0 {
		fmt.Fprintln(c.out, "No graded recommendations yet.")
		return
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("Action", "Wins", "Losses", "Win Rate", "Avg Change%", "Avg S&P%")

	for _, a := range stats.Actions {
		table.Append(
			string(a.Action),
			fmt.Sprintf("%d", a.Wins),
			fmt.Sprintf("%d", a.Losses),
			fmt.Sprintf("%.1f%%", a.WinRate()*100),
			fmt.Sprintf("%+.2f", a.AvgPercentChange),
			fmt.Sprintf("%+.2f", a.AvgBenchmarkChange),
		)
	}
	table.Render()
}

func floatCell(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}

func pctCell(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%+.2f", *v)
}

func verdictCell(v *domain.Verdict) string {
	if v == nil {
		return "PENDING"
	}
	return string(*v)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
