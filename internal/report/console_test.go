package report_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/wandererfin/wanderer/internal/domain"
	"github.com/wandererfin/wanderer/internal/report"
)

func ptrF(v float64) *float64 { return &v }

func ptrV(v domain.Verdict) *domain.Verdict { return &v }

func TestPrintPicks_GradedAndPending(t *testing.T) {
	var buf bytes.Buffer
	c := report.NewConsoleWriter(&buf)

	day := time.Date(2025, 8, 26, 0, 0, 0, 0, time.UTC)
	c.PrintPicks([]domain.Recommendation{
		{
			Ticker: "AAPL", RecordDate: day, Action: domain.ActionBuy,
			PreviousClose: 100, CurrentClose: ptrF(105),
			PercentChange: ptrF(5), BenchmarkPercentChange: ptrF(2),
			Evaluation:  ptrV(domain.VerdictWin),
			Explanation: "Strong demand signals.",
		},
		{
			Ticker: "MSFT", RecordDate: day, Action: domain.ActionHold,
			PreviousClose: 50, Explanation: "No catalyst.",
		},
	})

	out := buf.String()
	assert.Contains(t, out, "Picks for 2025-08-26")
	assert.Contains(t, out, "AAPL")
	assert.Contains(t, out, "WIN")
	assert.Contains(t, out, "PENDING")
	assert.Contains(t, out, "+5.00")
}

func TestPrintPicks_Empty(t *testing.T) {
	var buf bytes.Buffer
	report.NewConsoleWriter(&buf).PrintPicks(nil)
	assert.Contains(t, buf.String(), "No recommendations yet")
}

func TestPrintStats(t *testing.T) {
	var buf bytes.Buffer
	c := report.NewConsoleWriter(&buf)

	c.PrintStats(domain.EvaluationStats{
		Evaluated: 10,
		Pending:   3,
		Actions: []domain.ActionStats{
			{Action: domain.ActionBuy, Wins: 6, Losses: 2, AvgPercentChange: 1.25, AvgBenchmarkChange: 0.4},
			{Action: domain.ActionHold, Wins: 1, Losses: 1, AvgPercentChange: -0.2, AvgBenchmarkChange: 0.4},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "Graded: 10  Pending: 3")
	assert.Contains(t, out, "75.0%")
	assert.Contains(t, out, "+1.25")
}

func TestPrintStats_NoActions(t *testing.T) {
	var buf bytes.Buffer
	report.NewConsoleWriter(&buf).PrintStats(domain.EvaluationStats{Pending: 2})
	assert.Contains(t, buf.String(), "No graded recommendations yet")
}
