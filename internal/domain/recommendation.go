package domain

import "time"

// DateFormat is the canonical YYYY-MM-DD layout for record dates.
const DateFormat = "2006-01-02"

// Action is the call produced by the analysis pipeline for a ticker.
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionHold Action = "HOLD"
	// ActionSell exists in the taxonomy but the pipeline never produces it
	// and no grading rule is defined for it. The evaluator rejects it loudly
	// instead of guessing a symmetric rule.
	ActionSell Action = "SELL"
)

// Verdict is the outcome of grading a recommendation against the benchmark.
type Verdict string

const (
	VerdictWin  Verdict = "WIN"
	VerdictLoss Verdict = "LOSS"
)

// Recommendation is one row per ticker per trading day. The three evaluation
// outputs (CurrentClose, PercentChange, Evaluation) are nil until the
// backfill fills them in; after that the record is read-only.
type Recommendation struct {
	ID            string
	Ticker        string
	RecordDate    time.Time // calendar date the call was made
	Action        Action
	PreviousClose float64 // reference price at recommendation time
	Explanation   string  // LLM rationale, unused by the grading core

	CurrentClose           *float64 // realized close on the record date's session
	PercentChange          *float64 // realized move vs PreviousClose, in percent
	BenchmarkPercentChange *float64 // benchmark move over the same window
	Evaluation             *Verdict
}

// Pending reports whether the record still needs evaluation. Once all three
// outputs are set the backfill never selects the record again — this
// predicate is the only lock the batch relies on.
func (r Recommendation) Pending() bool {
	return r.CurrentClose == nil || r.PercentChange == nil || r.Evaluation == nil
}

// EvaluationPatch is the column set the backfill writes for one record.
// It is persisted in a single update: all four fields or none.
type EvaluationPatch struct {
	CurrentClose           float64
	PercentChange          float64
	BenchmarkPercentChange float64
	Evaluation             Verdict
}

// Day truncates t to its calendar date in UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
