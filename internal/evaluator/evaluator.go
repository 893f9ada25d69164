package evaluator

// evaluator.go — the backfill batch runner.
//
// Grades every pending recommendation against realized price data and the
// benchmark index, then writes the evaluation columns back one record at a
// time. Safe to re-run daily: the pending predicate (any evaluation column
// NULL) is the selection criterion, so evaluated records are never touched
// again and unresolved ones are simply retried on the next run.

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/wandererfin/wanderer/internal/domain"
	"github.com/wandererfin/wanderer/internal/ports"
)

// errSellAction marks records whose action has no defined grading rule.
// SELL appears in the taxonomy but nothing upstream produces it; rather than
// guess a rule, the runner skips the record and logs loudly.
var errSellAction = errors.New("no evaluation rule defined for SELL")

// Config controls the evaluator.
type Config struct {
	// BenchmarkSymbol is the index graded against, default S&P 500.
	BenchmarkSymbol string
	// MaxLookbackDays caps the benchmark resolver's backward scan for a
	// session with data, so a sustained provider outage cannot loop forever.
	MaxLookbackDays int
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		BenchmarkSymbol: "^GSPC",
		MaxLookbackDays: 10,
	}
}

// BatchResult aggregates one backfill run. Partial success is the expected
// steady state — price data lags availability across tickers — so callers
// report these counts instead of treating failed/skipped as fatal.
type BatchResult struct {
	Updated int // records evaluated and persisted
	Failed  int // patches that could not be written
	Skipped int // invalid reference price, missing data, or SELL
}

// Evaluator backfills the evaluation columns of pending recommendations.
// All collaborators are injected; the lifecycle is scoped to the caller's.
type Evaluator struct {
	store     ports.RecommendationStore
	quotes    ports.QuoteProvider
	benchmark *BenchmarkResolver
}

// New creates an Evaluator over the given store and quote provider.
func New(cfg Config, store ports.RecommendationStore, quotes ports.QuoteProvider) *Evaluator {
	if cfg.BenchmarkSymbol == "" {
		cfg.BenchmarkSymbol = DefaultConfig().BenchmarkSymbol
	}
	return &Evaluator{
		store:     store,
		quotes:    quotes,
		benchmark: NewBenchmarkResolver(quotes, cfg.BenchmarkSymbol, cfg.MaxLookbackDays),
	}
}

// Run selects all pending records and evaluates them sequentially, each with
// exactly one attempt. Per-record errors become counters; only a failing
// SelectPending (no partial work possible) or a cancelled context aborts.
func (e *Evaluator) Run(ctx context.Context) (BatchResult, error) {
	var res BatchResult

	pending, err := e.store.SelectPending(ctx)
	if err != nil {
		return res, fmt.Errorf("evaluator.Run: select pending: %w", err)
	}
	if len(pending) == 0 {
		slog.Info("no records require evaluation")
		return res, nil
	}

	start := time.Now()
	slog.Info("starting evaluation backfill", "pending", len(pending))

	for _, rec := range pending {
		patch, err := e.evaluateRecord(ctx, rec)
		switch {
		case err == nil:
		case ctx.Err() != nil:
			return res, ctx.Err()
		case errors.Is(err, domain.ErrInvalidReferencePrice):
			slog.Warn("invalid reference price, skipping",
				"id", rec.ID,
				"ticker", rec.Ticker,
				"previous_close", rec.PreviousClose,
			)
			res.Skipped++
			continue
		case errors.Is(err, errSellAction):
			slog.Error("SELL record cannot be graded, skipping",
				"id", rec.ID,
				"ticker", rec.Ticker,
				"date", rec.RecordDate.Format(domain.DateFormat),
			)
			res.Skipped++
			continue
		case domain.IsNoData(err):
			slog.Warn("market data not available yet, leaving pending",
				"id", rec.ID,
				"ticker", rec.Ticker,
				"date", rec.RecordDate.Format(domain.DateFormat),
				"err", err,
			)
			res.Skipped++
			continue
		default:
			slog.Error("record evaluation failed", "id", rec.ID, "ticker", rec.Ticker, "err", err)
			res.Failed++
			continue
		}

		if err := e.store.ApplyEvaluation(ctx, rec.ID, patch); err != nil {
			perr := &domain.PersistenceError{ID: rec.ID, Err: err}
			slog.Error("failed to persist evaluation", "ticker", rec.Ticker, "err", perr)
			res.Failed++
			continue
		}

		slog.Debug("record evaluated",
			"ticker", rec.Ticker,
			"action", string(rec.Action),
			"percent_change", patch.PercentChange,
			"benchmark", patch.BenchmarkPercentChange,
			"verdict", string(patch.Evaluation),
		)
		res.Updated++
	}

	slog.Info("evaluation backfill complete",
		"updated", res.Updated,
		"failed", res.Failed,
		"skipped", res.Skipped,
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return res, nil
}

// evaluateRecord computes the evaluation patch for a single record. The
// verdict is decided on unrounded percent changes; the stored values are
// rounded to cents.
func (e *Evaluator) evaluateRecord(ctx context.Context, rec domain.Recommendation) (domain.EvaluationPatch, error) {
	var patch domain.EvaluationPatch

	if !domain.ValidReferencePrice(rec.PreviousClose) {
		return patch, fmt.Errorf("%w: previous_close %v for %s",
			domain.ErrInvalidReferencePrice, rec.PreviousClose, rec.Ticker)
	}
	if rec.Action == domain.ActionSell {
		return patch, errSellAction
	}

	currentClose, err := e.resolveClose(ctx, rec.Ticker, rec.RecordDate)
	if err != nil {
		return patch, err
	}

	benchmarkPct, err := e.benchmark.PercentChange(ctx, rec.RecordDate)
	if err != nil {
		return patch, err
	}

	instrumentPct := domain.PercentChange(rec.PreviousClose, currentClose)

	return domain.EvaluationPatch{
		CurrentClose:           domain.Round2(currentClose),
		PercentChange:          domain.Round2(instrumentPct),
		BenchmarkPercentChange: domain.Round2(benchmarkPct),
		Evaluation:             domain.EvaluateAction(rec.Action, instrumentPct, benchmarkPct),
	}, nil
}

// resolveClose looks up the ticker's close for the record date's session
// only. Unlike the benchmark resolver it never substitutes another day: the
// recommendation's outcome is defined for that specific session, and a
// silent multi-day substitution would corrupt the grading semantics.
func (e *Evaluator) resolveClose(ctx context.Context, ticker string, date time.Time) (float64, error) {
	return e.quotes.Close(ctx, ticker, date)
}
