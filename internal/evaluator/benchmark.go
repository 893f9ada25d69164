package evaluator

import (
	"context"
	"sync"
	"time"

	"github.com/wandererfin/wanderer/internal/domain"
	"github.com/wandererfin/wanderer/internal/ports"
)

const defaultLookbackDays = 10

// BenchmarkResolver computes the benchmark index's percent change for a
// calendar date. When the date itself has no session (weekend, holiday) it
// pairs the two nearest genuine session closes preceding it — never a
// null-filled or interpolated value.
//
// Results are memoized by date: benchmark data does not change retroactively
// and most records in a batch share record_date, so this also keeps the
// provider out of rate-limit trouble.
type BenchmarkResolver struct {
	quotes   ports.QuoteProvider
	symbol   string
	lookback int

	mu    sync.Mutex
	cache map[string]float64
}

// NewBenchmarkResolver creates a resolver for the given index symbol.
func NewBenchmarkResolver(quotes ports.QuoteProvider, symbol string, lookbackDays int) *BenchmarkResolver {
	if lookbackDays <= 0 {
		lookbackDays = defaultLookbackDays
	}
	return &BenchmarkResolver{
		quotes:   quotes,
		symbol:   symbol,
		lookback: lookbackDays,
		cache:    make(map[string]float64),
	}
}

// PercentChange returns the benchmark's percent move for date's session:
// (close(session) - close(previous session)) / close(previous session) * 100.
func (r *BenchmarkResolver) PercentChange(ctx context.Context, date time.Time) (float64, error) {
	key := date.Format(domain.DateFormat)

	r.mu.Lock()
	if v, ok := r.cache[key]; ok {
		r.mu.Unlock()
		return v, nil
	}
	r.mu.Unlock()

	endDate, endClose, err := r.nearestClose(ctx, domain.Day(date))
	if err != nil {
		return 0, err
	}
	_, prevClose, err := r.nearestClose(ctx, endDate.AddDate(0, 0, -1))
	if err != nil {
		return 0, err
	}

	change := domain.PercentChange(prevClose, endClose)

	r.mu.Lock()
	r.cache[key] = change
	r.mu.Unlock()
	return change, nil
}

// nearestClose scans backward day by day for the closest session with data,
// capped at the lookback window. Both endpoints of the benchmark ratio come
// through here, so each is a real trading-day close.
func (r *BenchmarkResolver) nearestClose(ctx context.Context, date time.Time) (time.Time, float64, error) {
	for i := 0; i < r.lookback; i++ {
		d := date.AddDate(0, 0, -i)
		px, err := r.quotes.Close(ctx, r.symbol, d)
		if err == nil {
			return d, px, nil
		}
		if !domain.IsNoData(err) {
			return time.Time{}, 0, err
		}
	}
	return time.Time{}, 0, &domain.NoDataError{Symbol: r.symbol, Date: date}
}
