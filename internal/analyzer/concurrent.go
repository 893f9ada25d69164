package analyzer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/wandererfin/wanderer/internal/domain"
)

// analyzeConcurrent runs analyzeTicker for each symbol on a worker pool.
// Failed tickers are logged and skipped; only successful calls come back.
func (a *Analyzer) analyzeConcurrent(ctx context.Context, symbols []string, day time.Time) []domain.Recommendation {
	workCh := make(chan string, len(symbols))
	resultCh := make(chan domain.Recommendation, len(symbols))

	var wg sync.WaitGroup
	for i := 0; i < a.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ticker := range workCh {
				rec, err := a.analyzeTicker(ctx, ticker, day)
				if err != nil {
					slog.Warn("ticker analysis failed", "ticker", ticker, "err", err)
					continue
				}
				resultCh <- rec
			}
		}()
	}

	for _, s := range symbols {
		workCh <- s
	}
	close(workCh)

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	recs := make([]domain.Recommendation, 0, len(symbols))
	for rec := range resultCh {
		recs = append(recs, rec)
	}
	return recs
}
