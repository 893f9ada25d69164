// Package analyzer builds the day's recommendations: it pulls the most
// active tickers, gathers per-stock context (previous close, news, insider
// trades), asks the classifier for a call and persists the results.
package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/wandererfin/wanderer/internal/domain"
	"github.com/wandererfin/wanderer/internal/ports"
)

// Config tunes the analysis run.
type Config struct {
	// MaxStocks caps how many of the most active tickers get analyzed.
	MaxStocks int
	// ArticlesPerStock is the news budget per ticker for the prompt.
	ArticlesPerStock int
	// Workers sizes the pool gathering context in parallel.
	Workers int
}

// DefaultConfig returns the tuning used by the daily run.
func DefaultConfig() Config {
	return Config{MaxStocks: 10, ArticlesPerStock: 2, Workers: 4}
}

// Analyzer runs the morning pipeline for one trading day.
type Analyzer struct {
	cfg        Config
	tickers    ports.TickerProvider
	quotes     ports.QuoteProvider
	news       ports.NewsProvider
	insiders   ports.InsiderProvider
	classifier ports.Classifier
	store      ports.RecommendationStore
}

// New wires the analyzer. Zero config fields fall back to defaults.
func New(
	cfg Config,
	tickers ports.TickerProvider,
	quotes ports.QuoteProvider,
	news ports.NewsProvider,
	insiders ports.InsiderProvider,
	classifier ports.Classifier,
	store ports.RecommendationStore,
) *Analyzer {
	def := DefaultConfig()
	if cfg.MaxStocks <= 0 {
		cfg.MaxStocks = def.MaxStocks
	}
	if cfg.ArticlesPerStock <= 0 {
		cfg.ArticlesPerStock = def.ArticlesPerStock
	}
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	return &Analyzer{
		cfg:        cfg,
		tickers:    tickers,
		quotes:     quotes,
		news:       news,
		insiders:   insiders,
		classifier: classifier,
		store:      store,
	}
}

// Run analyzes the most active tickers for date and saves one recommendation
// per ticker that made it through. A ticker failing to gather context or
// classify is logged and dropped; the run only fails when the ticker list or
// the save fails.
func (a *Analyzer) Run(ctx context.Context, date time.Time) ([]domain.Recommendation, error) {
	day := domain.Day(date)

	symbols, err := a.tickers.MostActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("analyzer.Run: most active: %w", err)
	}
	if len(symbols) > a.cfg.MaxStocks {
		symbols = symbols[:a.cfg.MaxStocks]
	}

	slog.Info("analysis started", "date", day.Format(domain.DateFormat), "tickers", len(symbols))

	recs := a.analyzeConcurrent(ctx, symbols, day)

	// Deterministic order regardless of worker completion order.
	sort.Slice(recs, func(i, j int) bool { return recs[i].Ticker < recs[j].Ticker })

	if len(recs) == 0 {
		slog.Warn("analysis produced no recommendations", "date", day.Format(domain.DateFormat))
		return nil, nil
	}

	if err := a.store.SaveRecommendations(ctx, recs); err != nil {
		return nil, fmt.Errorf("analyzer.Run: save: %w", err)
	}

	slog.Info("analysis complete", "date", day.Format(domain.DateFormat), "saved", len(recs))
	return recs, nil
}

// analyzeTicker gathers the context for one ticker and asks for a call. The
// previous close is mandatory; news and insider data are best effort.
func (a *Analyzer) analyzeTicker(ctx context.Context, ticker string, day time.Time) (domain.Recommendation, error) {
	prevClose, err := a.quotes.PreviousClose(ctx, ticker)
	if err != nil {
		return domain.Recommendation{}, fmt.Errorf("previous close: %w", err)
	}
	if !domain.ValidReferencePrice(prevClose) {
		return domain.Recommendation{}, fmt.Errorf("previous close %v: %w", prevClose, domain.ErrInvalidReferencePrice)
	}

	news, err := a.news.News(ctx, ticker, a.cfg.ArticlesPerStock)
	if err != nil {
		slog.Warn("news lookup failed", "ticker", ticker, "err", err)
	}
	insiders, err := a.insiders.InsiderTransactions(ctx, ticker)
	if err != nil {
		slog.Warn("insider lookup failed", "ticker", ticker, "err", err)
	}

	cls, err := a.classifier.Classify(ctx, domain.StockContext{
		Ticker:        ticker,
		Date:          day,
		PreviousClose: prevClose,
		News:          news,
		Insiders:      insiders,
	})
	if err != nil {
		return domain.Recommendation{}, fmt.Errorf("classify: %w", err)
	}

	return domain.Recommendation{
		Ticker:        ticker,
		RecordDate:    day,
		Action:        cls.Action,
		PreviousClose: prevClose,
		Explanation:   cls.Explanation,
	}, nil
}
