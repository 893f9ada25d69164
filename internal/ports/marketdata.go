package ports

import (
	"context"
	"time"

	"github.com/wandererfin/wanderer/internal/domain"
)

// QuoteProvider returns daily session closes for a symbol.
type QuoteProvider interface {
	// Close returns the closing price recorded for symbol on the session of
	// date. The lookup covers only the [date, date+1) window — a day with no
	// session yields *domain.NoDataError, never a neighboring close.
	Close(ctx context.Context, symbol string, date time.Time) (float64, error)

	// PreviousClose returns the most recent available daily close.
	PreviousClose(ctx context.Context, symbol string) (float64, error)
}

// TickerProvider lists the market's most actively traded symbols.
type TickerProvider interface {
	MostActive(ctx context.Context) ([]string, error)
}

// NewsProvider returns recent headline summaries for a ticker.
type NewsProvider interface {
	News(ctx context.Context, ticker string, limit int) ([]domain.NewsItem, error)
}

// InsiderProvider returns recent insider transactions for a ticker.
type InsiderProvider interface {
	InsiderTransactions(ctx context.Context, ticker string) ([]domain.InsiderTransaction, error)
}
