package ports

import (
	"context"

	"github.com/wandererfin/wanderer/internal/domain"
)

// Classifier turns the gathered context for a ticker into a BUY/HOLD call
// with a written rationale.
type Classifier interface {
	Classify(ctx context.Context, input domain.StockContext) (domain.Classification, error)
}
