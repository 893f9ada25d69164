package ports

import (
	"context"

	"github.com/wandererfin/wanderer/internal/domain"
)

// RecommendationStore persists recommendation records and their evaluations.
type RecommendationStore interface {
	// SaveRecommendations appends freshly generated records, assigning IDs
	// where missing. Evaluation columns start NULL.
	SaveRecommendations(ctx context.Context, recs []domain.Recommendation) error

	// SelectPending returns every record with at least one evaluation output
	// missing, ordered by record_date descending then ticker ascending.
	SelectPending(ctx context.Context) ([]domain.Recommendation, error)

	// ApplyEvaluation writes the four evaluation columns for one record in a
	// single update keyed by id. All four fields land together or not at all.
	ApplyEvaluation(ctx context.Context, id string, patch domain.EvaluationPatch) error

	// LatestPicks returns the records of the most recent record date.
	LatestPicks(ctx context.Context) ([]domain.Recommendation, error)

	// EvaluationStats aggregates evaluated records per action.
	EvaluationStats(ctx context.Context) (domain.EvaluationStats, error)

	// Close releases the underlying connection.
	Close() error
}
