package storage

// sqlite.go — recommendation store on SQLite (pure Go driver, no CGo).
//
// One row per ticker per trading day. The three evaluation columns stay NULL
// until the backfill completes them; the pending predicate (any of them
// NULL) is the only selection lock the batch runner relies on, so an
// evaluated row is never rewritten.

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wandererfin/wanderer/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS recommendations (
    id             TEXT PRIMARY KEY,
    ticker         TEXT NOT NULL,
    record_date    TEXT NOT NULL,
    action         TEXT NOT NULL,
    previous_close REAL,
    explanation    TEXT NOT NULL DEFAULT '',
    current_close            REAL,
    percent_change           REAL,
    benchmark_percent_change REAL,
    evaluation               TEXT,
    created_at     DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_rec_date    ON recommendations(record_date DESC, ticker ASC);
CREATE INDEX IF NOT EXISTS idx_rec_pending ON recommendations(record_date) WHERE evaluation IS NULL;
`

const recColumns = `id, ticker, record_date, action, previous_close, explanation,
       current_close, percent_change, benchmark_percent_change, evaluation`

// SQLiteStorage implements ports.RecommendationStore.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens (or creates) the database at the given path and
// applies the schema.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite is single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}
	return &SQLiteStorage{db: db}, nil
}

// SaveRecommendations inserts the given records in one transaction,
// assigning UUIDs where the ID is empty.
func (s *SQLiteStorage) SaveRecommendations(ctx context.Context, recs []domain.Recommendation) error {
	if len(recs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.SaveRecommendations: begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO recommendations
			(id, ticker, record_date, action, previous_close, explanation, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("storage.SaveRecommendations: prepare: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, rec := range recs {
		id := rec.ID
		if id == "" {
			id = uuid.NewString()
		}
		if _, err := stmt.ExecContext(ctx,
			id,
			rec.Ticker,
			rec.RecordDate.Format(domain.DateFormat),
			string(rec.Action),
			rec.PreviousClose,
			rec.Explanation,
			now,
		); err != nil {
			return fmt.Errorf("storage.SaveRecommendations: insert %s: %w", rec.Ticker, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.SaveRecommendations: commit: %w", err)
	}
	return nil
}

// SelectPending returns every record with at least one evaluation output
// missing, most recent record_date first, ticker as the tie-break.
func (s *SQLiteStorage) SelectPending(ctx context.Context) ([]domain.Recommendation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+recColumns+`
		FROM recommendations
		WHERE current_close IS NULL OR percent_change IS NULL OR evaluation IS NULL
		ORDER BY record_date DESC, ticker ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("storage.SelectPending: query: %w", err)
	}
	defer rows.Close()

	return scanRecommendations(rows)
}

// ApplyEvaluation writes the four evaluation columns for one record as a
// single update keyed by id. A missing id is an error — the caller counts it
// as a per-record failure.
func (s *SQLiteStorage) ApplyEvaluation(ctx context.Context, id string, patch domain.EvaluationPatch) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE recommendations
		SET current_close            = ?,
		    percent_change           = ?,
		    benchmark_percent_change = ?,
		    evaluation               = ?
		WHERE id = ?
	`,
		patch.CurrentClose,
		patch.PercentChange,
		patch.BenchmarkPercentChange,
		string(patch.Evaluation),
		id,
	)
	if err != nil {
		return fmt.Errorf("storage.ApplyEvaluation: update %s: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("storage.ApplyEvaluation: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("storage.ApplyEvaluation: no record with id %s", id)
	}
	return nil
}

// LatestPicks returns all records from the most recent record date, BUY
// before HOLD, tickers alphabetical.
func (s *SQLiteStorage) LatestPicks(ctx context.Context) ([]domain.Recommendation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+recColumns+`
		FROM recommendations
		WHERE record_date = (SELECT MAX(record_date) FROM recommendations)
		ORDER BY action ASC, ticker ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("storage.LatestPicks: query: %w", err)
	}
	defer rows.Close()

	return scanRecommendations(rows)
}

// EvaluationStats aggregates evaluated records per action plus the pending
// backlog count.
func (s *SQLiteStorage) EvaluationStats(ctx context.Context) (domain.EvaluationStats, error) {
	var stats domain.EvaluationStats

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM recommendations
		WHERE current_close IS NULL OR percent_change IS NULL OR evaluation IS NULL
	`).Scan(&stats.Pending)
	if err != nil {
		return stats, fmt.Errorf("storage.EvaluationStats: count pending: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT action,
		       SUM(CASE WHEN evaluation = 'WIN'  THEN 1 ELSE 0 END),
		       SUM(CASE WHEN evaluation = 'LOSS' THEN 1 ELSE 0 END),
		       AVG(percent_change),
		       AVG(benchmark_percent_change)
		FROM recommendations
		WHERE evaluation IS NOT NULL
		GROUP BY action
		ORDER BY action ASC
	`)
	if err != nil {
		return stats, fmt.Errorf("storage.EvaluationStats: query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var as domain.ActionStats
		var action string
		var avgPct, avgBench sql.NullFloat64
		if err := rows.Scan(&action, &as.Wins, &as.Losses, &avgPct, &avgBench); err != nil {
			return stats, fmt.Errorf("storage.EvaluationStats: scan row: %w", err)
		}
		as.Action = domain.Action(action)
		as.AvgPercentChange = avgPct.Float64
		as.AvgBenchmarkChange = avgBench.Float64
		stats.Evaluated += as.Wins + as.Losses
		stats.Actions = append(stats.Actions, as)
	}
	return stats, rows.Err()
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// --- internal helpers ---

func scanRecommendations(rows *sql.Rows) ([]domain.Recommendation, error) {
	var recs []domain.Recommendation
	for rows.Next() {
		var rec domain.Recommendation
		var dateStr, action string
		var prevClose, currentClose, pctChange, benchChange sql.NullFloat64
		var evaluation sql.NullString

		if err := rows.Scan(
			&rec.ID,
			&rec.Ticker,
			&dateStr,
			&action,
			&prevClose,
			&rec.Explanation,
			&currentClose,
			&pctChange,
			&benchChange,
			&evaluation,
		); err != nil {
			return nil, fmt.Errorf("storage: scan row: %w", err)
		}

		rec.RecordDate, _ = time.Parse(domain.DateFormat, dateStr)
		rec.Action = domain.Action(action)
		rec.PreviousClose = prevClose.Float64 // 0 when NULL; grading rejects it
		if currentClose.Valid {
			v := currentClose.Float64
			rec.CurrentClose = &v
		}
		if pctChange.Valid {
			v := pctChange.Float64
			rec.PercentChange = &v
		}
		if benchChange.Valid {
			v := benchChange.Float64
			rec.BenchmarkPercentChange = &v
		}
		if evaluation.Valid {
			v := domain.Verdict(evaluation.String)
			rec.Evaluation = &v
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
