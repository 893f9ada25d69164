package domain

import "time"

// NewsItem is a headline summary used as LLM context for a ticker.
type NewsItem struct {
	Title       string
	Summary     string
	Sentiment   string // provider label: Bullish | Neutral | Bearish | ...
	PublishedAt time.Time
}

// InsiderTransaction is a recent insider trade reported for a ticker.
type InsiderTransaction struct {
	Ticker      string
	Executive   string
	Title       string
	Type        string // "A" acquisition | "D" disposal
	Shares      float64
	SharePrice  float64
	Date        time.Time
}

// StockContext bundles everything gathered about a ticker before asking the
// classifier for a call.
type StockContext struct {
	Ticker        string
	Date          time.Time
	PreviousClose float64
	News          []NewsItem
	Insiders      []InsiderTransaction
}

// Classification is the classifier's answer for one ticker.
type Classification struct {
	Action      Action
	Explanation string
}

// ActionStats aggregates evaluated records for one action.
type ActionStats struct {
	Action             Action
	Wins               int
	Losses             int
	AvgPercentChange   float64
	AvgBenchmarkChange float64
}

// WinRate returns the fraction of evaluated records graded WIN (0 when none).
func (s ActionStats) WinRate() float64 {
	total := s.Wins + s.Losses
	if total == 0 {
		return 0
	}
	return float64(s.Wins) / float64(total)
}

// EvaluationStats is the aggregate view the report prints.
type EvaluationStats struct {
	Evaluated int
	Pending   int
	Actions   []ActionStats
}
