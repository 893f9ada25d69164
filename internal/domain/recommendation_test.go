package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecommendation_PendingUntilAllOutputsSet(t *testing.T) {
	rec := Recommendation{
		ID:            "r1",
		Ticker:        "AAPL",
		RecordDate:    time.Date(2025, 8, 25, 0, 0, 0, 0, time.UTC),
		Action:        ActionBuy,
		PreviousClose: 100,
	}
	assert.True(t, rec.Pending())

	cc, pc := 105.0, 5.0
	rec.CurrentClose = &cc
	rec.PercentChange = &pc
	assert.True(t, rec.Pending(), "still pending with evaluation unset")

	v := VerdictWin
	bc := 2.0
	rec.Evaluation = &v
	rec.BenchmarkPercentChange = &bc
	assert.False(t, rec.Pending())
}

func TestActionStats_WinRate(t *testing.T) {
	assert.Equal(t, 0.0, ActionStats{}.WinRate())
	assert.InDelta(t, 0.75, ActionStats{Wins: 3, Losses: 1}.WinRate(), 0.0001)
}

func TestDay_TruncatesToUTCDate(t *testing.T) {
	loc := time.FixedZone("EST", -5*3600)
	d := Day(time.Date(2025, 8, 25, 15, 45, 12, 0, loc))
	assert.Equal(t, time.Date(2025, 8, 25, 0, 0, 0, 0, time.UTC), d)
}
