package domain

import (
	"log/slog"
	"math"
)

// PercentChange returns the percent move from previous to current.
func PercentChange(previous, current float64) float64 {
	return (current - previous) / previous * 100
}

// Round2 rounds to two decimals, the precision stored for prices and moves.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ValidReferencePrice reports whether previousClose can anchor an
// evaluation: a positive finite number. Zero, negative, NaN or Inf values
// block the record until corrected upstream.
func ValidReferencePrice(previousClose float64) bool {
	return previousClose > 0 && !math.IsInf(previousClose, 1)
}

// EvaluateAction grades a recommendation against the benchmark.
//
// BUY wins when the instrument beat the market; HOLD wins when abstaining
// dodged a worse-than-market move. Ties grade as LOSS for both actions:
// strict inequalities only, the benchmark keeps the tie. An unrecognized
// action grades as LOSS with a warning.
func EvaluateAction(action Action, instrumentPct, benchmarkPct float64) Verdict {
	switch action {
	case ActionBuy:
		if instrumentPct > benchmarkPct {
			return VerdictWin
		}
		return VerdictLoss
	case ActionHold:
		if instrumentPct < benchmarkPct {
			return VerdictWin
		}
		return VerdictLoss
	default:
		slog.Warn("unknown action, defaulting to LOSS", "action", string(action))
		return VerdictLoss
	}
}
