package lifecycle

import (
	"github.com/Reathyze20/akcion/internal/contracts"
)

// Thresholds for the phase rules.
const (
	minRunwayMonths    = 6.0 // below this, solvency risk dominates
	highScoreThreshold = 8
	lowScoreThreshold  = 5
	catalystHorizonDays = 90
)

// Classify assigns a lifecycle phase from the conviction score, catalyst
// proximity and cash runway. First match wins; the ordering encodes the
// policy that balance-sheet survival always overrides a good narrative.
// ⭐ SSOT: 라이프사이클 분류는 여기서만
//
// daysToNextCatalyst < 0 means "no known catalyst" and is treated as
// beyond the horizon.
func Classify(score int, hasRecentCatalyst bool, daysToNextCatalyst int, cashRunwayMonths float64) contracts.LifecyclePhase {
	score = contracts.ClampScore(score)

	// 1. Solvency circuit breaker, regardless of score.
	if cashRunwayMonths < minRunwayMonths {
		return contracts.PhaseDecline
	}

	// 2. High-conviction branches.
	if score >= highScoreThreshold {
		if hasRecentCatalyst {
			return contracts.PhaseActiveGoldMine
		}
		if daysToNextCatalyst >= 0 && daysToNextCatalyst <= catalystHorizonDays {
			return contracts.PhaseGreatFind
		}
		return contracts.PhaseWaitTime
	}

	// 3. Middling conviction waits; weak conviction declines.
	if score >= lowScoreThreshold {
		return contracts.PhaseWaitTime
	}
	return contracts.PhaseDecline
}
