package lifecycle

import (
	"testing"

	"github.com/Reathyze20/akcion/internal/contracts"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		score    int
		catalyst bool
		days     int
		runway   float64
		want     contracts.LifecyclePhase
	}{
		// Solvency dominates everything, even a perfect score.
		{"low runway beats score 10", 10, true, 10, 3, contracts.PhaseDecline},
		{"runway exactly at threshold passes", 8, true, 10, 6, contracts.PhaseActiveGoldMine},

		{"high score with recent catalyst", 9, true, -1, 12, contracts.PhaseActiveGoldMine},
		{"high score, catalyst within horizon", 8, false, 90, 12, contracts.PhaseGreatFind},
		{"high score, catalyst past horizon", 8, false, 91, 12, contracts.PhaseWaitTime},
		{"high score, no known catalyst", 8, false, -1, 12, contracts.PhaseWaitTime},

		{"mid score waits", 5, true, 10, 12, contracts.PhaseWaitTime},
		{"mid score upper bound", 7, false, 10, 12, contracts.PhaseWaitTime},
		{"weak score declines", 4, true, 10, 12, contracts.PhaseDecline},
		{"minimum score declines", 1, false, -1, 12, contracts.PhaseDecline},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.score, tt.catalyst, tt.days, tt.runway)
			if got != tt.want {
				t.Errorf("Classify(%d, %v, %d, %v) = %s, want %s",
					tt.score, tt.catalyst, tt.days, tt.runway, got, tt.want)
			}
		})
	}
}

func TestClassify_ClampsScore(t *testing.T) {
	// Out-of-range scores are clamped first, not rejected.
	if got := Classify(42, true, 0, 12); got != contracts.PhaseActiveGoldMine {
		t.Errorf("score 42 should clamp to 10, got phase %s", got)
	}
	if got := Classify(-7, false, 0, 12); got != contracts.PhaseDecline {
		t.Errorf("score -7 should clamp to 1, got phase %s", got)
	}
}
