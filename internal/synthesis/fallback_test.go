package synthesis

import (
	"testing"

	"github.com/Reathyze20/akcion/internal/contracts"
)

func TestFallbackClassify(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		wantAdj      int
		wantConflict contracts.ConflictType
	}{
		{"no signal", "quarterly shareholder letter published", 0, contracts.ConflictNone},
		{"single minor", "product launch delay announced", -1, contracts.ConflictMinor},
		{"single significant", "shareholder lawsuit filed", -2, contracts.ConflictSignificant},
		{"critical", "company files for bankruptcy", -4, contracts.ConflictCritical},
		{"stacked negatives", "fraud investigation and dilution risk", -7, contracts.ConflictCritical},
		{"mixed nets significant", "bankruptcy of a unit, but FDA approval received", -2, contracts.ConflictSignificant},
		{"pure positive", "record revenue and raised guidance", 2, contracts.ConflictNone},
		{"case insensitive", "BANKRUPTCY", -4, contracts.ConflictCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := FallbackClassify(tt.text)
			if c.ScoreAdjustment != tt.wantAdj {
				t.Errorf("ScoreAdjustment = %d, want %d", c.ScoreAdjustment, tt.wantAdj)
			}
			if c.ConflictType != tt.wantConflict {
				t.Errorf("ConflictType = %s, want %s", c.ConflictType, tt.wantConflict)
			}
			if c.Path != contracts.PathFallback {
				t.Errorf("Path = %s, want fallback", c.Path)
			}
		})
	}
}

func TestFallbackClassify_Deterministic(t *testing.T) {
	text := "lawsuit and dilution, offset by insider buying"
	a := FallbackClassify(text)
	b := FallbackClassify(text)

	if a.ScoreAdjustment != b.ScoreAdjustment || a.ConflictType != b.ConflictType {
		t.Error("identical text must classify identically")
	}
	for i := range a.Conflicts {
		if a.Conflicts[i] != b.Conflicts[i] {
			t.Error("conflict order must be stable")
		}
	}
}
