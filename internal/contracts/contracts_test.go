package contracts

import (
	"errors"
	"testing"
)

func TestClampScore(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{-5, 1}, {0, 1}, {1, 1}, {5, 5}, {10, 10}, {11, 10}, {100, 10},
	}
	for _, tt := range tests {
		if got := ClampScore(tt.in); got != tt.want {
			t.Errorf("ClampScore(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func floatPtr(v float64) *float64 { return &v }

func TestPriceLinesValidate(t *testing.T) {
	tests := []struct {
		name    string
		lines   PriceLines
		wantErr bool
	}{
		{"valid", PriceLines{Ticker: "T", GreenLine: 10, RedLine: 20}, false},
		{"valid with grey", PriceLines{Ticker: "T", GreenLine: 10, RedLine: 20, GreyLine: floatPtr(14)}, false},
		{"missing ticker", PriceLines{GreenLine: 10, RedLine: 20}, true},
		{"green above red", PriceLines{Ticker: "T", GreenLine: 20, RedLine: 10}, true},
		{"green equals red", PriceLines{Ticker: "T", GreenLine: 10, RedLine: 10}, true},
		{"zero green", PriceLines{Ticker: "T", GreenLine: 0, RedLine: 10}, true},
		{"negative grey", PriceLines{Ticker: "T", GreenLine: 10, RedLine: 20, GreyLine: floatPtr(-1)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.lines.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInputRejected) {
					t.Errorf("expected ErrInputRejected, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() error = %v", err)
			}
		})
	}
}

func TestRegimeDefenseLevel(t *testing.T) {
	if RegimeGreen.DefenseLevel() != 0 || RegimeRed.DefenseLevel() != 3 {
		t.Error("defense level ordering broken")
	}
	if MarketRegime("PURPLE").Valid() {
		t.Error("unknown regime must not validate")
	}
}

func TestVerdictIsActionable(t *testing.T) {
	v := Verdict{Decision: DecisionAllow, MaxPositionPct: 5}
	if !v.IsActionable() {
		t.Error("ALLOW with size must be actionable")
	}

	for _, bad := range []Verdict{
		{Decision: DecisionAllow, MaxPositionPct: 0},
		{Decision: DecisionAvoid, MaxPositionPct: 5},
		{Decision: DecisionBlocked, MaxPositionPct: 0},
	} {
		if bad.IsActionable() {
			t.Errorf("%s/%.1f must not be actionable", bad.Decision, bad.MaxPositionPct)
		}
	}
}
