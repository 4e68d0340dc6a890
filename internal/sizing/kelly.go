package sizing

import (
	"math"

	"github.com/Reathyze20/akcion/internal/contracts"
)

// Policy holds the tunable sizing constants. The defaults encode the
// Gomes methodology; operators may override them through config.
type Policy struct {
	// SafetyMultiplier scales the raw Kelly fraction before the tier cap
	// (half-Kelly by default).
	SafetyMultiplier float64

	// VolatilityThreshold is the trailing volatility above which the
	// exponential decay kicks in.
	VolatilityThreshold float64

	// VolatilityDecay controls how fast size shrinks past the threshold.
	VolatilityDecay float64
}

// DefaultPolicy returns the standard half-Kelly policy.
func DefaultPolicy() Policy {
	return Policy{
		SafetyMultiplier:    0.5,
		VolatilityThreshold: 0.40,
		VolatilityDecay:     2.0,
	}
}

// Size computes a bounded allocation percentage from a favorable edge.
// Returns 0 when confidence <= 0.5 or expectedGainPct <= 0: the Kelly
// formula is only meaningful for favorable edges. The tier cap is a hard
// ceiling, never a suggestion.
// ⭐ SSOT: 포지션 사이징 계산은 여기서만
func (p Policy) Size(confidence, expectedGainPct, expectedLossPct, tierCapPct float64) float64 {
	if confidence <= 0.5 || expectedGainPct <= 0 {
		return 0
	}
	if expectedLossPct <= 0 || tierCapPct <= 0 {
		return 0
	}

	// f = (b*p - q) / b, b = gain/loss
	b := expectedGainPct / expectedLossPct
	q := 1 - confidence
	f := (b*confidence - q) / b
	if f <= 0 {
		return 0
	}

	// Safety multiplier, then convert the fraction to a percentage.
	pct := f * p.SafetyMultiplier * 100

	if pct > tierCapPct {
		return tierCapPct
	}
	return pct
}

// SizeWithVolatility applies the optional volatility second pass: when
// trailing volatility exceeds the threshold the size decays
// exponentially. Strictly reducing, never increasing.
func (p Policy) SizeWithVolatility(confidence, expectedGainPct, expectedLossPct, tierCapPct, volatility float64) float64 {
	pct := p.Size(confidence, expectedGainPct, expectedLossPct, tierCapPct)
	if pct == 0 || volatility <= p.VolatilityThreshold {
		return pct
	}
	return pct * math.Exp(-p.VolatilityDecay*(volatility-p.VolatilityThreshold))
}

// ConfidenceFromScore maps a 1..10 conviction score onto the [0,1]
// confidence used by the Kelly formula.
func ConfidenceFromScore(score int) float64 {
	return float64(contracts.ClampScore(score)) / 10.0
}
