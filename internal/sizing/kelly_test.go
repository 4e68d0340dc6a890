package sizing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSize_SafetyFloor(t *testing.T) {
	p := DefaultPolicy()

	// Confidence at or below 0.5 always sizes to zero, regardless of the
	// rest of the edge.
	for _, conf := range []float64{-1, 0, 0.3, 0.5} {
		assert.Zero(t, p.Size(conf, 50, 10, 20), "confidence %v must size to 0", conf)
	}

	// Non-positive expected gain always sizes to zero.
	for _, gain := range []float64{-10, 0} {
		assert.Zero(t, p.Size(0.9, gain, 10, 20), "gain %v must size to 0", gain)
	}

	// Degenerate loss or cap sizes to zero rather than dividing by zero.
	assert.Zero(t, p.Size(0.9, 50, 0, 20))
	assert.Zero(t, p.Size(0.9, 50, 10, 0))
}

func TestSize_HalfKellyAndCap(t *testing.T) {
	p := DefaultPolicy()

	// b=2, p=0.8, q=0.2 -> f=(1.6-0.2)/2=0.7, half Kelly 0.35 -> 35%,
	// capped by the tier ceiling.
	got := p.Size(0.8, 20, 10, 12)
	assert.Equal(t, 12.0, got, "tier cap must override raw Kelly")

	// With a generous cap, the half-Kelly percentage comes through.
	got = p.Size(0.8, 20, 10, 50)
	assert.InDelta(t, 35.0, got, 1e-9)
}

func TestSize_UnfavorableEdge(t *testing.T) {
	p := DefaultPolicy()

	// b=0.2, p=0.6, q=0.4 -> f=(0.12-0.4)/0.2 < 0 -> no position.
	assert.Zero(t, p.Size(0.6, 2, 10, 20))
}

func TestSizeWithVolatility_StrictlyReducing(t *testing.T) {
	p := DefaultPolicy()

	base := p.Size(0.8, 20, 10, 50)

	// At or below the threshold the size is untouched.
	assert.Equal(t, base, p.SizeWithVolatility(0.8, 20, 10, 50, p.VolatilityThreshold))
	assert.Equal(t, base, p.SizeWithVolatility(0.8, 20, 10, 50, 0.1))

	// Past the threshold the size shrinks, monotonically.
	damped := p.SizeWithVolatility(0.8, 20, 10, 50, 0.6)
	moreDamped := p.SizeWithVolatility(0.8, 20, 10, 50, 0.9)
	assert.Less(t, damped, base)
	assert.Less(t, moreDamped, damped)
	assert.Greater(t, moreDamped, 0.0)
}

func TestTierCap(t *testing.T) {
	tests := []struct {
		score int
		want  float64
	}{
		{10, 20.0},
		{9, 16.0},
		{8, 12.0},
		{5, 3.0},
		{2, 0.5},
		{1, 0},
		{0, 0},
		{-3, 0},
		{11, 0},
	}

	for _, tt := range tests {
		if got := TierCap(tt.score); got != tt.want {
			t.Errorf("TierCap(%d) = %v, want %v", tt.score, got, tt.want)
		}
	}
}

func TestConfidenceFromScore(t *testing.T) {
	assert.Equal(t, 0.8, ConfidenceFromScore(8))
	assert.Equal(t, 1.0, ConfidenceFromScore(10))
	assert.Equal(t, 0.1, ConfidenceFromScore(1))
	// Out-of-range scores are clamped before mapping.
	assert.Equal(t, 0.1, ConfidenceFromScore(-5))
	assert.Equal(t, 1.0, ConfidenceFromScore(99))
}
