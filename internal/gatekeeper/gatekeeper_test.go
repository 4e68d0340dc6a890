package gatekeeper

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Reathyze20/akcion/internal/contracts"
	"github.com/Reathyze20/akcion/pkg/logger"
)

func floatPtr(v float64) *float64 { return &v }

func baseSnapshot() contracts.TickerSnapshot {
	asOf := time.Date(2025, 6, 2, 14, 30, 0, 0, time.UTC)
	earnings := asOf.AddDate(0, 0, 60)
	return contracts.TickerSnapshot{
		Ticker: "OTCX",
		AsOf:   asOf,
		Price:  9.5,
		Lines: &contracts.PriceLines{
			Ticker:    "OTCX",
			GreenLine: 10.0,
			RedLine:   20.0,
			GreyLine:  floatPtr(14.0),
		},
		Thesis: &contracts.Thesis{
			Ticker:          "OTCX",
			ConvictionScore: 8,
			Status:          contracts.ThesisActive,
		},
		Regime:             contracts.RegimeGreen,
		EarningsDate:       &earnings,
		HasRecentCatalyst:  true,
		DaysToNextCatalyst: 30,
		CashRunwayMonths:   18,
	}
}

func TestEvaluate_HighConvictionBelowGreenLine(t *testing.T) {
	g := New(DefaultPolicy(), logger.NewNop())

	v, err := g.Evaluate(baseSnapshot())
	require.NoError(t, err)

	assert.Equal(t, contracts.DecisionAllow, v.Decision)
	assert.Equal(t, contracts.SignalAggressiveBuy, v.Zone.Signal)
	assert.Equal(t, contracts.PhaseActiveGoldMine, v.LifecyclePhase)
	// 점수 8 티어 상한 12%, 켈리 원값이 더 크므로 상한에서 잘림
	assert.InDelta(t, 12.0, v.MaxPositionPct, 1e-9)
}

func TestEvaluate_EarningsBlackout(t *testing.T) {
	g := New(DefaultPolicy(), logger.NewNop())

	snap := baseSnapshot()
	earnings := snap.AsOf.AddDate(0, 0, 5)
	snap.EarningsDate = &earnings

	v, err := g.Evaluate(snap)
	require.NoError(t, err)

	assert.Equal(t, contracts.DecisionBlocked, v.Decision)
	assert.Equal(t, contracts.ReasonEarningsBlackout, v.BlockedReason)
	assert.Zero(t, v.MaxPositionPct)
	// 차단되어도 존/단계 컨텍스트는 판정에 남는다
	assert.Equal(t, contracts.SignalAggressiveBuy, v.Zone.Signal)
}

func TestEvaluate_UnknownEarningsDateBlocks(t *testing.T) {
	g := New(DefaultPolicy(), logger.NewNop())

	snap := baseSnapshot()
	snap.EarningsDate = nil

	v, err := g.Evaluate(snap)
	require.NoError(t, err)

	assert.Equal(t, contracts.DecisionBlocked, v.Decision)
	assert.Equal(t, contracts.ReasonEarningsDateUnknown, v.BlockedReason)
	assert.Zero(t, v.MaxPositionPct)
}

func TestEvaluate_EarningsJustOutsideWindow(t *testing.T) {
	g := New(DefaultPolicy(), logger.NewNop())

	snap := baseSnapshot()
	earnings := snap.AsOf.AddDate(0, 0, 15)
	snap.EarningsDate = &earnings

	v, err := g.Evaluate(snap)
	require.NoError(t, err)
	assert.Equal(t, contracts.DecisionAllow, v.Decision)
}

func TestEvaluate_RedRegime(t *testing.T) {
	g := New(DefaultPolicy(), logger.NewNop())

	snap := baseSnapshot()
	snap.Regime = contracts.RegimeRed

	v, err := g.Evaluate(snap)
	require.NoError(t, err)
	assert.Equal(t, contracts.DecisionAvoid, v.Decision)
	assert.Equal(t, contracts.ReasonRegimeRed, v.BlockedReason)
	assert.Zero(t, v.MaxPositionPct)

	snap.RegimeOverride = true
	v, err = g.Evaluate(snap)
	require.NoError(t, err)
	assert.Equal(t, contracts.DecisionAllow, v.Decision)
	assert.Positive(t, v.MaxPositionPct)
}

func TestEvaluate_OrangeDampening(t *testing.T) {
	g := New(DefaultPolicy(), logger.NewNop())

	snap := baseSnapshot()
	snap.Regime = contracts.RegimeOrange

	v, err := g.Evaluate(snap)
	require.NoError(t, err)
	assert.Equal(t, contracts.DecisionAllow, v.Decision)
	assert.InDelta(t, 6.0, v.MaxPositionPct, 1e-9)
}

func TestEvaluate_MissingPriceDataAvoids(t *testing.T) {
	g := New(DefaultPolicy(), logger.NewNop())

	snap := baseSnapshot()
	snap.Price = 0

	v, err := g.Evaluate(snap)
	require.NoError(t, err)
	assert.Equal(t, contracts.DecisionAvoid, v.Decision)
	assert.Zero(t, v.MaxPositionPct)
	assert.Contains(t, v.RiskFactors, contracts.RiskFactorNoPrice)

	snap = baseSnapshot()
	snap.Lines = nil

	v, err = g.Evaluate(snap)
	require.NoError(t, err)
	assert.Equal(t, contracts.DecisionAvoid, v.Decision)
	assert.Contains(t, v.RiskFactors, contracts.RiskFactorNoLines)
}

func TestEvaluate_SellZoneWhileHeld(t *testing.T) {
	g := New(DefaultPolicy(), logger.NewNop())

	snap := baseSnapshot()
	snap.Price = 21.0
	snap.Held = 4.5

	v, err := g.Evaluate(snap)
	require.NoError(t, err)
	assert.Equal(t, contracts.SignalStrongSell, v.Zone.Signal)
	assert.Contains(t, v.RiskFactors, contracts.RiskFactorSellZone)
}

func TestEvaluate_LowScoreGetsNoSize(t *testing.T) {
	g := New(DefaultPolicy(), logger.NewNop())

	snap := baseSnapshot()
	snap.Thesis.ConvictionScore = 1

	v, err := g.Evaluate(snap)
	require.NoError(t, err)
	assert.Equal(t, contracts.DecisionAvoid, v.Decision)
	assert.Zero(t, v.MaxPositionPct)
}

func TestEvaluate_RejectsInvalidSnapshot(t *testing.T) {
	g := New(DefaultPolicy(), logger.NewNop())

	snap := baseSnapshot()
	snap.Thesis = nil
	_, err := g.Evaluate(snap)
	assert.True(t, errors.Is(err, contracts.ErrInputRejected))

	snap = baseSnapshot()
	snap.Ticker = ""
	_, err = g.Evaluate(snap)
	assert.True(t, errors.Is(err, contracts.ErrInputRejected))

	snap = baseSnapshot()
	snap.Regime = contracts.MarketRegime("PURPLE")
	_, err = g.Evaluate(snap)
	assert.True(t, errors.Is(err, contracts.ErrInputRejected))
}

func TestEvaluate_Deterministic(t *testing.T) {
	g := New(DefaultPolicy(), logger.NewNop())
	snap := baseSnapshot()

	first, err := g.Evaluate(snap)
	require.NoError(t, err)
	second, err := g.Evaluate(snap)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, snap.AsOf, first.AsOf)
}
