package zone

import (
	"github.com/Reathyze20/akcion/internal/contracts"
)

// Buy ceiling and sell floor are fixed offsets from the analyst lines.
const (
	BuyCeilingFactor = 1.05 // green line +5%
	SellFloorFactor  = 0.95 // red line -5%
)

// Compute classifies the trading zone for a price against its analyst
// lines. Pure and deterministic for identical input: verdicts and audits
// depend on recomputing this, never on a stored copy.
// ⭐ SSOT: 트레이딩 존 분류는 이 함수에서만
//
// Missing input (no price, no lines) returns the explicit empty zone,
// never a guessed value.
func Compute(price float64, lines *contracts.PriceLines) contracts.TradingZone {
	if price <= 0 || lines == nil {
		return contracts.EmptyZone()
	}
	if lines.GreenLine <= 0 || lines.RedLine <= 0 || lines.GreenLine >= lines.RedLine {
		return contracts.EmptyZone()
	}

	green := lines.GreenLine
	red := lines.RedLine
	maxBuy := green * BuyCeilingFactor
	startSell := red * SellFloorFactor

	// Classification in priority order. The green line itself is
	// inclusive on the BUY side: price == green is BUY, not
	// AGGRESSIVE_BUY.
	var signal contracts.ZoneSignal
	switch {
	case price < green:
		signal = contracts.SignalAggressiveBuy
	case price <= maxBuy:
		signal = contracts.SignalBuy
	case price > red:
		signal = contracts.SignalStrongSell
	case price >= startSell:
		signal = contracts.SignalSell
	default:
		signal = contracts.SignalHold
	}

	return contracts.TradingZone{
		Signal:             signal,
		MaxBuyPrice:        maxBuy,
		StartSellPrice:     startSell,
		RiskToFloorPct:     (price - green) / price * 100,
		UpsideToCeilingPct: (red - price) / price * 100,
	}
}
