package contracts

import (
	"fmt"
	"time"
)

// ZoneSignal is the trading-zone classification for a ticker.
type ZoneSignal string

const (
	SignalAggressiveBuy ZoneSignal = "AGGRESSIVE_BUY"
	SignalBuy           ZoneSignal = "BUY"
	SignalHold          ZoneSignal = "HOLD"
	SignalSell          ZoneSignal = "SELL"
	SignalStrongSell    ZoneSignal = "STRONG_SELL"
)

// TradingZone is derived from (price, PriceLines) and never stored as
// authoritative state: callers recompute it on every evaluation.
type TradingZone struct {
	Empty              bool       `json:"empty"`
	Signal             ZoneSignal `json:"signal,omitempty"`
	MaxBuyPrice        float64    `json:"max_buy_price,omitempty"`
	StartSellPrice     float64    `json:"start_sell_price,omitempty"`
	RiskToFloorPct     float64    `json:"risk_to_floor_pct,omitempty"`
	UpsideToCeilingPct float64    `json:"upside_to_ceiling_pct,omitempty"`
}

// EmptyZone is the explicit "no data" zone returned when price or
// threshold inputs are missing. Never a guessed value.
func EmptyZone() TradingZone {
	return TradingZone{Empty: true}
}

// PriceLines are the analyst-set support/resistance thresholds for a
// ticker. Versioned: updates append a new version, old rows are retained.
type PriceLines struct {
	Ticker    string    `json:"ticker"`
	GreenLine float64   `json:"green_line"`
	RedLine   float64   `json:"red_line"`
	GreyLine  *float64  `json:"grey_line,omitempty"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate rejects malformed thresholds. Violating input is rejected,
// never silently swapped.
func (p *PriceLines) Validate() error {
	if p.Ticker == "" {
		return fmt.Errorf("%w: price lines require a ticker", ErrInputRejected)
	}
	if p.GreenLine <= 0 || p.RedLine <= 0 {
		return fmt.Errorf("%w: price lines must be positive (green=%.4f red=%.4f)",
			ErrInputRejected, p.GreenLine, p.RedLine)
	}
	if p.GreenLine >= p.RedLine {
		return fmt.Errorf("%w: green line %.4f must be below red line %.4f",
			ErrInputRejected, p.GreenLine, p.RedLine)
	}
	if p.GreyLine != nil && *p.GreyLine <= 0 {
		return fmt.Errorf("%w: grey line must be positive", ErrInputRejected)
	}
	return nil
}
