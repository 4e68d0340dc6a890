package contracts

import "time"

// LifecyclePhase is the per-ticker phase, recomputed on every evaluation,
// never accumulated.
type LifecyclePhase string

const (
	PhaseGreatFind      LifecyclePhase = "GREAT_FIND"
	PhaseWaitTime       LifecyclePhase = "WAIT_TIME"
	PhaseActiveGoldMine LifecyclePhase = "ACTIVE_GOLD_MINE"
	PhaseHarvest        LifecyclePhase = "HARVEST"
	PhaseDecline        LifecyclePhase = "DECLINE"
)

// Decision is the terminal allow/size/block outcome.
type Decision string

const (
	DecisionAllow   Decision = "ALLOW"
	DecisionAvoid   Decision = "AVOID"
	DecisionBlocked Decision = "BLOCKED"
)

// Blocked-reason codes surfaced on compliance short circuits.
const (
	ReasonEarningsBlackout    = "EARNINGS_BLACKOUT"
	ReasonEarningsDateUnknown = "EARNINGS_DATE_UNKNOWN"
	ReasonRegimeRed           = "MARKET_REGIME_RED"
)

// Risk factor tags attached to verdicts.
const (
	RiskFactorSellZone    = "SELL_ZONE"
	RiskFactorNoPrice     = "NO_PRICE_DATA"
	RiskFactorNoLines     = "NO_PRICE_LINES"
	RiskFactorLowRunway   = "LOW_CASH_RUNWAY"
	RiskFactorNeedsReview = "THESIS_NEEDS_REVIEW"
)

// TickerSnapshot is the full input to one verdict evaluation. The caller
// fetches price, regime, thesis and price lines beforehand; the evaluation
// itself is a pure function of this snapshot.
type TickerSnapshot struct {
	Ticker string    `json:"ticker"`
	AsOf   time.Time `json:"as_of"`

	// Price is the current price. Zero or negative means "no price data"
	// and yields the empty trading zone.
	Price float64 `json:"price"`

	Lines  *PriceLines  `json:"lines,omitempty"`
	Thesis *Thesis      `json:"thesis,omitempty"`
	Regime MarketRegime `json:"regime"`

	// Compliance inputs. A nil EarningsDate is treated as "assume
	// imminent": the conservative default.
	EarningsDate *time.Time `json:"earnings_date,omitempty"`

	// Lifecycle inputs
	HasRecentCatalyst  bool    `json:"has_recent_catalyst"`
	DaysToNextCatalyst int     `json:"days_to_next_catalyst"` // <0 = unknown
	CashRunwayMonths   float64 `json:"cash_runway_months"`

	// Position context
	Held float64 `json:"held"` // current position pct, 0 if not held

	// RegimeOverride is the explicit operator flag that lets a RED regime
	// evaluation proceed. 점수가 아무리 높아도 플래그 없이는 통과 불가.
	RegimeOverride bool `json:"regime_override"`

	// Volatility20D is trailing 20-day volatility, 0 when unavailable.
	Volatility20D float64 `json:"volatility_20d"`
}

// Verdict is the immutable terminal output of one gatekeeper evaluation.
// A new evaluation produces a new Verdict, never an edit.
type Verdict struct {
	Ticker         string         `json:"ticker"`
	Decision       Decision       `json:"decision"`
	GomesScore     int            `json:"gomes_score"`
	MaxPositionPct float64        `json:"max_position_pct"`
	LifecyclePhase LifecyclePhase `json:"lifecycle_phase"`
	Zone           TradingZone    `json:"zone"`
	Regime         MarketRegime   `json:"regime"`
	RiskFactors    []string       `json:"risk_factors"`
	BlockedReason  string         `json:"blocked_reason,omitempty"`
	Explanation    string         `json:"explanation"`

	// AsOf is copied from the snapshot so the verdict stays a pure
	// function of its input (no wall-clock reads during evaluation).
	AsOf time.Time `json:"as_of"`
}

// IsActionable reports whether the verdict permits opening or adding to a
// position.
func (v *Verdict) IsActionable() bool {
	return v.Decision == DecisionAllow && v.MaxPositionPct > 0
}
