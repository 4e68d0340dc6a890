package gatekeeper

import (
	"fmt"
	"math"

	"github.com/Reathyze20/akcion/internal/contracts"
	"github.com/Reathyze20/akcion/internal/lifecycle"
	"github.com/Reathyze20/akcion/internal/sizing"
	"github.com/Reathyze20/akcion/internal/zone"
	"github.com/Reathyze20/akcion/pkg/logger"
)

// Policy holds the gate rule constants. Defaults encode the Gomes
// methodology; the dampening and blackout values are operator-tunable.
type Policy struct {
	// BlackoutDays is the earnings blackout window. Never overridden by
	// score or AI output.
	BlackoutDays int

	// OrangeDampening multiplies every tier cap under an ORANGE regime.
	OrangeDampening float64

	// MinLossPct floors the downside estimate so the Kelly odds ratio
	// stays finite when price sits exactly on the green line.
	MinLossPct float64

	Sizing sizing.Policy
}

// DefaultPolicy returns the standard gate policy.
func DefaultPolicy() Policy {
	return Policy{
		BlackoutDays:    14,
		OrangeDampening: 0.5,
		MinLossPct:      1.0,
		Sizing:          sizing.DefaultPolicy(),
	}
}

// Gatekeeper synthesizes zone, lifecycle, sizing and compliance into one
// immutable verdict. Evaluate is a pure function of its snapshot:
// identical input always yields a bit-identical verdict.
// ⭐ SSOT: 최종 매매 판정은 게이트키퍼에서만
type Gatekeeper struct {
	policy Policy
	logger *logger.Logger
}

// New creates a gatekeeper.
func New(policy Policy, log *logger.Logger) *Gatekeeper {
	return &Gatekeeper{
		policy: policy,
		logger: log.Component("gatekeeper"),
	}
}

// Evaluate runs the full rule chain over one snapshot. Steps short
// circuit in fixed precedence: compliance blackout, regime, then sizing.
func (g *Gatekeeper) Evaluate(snap contracts.TickerSnapshot) (*contracts.Verdict, error) {
	if snap.Ticker == "" {
		return nil, fmt.Errorf("%w: snapshot requires a ticker", contracts.ErrInputRejected)
	}
	if snap.Thesis == nil {
		return nil, fmt.Errorf("%w: snapshot requires a thesis for %s", contracts.ErrInputRejected, snap.Ticker)
	}
	if snap.Regime != "" && !snap.Regime.Valid() {
		return nil, fmt.Errorf("%w: unknown market regime %q", contracts.ErrInputRejected, snap.Regime)
	}

	score := contracts.ClampScore(snap.Thesis.ConvictionScore)

	// Zone and phase are pure derivations of the snapshot; computed once
	// and carried on every verdict, including blocked ones, so the audit
	// trail shows what the gate saw.
	tz := zone.Compute(snap.Price, snap.Lines)
	phase := lifecycle.Classify(score, snap.HasRecentCatalyst, snap.DaysToNextCatalyst, snap.CashRunwayMonths)

	verdict := &contracts.Verdict{
		Ticker:         snap.Ticker,
		GomesScore:     score,
		LifecyclePhase: phase,
		Zone:           tz,
		Regime:         snap.Regime,
		RiskFactors:    riskFactors(snap, tz, score),
		AsOf:           snap.AsOf,
	}

	// 1. Compliance circuit breaker. Missing earnings date is treated as
	// "assume imminent": conservative, never "assume safe".
	if blocked, reason := g.earningsBlackout(snap); blocked {
		verdict.Decision = contracts.DecisionBlocked
		verdict.MaxPositionPct = 0
		verdict.BlockedReason = reason
		verdict.Explanation = fmt.Sprintf("earnings blackout rule fired (%s, window %dd)", reason, g.policy.BlackoutDays)
		return verdict, nil
	}

	// 2. RED regime forces AVOID for new entries unless the operator set
	// the explicit override flag.
	if snap.Regime == contracts.RegimeRed && !snap.RegimeOverride {
		verdict.Decision = contracts.DecisionAvoid
		verdict.MaxPositionPct = 0
		verdict.BlockedReason = contracts.ReasonRegimeRed
		verdict.Explanation = "market regime RED: capital preservation, no new entries without override"
		return verdict, nil
	}

	// 3-5. Tier cap with regime dampening, then Kelly, bounded by the cap.
	tierCap := sizing.TierCap(score)
	if snap.Regime == contracts.RegimeOrange {
		tierCap *= g.policy.OrangeDampening
	}

	size := g.kellySize(score, tz, tierCap, snap.Volatility20D)

	verdict.MaxPositionPct = size
	if size <= 0 {
		verdict.Decision = contracts.DecisionAvoid
		verdict.MaxPositionPct = 0
		verdict.Explanation = fmt.Sprintf("no allocatable size (score %d, tier cap %.2f%%, zone %s)", score, tierCap, zoneLabel(tz))
	} else {
		verdict.Decision = contracts.DecisionAllow
		verdict.Explanation = fmt.Sprintf("allow up to %.2f%% (score %d, phase %s, zone %s)", size, score, phase, zoneLabel(tz))
	}

	return verdict, nil
}

// earningsBlackout checks the compliance window against the snapshot
// time (never the wall clock, to keep Evaluate pure).
func (g *Gatekeeper) earningsBlackout(snap contracts.TickerSnapshot) (bool, string) {
	if snap.EarningsDate == nil {
		return true, contracts.ReasonEarningsDateUnknown
	}

	days := int(snap.EarningsDate.Sub(snap.AsOf).Hours() / 24)
	if days >= 0 && days <= g.policy.BlackoutDays {
		return true, contracts.ReasonEarningsBlackout
	}
	return false, ""
}

// kellySize derives the Kelly inputs from the trading zone: the analyst
// spread gives expected gain (upside to the red line) and expected loss
// (distance to the green line).
func (g *Gatekeeper) kellySize(score int, tz contracts.TradingZone, tierCapPct, volatility float64) float64 {
	if tz.Empty || tierCapPct <= 0 {
		return 0
	}

	confidence := sizing.ConfidenceFromScore(score)
	gain := tz.UpsideToCeilingPct
	loss := math.Abs(tz.RiskToFloorPct)
	if loss < g.policy.MinLossPct {
		loss = g.policy.MinLossPct
	}

	return g.policy.Sizing.SizeWithVolatility(confidence, gain, loss, tierCapPct, volatility)
}

// riskFactors collects the advisory flags for a snapshot. Fixed order so
// repeated evaluations stay bit-identical.
func riskFactors(snap contracts.TickerSnapshot, tz contracts.TradingZone, score int) []string {
	factors := []string{}

	if snap.Price <= 0 {
		factors = append(factors, contracts.RiskFactorNoPrice)
	}
	if snap.Lines == nil {
		factors = append(factors, contracts.RiskFactorNoLines)
	}
	if tz.Signal == contracts.SignalStrongSell && snap.Held > 0 {
		factors = append(factors, contracts.RiskFactorSellZone)
	}
	if snap.CashRunwayMonths > 0 && snap.CashRunwayMonths < 6 {
		factors = append(factors, contracts.RiskFactorLowRunway)
	}
	if snap.Thesis != nil && snap.Thesis.NeedsReview {
		factors = append(factors, contracts.RiskFactorNeedsReview)
	}

	return factors
}

func zoneLabel(tz contracts.TradingZone) string {
	if tz.Empty {
		return "NO_DATA"
	}
	return string(tz.Signal)
}
