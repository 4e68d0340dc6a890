package drift

import (
	"context"
	"fmt"

	"github.com/Reathyze20/akcion/internal/contracts"
	"github.com/Reathyze20/akcion/pkg/logger"
)

// Drift thresholds on the score delta.
const (
	brokenDelta = -3
	majorDelta  = 3
	weakScore   = 5
)

// AlertStore persists drift alerts (append-only; acknowledgement is the
// only mutation).
type AlertStore interface {
	InsertAlert(ctx context.Context, alert *contracts.DriftAlert) error
	Acknowledge(ctx context.Context, id int64) error
}

// ReviewMarker flags a ticker's thesis for manual review.
type ReviewMarker interface {
	MarkNeedsReview(ctx context.Context, ticker string) error
}

// AlertSink receives created alerts for delivery (websocket hub,
// webhooks). Delivery failures never fail the analysis.
type AlertSink interface {
	Publish(alert contracts.DriftAlert)
}

// Monitor is the thesis drift state machine. It operates purely on
// (previousScore, newScore) pairs: independent of the AI text path.
// ⭐ SSOT: 드리프트 분류와 알림 생성은 여기서만
type Monitor struct {
	alerts AlertStore
	review ReviewMarker
	sinks  []AlertSink
	logger *logger.Logger
}

// NewMonitor creates a drift monitor. review may be nil when no thesis
// store is wired (pure analysis mode).
func NewMonitor(alerts AlertStore, review ReviewMarker, log *logger.Logger, sinks ...AlertSink) *Monitor {
	return &Monitor{
		alerts: alerts,
		review: review,
		sinks:  sinks,
		logger: log.Component("drift.monitor"),
	}
}

// Classify is the pure drift classification. priceAtGreenLine upgrades
// small improvements to OPPORTUNITY.
func Classify(ticker string, oldScore, newScore int, priceAtGreenLine bool) contracts.ThesisDriftResult {
	oldScore = contracts.ClampScore(oldScore)
	newScore = contracts.ClampScore(newScore)
	delta := newScore - oldScore

	res := contracts.ThesisDriftResult{
		Ticker:   ticker,
		Delta:    delta,
		OldScore: oldScore,
		NewScore: newScore,
	}

	switch {
	case delta <= brokenDelta:
		res.DriftType = contracts.DriftThesisBroken
		res.Recommendation = "SELL IMMEDIATELY"
		res.NeedsReview = true
	case delta < 0:
		res.DriftType = contracts.DriftThesisDrift
		if newScore < weakScore {
			res.Recommendation = "re-validate thesis"
		} else {
			res.Recommendation = "review position"
		}
	case delta == 0:
		res.DriftType = contracts.DriftStable
	case delta >= majorDelta:
		res.DriftType = contracts.DriftMajorImprovement
		res.Recommendation = "strong buy candidate"
	default:
		res.DriftType = contracts.DriftImprovement
		if priceAtGreenLine {
			res.Recommendation = "consider adding at the green line"
		} else {
			res.Recommendation = "monitor improvement"
		}
	}

	return res
}

// severityFor maps a drift type to its alert severity.
func severityFor(res contracts.ThesisDriftResult, priceAtGreenLine bool) contracts.AlertSeverity {
	switch res.DriftType {
	case contracts.DriftThesisBroken:
		return contracts.SeverityCritical
	case contracts.DriftThesisDrift:
		return contracts.SeverityWarning
	case contracts.DriftMajorImprovement:
		return contracts.SeverityOpportunity
	case contracts.DriftImprovement:
		if priceAtGreenLine {
			return contracts.SeverityOpportunity
		}
		return contracts.SeverityInfo
	}
	return contracts.SeverityInfo
}

// Analyze classifies the drift between two successive scores and, for
// every non-STABLE result, creates a DriftAlert row. STABLE deltas never
// create an alert: the explicit exception that keeps the alert table
// from flooding.
func (m *Monitor) Analyze(ctx context.Context, ticker string, oldScore, newScore int, source string, priceAtGreenLine bool) (*contracts.ThesisDriftResult, error) {
	res := Classify(ticker, oldScore, newScore, priceAtGreenLine)

	if res.DriftType == contracts.DriftStable {
		m.logger.WithFields(map[string]interface{}{
			"ticker": ticker,
			"score":  newScore,
		}).Debug("Score stable, no alert created")
		return &res, nil
	}

	alert := contracts.DriftAlert{
		Ticker:    ticker,
		AlertType: res.DriftType,
		Severity:  severityFor(res, priceAtGreenLine),
		OldScore:  res.OldScore,
		NewScore:  res.NewScore,
		Message: fmt.Sprintf("[%s] conviction %d -> %d (%+d): %s",
			source, res.OldScore, res.NewScore, res.Delta, res.Recommendation),
	}

	if err := m.alerts.InsertAlert(ctx, &alert); err != nil {
		return nil, fmt.Errorf("failed to insert drift alert: %w", err)
	}
	res.Alert = &alert

	if res.NeedsReview && m.review != nil {
		if err := m.review.MarkNeedsReview(ctx, ticker); err != nil {
			// 리뷰 플래그 실패는 분석 결과를 깨지 않음 (경고만)
			m.logger.WithError(err).WithField("ticker", ticker).Warn("Failed to mark thesis for review")
		}
	}

	for _, sink := range m.sinks {
		sink.Publish(alert)
	}

	m.logger.WithFields(map[string]interface{}{
		"ticker":    ticker,
		"type":      res.DriftType,
		"severity":  alert.Severity,
		"old_score": res.OldScore,
		"new_score": res.NewScore,
	}).Info("Drift alert created")

	return &res, nil
}

// Acknowledge marks an alert as seen. The only permitted mutation.
func (m *Monitor) Acknowledge(ctx context.Context, id int64) error {
	return m.alerts.Acknowledge(ctx, id)
}
