package contracts

import "time"

// DriftType classifies the movement between two successive conviction
// scores for the same ticker.
type DriftType string

const (
	DriftThesisBroken     DriftType = "THESIS_BROKEN"
	DriftThesisDrift      DriftType = "THESIS_DRIFT"
	DriftStable           DriftType = "STABLE"
	DriftImprovement      DriftType = "IMPROVEMENT"
	DriftMajorImprovement DriftType = "MAJOR_IMPROVEMENT"
)

// AlertSeverity orders drift alerts for operators.
type AlertSeverity string

const (
	SeverityInfo        AlertSeverity = "INFO"
	SeverityWarning     AlertSeverity = "WARNING"
	SeverityCritical    AlertSeverity = "CRITICAL"
	SeverityOpportunity AlertSeverity = "OPPORTUNITY"
)

// DriftAlert is an append-only alert row. Acknowledgement is the only
// permitted mutation after creation.
type DriftAlert struct {
	ID           int64         `json:"id"`
	Ticker       string        `json:"ticker"`
	AlertType    DriftType     `json:"alert_type"`
	Severity     AlertSeverity `json:"severity"`
	OldScore     int           `json:"old_score"`
	NewScore     int           `json:"new_score"`
	Message      string        `json:"message"`
	Acknowledged bool          `json:"acknowledged"`
	CreatedAt    time.Time     `json:"created_at"`
}

// ThesisDriftResult is the outcome of one drift analysis. STABLE results
// carry no Alert: stable deltas never create alert rows.
type ThesisDriftResult struct {
	Ticker         string      `json:"ticker"`
	DriftType      DriftType   `json:"drift_type"`
	Delta          int         `json:"delta"`
	OldScore       int         `json:"old_score"`
	NewScore       int         `json:"new_score"`
	Recommendation string      `json:"recommendation"`
	NeedsReview    bool        `json:"needs_review"`
	Alert          *DriftAlert `json:"alert,omitempty"`
}
