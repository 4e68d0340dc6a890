package drift

import (
	"context"
	"testing"

	"github.com/Reathyze20/akcion/internal/contracts"
	"github.com/Reathyze20/akcion/pkg/logger"
)

// memAlerts is an in-memory AlertStore for tests.
type memAlerts struct {
	inserted []contracts.DriftAlert
	acked    []int64
	nextID   int64
}

func (m *memAlerts) InsertAlert(ctx context.Context, alert *contracts.DriftAlert) error {
	m.nextID++
	alert.ID = m.nextID
	m.inserted = append(m.inserted, *alert)
	return nil
}

func (m *memAlerts) Acknowledge(ctx context.Context, id int64) error {
	m.acked = append(m.acked, id)
	return nil
}

type memReview struct {
	marked []string
}

func (m *memReview) MarkNeedsReview(ctx context.Context, ticker string) error {
	m.marked = append(m.marked, ticker)
	return nil
}

type memSink struct {
	published []contracts.DriftAlert
}

func (m *memSink) Publish(alert contracts.DriftAlert) {
	m.published = append(m.published, alert)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		old, new   int
		atGreen    bool
		wantType   contracts.DriftType
		wantReview bool
		wantRec    string
	}{
		{"broken at -3", 8, 5, false, contracts.DriftThesisBroken, true, "SELL IMMEDIATELY"},
		{"broken at -5", 9, 4, false, contracts.DriftThesisBroken, true, "SELL IMMEDIATELY"},
		{"drift -1 healthy score", 8, 7, false, contracts.DriftThesisDrift, false, "review position"},
		{"drift -2 weak score", 6, 4, false, contracts.DriftThesisDrift, false, "re-validate thesis"},
		{"stable", 7, 7, false, contracts.DriftStable, false, ""},
		{"improvement +1", 6, 7, false, contracts.DriftImprovement, false, "monitor improvement"},
		{"improvement +2 at green line", 6, 8, true, contracts.DriftImprovement, false, "consider adding at the green line"},
		{"major improvement +3", 5, 8, false, contracts.DriftMajorImprovement, false, "strong buy candidate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Classify("TEST", tt.old, tt.new, tt.atGreen)
			if res.DriftType != tt.wantType {
				t.Errorf("DriftType = %s, want %s", res.DriftType, tt.wantType)
			}
			if res.NeedsReview != tt.wantReview {
				t.Errorf("NeedsReview = %v, want %v", res.NeedsReview, tt.wantReview)
			}
			if res.Recommendation != tt.wantRec {
				t.Errorf("Recommendation = %q, want %q", res.Recommendation, tt.wantRec)
			}
		})
	}
}

func TestAnalyze_StableCreatesNoAlert(t *testing.T) {
	alerts := &memAlerts{}
	m := NewMonitor(alerts, nil, logger.NewNop())

	res, err := m.Analyze(context.Background(), "TEST", 7, 7, "news", false)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if res.DriftType != contracts.DriftStable {
		t.Errorf("DriftType = %s, want STABLE", res.DriftType)
	}
	if res.Alert != nil {
		t.Error("STABLE drift must not carry an alert")
	}
	if len(alerts.inserted) != 0 {
		t.Errorf("alert rows = %d, want 0", len(alerts.inserted))
	}
}

func TestAnalyze_BrokenThesis(t *testing.T) {
	alerts := &memAlerts{}
	review := &memReview{}
	sink := &memSink{}
	m := NewMonitor(alerts, review, logger.NewNop(), sink)

	res, err := m.Analyze(context.Background(), "TEST", 8, 5, "filing", false)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if res.Alert == nil {
		t.Fatal("expected alert for broken thesis")
	}
	if res.Alert.Severity != contracts.SeverityCritical {
		t.Errorf("severity = %s, want CRITICAL", res.Alert.Severity)
	}
	if res.Alert.ID == 0 {
		t.Error("alert ID not assigned by store")
	}
	if len(review.marked) != 1 || review.marked[0] != "TEST" {
		t.Errorf("needs_review not marked, got %v", review.marked)
	}
	if len(sink.published) != 1 {
		t.Errorf("published alerts = %d, want 1", len(sink.published))
	}
}

func TestAnalyze_ImprovementSeverity(t *testing.T) {
	alerts := &memAlerts{}
	m := NewMonitor(alerts, nil, logger.NewNop())
	ctx := context.Background()

	res, _ := m.Analyze(ctx, "TEST", 6, 7, "news", false)
	if res.Alert.Severity != contracts.SeverityInfo {
		t.Errorf("severity off the green line = %s, want INFO", res.Alert.Severity)
	}

	res, _ = m.Analyze(ctx, "TEST", 6, 7, "news", true)
	if res.Alert.Severity != contracts.SeverityOpportunity {
		t.Errorf("severity at the green line = %s, want OPPORTUNITY", res.Alert.Severity)
	}

	res, _ = m.Analyze(ctx, "TEST", 5, 8, "news", false)
	if res.Alert.Severity != contracts.SeverityOpportunity {
		t.Errorf("major improvement severity = %s, want OPPORTUNITY", res.Alert.Severity)
	}
}
