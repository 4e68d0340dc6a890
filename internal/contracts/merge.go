package contracts

import "time"

// ConflictType classifies how new information relates to the stored
// thesis. "AI disagreed with the rules" is a conflict type, not an error.
type ConflictType string

const (
	ConflictNone        ConflictType = "NONE"
	ConflictMinor       ConflictType = "MINOR"
	ConflictSignificant ConflictType = "SIGNIFICANT"
	ConflictCritical    ConflictType = "CRITICAL"
)

// ClassifierPath records which classification path produced a result.
// Both paths return the same shape so callers stay agnostic.
type ClassifierPath string

const (
	PathAI       ClassifierPath = "ai"
	PathFallback ClassifierPath = "fallback"
)

// Classification is the shared output shape of the AI path and the
// deterministic keyword fallback.
type Classification struct {
	ConflictType    ConflictType   `json:"conflict_type"`
	Conflicts       []string       `json:"conflicts"`
	ScoreAdjustment int            `json:"score_adjustment"`
	Explanation     string         `json:"explanation"`
	Path            ClassifierPath `json:"path"`
}

// MergeAction describes the effect a merge had on the thesis.
type MergeAction string

const (
	MergeScoreRaised  MergeAction = "SCORE_RAISED"
	MergeScoreLowered MergeAction = "SCORE_LOWERED"
	MergeUnchanged    MergeAction = "UNCHANGED"
)

// MergeResult is returned from every knowledge-synthesis merge.
type MergeResult struct {
	Ticker       string         `json:"ticker"`
	Action       MergeAction    `json:"action"`
	OldScore     int            `json:"old_score"`
	NewScore     int            `json:"new_score"`
	ConflictType ConflictType   `json:"conflict_type"`
	Conflicts    []string       `json:"conflicts"`
	Explanation  string         `json:"explanation"`
	Path         ClassifierPath `json:"path"`
	Source       string         `json:"source"`
	BonusApplied bool           `json:"bonus_applied"` // bullish price context at the green line
	MergedAt     time.Time      `json:"merged_at"`
	Drift        *ThesisDriftResult `json:"drift,omitempty"`
}
