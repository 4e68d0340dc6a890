package contracts

import "time"

// Score bounds for the Gomes conviction score.
const (
	MinScore = 1
	MaxScore = 10
)

// ClampScore bounds a conviction score to [1, 10].
// ⭐ SSOT: 점수 클램핑은 이 함수로만 (범위 밖 점수는 절대 저장 금지)
func ClampScore(score int) int {
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}

// ThesisStatus tracks the review state of a thesis.
type ThesisStatus string

const (
	ThesisActive      ThesisStatus = "ACTIVE"
	ThesisNeedsReview ThesisStatus = "NEEDS_REVIEW"
	ThesisArchived    ThesisStatus = "ARCHIVED"
)

// Thesis is the living belief record for a ticker. It is mutated only
// through synthesis merge operations: direct overwrite is forbidden, and
// every merge appends to the narrative log instead of replacing it.
type Thesis struct {
	Ticker          string       `json:"ticker"`
	ConvictionScore int          `json:"conviction_score"` // 1..10
	Edge            string       `json:"edge"`
	Catalysts       []string     `json:"catalysts"`
	Risks           []string     `json:"risks"`
	ActionVerdict   string       `json:"action_verdict"`
	Status          ThesisStatus `json:"status"`
	NeedsReview     bool         `json:"needs_review"`
	Version         int          `json:"version"`
	LastUpdated     time.Time    `json:"last_updated"`
}

// NarrativeEntry is one append-only record in the thesis narrative log.
// 내러티브는 append-only: 문자열 이어붙이기가 아니라 행 추가
type NarrativeEntry struct {
	ID         int64     `json:"id"`
	Ticker     string    `json:"ticker"`
	Source     string    `json:"source"`
	Text       string    `json:"text"`
	RecordedAt time.Time `json:"recorded_at"`
}

// ScoreHistoryEntry is immutable and append-only. Created on every merge,
// even when the score is unchanged, to preserve provenance.
type ScoreHistoryEntry struct {
	ID           int64        `json:"id"`
	Ticker       string       `json:"ticker"`
	Score        int          `json:"score"`
	ThesisStatus ThesisStatus `json:"thesis_status"`
	Source       string       `json:"source"`
	RecordedAt   time.Time    `json:"recorded_at"`
}
