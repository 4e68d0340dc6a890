package contracts

import "time"

// MarketRegime represents the single process-wide market posture
// ⭐ SSOT: 시장 레짐은 항상 단일 현재값 (레짐 변경은 오퍼레이터만)
type MarketRegime string

const (
	RegimeGreen  MarketRegime = "GREEN"  // offense
	RegimeYellow MarketRegime = "YELLOW" // selective
	RegimeOrange MarketRegime = "ORANGE" // defense
	RegimeRed    MarketRegime = "RED"    // capital preservation
)

// Valid reports whether the regime is one of the four defined states.
func (r MarketRegime) Valid() bool {
	switch r {
	case RegimeGreen, RegimeYellow, RegimeOrange, RegimeRed:
		return true
	}
	return false
}

// DefenseLevel orders regimes by defensiveness (0 = full offense).
func (r MarketRegime) DefenseLevel() int {
	switch r {
	case RegimeGreen:
		return 0
	case RegimeYellow:
		return 1
	case RegimeOrange:
		return 2
	case RegimeRed:
		return 3
	}
	return 3 // unknown regime is treated as maximum defense
}

// Posture returns the operator-facing description of the regime.
func (r MarketRegime) Posture() string {
	switch r {
	case RegimeGreen:
		return "offense"
	case RegimeYellow:
		return "selective"
	case RegimeOrange:
		return "defense"
	case RegimeRed:
		return "capital preservation"
	}
	return "unknown"
}

// RegimeState is the current market regime row plus its provenance.
type RegimeState struct {
	Regime    MarketRegime `json:"regime"`
	Note      string       `json:"note"`
	ChangedBy string       `json:"changed_by"`
	ChangedAt time.Time    `json:"changed_at"`
}

// RegimeLogEntry is one historical regime transition.
// 과거 레짐은 로그로만 보관, "current" 행은 언제나 하나
type RegimeLogEntry struct {
	ID        int64        `json:"id"`
	Regime    MarketRegime `json:"regime"`
	Previous  MarketRegime `json:"previous"`
	Note      string       `json:"note"`
	ChangedBy string       `json:"changed_by"`
	ChangedAt time.Time    `json:"changed_at"`
}
