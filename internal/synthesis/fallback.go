package synthesis

import (
	"fmt"
	"strings"

	"github.com/Reathyze20/akcion/internal/contracts"
)

// keywordRule is one entry in the deterministic fallback table. Rules are
// evaluated in declaration order and each fires at most once per text.
type keywordRule struct {
	phrase string
	weight int
}

// Ordered so multi-word phrases match before any shorter overlap could.
// 가중치 합계가 최종 조정값: AI 없이도 동일 입력이면 동일 출력.
var keywordRules = []keywordRule{
	{"chapter 11", -4},
	{"bankruptcy", -4},
	{"going concern", -3},
	{"fraud", -3},
	{"delisting", -3},
	{"default", -3},
	{"investigation", -2},
	{"lawsuit", -2},
	{"dilution", -2},
	{"offering priced", -2},
	{"delay", -1},
	{"downgrade", -1},
	{"fda approval", 2},
	{"contract win", 1},
	{"raised guidance", 1},
	{"record revenue", 1},
	{"buyback", 1},
	{"upgrade", 1},
	{"insider buying", 1},
}

// FallbackClassify is the rule-based classification used whenever the AI
// path is disabled or unavailable. Pure function of the text.
func FallbackClassify(newText string) *contracts.Classification {
	lower := strings.ToLower(newText)

	total := 0
	var conflicts []string
	var matched []string

	for _, rule := range keywordRules {
		if !strings.Contains(lower, rule.phrase) {
			continue
		}
		total += rule.weight
		matched = append(matched, fmt.Sprintf("%s(%+d)", rule.phrase, rule.weight))
		if rule.weight < 0 {
			conflicts = append(conflicts, rule.phrase)
		}
	}

	c := &contracts.Classification{
		Conflicts:       conflicts,
		ScoreAdjustment: total,
		Path:            contracts.PathFallback,
	}

	switch {
	case total <= -4:
		c.ConflictType = contracts.ConflictCritical
	case total <= -2:
		c.ConflictType = contracts.ConflictSignificant
	case total < 0:
		c.ConflictType = contracts.ConflictMinor
	default:
		c.ConflictType = contracts.ConflictNone
	}

	if len(matched) == 0 {
		c.Explanation = "keyword fallback: no signal phrases matched"
	} else {
		c.Explanation = "keyword fallback: " + strings.Join(matched, ", ")
	}

	return c
}
