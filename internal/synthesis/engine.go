package synthesis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/Reathyze20/akcion/internal/contracts"
	"github.com/Reathyze20/akcion/pkg/logger"
	"github.com/Reathyze20/akcion/pkg/redis"
)

// Bounds on a single merge. 한 번의 뉴스로 점수가 폭주하지 않도록.
const (
	maxAdjustment     = 4
	classificationTTL = 24 * time.Hour
)

// Classifier is the AI classification path. Implementations must respect
// the context deadline; errors route the merge to the keyword fallback.
type Classifier interface {
	Classify(ctx context.Context, existingSummary, newText string) (*contracts.Classification, error)
}

// Store is the versioned thesis persistence the engine commits through.
type Store interface {
	GetThesis(ctx context.Context, ticker string) (*contracts.Thesis, error)
	CommitMerge(ctx context.Context, commit MergeCommit) (*contracts.Thesis, error)
}

// MergeCommit is one atomic thesis update: new version row, narrative
// entry and score history entry land together or not at all.
type MergeCommit struct {
	Ticker          string
	ExpectedVersion int
	NewScore        int
	Status          contracts.ThesisStatus
	Narrative       string
	Source          string
	At              time.Time
}

// DriftAnalyzer receives every score transition after commit.
type DriftAnalyzer interface {
	Analyze(ctx context.Context, ticker string, oldScore, newScore int, source string, priceAtGreenLine bool) (*contracts.ThesisDriftResult, error)
}

// Policy holds the merge tunables.
type Policy struct {
	// BullishBonusEnabled grants +1 when bullish news lands while price
	// sits at or under the green line.
	BullishBonusEnabled bool

	// AITimeout bounds one classifier call. On expiry the merge falls
	// back to keywords instead of failing.
	AITimeout time.Duration
}

// DefaultPolicy returns the standard merge policy.
func DefaultPolicy() Policy {
	return Policy{
		BullishBonusEnabled: true,
		AITimeout:           20 * time.Second,
	}
}

// MergeInput carries one piece of new information into a merge.
type MergeInput struct {
	Ticker string
	Text   string
	Source string

	// ForcedScore bypasses classification entirely (operator override).
	// Still clamped, versioned and drift-analyzed like any other merge.
	ForcedScore *int

	// Price context for the bullish bonus and drift severity.
	CurrentPrice float64
	Lines        *contracts.PriceLines

	// Now is the merge timestamp, supplied by the caller so the engine
	// itself never reads the clock.
	Now time.Time
}

// Engine is the knowledge synthesis pipeline: classify new text against
// the stored thesis, adjust the conviction score, and commit the new
// thesis version with its audit trail.
// ⭐ SSOT: 점수 변경은 머지 엔진을 통해서만
type Engine struct {
	store      Store
	classifier Classifier
	cache      *redis.Cache
	drift      DriftAnalyzer
	policy     Policy
	locks      *tickerLocks
	logger     *logger.Logger
}

// NewEngine creates a synthesis engine. classifier, cache and drift may
// each be nil; the engine degrades to the deterministic fallback path.
func NewEngine(store Store, classifier Classifier, cache *redis.Cache, drift DriftAnalyzer, policy Policy, log *logger.Logger) *Engine {
	return &Engine{
		store:      store,
		classifier: classifier,
		cache:      cache,
		drift:      drift,
		policy:     policy,
		locks:      newTickerLocks(),
		logger:     log.Component("synthesis"),
	}
}

// Merge runs one synthesis cycle for a ticker. Concurrent merges on the
// same ticker are rejected with ErrConcurrencyConflict.
func (e *Engine) Merge(ctx context.Context, input MergeInput) (*contracts.MergeResult, error) {
	if input.Ticker == "" {
		return nil, fmt.Errorf("%w: merge requires a ticker", contracts.ErrInputRejected)
	}
	if input.Text == "" && input.ForcedScore == nil {
		return nil, fmt.Errorf("%w: merge requires text or a forced score", contracts.ErrInputRejected)
	}

	if !e.locks.TryLock(input.Ticker) {
		return nil, fmt.Errorf("%w: merge already in progress for %s", contracts.ErrConcurrencyConflict, input.Ticker)
	}
	defer e.locks.Unlock(input.Ticker)

	thesis, err := e.store.GetThesis(ctx, input.Ticker)
	if err != nil {
		return nil, fmt.Errorf("failed to load thesis for %s: %w", input.Ticker, err)
	}
	oldScore := contracts.ClampScore(thesis.ConvictionScore)

	var classification *contracts.Classification
	newScore := oldScore
	bonusApplied := false

	if input.ForcedScore != nil {
		newScore = contracts.ClampScore(*input.ForcedScore)
		classification = &contracts.Classification{
			ConflictType:    contracts.ConflictNone,
			ScoreAdjustment: newScore - oldScore,
			Explanation:     "operator override",
			Path:            contracts.PathFallback,
		}
	} else {
		classification = e.classify(ctx, thesis, input.Text)

		adj := clampAdjustment(classification.ScoreAdjustment)
		if e.bullishBonusApplies(input, adj) {
			adj++
			bonusApplied = true
		}
		newScore = contracts.ClampScore(oldScore + adj)
	}

	atGreen := priceAtGreenLine(input.CurrentPrice, input.Lines)

	status := thesis.Status
	if classification.ConflictType == contracts.ConflictCritical {
		status = contracts.ThesisNeedsReview
	}

	narrative := fmt.Sprintf("[%s] %s | %s", input.Source, input.Text, classification.Explanation)
	updated, err := e.store.CommitMerge(ctx, MergeCommit{
		Ticker:          input.Ticker,
		ExpectedVersion: thesis.Version,
		NewScore:        newScore,
		Status:          status,
		Narrative:       narrative,
		Source:          input.Source,
		At:              input.Now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to commit merge for %s: %w", input.Ticker, err)
	}

	result := &contracts.MergeResult{
		Ticker:       input.Ticker,
		Action:       actionFor(oldScore, newScore),
		OldScore:     oldScore,
		NewScore:     updated.ConvictionScore,
		ConflictType: classification.ConflictType,
		Conflicts:    classification.Conflicts,
		Explanation:  classification.Explanation,
		Path:         classification.Path,
		Source:       input.Source,
		BonusApplied: bonusApplied,
		MergedAt:     input.Now,
	}

	if e.drift != nil {
		driftRes, err := e.drift.Analyze(ctx, input.Ticker, oldScore, newScore, input.Source, atGreen)
		if err != nil {
			// 드리프트 알림 실패가 커밋된 머지를 되돌리지는 않음
			e.logger.WithError(err).WithField("ticker", input.Ticker).Warn("Drift analysis failed after merge")
		} else {
			result.Drift = driftRes
		}
	}

	e.logger.WithFields(map[string]interface{}{
		"ticker":    input.Ticker,
		"action":    result.Action,
		"old_score": oldScore,
		"new_score": newScore,
		"path":      classification.Path,
		"conflict":  classification.ConflictType,
	}).Info("Thesis merge committed")

	return result, nil
}

// classify tries the AI path with a bounded timeout and a cache in
// front; any failure degrades to the keyword fallback.
func (e *Engine) classify(ctx context.Context, thesis *contracts.Thesis, text string) *contracts.Classification {
	if e.classifier == nil {
		return FallbackClassify(text)
	}

	cacheKey := classificationCacheKey(thesis.Ticker, text)
	if e.cache != nil {
		var cached contracts.Classification
		if hit, err := e.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached
		}
	}

	aiCtx := ctx
	if e.policy.AITimeout > 0 {
		var cancel context.CancelFunc
		aiCtx, cancel = context.WithTimeout(ctx, e.policy.AITimeout)
		defer cancel()
	}

	c, err := e.classifier.Classify(aiCtx, thesisSummary(thesis), text)
	if err != nil {
		e.logger.WithError(err).WithField("ticker", thesis.Ticker).Warn("AI classification failed, using keyword fallback")
		return FallbackClassify(text)
	}

	sanitized := sanitizeClassification(c, text)
	if e.cache != nil {
		if err := e.cache.Set(ctx, cacheKey, sanitized, classificationTTL); err != nil {
			e.logger.WithError(err).Debug("Failed to cache classification")
		}
	}
	return sanitized
}

// sanitizeClassification bounds whatever came back from the model. An
// out-of-contract response falls back to keywords rather than being
// trusted.
func sanitizeClassification(c *contracts.Classification, text string) *contracts.Classification {
	if c == nil {
		return FallbackClassify(text)
	}
	switch c.ConflictType {
	case contracts.ConflictNone, contracts.ConflictMinor, contracts.ConflictSignificant, contracts.ConflictCritical:
	default:
		return FallbackClassify(text)
	}

	c.ScoreAdjustment = clampAdjustment(c.ScoreAdjustment)
	c.Path = contracts.PathAI
	return c
}

func clampAdjustment(adj int) int {
	if adj > maxAdjustment {
		return maxAdjustment
	}
	if adj < -maxAdjustment {
		return -maxAdjustment
	}
	return adj
}

func (e *Engine) bullishBonusApplies(input MergeInput, adjustment int) bool {
	return e.policy.BullishBonusEnabled &&
		adjustment > 0 &&
		priceAtGreenLine(input.CurrentPrice, input.Lines)
}

func priceAtGreenLine(price float64, lines *contracts.PriceLines) bool {
	if price <= 0 || lines == nil || lines.Validate() != nil {
		return false
	}
	return price <= lines.GreenLine
}

func actionFor(oldScore, newScore int) contracts.MergeAction {
	switch {
	case newScore > oldScore:
		return contracts.MergeScoreRaised
	case newScore < oldScore:
		return contracts.MergeScoreLowered
	default:
		return contracts.MergeUnchanged
	}
}

func thesisSummary(t *contracts.Thesis) string {
	return fmt.Sprintf("ticker=%s score=%d edge=%s verdict=%s", t.Ticker, t.ConvictionScore, t.Edge, t.ActionVerdict)
}

func classificationCacheKey(ticker, text string) string {
	sum := sha256.Sum256([]byte(ticker + "\x00" + text))
	return "classify:" + hex.EncodeToString(sum[:16])
}
