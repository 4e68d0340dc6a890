package brain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Reathyze20/akcion/internal/contracts"
	"github.com/Reathyze20/akcion/internal/synthesis"
	"github.com/Reathyze20/akcion/pkg/logger"
)

// ThesisStore is the thesis persistence the service reads through.
type ThesisStore interface {
	GetThesis(ctx context.Context, ticker string) (*contracts.Thesis, error)
	CreateThesis(ctx context.Context, t *contracts.Thesis) error
	ScoreHistory(ctx context.Context, ticker string, limit int) ([]contracts.ScoreHistoryEntry, error)
	Narrative(ctx context.Context, ticker string, limit int) ([]contracts.NarrativeEntry, error)
}

// LineStore is the price line persistence.
type LineStore interface {
	Set(ctx context.Context, lines *contracts.PriceLines) (*contracts.PriceLines, error)
	Latest(ctx context.Context, ticker string) (*contracts.PriceLines, error)
}

// VerdictStore persists and replays issued verdicts.
type VerdictStore interface {
	SaveVerdict(ctx context.Context, v *contracts.Verdict) error
	LatestVerdict(ctx context.Context, ticker string) (*contracts.Verdict, error)
}

// AlertStore lists drift alerts.
type AlertStore interface {
	ListUnacknowledged(ctx context.Context, limit int) ([]contracts.DriftAlert, error)
	ListByTicker(ctx context.Context, ticker string, limit int) ([]contracts.DriftAlert, error)
}

// RegimeSystem is the global market alert system.
type RegimeSystem interface {
	Current(ctx context.Context) (*contracts.RegimeState, error)
	Set(ctx context.Context, regime contracts.MarketRegime, note, changedBy string) error
}

// Evaluator issues verdicts from assembled snapshots.
type Evaluator interface {
	Evaluate(snap contracts.TickerSnapshot) (*contracts.Verdict, error)
}

// Merger runs knowledge synthesis merges.
type Merger interface {
	Merge(ctx context.Context, input synthesis.MergeInput) (*contracts.MergeResult, error)
}

// AlertManager acknowledges alerts.
type AlertManager interface {
	Acknowledge(ctx context.Context, id int64) error
}

// Service is the orchestration layer: it assembles snapshots from the
// stores, runs the engines, and persists their outputs. HTTP handlers,
// CLI commands and scheduler jobs all call through here.
// ⭐ SSOT: 유스케이스 오케스트레이션은 이 서비스에서만
type Service struct {
	gate     Evaluator
	merger   Merger
	theses   ThesisStore
	lines    LineStore
	verdicts VerdictStore
	alerts   AlertStore
	alertMgr AlertManager
	regime   RegimeSystem
	logger   *logger.Logger

	// now is injectable for tests; production uses time.Now.
	now func() time.Time
}

// New creates the orchestration service.
func New(
	gate Evaluator,
	merger Merger,
	theses ThesisStore,
	lines LineStore,
	verdicts VerdictStore,
	alerts AlertStore,
	alertMgr AlertManager,
	regime RegimeSystem,
	log *logger.Logger,
) *Service {
	return &Service{
		gate:     gate,
		merger:   merger,
		theses:   theses,
		lines:    lines,
		verdicts: verdicts,
		alerts:   alerts,
		alertMgr: alertMgr,
		regime:   regime,
		logger:   log.Component("brain"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// EvaluateRequest carries the market-side inputs the stores do not hold:
// current price, earnings calendar, runway, and position context.
type EvaluateRequest struct {
	Ticker             string     `json:"ticker"`
	Price              float64    `json:"price"`
	EarningsDate       *time.Time `json:"earnings_date,omitempty"`
	HasRecentCatalyst  bool       `json:"has_recent_catalyst"`
	DaysToNextCatalyst int        `json:"days_to_next_catalyst"`
	CashRunwayMonths   float64    `json:"cash_runway_months"`
	Held               float64    `json:"held"`
	RegimeOverride     bool       `json:"regime_override"`
	Volatility20D      float64    `json:"volatility_20d"`

	// AsOf defaults to the current time when zero.
	AsOf time.Time `json:"as_of,omitempty"`
}

// Evaluate assembles a full snapshot for the ticker and runs it through
// the gatekeeper. The issued verdict is persisted before it is returned.
func (s *Service) Evaluate(ctx context.Context, req EvaluateRequest) (*contracts.Verdict, error) {
	thesis, err := s.theses.GetThesis(ctx, req.Ticker)
	if err != nil {
		return nil, fmt.Errorf("failed to load thesis for %s: %w", req.Ticker, err)
	}

	lines, err := s.lines.Latest(ctx, req.Ticker)
	if err != nil && !errors.Is(err, contracts.ErrNotFound) {
		return nil, fmt.Errorf("failed to load price lines for %s: %w", req.Ticker, err)
	}

	state, err := s.regime.Current(ctx)
	if err != nil {
		return nil, err
	}

	asOf := req.AsOf
	if asOf.IsZero() {
		asOf = s.now()
	}

	snap := contracts.TickerSnapshot{
		Ticker:             req.Ticker,
		AsOf:               asOf,
		Price:              req.Price,
		Lines:              lines,
		Thesis:             thesis,
		Regime:             state.Regime,
		EarningsDate:       req.EarningsDate,
		HasRecentCatalyst:  req.HasRecentCatalyst,
		DaysToNextCatalyst: req.DaysToNextCatalyst,
		CashRunwayMonths:   req.CashRunwayMonths,
		Held:               req.Held,
		RegimeOverride:     req.RegimeOverride,
		Volatility20D:      req.Volatility20D,
	}

	verdict, err := s.gate.Evaluate(snap)
	if err != nil {
		return nil, err
	}

	if err := s.verdicts.SaveVerdict(ctx, verdict); err != nil {
		return nil, fmt.Errorf("verdict issued but not persisted for %s: %w", req.Ticker, err)
	}

	return verdict, nil
}

// MergeRequest carries one piece of new information for a ticker.
type MergeRequest struct {
	Ticker       string  `json:"ticker"`
	Text         string  `json:"text"`
	Source       string  `json:"source"`
	ForcedScore  *int    `json:"forced_score,omitempty"`
	CurrentPrice float64 `json:"current_price"`
}

// Merge enriches the request with the stored price lines and runs the
// synthesis engine.
func (s *Service) Merge(ctx context.Context, req MergeRequest) (*contracts.MergeResult, error) {
	lines, err := s.lines.Latest(ctx, req.Ticker)
	if err != nil && !errors.Is(err, contracts.ErrNotFound) {
		return nil, fmt.Errorf("failed to load price lines for %s: %w", req.Ticker, err)
	}

	return s.merger.Merge(ctx, synthesis.MergeInput{
		Ticker:       req.Ticker,
		Text:         req.Text,
		Source:       req.Source,
		ForcedScore:  req.ForcedScore,
		CurrentPrice: req.CurrentPrice,
		Lines:        lines,
		Now:          s.now(),
	})
}

// CreateThesis registers a new ticker with its initial conviction.
func (s *Service) CreateThesis(ctx context.Context, t *contracts.Thesis) error {
	if t.Ticker == "" {
		return fmt.Errorf("%w: thesis requires a ticker", contracts.ErrInputRejected)
	}
	if existing, err := s.theses.GetThesis(ctx, t.Ticker); err == nil && existing != nil {
		return fmt.Errorf("%w: thesis for %s already exists, merge instead of overwriting", contracts.ErrInputRejected, t.Ticker)
	}
	t.LastUpdated = s.now()
	return s.theses.CreateThesis(ctx, t)
}

// GetThesis returns the latest thesis version for a ticker.
func (s *Service) GetThesis(ctx context.Context, ticker string) (*contracts.Thesis, error) {
	return s.theses.GetThesis(ctx, ticker)
}

// ScoreHistory returns the conviction trail for a ticker.
func (s *Service) ScoreHistory(ctx context.Context, ticker string, limit int) ([]contracts.ScoreHistoryEntry, error) {
	return s.theses.ScoreHistory(ctx, ticker, limit)
}

// Narrative returns the narrative log for a ticker.
func (s *Service) Narrative(ctx context.Context, ticker string, limit int) ([]contracts.NarrativeEntry, error) {
	return s.theses.Narrative(ctx, ticker, limit)
}

// SetPriceLines validates and versions new analyst lines.
func (s *Service) SetPriceLines(ctx context.Context, lines *contracts.PriceLines) (*contracts.PriceLines, error) {
	if lines.CreatedAt.IsZero() {
		lines.CreatedAt = s.now()
	}
	return s.lines.Set(ctx, lines)
}

// GetPriceLines returns the current line version for a ticker.
func (s *Service) GetPriceLines(ctx context.Context, ticker string) (*contracts.PriceLines, error) {
	return s.lines.Latest(ctx, ticker)
}

// LatestVerdict replays the most recent persisted verdict.
func (s *Service) LatestVerdict(ctx context.Context, ticker string) (*contracts.Verdict, error) {
	return s.verdicts.LatestVerdict(ctx, ticker)
}

// Regime returns the current market regime state.
func (s *Service) Regime(ctx context.Context) (*contracts.RegimeState, error) {
	return s.regime.Current(ctx)
}

// SetRegime transitions the global market regime.
func (s *Service) SetRegime(ctx context.Context, regime contracts.MarketRegime, note, changedBy string) error {
	return s.regime.Set(ctx, regime, note, changedBy)
}

// OpenAlerts lists unacknowledged drift alerts.
func (s *Service) OpenAlerts(ctx context.Context, limit int) ([]contracts.DriftAlert, error) {
	return s.alerts.ListUnacknowledged(ctx, limit)
}

// AlertsForTicker lists alerts for one ticker.
func (s *Service) AlertsForTicker(ctx context.Context, ticker string, limit int) ([]contracts.DriftAlert, error) {
	return s.alerts.ListByTicker(ctx, ticker, limit)
}

// AcknowledgeAlert marks an alert as seen.
func (s *Service) AcknowledgeAlert(ctx context.Context, id int64) error {
	return s.alertMgr.Acknowledge(ctx, id)
}
