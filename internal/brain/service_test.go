package brain

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Reathyze20/akcion/internal/contracts"
	"github.com/Reathyze20/akcion/internal/gatekeeper"
	"github.com/Reathyze20/akcion/internal/synthesis"
	"github.com/Reathyze20/akcion/pkg/logger"
)

type fakeTheses struct {
	thesis  *contracts.Thesis
	created []*contracts.Thesis
}

func (f *fakeTheses) GetThesis(ctx context.Context, ticker string) (*contracts.Thesis, error) {
	if f.thesis == nil || f.thesis.Ticker != ticker {
		return nil, contracts.ErrNotFound
	}
	return f.thesis, nil
}

func (f *fakeTheses) CreateThesis(ctx context.Context, t *contracts.Thesis) error {
	f.created = append(f.created, t)
	return nil
}

func (f *fakeTheses) ScoreHistory(ctx context.Context, ticker string, limit int) ([]contracts.ScoreHistoryEntry, error) {
	return nil, nil
}

func (f *fakeTheses) Narrative(ctx context.Context, ticker string, limit int) ([]contracts.NarrativeEntry, error) {
	return nil, nil
}

type fakeLines struct {
	lines *contracts.PriceLines
}

func (f *fakeLines) Set(ctx context.Context, lines *contracts.PriceLines) (*contracts.PriceLines, error) {
	f.lines = lines
	return lines, nil
}

func (f *fakeLines) Latest(ctx context.Context, ticker string) (*contracts.PriceLines, error) {
	if f.lines == nil {
		return nil, contracts.ErrNotFound
	}
	return f.lines, nil
}

type fakeVerdicts struct {
	saved []*contracts.Verdict
}

func (f *fakeVerdicts) SaveVerdict(ctx context.Context, v *contracts.Verdict) error {
	f.saved = append(f.saved, v)
	return nil
}

func (f *fakeVerdicts) LatestVerdict(ctx context.Context, ticker string) (*contracts.Verdict, error) {
	if len(f.saved) == 0 {
		return nil, contracts.ErrNotFound
	}
	return f.saved[len(f.saved)-1], nil
}

type fakeRegime struct {
	state contracts.RegimeState
}

func (f *fakeRegime) Current(ctx context.Context) (*contracts.RegimeState, error) {
	return &f.state, nil
}

func (f *fakeRegime) Set(ctx context.Context, regime contracts.MarketRegime, note, changedBy string) error {
	f.state = contracts.RegimeState{Regime: regime, Note: note, ChangedBy: changedBy}
	return nil
}

type fakeMerger struct {
	input synthesis.MergeInput
}

func (f *fakeMerger) Merge(ctx context.Context, input synthesis.MergeInput) (*contracts.MergeResult, error) {
	f.input = input
	return &contracts.MergeResult{Ticker: input.Ticker}, nil
}

func newTestService(theses *fakeTheses, lines *fakeLines, verdicts *fakeVerdicts, regime *fakeRegime, merger *fakeMerger) *Service {
	gate := gatekeeper.New(gatekeeper.DefaultPolicy(), logger.NewNop())
	s := New(gate, merger, theses, lines, verdicts, nil, nil, regime, logger.NewNop())
	s.now = func() time.Time { return time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestEvaluate_AssemblesSnapshot(t *testing.T) {
	grey := 14.0
	theses := &fakeTheses{thesis: &contracts.Thesis{
		Ticker: "OTCX", ConvictionScore: 8, Status: contracts.ThesisActive,
	}}
	lines := &fakeLines{lines: &contracts.PriceLines{
		Ticker: "OTCX", GreenLine: 10, RedLine: 20, GreyLine: &grey,
	}}
	verdicts := &fakeVerdicts{}
	regime := &fakeRegime{state: contracts.RegimeState{Regime: contracts.RegimeGreen}}

	s := newTestService(theses, lines, verdicts, regime, &fakeMerger{})

	earnings := time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)
	v, err := s.Evaluate(context.Background(), EvaluateRequest{
		Ticker:            "OTCX",
		Price:             9.5,
		EarningsDate:      &earnings,
		HasRecentCatalyst: true,
		CashRunwayMonths:  18,
	})
	require.NoError(t, err)

	assert.Equal(t, contracts.DecisionAllow, v.Decision)
	assert.Equal(t, contracts.RegimeGreen, v.Regime)
	assert.InDelta(t, 12.0, v.MaxPositionPct, 1e-9)
	require.Len(t, verdicts.saved, 1)
	assert.False(t, v.AsOf.IsZero())
}

func TestEvaluate_UnknownTicker(t *testing.T) {
	s := newTestService(&fakeTheses{}, &fakeLines{}, &fakeVerdicts{}, &fakeRegime{state: contracts.RegimeState{Regime: contracts.RegimeYellow}}, &fakeMerger{})

	_, err := s.Evaluate(context.Background(), EvaluateRequest{Ticker: "NOPE", Price: 5})
	assert.True(t, errors.Is(err, contracts.ErrNotFound))
}

func TestEvaluate_MissingLinesStillEvaluates(t *testing.T) {
	theses := &fakeTheses{thesis: &contracts.Thesis{Ticker: "OTCX", ConvictionScore: 7}}
	verdicts := &fakeVerdicts{}
	s := newTestService(theses, &fakeLines{}, verdicts, &fakeRegime{state: contracts.RegimeState{Regime: contracts.RegimeYellow}}, &fakeMerger{})

	earnings := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	v, err := s.Evaluate(context.Background(), EvaluateRequest{
		Ticker:       "OTCX",
		Price:        4.2,
		EarningsDate: &earnings,
	})
	require.NoError(t, err)
	assert.Equal(t, contracts.DecisionAvoid, v.Decision)
	assert.Contains(t, v.RiskFactors, contracts.RiskFactorNoLines)
}

func TestMerge_StampsTimeAndLines(t *testing.T) {
	grey := 14.0
	lines := &fakeLines{lines: &contracts.PriceLines{Ticker: "OTCX", GreenLine: 10, RedLine: 20, GreyLine: &grey}}
	merger := &fakeMerger{}
	s := newTestService(&fakeTheses{}, lines, &fakeVerdicts{}, &fakeRegime{}, merger)

	_, err := s.Merge(context.Background(), MergeRequest{
		Ticker: "OTCX", Text: "buyback announced", Source: "news", CurrentPrice: 9.0,
	})
	require.NoError(t, err)
	assert.False(t, merger.input.Now.IsZero())
	require.NotNil(t, merger.input.Lines)
	assert.Equal(t, 10.0, merger.input.Lines.GreenLine)
}

func TestCreateThesis_RejectsDuplicate(t *testing.T) {
	theses := &fakeTheses{thesis: &contracts.Thesis{Ticker: "OTCX", ConvictionScore: 6}}
	s := newTestService(theses, &fakeLines{}, &fakeVerdicts{}, &fakeRegime{}, &fakeMerger{})

	err := s.CreateThesis(context.Background(), &contracts.Thesis{Ticker: "OTCX", ConvictionScore: 5})
	assert.True(t, errors.Is(err, contracts.ErrInputRejected))

	err = s.CreateThesis(context.Background(), &contracts.Thesis{Ticker: "NEWCO", ConvictionScore: 5})
	require.NoError(t, err)
	require.Len(t, theses.created, 1)
	assert.False(t, theses.created[0].LastUpdated.IsZero())
}
