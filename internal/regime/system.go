package regime

import (
	"context"
	"fmt"

	"github.com/Reathyze20/akcion/internal/contracts"
	"github.com/Reathyze20/akcion/pkg/logger"
)

// Store persists the single current regime row and its transition log.
type Store interface {
	Current(ctx context.Context) (*contracts.RegimeState, error)
	Transition(ctx context.Context, state contracts.RegimeState, previous contracts.MarketRegime) error
}

// System is the market alert system: one global regime, mutated only by
// an explicit operator action, read by every verdict computation.
// ⭐ SSOT: 레짐 전환은 이 시스템을 통해서만
type System struct {
	store  Store
	logger *logger.Logger
}

// New creates the market alert system.
func New(store Store, log *logger.Logger) *System {
	return &System{
		store:  store,
		logger: log.Component("regime.system"),
	}
}

// Current returns the single current regime state. A missing row means
// the system was never initialized; callers get YELLOW as the cautious
// starting posture.
func (s *System) Current(ctx context.Context) (*contracts.RegimeState, error) {
	state, err := s.store.Current(ctx)
	if err == nil {
		return state, nil
	}
	if err == contracts.ErrNotFound {
		return &contracts.RegimeState{Regime: contracts.RegimeYellow, Note: "uninitialized"}, nil
	}
	return nil, fmt.Errorf("failed to read market regime: %w", err)
}

// Set transitions the global regime. Operator-only; the transition is an
// explicit write, never inferred from market data.
func (s *System) Set(ctx context.Context, newRegime contracts.MarketRegime, note, changedBy string) error {
	if !newRegime.Valid() {
		return fmt.Errorf("%w: unknown market regime %q", contracts.ErrInputRejected, newRegime)
	}

	current, err := s.Current(ctx)
	if err != nil {
		return err
	}

	if current.Regime == newRegime {
		s.logger.WithFields(map[string]interface{}{
			"regime": newRegime,
		}).Debug("Regime unchanged, skipping transition")
		return nil
	}

	state := contracts.RegimeState{
		Regime:    newRegime,
		Note:      note,
		ChangedBy: changedBy,
	}
	if err := s.store.Transition(ctx, state, current.Regime); err != nil {
		return fmt.Errorf("failed to transition market regime: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"from":    current.Regime,
		"to":      newRegime,
		"posture": newRegime.Posture(),
		"by":      changedBy,
	}).Warn("Market regime changed")

	return nil
}
