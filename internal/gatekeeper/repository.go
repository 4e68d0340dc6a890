package gatekeeper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Reathyze20/akcion/internal/contracts"
)

// Repository persists issued verdicts. The table is append-only: every
// evaluation writes a new row so past decisions stay auditable.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a verdict repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// SaveVerdict appends a verdict row. Zone and risk factors are stored as
// JSONB so the full decision context survives schema drift.
func (r *Repository) SaveVerdict(ctx context.Context, v *contracts.Verdict) error {
	zoneJSON, err := json.Marshal(v.Zone)
	if err != nil {
		return fmt.Errorf("failed to marshal trading zone: %w", err)
	}
	factorsJSON, err := json.Marshal(v.RiskFactors)
	if err != nil {
		return fmt.Errorf("failed to marshal risk factors: %w", err)
	}

	query := `
		INSERT INTO gomes.verdicts
			(ticker, decision, gomes_score, max_position_pct, lifecycle_phase,
			 zone, regime, risk_factors, blocked_reason, explanation, as_of)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err = r.pool.Exec(ctx, query,
		v.Ticker, v.Decision, v.GomesScore, v.MaxPositionPct, v.LifecyclePhase,
		zoneJSON, v.Regime, factorsJSON, v.BlockedReason, v.Explanation, v.AsOf,
	)
	if err != nil {
		return fmt.Errorf("failed to save verdict for %s: %w", v.Ticker, err)
	}
	return nil
}

// LatestVerdict returns the most recent verdict for a ticker.
func (r *Repository) LatestVerdict(ctx context.Context, ticker string) (*contracts.Verdict, error) {
	query := `
		SELECT ticker, decision, gomes_score, max_position_pct, lifecycle_phase,
		       zone, regime, risk_factors, blocked_reason, explanation, as_of
		FROM gomes.verdicts
		WHERE ticker = $1
		ORDER BY as_of DESC
		LIMIT 1`

	var v contracts.Verdict
	var zoneJSON, factorsJSON []byte

	err := r.pool.QueryRow(ctx, query, ticker).Scan(
		&v.Ticker, &v.Decision, &v.GomesScore, &v.MaxPositionPct, &v.LifecyclePhase,
		&zoneJSON, &v.Regime, &factorsJSON, &v.BlockedReason, &v.Explanation, &v.AsOf,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, contracts.ErrNotFound
		}
		return nil, err
	}

	if err := json.Unmarshal(zoneJSON, &v.Zone); err != nil {
		return nil, fmt.Errorf("corrupt zone payload for %s: %w", ticker, err)
	}
	if err := json.Unmarshal(factorsJSON, &v.RiskFactors); err != nil {
		return nil, fmt.Errorf("corrupt risk factor payload for %s: %w", ticker, err)
	}

	return &v, nil
}
