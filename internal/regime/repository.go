package regime

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Reathyze20/akcion/internal/contracts"
)

// Repository is the pgx-backed regime store. The current regime lives in
// a single-row table; every transition also appends to the log table.
// 현재 레짐은 단일 행 (id=1), 과거 레짐은 로그 테이블
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new regime repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Current reads the single current regime row.
func (r *Repository) Current(ctx context.Context) (*contracts.RegimeState, error) {
	query := `
		SELECT regime, note, changed_by, changed_at
		FROM gomes.market_regime
		WHERE id = 1`

	var state contracts.RegimeState
	err := r.pool.QueryRow(ctx, query).Scan(
		&state.Regime, &state.Note, &state.ChangedBy, &state.ChangedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, contracts.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &state, nil
}

// Transition upserts the single current row and appends to the log in
// one transaction: never two "current" rows.
func (r *Repository) Transition(ctx context.Context, state contracts.RegimeState, previous contracts.MarketRegime) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()

	upsert := `
		INSERT INTO gomes.market_regime (id, regime, note, changed_by, changed_at)
		VALUES (1, $1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			regime = EXCLUDED.regime,
			note = EXCLUDED.note,
			changed_by = EXCLUDED.changed_by,
			changed_at = EXCLUDED.changed_at`
	if _, err := tx.Exec(ctx, upsert, state.Regime, state.Note, state.ChangedBy, now); err != nil {
		return err
	}

	logInsert := `
		INSERT INTO gomes.market_regime_log (regime, previous, note, changed_by, changed_at)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := tx.Exec(ctx, logInsert, state.Regime, previous, state.Note, state.ChangedBy, now); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// History returns recent regime transitions, newest first.
func (r *Repository) History(ctx context.Context, limit int) ([]contracts.RegimeLogEntry, error) {
	query := `
		SELECT id, regime, previous, note, changed_by, changed_at
		FROM gomes.market_regime_log
		ORDER BY changed_at DESC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []contracts.RegimeLogEntry
	for rows.Next() {
		var e contracts.RegimeLogEntry
		if err := rows.Scan(&e.ID, &e.Regime, &e.Previous, &e.Note, &e.ChangedBy, &e.ChangedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
