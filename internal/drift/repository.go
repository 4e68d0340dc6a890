package drift

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Reathyze20/akcion/internal/contracts"
)

// Repository is the pgx-backed alert store. Alerts are append-only;
// only the acknowledged flag may change after insert.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new alert repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// InsertAlert appends a new drift alert and fills in its ID/timestamp.
func (r *Repository) InsertAlert(ctx context.Context, alert *contracts.DriftAlert) error {
	query := `
		INSERT INTO gomes.drift_alerts
			(ticker, alert_type, severity, old_score, new_score, message, acknowledged, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, false, $7)
		RETURNING id`

	now := time.Now().UTC()
	err := r.pool.QueryRow(ctx, query,
		alert.Ticker, alert.AlertType, alert.Severity,
		alert.OldScore, alert.NewScore, alert.Message, now,
	).Scan(&alert.ID)
	if err != nil {
		return err
	}

	alert.CreatedAt = now
	return nil
}

// Acknowledge flips the acknowledged flag. No other column is ever
// updated.
func (r *Repository) Acknowledge(ctx context.Context, id int64) error {
	query := `UPDATE gomes.drift_alerts SET acknowledged = true WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return contracts.ErrNotFound
	}
	return nil
}

// ListUnacknowledged returns open alerts, newest first.
func (r *Repository) ListUnacknowledged(ctx context.Context, limit int) ([]contracts.DriftAlert, error) {
	query := `
		SELECT id, ticker, alert_type, severity, old_score, new_score, message, acknowledged, created_at
		FROM gomes.drift_alerts
		WHERE acknowledged = false
		ORDER BY created_at DESC
		LIMIT $1`

	return r.scanAlerts(ctx, query, limit)
}

// ListByTicker returns all alerts for a ticker, newest first.
func (r *Repository) ListByTicker(ctx context.Context, ticker string, limit int) ([]contracts.DriftAlert, error) {
	query := `
		SELECT id, ticker, alert_type, severity, old_score, new_score, message, acknowledged, created_at
		FROM gomes.drift_alerts
		WHERE ticker = $1
		ORDER BY created_at DESC
		LIMIT $2`

	return r.scanAlerts(ctx, query, ticker, limit)
}

func (r *Repository) scanAlerts(ctx context.Context, query string, args ...interface{}) ([]contracts.DriftAlert, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alerts []contracts.DriftAlert
	for rows.Next() {
		var a contracts.DriftAlert
		if err := rows.Scan(
			&a.ID, &a.Ticker, &a.AlertType, &a.Severity,
			&a.OldScore, &a.NewScore, &a.Message, &a.Acknowledged, &a.CreatedAt,
		); err != nil {
			return nil, err
		}
		alerts = append(alerts, a)
	}

	return alerts, rows.Err()
}
