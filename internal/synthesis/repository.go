package synthesis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Reathyze20/akcion/internal/contracts"
	"github.com/Reathyze20/akcion/pkg/database"
)

// pgLockNotAvailable is raised by FOR UPDATE NOWAIT under contention.
const pgLockNotAvailable = "55P03"

// Repository is the versioned thesis store. Theses are never updated in
// place: every merge inserts a new version row, and narrative plus score
// history are append-only side tables.
type Repository struct {
	db *database.DB
}

// NewRepository creates a thesis repository.
func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

// CreateThesis inserts version 1 for a ticker that has no thesis yet.
func (r *Repository) CreateThesis(ctx context.Context, t *contracts.Thesis) error {
	t.ConvictionScore = contracts.ClampScore(t.ConvictionScore)
	if t.Status == "" {
		t.Status = contracts.ThesisActive
	}
	t.Version = 1

	query := `
		INSERT INTO gomes.theses
			(ticker, conviction_score, edge, catalysts, risks, action_verdict,
			 status, needs_review, version, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, false, 1, $8)`

	_, err := r.db.Pool.Exec(ctx, query,
		t.Ticker, t.ConvictionScore, t.Edge, t.Catalysts, t.Risks,
		t.ActionVerdict, t.Status, t.LastUpdated,
	)
	if err != nil {
		return fmt.Errorf("failed to create thesis for %s: %w", t.Ticker, err)
	}
	return nil
}

// GetThesis returns the latest thesis version for a ticker.
func (r *Repository) GetThesis(ctx context.Context, ticker string) (*contracts.Thesis, error) {
	query := `
		SELECT ticker, conviction_score, edge, catalysts, risks, action_verdict,
		       status, needs_review, version, last_updated
		FROM gomes.theses
		WHERE ticker = $1
		ORDER BY version DESC
		LIMIT 1`

	var t contracts.Thesis
	err := r.db.Pool.QueryRow(ctx, query, ticker).Scan(
		&t.Ticker, &t.ConvictionScore, &t.Edge, &t.Catalysts, &t.Risks,
		&t.ActionVerdict, &t.Status, &t.NeedsReview, &t.Version, &t.LastUpdated,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, contracts.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// CommitMerge applies one merge atomically: lock the latest version row,
// verify it is still the version the engine read, then insert the new
// version plus narrative and score history rows in the same transaction.
func (r *Repository) CommitMerge(ctx context.Context, commit MergeCommit) (*contracts.Thesis, error) {
	var updated contracts.Thesis

	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		lockQuery := `
			SELECT ticker, conviction_score, edge, catalysts, risks, action_verdict,
			       status, needs_review, version, last_updated
			FROM gomes.theses
			WHERE ticker = $1
			ORDER BY version DESC
			LIMIT 1
			FOR UPDATE NOWAIT`

		var current contracts.Thesis
		err := tx.QueryRow(ctx, lockQuery, commit.Ticker).Scan(
			&current.Ticker, &current.ConvictionScore, &current.Edge,
			&current.Catalysts, &current.Risks, &current.ActionVerdict,
			&current.Status, &current.NeedsReview, &current.Version, &current.LastUpdated,
		)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return contracts.ErrNotFound
			}
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgLockNotAvailable {
				return fmt.Errorf("%w: thesis row for %s is locked", contracts.ErrConcurrencyConflict, commit.Ticker)
			}
			return err
		}

		if current.Version != commit.ExpectedVersion {
			return fmt.Errorf("%w: thesis for %s moved from version %d to %d",
				contracts.ErrConcurrencyConflict, commit.Ticker, commit.ExpectedVersion, current.Version)
		}

		updated = current
		updated.ConvictionScore = contracts.ClampScore(commit.NewScore)
		updated.Status = commit.Status
		updated.NeedsReview = commit.Status == contracts.ThesisNeedsReview
		updated.Version = current.Version + 1
		updated.LastUpdated = commit.At

		insertQuery := `
			INSERT INTO gomes.theses
				(ticker, conviction_score, edge, catalysts, risks, action_verdict,
				 status, needs_review, version, last_updated)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

		if _, err := tx.Exec(ctx, insertQuery,
			updated.Ticker, updated.ConvictionScore, updated.Edge,
			updated.Catalysts, updated.Risks, updated.ActionVerdict,
			updated.Status, updated.NeedsReview, updated.Version, updated.LastUpdated,
		); err != nil {
			return fmt.Errorf("failed to insert thesis version: %w", err)
		}

		narrativeQuery := `
			INSERT INTO gomes.narrative_log (ticker, source, text, recorded_at)
			VALUES ($1, $2, $3, $4)`
		if _, err := tx.Exec(ctx, narrativeQuery,
			commit.Ticker, commit.Source, commit.Narrative, commit.At,
		); err != nil {
			return fmt.Errorf("failed to append narrative: %w", err)
		}

		historyQuery := `
			INSERT INTO gomes.score_history (ticker, score, thesis_status, source, recorded_at)
			VALUES ($1, $2, $3, $4, $5)`
		if _, err := tx.Exec(ctx, historyQuery,
			commit.Ticker, updated.ConvictionScore, updated.Status, commit.Source, commit.At,
		); err != nil {
			return fmt.Errorf("failed to append score history: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

// MarkNeedsReview flags the latest thesis version without creating a new
// one. Satisfies the drift monitor's ReviewMarker.
func (r *Repository) MarkNeedsReview(ctx context.Context, ticker string) error {
	query := `
		UPDATE gomes.theses
		SET needs_review = true, status = $2
		WHERE ticker = $1
		  AND version = (SELECT MAX(version) FROM gomes.theses WHERE ticker = $1)`

	tag, err := r.db.Pool.Exec(ctx, query, ticker, contracts.ThesisNeedsReview)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return contracts.ErrNotFound
	}
	return nil
}

// ActiveTickers returns every ticker whose latest thesis version is not
// archived. Used by the news poll job.
func (r *Repository) ActiveTickers(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT ON (ticker) ticker
		FROM gomes.theses t
		WHERE version = (SELECT MAX(version) FROM gomes.theses WHERE ticker = t.ticker)
		  AND status <> $1
		ORDER BY ticker`

	rows, err := r.db.Pool.Query(ctx, query, contracts.ThesisArchived)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickers []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		tickers = append(tickers, t)
	}
	return tickers, rows.Err()
}

// StaleTickers returns active tickers whose thesis has not been touched
// since the cutoff. Used by the nightly review sweep.
func (r *Repository) StaleTickers(ctx context.Context, cutoff time.Time) ([]string, error) {
	query := `
		SELECT DISTINCT ON (ticker) ticker
		FROM gomes.theses t
		WHERE version = (SELECT MAX(version) FROM gomes.theses WHERE ticker = t.ticker)
		  AND status = $1
		  AND last_updated < $2
		ORDER BY ticker`

	rows, err := r.db.Pool.Query(ctx, query, contracts.ThesisActive, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickers []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		tickers = append(tickers, t)
	}
	return tickers, rows.Err()
}

// ScoreHistory returns the score trail for a ticker, newest first.
func (r *Repository) ScoreHistory(ctx context.Context, ticker string, limit int) ([]contracts.ScoreHistoryEntry, error) {
	query := `
		SELECT id, ticker, score, thesis_status, source, recorded_at
		FROM gomes.score_history
		WHERE ticker = $1
		ORDER BY recorded_at DESC, id DESC
		LIMIT $2`

	rows, err := r.db.Pool.Query(ctx, query, ticker, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []contracts.ScoreHistoryEntry
	for rows.Next() {
		var e contracts.ScoreHistoryEntry
		if err := rows.Scan(&e.ID, &e.Ticker, &e.Score, &e.ThesisStatus, &e.Source, &e.RecordedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Narrative returns the narrative log for a ticker, newest first.
func (r *Repository) Narrative(ctx context.Context, ticker string, limit int) ([]contracts.NarrativeEntry, error) {
	query := `
		SELECT id, ticker, source, text, recorded_at
		FROM gomes.narrative_log
		WHERE ticker = $1
		ORDER BY recorded_at DESC, id DESC
		LIMIT $2`

	rows, err := r.db.Pool.Query(ctx, query, ticker, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []contracts.NarrativeEntry
	for rows.Next() {
		var e contracts.NarrativeEntry
		if err := rows.Scan(&e.ID, &e.Ticker, &e.Source, &e.Text, &e.RecordedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
