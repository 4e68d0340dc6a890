package pricelines

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Reathyze20/akcion/internal/contracts"
)

// Repository stores analyst price lines. Lines are versioned: setting new
// lines inserts a row, it never overwrites: past zone decisions must stay
// reconstructable.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a price line repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Set validates and appends a new price line version for a ticker.
// Invalid geometry (green >= red, out-of-band grey) is rejected.
// 선을 바꿔치기해서 구제하지 않는다.
func (r *Repository) Set(ctx context.Context, lines *contracts.PriceLines) (*contracts.PriceLines, error) {
	if err := lines.Validate(); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO gomes.price_lines (ticker, green_line, red_line, grey_line, version, created_at)
		VALUES ($1, $2, $3, $4,
			COALESCE((SELECT MAX(version) FROM gomes.price_lines WHERE ticker = $1), 0) + 1,
			$5)
		RETURNING version`

	stored := *lines
	err := r.pool.QueryRow(ctx, query,
		lines.Ticker, lines.GreenLine, lines.RedLine, lines.GreyLine, lines.CreatedAt,
	).Scan(&stored.Version)
	if err != nil {
		return nil, fmt.Errorf("failed to store price lines for %s: %w", lines.Ticker, err)
	}

	return &stored, nil
}

// Latest returns the current price line version for a ticker.
func (r *Repository) Latest(ctx context.Context, ticker string) (*contracts.PriceLines, error) {
	query := `
		SELECT ticker, green_line, red_line, grey_line, version, created_at
		FROM gomes.price_lines
		WHERE ticker = $1
		ORDER BY version DESC
		LIMIT 1`

	var lines contracts.PriceLines
	err := r.pool.QueryRow(ctx, query, ticker).Scan(
		&lines.Ticker, &lines.GreenLine, &lines.RedLine, &lines.GreyLine,
		&lines.Version, &lines.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, contracts.ErrNotFound
		}
		return nil, err
	}
	return &lines, nil
}

// History returns all line versions for a ticker, newest first.
func (r *Repository) History(ctx context.Context, ticker string, limit int) ([]contracts.PriceLines, error) {
	query := `
		SELECT ticker, green_line, red_line, grey_line, version, created_at
		FROM gomes.price_lines
		WHERE ticker = $1
		ORDER BY version DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, ticker, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []contracts.PriceLines
	for rows.Next() {
		var l contracts.PriceLines
		if err := rows.Scan(&l.Ticker, &l.GreenLine, &l.RedLine, &l.GreyLine, &l.Version, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
