package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PortfolioRepo struct {
	pool *pgxpool.Pool
}

type PortfolioRecord struct {
	ID               int64
	CreatorProfileID int64
	Title            string
	Kind             string
	MediaURL         string
	ObjectKey        string
	Status           string
}

func NewPortfolioRepo(pool *pgxpool.Pool) *PortfolioRepo {
	return &PortfolioRepo{pool: pool}
}

func (r *PortfolioRepo) Create(ctx context.Context, rec PortfolioRecord) (PortfolioRecord, error) {
	if r.pool == nil {
		return PortfolioRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if rec.CreatorProfileID <= 0 {
		return PortfolioRecord{}, fmt.Errorf("invalid creator profile id")
	}

	err := r.pool.QueryRow(ctx, `
INSERT INTO portfolio_items (
	creator_profile_id, title, kind, media_url, object_key, status, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
RETURNING id
`,
		rec.CreatorProfileID,
		rec.Title,
		rec.Kind,
		rec.MediaURL,
		rec.ObjectKey,
		rec.Status,
	).Scan(&rec.ID)
	if err != nil {
		return PortfolioRecord{}, fmt.Errorf("create portfolio item: %w", err)
	}

	return rec, nil
}

func (r *PortfolioRepo) ListByProfile(ctx context.Context, profileID int64) ([]PortfolioRecord, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}
	if profileID <= 0 {
		return nil, fmt.Errorf("invalid creator profile id")
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, creator_profile_id, title, kind, media_url, object_key, status
FROM portfolio_items
WHERE creator_profile_id = $1
ORDER BY created_at DESC
`, profileID)
	if err != nil {
		return nil, fmt.Errorf("list portfolio items: %w", err)
	}
	defer rows.Close()

	var result []PortfolioRecord
	for rows.Next() {
		var rec PortfolioRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.CreatorProfileID,
			&rec.Title,
			&rec.Kind,
			&rec.MediaURL,
			&rec.ObjectKey,
			&rec.Status,
		); err != nil {
			return nil, fmt.Errorf("scan portfolio item: %w", err)
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate portfolio items: %w", err)
	}

	return result, nil
}
