package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PackageRepo struct {
	pool *pgxpool.Pool
}

type PackageRecord struct {
	ID               int64
	CreatorProfileID int64
	Platform         string
	Title            string
	Description      string
	Quantity         int
	Revisions        int
	Price            float64
	Currency         string
	Status           string
}

func NewPackageRepo(pool *pgxpool.Pool) *PackageRepo {
	return &PackageRepo{pool: pool}
}

func (r *PackageRepo) Create(ctx context.Context, rec PackageRecord) (PackageRecord, error) {
	if r.pool == nil {
		return PackageRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if rec.CreatorProfileID <= 0 {
		return PackageRecord{}, fmt.Errorf("invalid creator profile id")
	}

	err := r.pool.QueryRow(ctx, `
INSERT INTO packages (
	creator_profile_id, platform, title, description,
	quantity, revisions, price, currency, status, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
RETURNING id
`,
		rec.CreatorProfileID,
		rec.Platform,
		rec.Title,
		rec.Description,
		rec.Quantity,
		rec.Revisions,
		rec.Price,
		rec.Currency,
		rec.Status,
	).Scan(&rec.ID)
	if err != nil {
		return PackageRecord{}, fmt.Errorf("create package: %w", err)
	}

	return rec, nil
}

func (r *PackageRepo) ListByProfile(ctx context.Context, profileID int64) ([]PackageRecord, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}
	if profileID <= 0 {
		return nil, fmt.Errorf("invalid creator profile id")
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, creator_profile_id, platform, title, description,
       quantity, revisions, price, currency, status
FROM packages
WHERE creator_profile_id = $1
ORDER BY created_at DESC
`, profileID)
	if err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}
	defer rows.Close()

	var result []PackageRecord
	for rows.Next() {
		var rec PackageRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.CreatorProfileID,
			&rec.Platform,
			&rec.Title,
			&rec.Description,
			&rec.Quantity,
			&rec.Revisions,
			&rec.Price,
			&rec.Currency,
			&rec.Status,
		); err != nil {
			return nil, fmt.Errorf("scan package: %w", err)
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate packages: %w", err)
	}

	return result, nil
}
