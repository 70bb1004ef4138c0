package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrCreatorProfileNotFound = errors.New("creator profile not found")

type CreatorProfileRepo struct {
	pool *pgxpool.Pool
}

type CreatorProfileRecord struct {
	ID         int64
	UserID     int64
	Gender     string
	Birthdate  *time.Time
	State      string
	City       string
	Pincode    string
	Bio        string
	Categories []string
	Languages  []string
}

func NewCreatorProfileRepo(pool *pgxpool.Pool) *CreatorProfileRepo {
	return &CreatorProfileRepo{pool: pool}
}

func (r *CreatorProfileRepo) UpsertBasicInfo(
	ctx context.Context,
	userID int64,
	gender string,
	birthdate time.Time,
	state string,
	city string,
	pincode string,
	bio string,
) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 {
		return fmt.Errorf("invalid user id")
	}

	const query = `
INSERT INTO creator_profiles (
	user_id, gender, birthdate, state, city, pincode, bio, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
ON CONFLICT (user_id) DO UPDATE SET
	gender = EXCLUDED.gender,
	birthdate = EXCLUDED.birthdate,
	state = EXCLUDED.state,
	city = EXCLUDED.city,
	pincode = EXCLUDED.pincode,
	bio = EXCLUDED.bio,
	updated_at = NOW()
`

	if _, err := r.pool.Exec(ctx, query, userID, gender, birthdate.UTC(), state, city, pincode, bio); err != nil {
		return fmt.Errorf("upsert creator basic info: %w", err)
	}

	return nil
}

func (r *CreatorProfileRepo) UpsertPreferences(ctx context.Context, userID int64, categories, languages []string) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 {
		return fmt.Errorf("invalid user id")
	}

	const query = `
INSERT INTO creator_profiles (
	user_id, categories, languages, updated_at
) VALUES ($1, $2, $3, NOW())
ON CONFLICT (user_id) DO UPDATE SET
	categories = EXCLUDED.categories,
	languages = EXCLUDED.languages,
	updated_at = NOW()
`

	if _, err := r.pool.Exec(ctx, query, userID, categories, languages); err != nil {
		return fmt.Errorf("upsert creator preferences: %w", err)
	}

	return nil
}

func (r *CreatorProfileRepo) GetByUserID(ctx context.Context, userID int64) (CreatorProfileRecord, error) {
	if r.pool == nil {
		return CreatorProfileRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 {
		return CreatorProfileRecord{}, fmt.Errorf("invalid user id")
	}

	var rec CreatorProfileRecord
	err := r.pool.QueryRow(ctx, `
SELECT id, user_id, gender, birthdate, state, city, pincode, bio, categories, languages
FROM creator_profiles
WHERE user_id = $1
`, userID).Scan(
		&rec.ID,
		&rec.UserID,
		&rec.Gender,
		&rec.Birthdate,
		&rec.State,
		&rec.City,
		&rec.Pincode,
		&rec.Bio,
		&rec.Categories,
		&rec.Languages,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CreatorProfileRecord{}, ErrCreatorProfileNotFound
		}
		return CreatorProfileRecord{}, fmt.Errorf("get creator profile: %w", err)
	}

	return rec, nil
}
