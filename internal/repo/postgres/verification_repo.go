package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrVerificationNotFound = errors.New("verification not found")

// VerificationRepo persists OTP attempts. The table is an append-only log:
// rows are never deleted, and historical rows for a phone stay around for
// the cooldown check.
type VerificationRepo struct {
	pool *pgxpool.Pool
}

type VerificationRecord struct {
	ID         int64
	Phone      string
	Code       string
	Token      string
	CreatedAt  time.Time
	ExpiresAt  time.Time
	VerifiedAt *time.Time
}

func NewVerificationRepo(pool *pgxpool.Pool) *VerificationRepo {
	return &VerificationRepo{pool: pool}
}

func (r *VerificationRepo) Create(ctx context.Context, phone, code, token string, createdAt, expiresAt time.Time) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if strings.TrimSpace(phone) == "" || strings.TrimSpace(code) == "" {
		return fmt.Errorf("invalid verification payload")
	}

	if _, err := r.pool.Exec(ctx, `
INSERT INTO phone_verifications (phone, code, token, created_at, expires_at)
VALUES ($1, $2, $3, $4, $5)
`, phone, code, token, createdAt.UTC(), expiresAt.UTC()); err != nil {
		return fmt.Errorf("create phone verification: %w", err)
	}

	return nil
}

// LatestCreatedAt returns the creation time of the newest row for the phone,
// regardless of its verified or expired state. Drives the send cooldown.
func (r *VerificationRepo) LatestCreatedAt(ctx context.Context, phone string) (time.Time, error) {
	if r.pool == nil {
		return time.Time{}, fmt.Errorf("postgres pool is nil")
	}
	if strings.TrimSpace(phone) == "" {
		return time.Time{}, fmt.Errorf("phone is required")
	}

	var createdAt time.Time
	err := r.pool.QueryRow(ctx, `
SELECT created_at
FROM phone_verifications
WHERE phone = $1
ORDER BY created_at DESC
LIMIT 1
`, phone).Scan(&createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, ErrVerificationNotFound
		}
		return time.Time{}, fmt.Errorf("latest verification created_at: %w", err)
	}

	return createdAt, nil
}

// ConsumeActive marks the newest unverified, unexpired row matching
// (phone, code) as verified at the given time. ErrVerificationNotFound means
// no such row exists: wrong code, expired code, or already consumed.
func (r *VerificationRepo) ConsumeActive(ctx context.Context, phone, code string, at time.Time) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if strings.TrimSpace(phone) == "" || strings.TrimSpace(code) == "" {
		return fmt.Errorf("invalid verification payload")
	}

	tag, err := r.pool.Exec(ctx, `
UPDATE phone_verifications
SET verified_at = $3
WHERE id = (
	SELECT id
	FROM phone_verifications
	WHERE phone = $1
	  AND code = $2
	  AND expires_at > $3
	  AND verified_at IS NULL
	ORDER BY created_at DESC
	LIMIT 1
)
`, phone, code, at.UTC())
	if err != nil {
		return fmt.Errorf("consume phone verification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrVerificationNotFound
	}

	return nil
}
