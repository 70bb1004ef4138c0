package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrKYCNotFound = errors.New("kyc record not found")

type KYCRepo struct {
	pool *pgxpool.Pool
}

type KYCRecord struct {
	ID               int64
	CreatorProfileID int64
	DocumentType     string
	DocumentNumber   string
	DocumentKey      string
	SelfieKey        string
	Status           string
	SubmittedAt      time.Time
}

func NewKYCRepo(pool *pgxpool.Pool) *KYCRepo {
	return &KYCRepo{pool: pool}
}

func (r *KYCRepo) GetByProfileID(ctx context.Context, profileID int64) (KYCRecord, error) {
	if r.pool == nil {
		return KYCRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if profileID <= 0 {
		return KYCRecord{}, fmt.Errorf("invalid creator profile id")
	}

	var rec KYCRecord
	err := r.pool.QueryRow(ctx, `
SELECT id, creator_profile_id, document_type, document_number,
       document_key, selfie_key, status, submitted_at
FROM kyc_records
WHERE creator_profile_id = $1
`, profileID).Scan(
		&rec.ID,
		&rec.CreatorProfileID,
		&rec.DocumentType,
		&rec.DocumentNumber,
		&rec.DocumentKey,
		&rec.SelfieKey,
		&rec.Status,
		&rec.SubmittedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return KYCRecord{}, ErrKYCNotFound
		}
		return KYCRecord{}, fmt.Errorf("get kyc record: %w", err)
	}

	return rec, nil
}

// Submit upserts the single KYC row for a profile and resets it to pending.
// The caller guards against re-submission while a review is already pending.
func (r *KYCRepo) Submit(ctx context.Context, rec KYCRecord) (KYCRecord, error) {
	if r.pool == nil {
		return KYCRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if rec.CreatorProfileID <= 0 {
		return KYCRecord{}, fmt.Errorf("invalid creator profile id")
	}

	err := r.pool.QueryRow(ctx, `
INSERT INTO kyc_records (
	creator_profile_id, document_type, document_number,
	document_key, selfie_key, status, submitted_at, updated_at
) VALUES ($1, $2, $3, $4, $5, 'pending', NOW(), NOW())
ON CONFLICT (creator_profile_id) DO UPDATE SET
	document_type = EXCLUDED.document_type,
	document_number = EXCLUDED.document_number,
	document_key = EXCLUDED.document_key,
	selfie_key = EXCLUDED.selfie_key,
	status = 'pending',
	submitted_at = NOW(),
	updated_at = NOW()
RETURNING id, status, submitted_at
`,
		rec.CreatorProfileID,
		rec.DocumentType,
		rec.DocumentNumber,
		rec.DocumentKey,
		rec.SelfieKey,
	).Scan(&rec.ID, &rec.Status, &rec.SubmittedAt)
	if err != nil {
		return KYCRecord{}, fmt.Errorf("submit kyc record: %w", err)
	}

	return rec, nil
}
