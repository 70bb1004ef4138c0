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

var ErrUserNotFound = errors.New("user not found")

type UserRepo struct {
	pool *pgxpool.Pool
}

type UserRecord struct {
	ID            int64
	Email         *string
	Phone         *string
	Name          string
	AvatarURL     string
	AuthProvider  string
	PhoneVerified bool
	EmailVerified bool
	UserType      string
	Status        string
	LastLoginAt   *time.Time
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

const userColumns = `
id, email, phone, name, avatar_url, auth_provider,
phone_verified, email_verified, user_type, status, last_login_at
`

func (r *UserRepo) GetByID(ctx context.Context, userID int64) (UserRecord, error) {
	if r.pool == nil {
		return UserRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 {
		return UserRecord{}, fmt.Errorf("invalid user id")
	}

	row := r.pool.QueryRow(ctx, `
SELECT `+userColumns+`
FROM users
WHERE id = $1
`, userID)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return UserRecord{}, ErrUserNotFound
		}
		return UserRecord{}, fmt.Errorf("get user by id: %w", err)
	}

	return user, nil
}

// GetOrCreateByPhone creates the user on first phone login and refreshes the
// login state on every later one. The supplied name only overwrites an
// existing name when it is non-empty; a brand-new user with no name gets
// "User".
func (r *UserRepo) GetOrCreateByPhone(ctx context.Context, phone, fullName string) (UserRecord, error) {
	if r.pool == nil {
		return UserRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if strings.TrimSpace(phone) == "" {
		return UserRecord{}, fmt.Errorf("phone is required")
	}

	row := r.pool.QueryRow(ctx, `
INSERT INTO users (
	phone, name, auth_provider, phone_verified, user_type, status,
	last_login_at, created_at, updated_at
) VALUES ($1, COALESCE(NULLIF($2, ''), 'User'), 'phone', TRUE, 'creator', 'active', NOW(), NOW(), NOW())
ON CONFLICT (phone) DO UPDATE SET
	phone_verified = TRUE,
	last_login_at = NOW(),
	name = CASE WHEN $2 <> '' THEN $2 ELSE users.name END,
	updated_at = NOW()
RETURNING `+userColumns, strings.TrimSpace(phone), strings.TrimSpace(fullName))

	user, err := scanUser(row)
	if err != nil {
		return UserRecord{}, fmt.Errorf("get or create user by phone: %w", err)
	}

	return user, nil
}

// GetOrCreateByEmail is the Google-login analog of GetOrCreateByPhone.
func (r *UserRepo) GetOrCreateByEmail(ctx context.Context, email, fullName, avatarURL string) (UserRecord, error) {
	if r.pool == nil {
		return UserRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if strings.TrimSpace(email) == "" {
		return UserRecord{}, fmt.Errorf("email is required")
	}

	row := r.pool.QueryRow(ctx, `
INSERT INTO users (
	email, name, avatar_url, auth_provider, email_verified, user_type, status,
	last_login_at, created_at, updated_at
) VALUES ($1, COALESCE(NULLIF($2, ''), 'User'), $3, 'google', TRUE, 'creator', 'active', NOW(), NOW(), NOW())
ON CONFLICT (email) DO UPDATE SET
	email_verified = TRUE,
	last_login_at = NOW(),
	name = CASE WHEN $2 <> '' THEN $2 ELSE users.name END,
	avatar_url = CASE WHEN $3 <> '' THEN $3 ELSE users.avatar_url END,
	updated_at = NOW()
RETURNING `+userColumns, strings.ToLower(strings.TrimSpace(email)), strings.TrimSpace(fullName), strings.TrimSpace(avatarURL))

	user, err := scanUser(row)
	if err != nil {
		return UserRecord{}, fmt.Errorf("get or create user by email: %w", err)
	}

	return user, nil
}

func (r *UserRepo) UpdateName(ctx context.Context, userID int64, name string) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 || strings.TrimSpace(name) == "" {
		return fmt.Errorf("invalid name update payload")
	}

	tag, err := r.pool.Exec(ctx, `
UPDATE users
SET name = $2, updated_at = NOW()
WHERE id = $1
`, userID, strings.TrimSpace(name))
	if err != nil {
		return fmt.Errorf("update user name: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

func scanUser(row pgx.Row) (UserRecord, error) {
	var user UserRecord
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Phone,
		&user.Name,
		&user.AvatarURL,
		&user.AuthProvider,
		&user.PhoneVerified,
		&user.EmailVerified,
		&user.UserType,
		&user.Status,
		&user.LastLoginAt,
	)
	if err != nil {
		return UserRecord{}, err
	}
	return user, nil
}
