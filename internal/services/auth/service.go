package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	pgrepo "github.com/kana-2024/influmojo-backend/internal/repo/postgres"
)

const maxNameLength = 100

type UserStore interface {
	GetByID(ctx context.Context, userID int64) (pgrepo.UserRecord, error)
	GetOrCreateByEmail(ctx context.Context, email, fullName, avatarURL string) (pgrepo.UserRecord, error)
	UpdateName(ctx context.Context, userID int64, name string) error
}

type GoogleTokenVerifier interface {
	Verify(ctx context.Context, idToken string) (GoogleIdentity, error)
}

type Service struct {
	jwt      *JWTManager
	users    UserStore
	verifier GoogleTokenVerifier
}

func NewService(jwtManager *JWTManager, users UserStore, verifier GoogleTokenVerifier) *Service {
	return &Service{
		jwt:      jwtManager,
		users:    users,
		verifier: verifier,
	}
}

func (s *Service) LoginGoogle(ctx context.Context, idToken string) (AuthResult, error) {
	if strings.TrimSpace(idToken) == "" {
		return AuthResult{}, ErrInvalidInput
	}
	if s.verifier == nil {
		return AuthResult{}, fmt.Errorf("google verifier is not configured")
	}
	if s.users == nil {
		return AuthResult{}, fmt.Errorf("user store is nil")
	}

	identity, err := s.verifier.Verify(ctx, idToken)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrInvalidInput) {
			return AuthResult{}, ErrUnauthorized
		}
		return AuthResult{}, fmt.Errorf("verify google token: %w", err)
	}

	record, err := s.users.GetOrCreateByEmail(ctx, identity.Email, identity.Name, identity.Picture)
	if err != nil {
		return AuthResult{}, fmt.Errorf("get or create user by email: %w", err)
	}

	return s.issueForUser(record)
}

func (s *Service) IssueSessionToken(record pgrepo.UserRecord) (AuthResult, error) {
	return s.issueForUser(record)
}

func (s *Service) ValidateSessionToken(token string) (Identity, error) {
	if s.jwt == nil {
		return Identity{}, fmt.Errorf("jwt manager is nil")
	}
	return s.jwt.ParseSessionToken(token)
}

func (s *Service) UpdateName(ctx context.Context, userID int64, name string) (User, error) {
	if userID <= 0 {
		return User{}, ErrInvalidInput
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || len(trimmed) > maxNameLength {
		return User{}, ErrInvalidInput
	}
	if s.users == nil {
		return User{}, fmt.Errorf("user store is nil")
	}

	if err := s.users.UpdateName(ctx, userID, trimmed); err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return User{}, ErrUserNotFound
		}
		return User{}, fmt.Errorf("update user name: %w", err)
	}

	return s.Profile(ctx, userID)
}

func (s *Service) Profile(ctx context.Context, userID int64) (User, error) {
	if userID <= 0 {
		return User{}, ErrInvalidInput
	}
	if s.users == nil {
		return User{}, fmt.Errorf("user store is nil")
	}

	record, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return User{}, ErrUserNotFound
		}
		return User{}, fmt.Errorf("get user profile: %w", err)
	}

	return UserFromRecord(record), nil
}

func (s *Service) issueForUser(record pgrepo.UserRecord) (AuthResult, error) {
	if s.jwt == nil {
		return AuthResult{}, fmt.Errorf("jwt manager is nil")
	}

	token, expiresAt, err := s.jwt.GenerateSessionToken(record.ID)
	if err != nil {
		return AuthResult{}, fmt.Errorf("generate session token: %w", err)
	}

	return AuthResult{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      UserFromRecord(record),
	}, nil
}

func UserFromRecord(record pgrepo.UserRecord) User {
	user := User{
		ID:            record.ID,
		Name:          record.Name,
		AvatarURL:     record.AvatarURL,
		Provider:      record.AuthProvider,
		PhoneVerified: record.PhoneVerified,
		EmailVerified: record.EmailVerified,
		UserType:      record.UserType,
		Status:        record.Status,
		LastLoginAt:   record.LastLoginAt,
	}
	if record.Email != nil {
		user.Email = *record.Email
	}
	if record.Phone != nil {
		user.Phone = *record.Phone
	}
	return user
}
