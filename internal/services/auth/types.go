package auth

import (
	"errors"
	"time"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrUserNotFound = errors.New("user not found")
)

type User struct {
	ID            int64
	Email         string
	Phone         string
	Name          string
	AvatarURL     string
	Provider      string
	PhoneVerified bool
	EmailVerified bool
	UserType      string
	Status        string
	LastLoginAt   *time.Time
}

type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      User
}

// GoogleIdentity is the verified payload extracted from a Google id token.
type GoogleIdentity struct {
	Subject string
	Email   string
	Name    string
	Picture string
}
