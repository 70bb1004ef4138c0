package verification

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kana-2024/influmojo-backend/internal/infra/smsverify"
	"github.com/kana-2024/influmojo-backend/internal/pkg/validate"
	pgrepo "github.com/kana-2024/influmojo-backend/internal/repo/postgres"
	authsvc "github.com/kana-2024/influmojo-backend/internal/services/auth"
)

var (
	ErrInvalidPhone    = errors.New("invalid phone number")
	ErrInvalidCode     = errors.New("invalid verification code")
	ErrCodeMismatch    = errors.New("verification code mismatch")
	ErrCooldownActive  = errors.New("verification cooldown active")
	ErrTooManyAttempts = errors.New("too many verification attempts")
)

// CooldownError carries how long the caller must wait before the next send.
type CooldownError struct {
	RetryAfter time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("verification cooldown active, retry after %s", e.RetryAfter)
}

func (e *CooldownError) Unwrap() error { return ErrCooldownActive }

// AttemptsError carries how long the check window stays closed.
type AttemptsError struct {
	RetryAfter time.Duration
}

func (e *AttemptsError) Error() string {
	return fmt.Sprintf("too many verification attempts, retry after %s", e.RetryAfter)
}

func (e *AttemptsError) Unwrap() error { return ErrTooManyAttempts }

type VerificationStore interface {
	Create(ctx context.Context, phone, code, token string, createdAt, expiresAt time.Time) error
	LatestCreatedAt(ctx context.Context, phone string) (time.Time, error)
	ConsumeActive(ctx context.Context, phone, code string, at time.Time) error
}

type UserStore interface {
	GetOrCreateByPhone(ctx context.Context, phone, fullName string) (pgrepo.UserRecord, error)
}

// Provider is the external SMS verification API. Check returns a decision
// string on a definitive answer and an error when the provider could not be
// consulted at all.
type Provider interface {
	Start(ctx context.Context, phone string) error
	Check(ctx context.Context, phone, code string) (string, error)
}

type AttemptStore interface {
	IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

type TokenIssuer interface {
	IssueSessionToken(record pgrepo.UserRecord) (authsvc.AuthResult, error)
}

type Config struct {
	SendCooldown     time.Duration
	CodeTTL          time.Duration
	MaxCheckAttempts int
	CheckWindow      time.Duration
	// DevMode logs generated codes so the flow is testable without SMS.
	DevMode bool
}

type Service struct {
	cfg      Config
	store    VerificationStore
	users    UserStore
	provider Provider
	attempts AttemptStore
	tokens   TokenIssuer
	log      *zap.Logger

	now      func() time.Time
	makeCode func() (string, error)
}

func NewService(cfg Config, store VerificationStore, users UserStore, provider Provider, attempts AttemptStore, tokens TokenIssuer, log *zap.Logger) *Service {
	if cfg.SendCooldown <= 0 {
		cfg.SendCooldown = time.Minute
	}
	if cfg.CodeTTL <= 0 {
		cfg.CodeTTL = 10 * time.Minute
	}
	if cfg.MaxCheckAttempts <= 0 {
		cfg.MaxCheckAttempts = 5
	}
	if cfg.CheckWindow <= 0 {
		cfg.CheckWindow = 10 * time.Minute
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Service{
		cfg:      cfg,
		store:    store,
		users:    users,
		provider: provider,
		attempts: attempts,
		tokens:   tokens,
		log:      log,
		now:      time.Now,
		makeCode: randomCode,
	}
}

type SendResult struct {
	ExpiresAt time.Time
}

// RequestCode generates and stores a fresh OTP for the phone. Once the row is
// persisted the operation succeeds even when the SMS dispatch fails; provider
// problems are logged and the user retries from the app.
func (s *Service) RequestCode(ctx context.Context, phone string) (SendResult, error) {
	phone = strings.TrimSpace(phone)
	if !validate.Phone(phone) {
		return SendResult{}, ErrInvalidPhone
	}
	if s.store == nil {
		return SendResult{}, fmt.Errorf("verification store is nil")
	}

	now := s.now().UTC()

	latest, err := s.store.LatestCreatedAt(ctx, phone)
	switch {
	case err == nil:
		elapsed := now.Sub(latest)
		if elapsed < s.cfg.SendCooldown {
			return SendResult{}, &CooldownError{RetryAfter: s.cfg.SendCooldown - elapsed}
		}
	case errors.Is(err, pgrepo.ErrVerificationNotFound):
		// first send for this phone
	default:
		return SendResult{}, fmt.Errorf("check send cooldown: %w", err)
	}

	code, err := s.makeCode()
	if err != nil {
		return SendResult{}, fmt.Errorf("generate verification code: %w", err)
	}
	token := uuid.NewString()
	expiresAt := now.Add(s.cfg.CodeTTL)

	if err := s.store.Create(ctx, phone, code, token, now, expiresAt); err != nil {
		return SendResult{}, fmt.Errorf("persist verification: %w", err)
	}

	if s.provider == nil {
		s.log.Info("provider_skipped", zap.String("phone", maskPhone(phone)))
	} else if err := s.provider.Start(ctx, phone); err != nil {
		s.log.Warn("provider_error",
			zap.String("phone", maskPhone(phone)),
			zap.String("op", "start"),
			zap.Error(err))
	} else {
		s.log.Info("provider_dispatched", zap.String("phone", maskPhone(phone)))
	}

	if s.cfg.DevMode {
		s.log.Debug("verification_code_issued",
			zap.String("phone", maskPhone(phone)),
			zap.String("code", code))
	}

	return SendResult{ExpiresAt: expiresAt}, nil
}

// VerifyCode checks the submitted code and logs the user in. The provider is
// consulted first when configured: an approved decision wins outright, any
// other decision fails the attempt, and only a provider error falls back to
// the locally stored code.
func (s *Service) VerifyCode(ctx context.Context, phone, code, fullName string) (authsvc.AuthResult, error) {
	phone = strings.TrimSpace(phone)
	code = strings.TrimSpace(code)
	if !validate.Phone(phone) {
		return authsvc.AuthResult{}, ErrInvalidPhone
	}
	if !validate.Code(code) {
		return authsvc.AuthResult{}, ErrInvalidCode
	}
	if s.users == nil || s.tokens == nil {
		return authsvc.AuthResult{}, fmt.Errorf("verification service is not fully wired")
	}

	if err := s.recordAttempt(ctx, phone); err != nil {
		return authsvc.AuthResult{}, err
	}

	verified := false
	if s.provider != nil {
		decision, err := s.provider.Check(ctx, phone, code)
		if err == nil {
			if decision != smsverify.DecisionApproved {
				return authsvc.AuthResult{}, ErrCodeMismatch
			}
			verified = true
		} else {
			s.log.Warn("provider_error",
				zap.String("phone", maskPhone(phone)),
				zap.String("op", "check"),
				zap.Error(err))
		}
	}

	if !verified {
		if s.store == nil {
			return authsvc.AuthResult{}, fmt.Errorf("verification store is nil")
		}
		if err := s.store.ConsumeActive(ctx, phone, code, s.now().UTC()); err != nil {
			if errors.Is(err, pgrepo.ErrVerificationNotFound) {
				return authsvc.AuthResult{}, ErrCodeMismatch
			}
			return authsvc.AuthResult{}, fmt.Errorf("consume verification: %w", err)
		}
	}

	record, err := s.users.GetOrCreateByPhone(ctx, phone, strings.TrimSpace(fullName))
	if err != nil {
		return authsvc.AuthResult{}, fmt.Errorf("get or create user by phone: %w", err)
	}

	result, err := s.tokens.IssueSessionToken(record)
	if err != nil {
		return authsvc.AuthResult{}, fmt.Errorf("issue session token: %w", err)
	}

	return result, nil
}

// recordAttempt enforces the per-phone check limit. A broken counter backend
// degrades open: verification keeps working without the limiter.
func (s *Service) recordAttempt(ctx context.Context, phone string) error {
	if s.attempts == nil {
		return nil
	}

	count, ttl, err := s.attempts.IncrementWindow(ctx, "verify:attempts:"+phone, s.cfg.CheckWindow)
	if err != nil {
		s.log.Warn("attempt_counter_unavailable", zap.Error(err))
		return nil
	}
	if count > int64(s.cfg.MaxCheckAttempts) {
		if ttl <= 0 {
			ttl = s.cfg.CheckWindow
		}
		return &AttemptsError{RetryAfter: ttl}
	}

	return nil
}

// randomCode draws a uniform 6-digit code from [100000, 999999].
func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func maskPhone(phone string) string {
	if len(phone) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}
