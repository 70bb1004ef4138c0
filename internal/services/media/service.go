package media

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"
)

var ErrValidation = errors.New("validation error")

const signedURLTTL = 5 * time.Minute

type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	PresignPut(ctx context.Context, key string, ttl time.Duration) (string, error)
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type Service struct {
	storage ObjectStorage
	now     func() time.Time
}

// UploadTarget is handed to the client, which PUTs the file to UploadURL and
// then references ObjectKey when creating the portfolio item.
type UploadTarget struct {
	ObjectKey string
	UploadURL string
	ExpiresAt time.Time
}

func NewService(storage ObjectStorage) *Service {
	return &Service{
		storage: storage,
		now:     time.Now,
	}
}

func (s *Service) PortfolioUploadTarget(ctx context.Context, userID int64, fileName string) (UploadTarget, error) {
	if userID <= 0 {
		return UploadTarget{}, ErrValidation
	}
	if s.storage == nil {
		return UploadTarget{}, fmt.Errorf("object storage is not configured")
	}

	if err := s.storage.EnsureBucket(ctx); err != nil {
		return UploadTarget{}, fmt.Errorf("ensure bucket: %w", err)
	}

	objectKey, err := s.buildPortfolioObjectKey(userID, fileName)
	if err != nil {
		return UploadTarget{}, fmt.Errorf("build object key: %w", err)
	}

	uploadURL, err := s.storage.PresignPut(ctx, objectKey, signedURLTTL)
	if err != nil {
		return UploadTarget{}, fmt.Errorf("presign upload url: %w", err)
	}

	return UploadTarget{
		ObjectKey: objectKey,
		UploadURL: uploadURL,
		ExpiresAt: s.now().UTC().Add(signedURLTTL),
	}, nil
}

// MediaURL resolves a stored object key to a short-lived download URL.
func (s *Service) MediaURL(ctx context.Context, objectKey string) (string, error) {
	if strings.TrimSpace(objectKey) == "" {
		return "", ErrValidation
	}
	if s.storage == nil {
		return "", fmt.Errorf("object storage is not configured")
	}

	return s.storage.PresignGet(ctx, objectKey, signedURLTTL)
}

func (s *Service) buildPortfolioObjectKey(userID int64, fileName string) (string, error) {
	rnd := make([]byte, 8)
	if _, err := rand.Read(rnd); err != nil {
		return "", err
	}

	ext := strings.ToLower(path.Ext(strings.TrimSpace(fileName)))
	if ext == "" {
		ext = ".bin"
	}

	stamp := s.now().UTC().Format("20060102T150405")
	return fmt.Sprintf("users/%d/portfolio/%s_%s%s", userID, stamp, hex.EncodeToString(rnd), ext), nil
}
