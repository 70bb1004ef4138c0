package creators

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kana-2024/influmojo-backend/internal/domain/enums"
	pgrepo "github.com/kana-2024/influmojo-backend/internal/repo/postgres"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrProfileNotFound = errors.New("creator profile not found")
	ErrKYCPending      = errors.New("kyc review already pending")
)

const (
	minCreatorAge = 18
	maxBioLength  = 500
	currencyINR   = "INR"
)

var allowedGenders = map[string]bool{
	string(enums.GenderMale):   true,
	string(enums.GenderFemale): true,
	string(enums.GenderOther):  true,
}

var allowedCategories = map[string]bool{
	"fashion": true, "beauty": true, "fitness": true, "food": true,
	"travel": true, "tech": true, "gaming": true, "lifestyle": true,
	"education": true, "music": true, "comedy": true, "finance": true,
}

var allowedLanguages = map[string]bool{
	"english": true, "hindi": true, "tamil": true, "telugu": true,
	"kannada": true, "malayalam": true, "marathi": true, "bengali": true,
	"gujarati": true, "punjabi": true,
}

var allowedPlatforms = map[string]bool{
	string(enums.PlatformInstagram): true,
	string(enums.PlatformYouTube):   true,
	string(enums.PlatformFacebook):  true,
	string(enums.PlatformTwitter):   true,
	string(enums.PlatformLinkedIn):  true,
}

var allowedPortfolioKinds = map[string]bool{
	string(enums.PortfolioKindImage): true,
	string(enums.PortfolioKindVideo): true,
	string(enums.PortfolioKindLink):  true,
}

var allowedDocumentTypes = map[string]bool{
	string(enums.KYCDocumentPAN):      true,
	string(enums.KYCDocumentAadhaar):  true,
	string(enums.KYCDocumentPassport): true,
}

type ProfileStore interface {
	UpsertBasicInfo(ctx context.Context, userID int64, gender string, birthdate time.Time, state, city, pincode, bio string) error
	UpsertPreferences(ctx context.Context, userID int64, categories, languages []string) error
	GetByUserID(ctx context.Context, userID int64) (pgrepo.CreatorProfileRecord, error)
}

type PackageStore interface {
	Create(ctx context.Context, rec pgrepo.PackageRecord) (pgrepo.PackageRecord, error)
	ListByProfile(ctx context.Context, profileID int64) ([]pgrepo.PackageRecord, error)
}

type PortfolioStore interface {
	Create(ctx context.Context, rec pgrepo.PortfolioRecord) (pgrepo.PortfolioRecord, error)
	ListByProfile(ctx context.Context, profileID int64) ([]pgrepo.PortfolioRecord, error)
}

type KYCStore interface {
	GetByProfileID(ctx context.Context, profileID int64) (pgrepo.KYCRecord, error)
	Submit(ctx context.Context, rec pgrepo.KYCRecord) (pgrepo.KYCRecord, error)
}

type Service struct {
	profiles   ProfileStore
	packages   PackageStore
	portfolios PortfolioStore
	kyc        KYCStore

	now func() time.Time
}

func NewService(profiles ProfileStore, packages PackageStore, portfolios PortfolioStore, kyc KYCStore) *Service {
	return &Service{
		profiles:   profiles,
		packages:   packages,
		portfolios: portfolios,
		kyc:        kyc,
		now:        time.Now,
	}
}

type BasicInfoInput struct {
	Gender    string
	Birthdate time.Time
	State     string
	City      string
	Pincode   string
	Bio       string
}

func (s *Service) UpdateBasicInfo(ctx context.Context, userID int64, in BasicInfoInput) (pgrepo.CreatorProfileRecord, error) {
	if userID <= 0 {
		return pgrepo.CreatorProfileRecord{}, ErrInvalidInput
	}

	gender := strings.ToLower(strings.TrimSpace(in.Gender))
	if !allowedGenders[gender] {
		return pgrepo.CreatorProfileRecord{}, fmt.Errorf("%w: unknown gender", ErrInvalidInput)
	}
	if in.Birthdate.IsZero() || ageAt(in.Birthdate, s.now().UTC()) < minCreatorAge {
		return pgrepo.CreatorProfileRecord{}, fmt.Errorf("%w: creators must be at least %d", ErrInvalidInput, minCreatorAge)
	}
	bio := strings.TrimSpace(in.Bio)
	if len(bio) > maxBioLength {
		return pgrepo.CreatorProfileRecord{}, fmt.Errorf("%w: bio exceeds %d characters", ErrInvalidInput, maxBioLength)
	}
	if s.profiles == nil {
		return pgrepo.CreatorProfileRecord{}, fmt.Errorf("profile store is nil")
	}

	err := s.profiles.UpsertBasicInfo(ctx, userID, gender, in.Birthdate.UTC(),
		strings.TrimSpace(in.State), strings.TrimSpace(in.City), strings.TrimSpace(in.Pincode), bio)
	if err != nil {
		return pgrepo.CreatorProfileRecord{}, fmt.Errorf("upsert basic info: %w", err)
	}

	return s.profiles.GetByUserID(ctx, userID)
}

func (s *Service) UpdatePreferences(ctx context.Context, userID int64, categories, languages []string) (pgrepo.CreatorProfileRecord, error) {
	if userID <= 0 {
		return pgrepo.CreatorProfileRecord{}, ErrInvalidInput
	}

	normalizedCategories, err := normalizeSet(categories, allowedCategories, "category")
	if err != nil {
		return pgrepo.CreatorProfileRecord{}, err
	}
	if len(normalizedCategories) == 0 {
		return pgrepo.CreatorProfileRecord{}, fmt.Errorf("%w: at least one category is required", ErrInvalidInput)
	}
	normalizedLanguages, err := normalizeSet(languages, allowedLanguages, "language")
	if err != nil {
		return pgrepo.CreatorProfileRecord{}, err
	}
	if s.profiles == nil {
		return pgrepo.CreatorProfileRecord{}, fmt.Errorf("profile store is nil")
	}

	if err := s.profiles.UpsertPreferences(ctx, userID, normalizedCategories, normalizedLanguages); err != nil {
		return pgrepo.CreatorProfileRecord{}, fmt.Errorf("upsert preferences: %w", err)
	}

	return s.profiles.GetByUserID(ctx, userID)
}

func (s *Service) Profile(ctx context.Context, userID int64) (pgrepo.CreatorProfileRecord, error) {
	if userID <= 0 {
		return pgrepo.CreatorProfileRecord{}, ErrInvalidInput
	}
	if s.profiles == nil {
		return pgrepo.CreatorProfileRecord{}, fmt.Errorf("profile store is nil")
	}

	rec, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrCreatorProfileNotFound) {
			return pgrepo.CreatorProfileRecord{}, ErrProfileNotFound
		}
		return pgrepo.CreatorProfileRecord{}, fmt.Errorf("get creator profile: %w", err)
	}

	return rec, nil
}

type PackageInput struct {
	Platform    string
	Title       string
	Description string
	Quantity    int
	Revisions   int
	Price       float64
}

// CreatePackage stores a new offering. The currency is always INR regardless
// of what the client sends.
func (s *Service) CreatePackage(ctx context.Context, userID int64, in PackageInput) (pgrepo.PackageRecord, error) {
	platform := strings.ToLower(strings.TrimSpace(in.Platform))
	title := strings.TrimSpace(in.Title)

	switch {
	case userID <= 0:
		return pgrepo.PackageRecord{}, ErrInvalidInput
	case !allowedPlatforms[platform]:
		return pgrepo.PackageRecord{}, fmt.Errorf("%w: unknown platform", ErrInvalidInput)
	case title == "":
		return pgrepo.PackageRecord{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	case in.Quantity < 1:
		return pgrepo.PackageRecord{}, fmt.Errorf("%w: quantity must be at least 1", ErrInvalidInput)
	case in.Revisions < 0:
		return pgrepo.PackageRecord{}, fmt.Errorf("%w: revisions cannot be negative", ErrInvalidInput)
	case in.Price <= 0:
		return pgrepo.PackageRecord{}, fmt.Errorf("%w: price must be positive", ErrInvalidInput)
	}
	if s.packages == nil {
		return pgrepo.PackageRecord{}, fmt.Errorf("package store is nil")
	}

	profile, err := s.Profile(ctx, userID)
	if err != nil {
		return pgrepo.PackageRecord{}, err
	}

	rec, err := s.packages.Create(ctx, pgrepo.PackageRecord{
		CreatorProfileID: profile.ID,
		Platform:         platform,
		Title:            title,
		Description:      strings.TrimSpace(in.Description),
		Quantity:         in.Quantity,
		Revisions:        in.Revisions,
		Price:            in.Price,
		Currency:         currencyINR,
		Status:           "active",
	})
	if err != nil {
		return pgrepo.PackageRecord{}, fmt.Errorf("create package: %w", err)
	}

	return rec, nil
}

func (s *Service) ListPackages(ctx context.Context, userID int64) ([]pgrepo.PackageRecord, error) {
	profile, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if s.packages == nil {
		return nil, fmt.Errorf("package store is nil")
	}
	return s.packages.ListByProfile(ctx, profile.ID)
}

type PortfolioInput struct {
	Title     string
	Kind      string
	MediaURL  string
	ObjectKey string
}

func (s *Service) CreatePortfolioItem(ctx context.Context, userID int64, in PortfolioInput) (pgrepo.PortfolioRecord, error) {
	kind := strings.ToLower(strings.TrimSpace(in.Kind))
	title := strings.TrimSpace(in.Title)
	mediaURL := strings.TrimSpace(in.MediaURL)
	objectKey := strings.TrimSpace(in.ObjectKey)

	switch {
	case userID <= 0:
		return pgrepo.PortfolioRecord{}, ErrInvalidInput
	case title == "":
		return pgrepo.PortfolioRecord{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	case !allowedPortfolioKinds[kind]:
		return pgrepo.PortfolioRecord{}, fmt.Errorf("%w: unknown portfolio kind", ErrInvalidInput)
	case mediaURL == "" && objectKey == "":
		return pgrepo.PortfolioRecord{}, fmt.Errorf("%w: media url or object key is required", ErrInvalidInput)
	}
	if s.portfolios == nil {
		return pgrepo.PortfolioRecord{}, fmt.Errorf("portfolio store is nil")
	}

	profile, err := s.Profile(ctx, userID)
	if err != nil {
		return pgrepo.PortfolioRecord{}, err
	}

	rec, err := s.portfolios.Create(ctx, pgrepo.PortfolioRecord{
		CreatorProfileID: profile.ID,
		Title:            title,
		Kind:             kind,
		MediaURL:         mediaURL,
		ObjectKey:        objectKey,
		Status:           "active",
	})
	if err != nil {
		return pgrepo.PortfolioRecord{}, fmt.Errorf("create portfolio item: %w", err)
	}

	return rec, nil
}

func (s *Service) ListPortfolio(ctx context.Context, userID int64) ([]pgrepo.PortfolioRecord, error) {
	profile, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if s.portfolios == nil {
		return nil, fmt.Errorf("portfolio store is nil")
	}
	return s.portfolios.ListByProfile(ctx, profile.ID)
}

type KYCInput struct {
	DocumentType   string
	DocumentNumber string
	DocumentKey    string
	SelfieKey      string
}

// SubmitKYC moves the profile's KYC row to pending. Re-submission is allowed
// after a rejection but not while a review is already pending.
func (s *Service) SubmitKYC(ctx context.Context, userID int64, in KYCInput) (pgrepo.KYCRecord, error) {
	documentType := strings.ToLower(strings.TrimSpace(in.DocumentType))
	documentNumber := strings.TrimSpace(in.DocumentNumber)

	switch {
	case userID <= 0:
		return pgrepo.KYCRecord{}, ErrInvalidInput
	case !allowedDocumentTypes[documentType]:
		return pgrepo.KYCRecord{}, fmt.Errorf("%w: unknown document type", ErrInvalidInput)
	case documentNumber == "":
		return pgrepo.KYCRecord{}, fmt.Errorf("%w: document number is required", ErrInvalidInput)
	}
	if s.kyc == nil {
		return pgrepo.KYCRecord{}, fmt.Errorf("kyc store is nil")
	}

	profile, err := s.Profile(ctx, userID)
	if err != nil {
		return pgrepo.KYCRecord{}, err
	}

	existing, err := s.kyc.GetByProfileID(ctx, profile.ID)
	switch {
	case err == nil:
		if existing.Status == string(enums.KYCStatusPending) {
			return pgrepo.KYCRecord{}, ErrKYCPending
		}
	case errors.Is(err, pgrepo.ErrKYCNotFound):
		// first submission
	default:
		return pgrepo.KYCRecord{}, fmt.Errorf("get kyc record: %w", err)
	}

	rec, err := s.kyc.Submit(ctx, pgrepo.KYCRecord{
		CreatorProfileID: profile.ID,
		DocumentType:     documentType,
		DocumentNumber:   documentNumber,
		DocumentKey:      strings.TrimSpace(in.DocumentKey),
		SelfieKey:        strings.TrimSpace(in.SelfieKey),
	})
	if err != nil {
		return pgrepo.KYCRecord{}, fmt.Errorf("submit kyc: %w", err)
	}

	return rec, nil
}

// KYCStatus returns "none" when the profile has never submitted documents.
func (s *Service) KYCStatus(ctx context.Context, userID int64) (string, error) {
	profile, err := s.Profile(ctx, userID)
	if err != nil {
		return "", err
	}
	if s.kyc == nil {
		return "", fmt.Errorf("kyc store is nil")
	}

	rec, err := s.kyc.GetByProfileID(ctx, profile.ID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrKYCNotFound) {
			return string(enums.KYCStatusNone), nil
		}
		return "", fmt.Errorf("get kyc record: %w", err)
	}

	return rec.Status, nil
}

func normalizeSet(values []string, allowed map[string]bool, label string) ([]string, error) {
	seen := make(map[string]bool, len(values))
	result := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.ToLower(strings.TrimSpace(value))
		if value == "" || seen[value] {
			continue
		}
		if !allowed[value] {
			return nil, fmt.Errorf("%w: unknown %s %q", ErrInvalidInput, label, value)
		}
		seen[value] = true
		result = append(result, value)
	}
	return result, nil
}

func ageAt(birthdate, now time.Time) int {
	years := now.Year() - birthdate.Year()
	if now.YearDay() < birthdate.YearDay() {
		years--
	}
	return years
}
