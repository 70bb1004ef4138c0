package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	pgrepo "github.com/kana-2024/influmojo-backend/internal/repo/postgres"
	authsvc "github.com/kana-2024/influmojo-backend/internal/services/auth"
	creatorssvc "github.com/kana-2024/influmojo-backend/internal/services/creators"
	mediasvc "github.com/kana-2024/influmojo-backend/internal/services/media"
	"github.com/kana-2024/influmojo-backend/internal/transport/http/dto"
	httperrors "github.com/kana-2024/influmojo-backend/internal/transport/http/errors"
)

const birthdateLayout = "2006-01-02"

type ProfileHandler struct {
	creators *creatorssvc.Service
	media    *mediasvc.Service
}

func NewProfileHandler(creators *creatorssvc.Service, media *mediasvc.Service) *ProfileHandler {
	return &ProfileHandler{
		creators: creators,
		media:    media,
	}
}

func (h *ProfileHandler) UpdateBasicInfo(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.requireIdentity(w, r)
	if !ok {
		return
	}

	var req dto.UpdateBasicInfoRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	birthdate, err := time.Parse(birthdateLayout, strings.TrimSpace(req.Birthdate))
	if err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "birthdate must be YYYY-MM-DD")
		return
	}

	profile, err := h.creators.UpdateBasicInfo(r.Context(), identity.UserID, creatorssvc.BasicInfoInput{
		Gender:    req.Gender,
		Birthdate: birthdate,
		State:     req.State,
		City:      req.City,
		Pincode:   req.Pincode,
		Bio:       req.Bio,
	})
	if err != nil {
		handleCreatorsError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, profileResponse(profile))
}

func (h *ProfileHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.requireIdentity(w, r)
	if !ok {
		return
	}

	var req dto.UpdatePreferencesRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	profile, err := h.creators.UpdatePreferences(r.Context(), identity.UserID, req.Categories, req.Languages)
	if err != nil {
		handleCreatorsError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, profileResponse(profile))
}

func (h *ProfileHandler) CreatePackage(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.requireIdentity(w, r)
	if !ok {
		return
	}

	var req dto.CreatePackageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	rec, err := h.creators.CreatePackage(r.Context(), identity.UserID, creatorssvc.PackageInput{
		Platform:    req.Platform,
		Title:       req.Title,
		Description: req.Description,
		Quantity:    req.Quantity,
		Revisions:   req.Revisions,
		Price:       req.Price,
	})
	if err != nil {
		handleCreatorsError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, packageResponse(rec))
}

func (h *ProfileHandler) CreatePortfolio(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.requireIdentity(w, r)
	if !ok {
		return
	}

	var req dto.CreatePortfolioRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	rec, err := h.creators.CreatePortfolioItem(r.Context(), identity.UserID, creatorssvc.PortfolioInput{
		Title:     req.Title,
		Kind:      req.Kind,
		MediaURL:  req.MediaURL,
		ObjectKey: req.ObjectKey,
	})
	if err != nil {
		handleCreatorsError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, portfolioResponse(rec))
}

func (h *ProfileHandler) SubmitKYC(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.requireIdentity(w, r)
	if !ok {
		return
	}

	var req dto.SubmitKYCRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	rec, err := h.creators.SubmitKYC(r.Context(), identity.UserID, creatorssvc.KYCInput{
		DocumentType:   req.DocumentType,
		DocumentNumber: req.DocumentNumber,
		DocumentKey:    req.DocumentKey,
		SelfieKey:      req.SelfieKey,
	})
	if err != nil {
		handleCreatorsError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.KYCResponse{
		ID:           rec.ID,
		DocumentType: rec.DocumentType,
		Status:       rec.Status,
		SubmittedAt:  rec.SubmittedAt,
	})
}

func (h *ProfileHandler) PortfolioUploadURL(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.requireIdentity(w, r)
	if !ok {
		return
	}
	if h.media == nil {
		writeInternal(w, "MEDIA_SERVICE_UNAVAILABLE", "media service is unavailable")
		return
	}

	var req dto.PortfolioUploadURLRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	target, err := h.media.PortfolioUploadTarget(r.Context(), identity.UserID, req.FileName)
	if err != nil {
		if errors.Is(err, mediasvc.ErrValidation) {
			writeBadRequest(w, "VALIDATION_ERROR", "invalid upload request")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to create upload url")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.PortfolioUploadURLResponse{
		ObjectKey: target.ObjectKey,
		UploadURL: target.UploadURL,
		ExpiresAt: target.ExpiresAt,
	})
}

// Profile aggregates the creator profile with its packages, portfolio and KYC
// state in a single response for the onboarding screens.
func (h *ProfileHandler) Profile(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.requireIdentity(w, r)
	if !ok {
		return
	}

	profile, err := h.creators.Profile(r.Context(), identity.UserID)
	if err != nil {
		handleCreatorsError(w, err)
		return
	}

	packages, err := h.creators.ListPackages(r.Context(), identity.UserID)
	if err != nil {
		handleCreatorsError(w, err)
		return
	}
	portfolio, err := h.creators.ListPortfolio(r.Context(), identity.UserID)
	if err != nil {
		handleCreatorsError(w, err)
		return
	}
	kycStatus, err := h.creators.KYCStatus(r.Context(), identity.UserID)
	if err != nil {
		handleCreatorsError(w, err)
		return
	}

	res := dto.FullProfileResponse{
		Profile:   profileResponse(profile),
		Packages:  make([]dto.PackageResponse, 0, len(packages)),
		Portfolio: make([]dto.PortfolioItemResponse, 0, len(portfolio)),
		KYCStatus: kycStatus,
	}
	for _, rec := range packages {
		res.Packages = append(res.Packages, packageResponse(rec))
	}
	for _, rec := range portfolio {
		item := portfolioResponse(rec)
		if item.MediaURL == "" && rec.ObjectKey != "" && h.media != nil {
			if url, err := h.media.MediaURL(r.Context(), rec.ObjectKey); err == nil {
				item.MediaURL = url
			}
		}
		res.Portfolio = append(res.Portfolio, item)
	}

	httperrors.Write(w, http.StatusOK, res)
}

func (h *ProfileHandler) requireIdentity(w http.ResponseWriter, r *http.Request) (authsvc.Identity, bool) {
	if h.creators == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return authsvc.Identity{}, false
	}
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return authsvc.Identity{}, false
	}
	return identity, true
}

func handleCreatorsError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, creatorssvc.ErrInvalidInput):
		writeBadRequest(w, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, creatorssvc.ErrProfileNotFound):
		writeNotFound(w, "PROFILE_NOT_FOUND", "creator profile not found")
	case errors.Is(err, creatorssvc.ErrKYCPending):
		writeConflict(w, "KYC_PENDING", "kyc review is already pending")
	default:
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
	}
}

func profileResponse(rec pgrepo.CreatorProfileRecord) dto.CreatorProfileResponse {
	res := dto.CreatorProfileResponse{
		ID:         rec.ID,
		UserID:     rec.UserID,
		Gender:     rec.Gender,
		State:      rec.State,
		City:       rec.City,
		Pincode:    rec.Pincode,
		Bio:        rec.Bio,
		Categories: rec.Categories,
		Languages:  rec.Languages,
	}
	if rec.Birthdate != nil {
		res.Birthdate = rec.Birthdate.Format(birthdateLayout)
	}
	if res.Categories == nil {
		res.Categories = []string{}
	}
	if res.Languages == nil {
		res.Languages = []string{}
	}
	return res
}

func packageResponse(rec pgrepo.PackageRecord) dto.PackageResponse {
	return dto.PackageResponse{
		ID:          rec.ID,
		Platform:    rec.Platform,
		Title:       rec.Title,
		Description: rec.Description,
		Quantity:    rec.Quantity,
		Revisions:   rec.Revisions,
		Price:       rec.Price,
		Currency:    rec.Currency,
		Status:      rec.Status,
	}
}

func portfolioResponse(rec pgrepo.PortfolioRecord) dto.PortfolioItemResponse {
	return dto.PortfolioItemResponse{
		ID:        rec.ID,
		Title:     rec.Title,
		Kind:      rec.Kind,
		MediaURL:  rec.MediaURL,
		ObjectKey: rec.ObjectKey,
		Status:    rec.Status,
	}
}
