package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	authsvc "github.com/kana-2024/influmojo-backend/internal/services/auth"
	verificationsvc "github.com/kana-2024/influmojo-backend/internal/services/verification"
	"github.com/kana-2024/influmojo-backend/internal/transport/http/dto"
	httperrors "github.com/kana-2024/influmojo-backend/internal/transport/http/errors"
)

type AuthHandler struct {
	auth         *authsvc.Service
	verification *verificationsvc.Service
}

func NewAuthHandler(auth *authsvc.Service, verification *verificationsvc.Service) *AuthHandler {
	return &AuthHandler{
		auth:         auth,
		verification: verification,
	}
}

func (h *AuthHandler) GoogleMobile(w http.ResponseWriter, r *http.Request) {
	if h.auth == nil {
		writeInternal(w, "AUTH_SERVICE_UNAVAILABLE", "auth service is unavailable")
		return
	}

	var req dto.GoogleMobileAuthRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	res, err := h.auth.LoginGoogle(r.Context(), req.IDToken)
	if err != nil {
		handleAuthError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, authResponse(res))
}

func (h *AuthHandler) SendPhoneCode(w http.ResponseWriter, r *http.Request) {
	if h.verification == nil {
		writeInternal(w, "VERIFICATION_SERVICE_UNAVAILABLE", "verification service is unavailable")
		return
	}

	var req dto.SendPhoneCodeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	res, err := h.verification.RequestCode(r.Context(), req.Phone)
	if err != nil {
		handleVerificationError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.SendPhoneCodeResponse{
		Success:   true,
		Phone:     req.Phone,
		ExpiresAt: res.ExpiresAt,
	})
}

func (h *AuthHandler) VerifyPhoneCode(w http.ResponseWriter, r *http.Request) {
	if h.verification == nil {
		writeInternal(w, "VERIFICATION_SERVICE_UNAVAILABLE", "verification service is unavailable")
		return
	}

	var req dto.VerifyPhoneCodeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	res, err := h.verification.VerifyCode(r.Context(), req.Phone, req.Code, req.FullName)
	if err != nil {
		handleVerificationError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, authResponse(res))
}

func (h *AuthHandler) UpdateName(w http.ResponseWriter, r *http.Request) {
	if h.auth == nil {
		writeInternal(w, "AUTH_SERVICE_UNAVAILABLE", "auth service is unavailable")
		return
	}
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	var req dto.UpdateNameRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	user, err := h.auth.UpdateName(r.Context(), identity.UserID, req.Name)
	if err != nil {
		handleAuthError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.UserProfileResponse{User: userResponse(user)})
}

func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	if h.auth == nil {
		writeInternal(w, "AUTH_SERVICE_UNAVAILABLE", "auth service is unavailable")
		return
	}
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	user, err := h.auth.Profile(r.Context(), identity.UserID)
	if err != nil {
		handleAuthError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.UserProfileResponse{User: userResponse(user)})
}

func handleAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, authsvc.ErrInvalidInput):
		writeBadRequest(w, "VALIDATION_ERROR", "request validation failed")
	case errors.Is(err, authsvc.ErrUnauthorized):
		writeUnauthorized(w, "UNAUTHORIZED", "authentication failed")
	case errors.Is(err, authsvc.ErrUserNotFound):
		writeNotFound(w, "USER_NOT_FOUND", "user not found")
	default:
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
	}
}

func handleVerificationError(w http.ResponseWriter, err error) {
	var cooldown *verificationsvc.CooldownError
	if errors.As(err, &cooldown) {
		httperrors.Write(w, http.StatusTooManyRequests, httperrors.RateLimitError{
			Code:          "COOLDOWN_ACTIVE",
			Message:       "verification code was sent recently, try again later",
			RetryAfterSec: retryAfterSec(cooldown.RetryAfter),
		})
		return
	}
	var limited *verificationsvc.AttemptsError
	if errors.As(err, &limited) {
		httperrors.Write(w, http.StatusTooManyRequests, httperrors.RateLimitError{
			Code:          "TOO_MANY_ATTEMPTS",
			Message:       "too many verification attempts, try again later",
			RetryAfterSec: retryAfterSec(limited.RetryAfter),
		})
		return
	}

	switch {
	case errors.Is(err, verificationsvc.ErrInvalidPhone):
		writeBadRequest(w, "VALIDATION_ERROR", "phone must be in E.164 format")
	case errors.Is(err, verificationsvc.ErrInvalidCode):
		writeBadRequest(w, "VALIDATION_ERROR", "code must be 6 digits")
	case errors.Is(err, verificationsvc.ErrCodeMismatch):
		writeBadRequest(w, "INVALID_CODE", "verification code is invalid or expired")
	default:
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
	}
}

func authResponse(res authsvc.AuthResult) dto.AuthResponse {
	return dto.AuthResponse{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
		User:      userResponse(res.User),
	}
}

func userResponse(user authsvc.User) dto.UserResponse {
	return dto.UserResponse{
		ID:            user.ID,
		Email:         user.Email,
		Phone:         user.Phone,
		Name:          user.Name,
		AvatarURL:     user.AvatarURL,
		AuthProvider:  user.Provider,
		PhoneVerified: user.PhoneVerified,
		EmailVerified: user.EmailVerified,
		UserType:      user.UserType,
		Status:        user.Status,
		LastLoginAt:   user.LastLoginAt,
	}
}

func decodeJSON(r *http.Request, target any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

func writeBadRequest(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusBadRequest, httperrors.APIError{Code: code, Message: message})
}

func writeUnauthorized(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusUnauthorized, httperrors.APIError{Code: code, Message: message})
}

func writeNotFound(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusNotFound, httperrors.APIError{Code: code, Message: message})
}

func writeConflict(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusConflict, httperrors.APIError{Code: code, Message: message})
}

func writeInternal(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusInternalServerError, httperrors.APIError{Code: code, Message: message})
}

func retryAfterSec(d time.Duration) int64 {
	sec := int64(d.Seconds())
	if sec < 1 {
		sec = 1
	}
	return sec
}
