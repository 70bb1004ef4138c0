package dto

import "time"

type GoogleMobileAuthRequest struct {
	IDToken string `json:"idToken"`
}

type SendPhoneCodeRequest struct {
	Phone string `json:"phone"`
}

type SendPhoneCodeResponse struct {
	Success   bool      `json:"success"`
	Phone     string    `json:"phone"`
	ExpiresAt time.Time `json:"expires_at"`
}

type VerifyPhoneCodeRequest struct {
	Phone    string `json:"phone"`
	Code     string `json:"code"`
	FullName string `json:"fullName,omitempty"`
}

type UpdateNameRequest struct {
	Name string `json:"name"`
}

type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

type UserResponse struct {
	ID            int64      `json:"id"`
	Email         string     `json:"email,omitempty"`
	Phone         string     `json:"phone,omitempty"`
	Name          string     `json:"name"`
	AvatarURL     string     `json:"avatar_url,omitempty"`
	AuthProvider  string     `json:"auth_provider"`
	PhoneVerified bool       `json:"phone_verified"`
	EmailVerified bool       `json:"email_verified"`
	UserType      string     `json:"user_type"`
	Status        string     `json:"status"`
	LastLoginAt   *time.Time `json:"last_login_at,omitempty"`
}

type UserProfileResponse struct {
	User UserResponse `json:"user"`
}
