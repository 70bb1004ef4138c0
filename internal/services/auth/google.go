package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const defaultTokenInfoEndpoint = "https://oauth2.googleapis.com/tokeninfo"

// GoogleVerifier validates Google id tokens against the tokeninfo endpoint
// and checks the audience matches the configured client id.
type GoogleVerifier struct {
	audience   string
	endpoint   string
	httpClient *http.Client
}

func NewGoogleVerifier(audience string, httpClient *http.Client) *GoogleVerifier {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &GoogleVerifier{
		audience:   strings.TrimSpace(audience),
		endpoint:   defaultTokenInfoEndpoint,
		httpClient: httpClient,
	}
}

// WithEndpoint overrides the tokeninfo endpoint. Used by tests.
func (v *GoogleVerifier) WithEndpoint(endpoint string) *GoogleVerifier {
	if strings.TrimSpace(endpoint) != "" {
		v.endpoint = endpoint
	}
	return v
}

func (v *GoogleVerifier) Verify(ctx context.Context, idToken string) (GoogleIdentity, error) {
	if strings.TrimSpace(idToken) == "" {
		return GoogleIdentity{}, ErrInvalidInput
	}
	if v.audience == "" {
		return GoogleIdentity{}, fmt.Errorf("google client id is not configured")
	}

	endpoint := v.endpoint + "?id_token=" + url.QueryEscape(idToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return GoogleIdentity{}, fmt.Errorf("create tokeninfo request: %w", err)
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return GoogleIdentity{}, fmt.Errorf("call tokeninfo endpoint: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return GoogleIdentity{}, ErrUnauthorized
	}

	var payload struct {
		Aud           string `json:"aud"`
		Sub           string `json:"sub"`
		Email         string `json:"email"`
		EmailVerified string `json:"email_verified"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return GoogleIdentity{}, fmt.Errorf("decode tokeninfo response: %w", err)
	}

	if payload.Aud != v.audience {
		return GoogleIdentity{}, ErrUnauthorized
	}
	if payload.Email == "" || payload.EmailVerified != "true" {
		return GoogleIdentity{}, ErrUnauthorized
	}
	if payload.Sub == "" {
		return GoogleIdentity{}, ErrUnauthorized
	}

	return GoogleIdentity{
		Subject: payload.Sub,
		Email:   payload.Email,
		Name:    payload.Name,
		Picture: payload.Picture,
	}, nil
}
