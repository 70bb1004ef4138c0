package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	pgrepo "github.com/kana-2024/influmojo-backend/internal/repo/postgres"
	authsvc "github.com/kana-2024/influmojo-backend/internal/services/auth"
	verificationsvc "github.com/kana-2024/influmojo-backend/internal/services/verification"
)

const testPhone = "+919876543210"

func TestSendPhoneCode(t *testing.T) {
	h, store := newAuthTestHandler(t)

	rr := postJSON(t, h.SendPhoneCode, `{"phone":"+919876543210"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	var res struct {
		Success bool   `json:"success"`
		Phone   string `json:"phone"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !res.Success || res.Phone != testPhone {
		t.Fatalf("unexpected response: %+v", res)
	}
	if store.latestCode(testPhone) == "" {
		t.Fatalf("no code persisted")
	}
}

func TestSendPhoneCodeCooldownIs429(t *testing.T) {
	h, _ := newAuthTestHandler(t)

	if rr := postJSON(t, h.SendPhoneCode, `{"phone":"+919876543210"}`); rr.Code != http.StatusOK {
		t.Fatalf("first send: %d", rr.Code)
	}

	rr := postJSON(t, h.SendPhoneCode, `{"phone":"+919876543210"}`)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusTooManyRequests)
	}

	var res struct {
		Code          string `json:"code"`
		RetryAfterSec int64  `json:"retry_after_sec"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.Code != "COOLDOWN_ACTIVE" || res.RetryAfterSec < 1 {
		t.Fatalf("unexpected rate limit payload: %+v", res)
	}
}

func TestSendPhoneCodeRejectsBadPhone(t *testing.T) {
	h, _ := newAuthTestHandler(t)

	rr := postJSON(t, h.SendPhoneCode, `{"phone":"12345"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestSendPhoneCodeRejectsUnknownFields(t *testing.T) {
	h, _ := newAuthTestHandler(t)

	rr := postJSON(t, h.SendPhoneCode, `{"phone":"+919876543210","channel":"call"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unknown field must be rejected: got %d", rr.Code)
	}
}

func TestVerifyPhoneCode(t *testing.T) {
	h, store := newAuthTestHandler(t)

	if rr := postJSON(t, h.SendPhoneCode, `{"phone":"+919876543210"}`); rr.Code != http.StatusOK {
		t.Fatalf("send: %d", rr.Code)
	}
	code := store.latestCode(testPhone)

	rr := postJSON(t, h.VerifyPhoneCode, `{"phone":"+919876543210","code":"`+code+`","fullName":"Asha"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	var res struct {
		Token string `json:"token"`
		User  struct {
			Phone         string `json:"phone"`
			PhoneVerified bool   `json:"phone_verified"`
		} `json:"user"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.Token == "" {
		t.Fatalf("no session token in response")
	}
	if res.User.Phone != testPhone || !res.User.PhoneVerified {
		t.Fatalf("unexpected user payload: %+v", res.User)
	}
}

func TestVerifyPhoneCodeWrongCodeIs400(t *testing.T) {
	h, _ := newAuthTestHandler(t)

	if rr := postJSON(t, h.SendPhoneCode, `{"phone":"+919876543210"}`); rr.Code != http.StatusOK {
		t.Fatalf("send: %d", rr.Code)
	}

	rr := postJSON(t, h.VerifyPhoneCode, `{"phone":"+919876543210","code":"000000"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusBadRequest)
	}

	var res struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.Code != "INVALID_CODE" {
		t.Fatalf("unexpected error code: %q", res.Code)
	}
}

func TestProfileRequiresIdentity(t *testing.T) {
	h, _ := newAuthTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil)
	rr := httptest.NewRecorder()
	h.Profile(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestUpdateName(t *testing.T) {
	h, store := newAuthTestHandler(t)
	user, _ := store.GetOrCreateByPhone(context.Background(), testPhone, "Asha")

	req := httptest.NewRequest(http.MethodPost, "/api/auth/update-name", strings.NewReader(`{"name":"New Name"}`))
	req = req.WithContext(authsvc.WithIdentity(req.Context(), authsvc.Identity{UserID: user.ID}))
	rr := httptest.NewRecorder()
	h.UpdateName(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	var res struct {
		User struct {
			Name string `json:"name"`
		} `json:"user"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.User.Name != "New Name" {
		t.Fatalf("name not updated: %q", res.User.Name)
	}
}

func newAuthTestHandler(t *testing.T) (*AuthHandler, *verificationFixture) {
	t.Helper()

	fixture := newVerificationFixture()
	authService := authsvc.NewService(authsvc.NewJWTManager("test-secret", time.Hour), fixture, nil)
	verificationService := verificationsvc.NewService(verificationsvc.Config{
		SendCooldown:     time.Minute,
		CodeTTL:          10 * time.Minute,
		MaxCheckAttempts: 5,
		CheckWindow:      10 * time.Minute,
	}, fixture, fixture, nil, nil, authService, nil)

	return NewAuthHandler(authService, verificationService), fixture
}

func postJSON(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

// verificationFixture backs both the verification flow and the user store so
// handler tests run against the full send/verify sequence in memory.
type verificationFixture struct {
	mu     sync.Mutex
	rows   []verificationRow
	users  map[string]pgrepo.UserRecord
	byID   map[int64]pgrepo.UserRecord
	nextID int64
}

type verificationRow struct {
	phone      string
	code       string
	createdAt  time.Time
	expiresAt  time.Time
	verifiedAt *time.Time
}

func newVerificationFixture() *verificationFixture {
	return &verificationFixture{
		users: map[string]pgrepo.UserRecord{},
		byID:  map[int64]pgrepo.UserRecord{},
	}
}

func (f *verificationFixture) Create(_ context.Context, phone, code, _ string, createdAt, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = append(f.rows, verificationRow{phone: phone, code: code, createdAt: createdAt, expiresAt: expiresAt})
	return nil
}

func (f *verificationFixture) LatestCreatedAt(_ context.Context, phone string) (time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].phone == phone {
			return f.rows[i].createdAt, nil
		}
	}
	return time.Time{}, pgrepo.ErrVerificationNotFound
}

func (f *verificationFixture) ConsumeActive(_ context.Context, phone, code string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.rows) - 1; i >= 0; i-- {
		row := &f.rows[i]
		if row.phone == phone && row.code == code && row.expiresAt.After(at) && row.verifiedAt == nil {
			row.verifiedAt = &at
			return nil
		}
	}
	return pgrepo.ErrVerificationNotFound
}

func (f *verificationFixture) latestCode(phone string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].phone == phone {
			return f.rows[i].code
		}
	}
	return ""
}

func (f *verificationFixture) GetOrCreateByPhone(_ context.Context, phone, fullName string) (pgrepo.UserRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if record, ok := f.users[phone]; ok {
		return record, nil
	}

	f.nextID++
	name := fullName
	if name == "" {
		name = "User"
	}
	record := pgrepo.UserRecord{
		ID:            f.nextID,
		Phone:         &phone,
		Name:          name,
		AuthProvider:  "phone",
		PhoneVerified: true,
		UserType:      "creator",
		Status:        "active",
	}
	f.users[phone] = record
	f.byID[record.ID] = record
	return record, nil
}

func (f *verificationFixture) GetByID(_ context.Context, userID int64) (pgrepo.UserRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if record, ok := f.byID[userID]; ok {
		return record, nil
	}
	return pgrepo.UserRecord{}, pgrepo.ErrUserNotFound
}

func (f *verificationFixture) GetOrCreateByEmail(_ context.Context, email, fullName, _ string) (pgrepo.UserRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	record := pgrepo.UserRecord{ID: f.nextID, Email: &email, Name: fullName, AuthProvider: "google", EmailVerified: true, UserType: "creator", Status: "active"}
	f.byID[record.ID] = record
	return record, nil
}

func (f *verificationFixture) UpdateName(_ context.Context, userID int64, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.byID[userID]
	if !ok {
		return pgrepo.ErrUserNotFound
	}
	record.Name = name
	f.byID[userID] = record
	if record.Phone != nil {
		f.users[*record.Phone] = record
	}
	return nil
}
