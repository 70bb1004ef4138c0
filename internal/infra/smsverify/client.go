package smsverify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// DecisionApproved is the provider verdict that completes a verification.
// Any other decision string is an explicit rejection.
const DecisionApproved = "approved"

type Config struct {
	AccountID  string
	AuthSecret string
	ServiceID  string
	BaseURL    string
}

// Client wraps the external SMS verification API. Two operations: start a
// verification for a phone number, and check a code the user submitted.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

func NewClient(cfg Config, httpClient *http.Client) (*Client, error) {
	if cfg.AccountID == "" || cfg.AuthSecret == "" || cfg.ServiceID == "" {
		return nil, fmt.Errorf("sms verification credentials are incomplete")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("sms verification base url is required")
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
	}, nil
}

func (c *Client) Start(ctx context.Context, phone string) error {
	if strings.TrimSpace(phone) == "" {
		return fmt.Errorf("phone is required")
	}

	form := url.Values{}
	form.Set("To", phone)
	form.Set("Channel", "sms")

	body, status, err := c.post(ctx, c.endpoint("Verifications"), form)
	if err != nil {
		return fmt.Errorf("start verification: %w", err)
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("start verification: provider status %d: %s", status, truncate(body))
	}

	return nil
}

// Check submits a code and returns the provider decision string. A returned
// decision is authoritative even when it is not "approved"; an error means
// the provider could not be consulted (transport failure, rate limiting,
// unexpected status) and the caller may fall back to local verification.
func (c *Client) Check(ctx context.Context, phone, code string) (string, error) {
	if strings.TrimSpace(phone) == "" || strings.TrimSpace(code) == "" {
		return "", fmt.Errorf("phone and code are required")
	}

	form := url.Values{}
	form.Set("To", phone)
	form.Set("Code", code)

	body, status, err := c.post(ctx, c.endpoint("VerificationCheck"), form)
	if err != nil {
		return "", fmt.Errorf("check verification: %w", err)
	}
	if status < 200 || status >= 300 {
		return "", fmt.Errorf("check verification: provider status %d: %s", status, truncate(body))
	}

	var payload struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("decode verification check response: %w", err)
	}
	if strings.TrimSpace(payload.Status) == "" {
		return "", fmt.Errorf("verification check response has no status")
	}

	return payload.Status, nil
}

func (c *Client) post(ctx context.Context, endpoint string, form url.Values) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, 0, fmt.Errorf("create provider request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.cfg.AccountID, c.cfg.AuthSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("call provider: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return nil, 0, fmt.Errorf("read provider response: %w", err)
	}

	return body, resp.StatusCode, nil
}

func (c *Client) endpoint(op string) string {
	return strings.TrimRight(c.cfg.BaseURL, "/") + "/Services/" + c.cfg.ServiceID + "/" + op
}

func truncate(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		return s[:200]
	}
	return s
}
