package momo

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/SparkJorel/payment-api-paynote/internal/apperrors"
)

// TokenCache holds the one bearer token the client reuses until near expiry.
// A race between two refreshes only costs a duplicate fetch; tokens are
// fungible.
type TokenCache struct {
	mu     sync.RWMutex
	token  string
	expiry time.Time
	now    func() time.Time
}

func NewTokenCache(now func() time.Time) *TokenCache {
	if now == nil {
		now = time.Now
	}
	return &TokenCache{now: now}
}

func (tc *TokenCache) Get() (string, bool) {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	if tc.token != "" && tc.now().Before(tc.expiry) {
		return tc.token, true
	}
	return "", false
}

// Set stores a token, shaving 60 seconds off its lifetime so it is refreshed
// before the gateway rejects it.
func (tc *TokenCache) Set(token string, expiresIn int) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.token = token
	tc.expiry = tc.now().Add(time.Duration(expiresIn-60) * time.Second)
}

func (tc *TokenCache) Clear() {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.token = ""
	tc.expiry = time.Time{}
}

type Config struct {
	BaseURL      string
	TokenURL     string
	ClientID     string
	ClientSecret string
	CallbackURL  string
	Timeout      time.Duration
}

// Client talks to the Y-Note payment gateway: client-credentials token
// exchange, payment submission and status queries.
type Client struct {
	cfg    Config
	http   *http.Client
	tokens *TokenCache
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		tokens: NewTokenCache(nil),
	}
}

// NewClientWithClock is used by tests that need a deterministic token expiry.
func NewClientWithClock(cfg Config, now func() time.Time) *Client {
	c := NewClient(cfg)
	c.tokens = NewTokenCache(now)
	return c
}

type PaymentRequest struct {
	ReferenceID  string
	Amount       int64
	Currency     string
	Msisdn       string
	PayerMessage string
}

// RequestToPay submits a payment request and returns the raw vendor
// response. The vendor can report its own errorCode even under HTTP 200;
// codes 200 and 201 are non-errors, everything else is surfaced as an
// upstream failure carrying the code.
func (c *Client) RequestToPay(ctx context.Context, req PaymentRequest) (map[string]interface{}, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	body := map[string]interface{}{
		"orderId":          req.ReferenceID,
		"amount":           strconv.FormatInt(req.Amount, 10),
		"currency":         req.Currency,
		"subscriberMsisdn": req.Msisdn,
		"description":      req.PayerMessage,
		"notifUrl":         c.cfg.CallbackURL,
	}
	reqBody, err := json.Marshal(body)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to marshal payment request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.cfg.BaseURL+"/ecommerce/payment", bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to create payment request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)

	return c.do(httpReq)
}

// PaymentStatus re-queries the gateway for the current status of a payment.
func (c *Client) PaymentStatus(ctx context.Context, referenceID string) (map[string]interface{}, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, "GET", c.cfg.BaseURL+"/ecommerce/payment/"+url.PathEscape(referenceID), nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to create status request")
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)

	return c.do(httpReq)
}

func (c *Client) do(req *http.Request) (map[string]interface{}, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindUpstream, err, "gateway request failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindUpstream, err, "failed to read gateway response")
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, apperrors.Newf(apperrors.KindUpstream, "gateway returned status %d: %s", resp.StatusCode, truncate(string(raw), 256))
		}
		return nil, apperrors.Wrap(apperrors.KindUpstream, err, "failed to decode gateway response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return payload, apperrors.Newf(apperrors.KindUpstream, "gateway returned status %d: %s", resp.StatusCode, truncate(string(raw), 256))
	}

	if err := vendorError(payload); err != nil {
		return payload, err
	}
	return payload, nil
}

// vendorError checks the embedded errorCode. 200 and 201 come back on
// successful submissions even when the body carries an error-shaped envelope,
// so they are deliberately treated as non-errors.
func vendorError(payload map[string]interface{}) error {
	code, ok := vendorErrorCode(payload)
	if !ok || code == "200" || code == "201" {
		return nil
	}
	msg := ""
	for _, scope := range scopes(payload) {
		for _, key := range []string{"message", "error", "description"} {
			if msg == "" {
				msg = asString(scope[key])
			}
		}
	}
	return apperrors.Newf(apperrors.KindUpstream, "gateway error code %s: %s", code, msg)
}

func vendorErrorCode(payload map[string]interface{}) (string, bool) {
	for _, scope := range scopes(payload) {
		if v, ok := scope["errorCode"]; ok {
			if s := asString(v); s != "" {
				return s, true
			}
		}
	}
	return "", false
}

func (c *Client) accessToken(ctx context.Context) (string, error) {
	if token, ok := c.tokens.Get(); ok {
		return token, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, "POST", c.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", apperrors.Wrap(apperrors.KindInternal, err, "failed to create token request")
	}
	auth := base64.StdEncoding.EncodeToString([]byte(c.cfg.ClientID + ":" + c.cfg.ClientSecret))
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", apperrors.Wrap(apperrors.KindUpstream, err, "token request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperrors.Wrap(apperrors.KindUpstream, err, "failed to read token response")
	}
	if resp.StatusCode != http.StatusOK {
		return "", apperrors.Newf(apperrors.KindUpstream, "token request failed with status %d: %s", resp.StatusCode, truncate(string(body), 256))
	}

	var result struct {
		AccessToken string      `json:"access_token"`
		ExpiresIn   interface{} `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", apperrors.Wrap(apperrors.KindUpstream, err, "failed to decode token response")
	}
	if result.AccessToken == "" {
		return "", apperrors.New(apperrors.KindUpstream, "access token not found in response")
	}

	expiresIn := 3600
	switch v := result.ExpiresIn.(type) {
	case float64:
		expiresIn = int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			expiresIn = n
		}
	}

	c.tokens.Set(result.AccessToken, expiresIn)
	log.Printf("Fetched new gateway access token, expires in %ds", expiresIn)
	return result.AccessToken, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
