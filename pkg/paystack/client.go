package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/shopspring/decimal"

	"github.com/kasoahq/checkout-backend/pkg/config"
	"github.com/kasoahq/checkout-backend/pkg/logger"
)

var (
	errSecretKeyRequired = errors.New("paystack secret key is required")
	errInvalidSecretKey  = errors.New("paystack secret key must start with sk_test or sk_live")
)

// Client wraps the Paystack transaction API.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	secretKey   string
	trustedHost string
	maxRetries  uint64
}

// InitializeRequest starts a hosted payment session. All three fields are
// mandatory; validation happens before any network traffic.
type InitializeRequest struct {
	OrderID   string
	Amount    decimal.Decimal
	Email     string
	Reference string
}

// NewClient validates configuration and builds the Paystack client.
func NewClient(ctx context.Context, cfg config.PaystackConfig, logg *logger.Logger) (*Client, error) {
	secretKey := strings.TrimSpace(cfg.SecretKey)
	if secretKey == "" {
		return nil, errSecretKeyRequired
	}
	if !strings.HasPrefix(secretKey, "sk_test") && !strings.HasPrefix(secretKey, "sk_live") {
		return nil, errInvalidSecretKey
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.paystack.co"
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	if logg != nil {
		logg.Info(ctx, "paystack client initialized")
	}

	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     baseURL,
		secretKey:   secretKey,
		trustedHost: strings.ToLower(strings.TrimSpace(cfg.TrustedHost)),
		maxRetries:  uint64(max(cfg.MaxRetries, 0)),
	}, nil
}

// TrustedHost returns the provider domain redirect URLs must belong to.
func (c *Client) TrustedHost() string {
	if c == nil {
		return ""
	}
	return c.trustedHost
}

// Initialize creates a hosted payment session and returns the raw provider
// payload. The payload shape has drifted across provider API revisions, so the
// caller owns extraction of the redirect URL.
func (c *Client) Initialize(ctx context.Context, req InitializeRequest) (map[string]any, error) {
	if c == nil || c.httpClient == nil {
		return nil, errors.New("paystack client not initialized")
	}

	// Paystack expects the amount in pesewas.
	body := map[string]any{
		"email":  req.Email,
		"amount": req.Amount.Mul(decimal.NewFromInt(100)).IntPart(),
		"metadata": map[string]any{
			"order_id": req.OrderID,
		},
	}
	if req.Reference != "" {
		body["reference"] = req.Reference
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding initialize request: %w", err)
	}

	var result map[string]any
	backoff := retry.WithMaxRetries(c.maxRetries, retry.NewFibonacci(250*time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		decoded, attemptErr := c.post(ctx, "/transaction/initialize", payload)
		if attemptErr != nil {
			return attemptErr
		}
		result = decoded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) post(ctx context.Context, path string, payload []byte) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building paystack request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, retry.RetryableError(fmt.Errorf("calling paystack: %w", err))
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, retry.RetryableError(fmt.Errorf("paystack returned %d", resp.StatusCode))
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("paystack returned %d", resp.StatusCode)
	}

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decoding paystack response: %w", err)
	}
	return decoded, nil
}
