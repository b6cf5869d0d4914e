package ordersapi

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

	"github.com/kasoahq/checkout-backend/pkg/config"
	"github.com/kasoahq/checkout-backend/pkg/logger"
)

// Client calls the orders platform that actually owns order records. Its
// response envelope differs between deployments and API revisions, so order
// payloads come back as untyped JSON and the caller owns extraction.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	maxRetries uint64
}

// NewClient builds an orders platform client from configuration.
func NewClient(ctx context.Context, cfg config.OrdersAPIConfig, logg *logger.Logger) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("orders api base url is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	if logg != nil {
		logg.Info(ctx, "orders api client initialized")
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		maxRetries: uint64(max(cfg.MaxRetries, 0)),
	}, nil
}

// CreateOrder posts a draft and returns the raw response payload.
//
// Only transport failures and 5xx responses are retried, and every attempt
// carries the same idempotency key so a retry can never create a second order.
func (c *Client) CreateOrder(ctx context.Context, authToken, idempotencyKey string, draft any) (map[string]any, error) {
	if c == nil || c.httpClient == nil {
		return nil, errors.New("orders api client not initialized")
	}

	payload, err := json.Marshal(draft)
	if err != nil {
		return nil, fmt.Errorf("encoding order draft: %w", err)
	}

	var result map[string]any
	backoff := retry.WithMaxRetries(c.maxRetries, retry.NewFibonacci(300*time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		decoded, attemptErr := c.post(ctx, "/orders", authToken, idempotencyKey, payload)
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

func (c *Client) post(ctx context.Context, path, authToken, idempotencyKey string, payload []byte) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building orders request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}
	if idempotencyKey != "" {
		req.Header.Set("X-Idempotency-Key", idempotencyKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, retry.RetryableError(fmt.Errorf("calling orders api: %w", err))
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, retry.RetryableError(fmt.Errorf("orders api returned %d", resp.StatusCode))
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("orders api returned %d", resp.StatusCode)
	}

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decoding orders response: %w", err)
	}
	return decoded, nil
}
