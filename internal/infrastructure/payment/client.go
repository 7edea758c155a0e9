package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var ErrMissingCredentials = errors.New("payment provider key pair is not configured")

// ProviderError is a non-2xx answer from the provider. The description
// is kept for logs; callers decide how much of it to surface.
type ProviderError struct {
	StatusCode  int    `json:"-"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider rejected order (status %d, code %q): %s", e.StatusCode, e.Code, e.Description)
}

// Order is the provider's order object. Fields the backend reads are
// typed; everything else rides along in Raw and is returned to callers
// verbatim.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`

	Raw json.RawMessage `json:"-"`
}

type OrderRequest struct {
	Amount   int64  `json:"amount"` // minor currency units
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type Config struct {
	KeyID     string
	KeySecret string
	BaseURL   string
	Timeout   time.Duration
}

// Client talks to a Razorpay-compatible orders API over basic auth.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// CreateOrder registers a pending payment with the provider. The call
// is bounded by the configured timeout on top of whatever deadline ctx
// already carries.
func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	if c.cfg.KeyID == "" || c.cfg.KeySecret == "" {
		return nil, ErrMissingCredentials
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode order request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build order request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(c.cfg.KeyID, c.cfg.KeySecret)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("order request failed: %w", err)
	}
	defer resp.Body.Close()

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode provider response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeProviderError(resp.StatusCode, raw)
	}

	var order Order
	if err := json.Unmarshal(raw, &order); err != nil {
		return nil, fmt.Errorf("failed to decode order: %w", err)
	}
	order.Raw = raw

	return &order, nil
}

func decodeProviderError(status int, raw json.RawMessage) error {
	// Razorpay wraps failures as {"error": {"code": ..., "description": ...}}
	var wrapper struct {
		Error ProviderError `json:"error"`
	}
	if err := json.Unmarshal(raw, &wrapper); err != nil || wrapper.Error.Description == "" {
		return &ProviderError{StatusCode: status, Description: string(raw)}
	}

	wrapper.Error.StatusCode = status
	return &wrapper.Error
}
