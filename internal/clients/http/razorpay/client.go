package razorpay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the public Razorpay API endpoint.
const DefaultBaseURL = "https://api.razorpay.com"

// maxErrorBody bounds how much of a failed response is read for diagnostics.
const maxErrorBody = 64 << 10

// HTTPRequestDoer performs HTTP requests.
type HTTPRequestDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// RequestEditorFn can mutate a request before it is sent.
type RequestEditorFn func(ctx context.Context, req *http.Request) error

// OrderRequest is the body of POST /v1/orders. Amount is in the currency's minor unit.
type OrderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt,omitempty"`
	Notes    map[string]string `json:"notes,omitempty"`
}

// Order is the provider representation of an order.
type Order struct {
	ID         string            `json:"id"`
	Entity     string            `json:"entity"`
	Amount     int64             `json:"amount"`
	AmountPaid int64             `json:"amount_paid"`
	AmountDue  int64             `json:"amount_due"`
	Currency   string            `json:"currency"`
	Receipt    string            `json:"receipt"`
	Status     string            `json:"status"`
	Attempts   int               `json:"attempts"`
	Notes      map[string]string `json:"notes,omitempty"`
	CreatedAt  int64             `json:"created_at"`
}

// ErrorBody is the error envelope returned on non-2xx responses.
type ErrorBody struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
		Source      string `json:"source,omitempty"`
		Step        string `json:"step,omitempty"`
		Reason      string `json:"reason,omitempty"`
		Field       string `json:"field,omitempty"`
	} `json:"error"`
}

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode  int
	Code        string
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("razorpay API error: %d %s: %s", e.StatusCode, e.Code, e.Description)
}

// Client talks to the Razorpay orders API with key id / key secret basic auth.
type Client struct {
	baseURL   *url.URL
	keyID     string
	keySecret string
	doer      HTTPRequestDoer
	editors   []RequestEditorFn
}

// ClientOption customises the client.
type ClientOption func(*Client)

// WithHTTPClient overrides the HTTP transport.
func WithHTTPClient(doer HTTPRequestDoer) ClientOption {
	return func(c *Client) {
		if doer != nil {
			c.doer = doer
		}
	}
}

// WithRequestEditorFn appends a request editor, for example to propagate trace headers.
func WithRequestEditorFn(fn RequestEditorFn) ClientOption {
	return func(c *Client) {
		if fn != nil {
			c.editors = append(c.editors, fn)
		}
	}
}

// NewClient instantiates the client with sane defaults.
func NewClient(baseURL, keyID, keySecret string, opts ...ClientOption) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse razorpay base URL: %w", err)
	}
	if strings.TrimSpace(keyID) == "" || strings.TrimSpace(keySecret) == "" {
		return nil, errors.New("razorpay key id and secret are required")
	}
	c := &Client{
		baseURL:   parsed,
		keyID:     keyID,
		keySecret: keySecret,
		doer:      &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// CreateOrder opens a new order.
func (c *Client) CreateOrder(ctx context.Context, body OrderRequest) (*Order, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode order request: %w", err)
	}
	var order Order
	if err := c.do(ctx, http.MethodPost, "/v1/orders", bytes.NewReader(payload), &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// FetchOrder reads an order by id.
func (c *Client) FetchOrder(ctx context.Context, id string) (*Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("razorpay order id is required")
	}
	var order Order
	if err := c.do(ctx, http.MethodGet, "/v1/orders/"+url.PathEscape(id), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	if c == nil || c.doer == nil {
		return errors.New("razorpay client not configured")
	}
	endpoint := c.baseURL.JoinPath(path)
	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), body)
	if err != nil {
		return fmt.Errorf("build razorpay request: %w", err)
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, edit := range c.editors {
		if err := edit(ctx, req); err != nil {
			return err
		}
	}

	resp, err := c.doer.Do(req)
	if err != nil {
		return fmt.Errorf("call razorpay API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode razorpay response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, Description: resp.Status}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var envelope ErrorBody
	if len(raw) > 0 && json.Unmarshal(raw, &envelope) == nil {
		if code := strings.TrimSpace(envelope.Error.Code); code != "" {
			apiErr.Code = code
		}
		if desc := strings.TrimSpace(envelope.Error.Description); desc != "" {
			apiErr.Description = desc
		}
	}
	return apiErr
}
