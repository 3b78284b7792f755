// Package ledgerclient is a Go client for the ledger HTTP API.
package ledgerclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction mirrors the API transaction representation.
type Transaction struct {
	ID        int64           `json:"id"`
	UserID    string          `json:"user_id"`
	Title     string          `json:"title"`
	Amount    decimal.Decimal `json:"amount"`
	Category  string          `json:"category"`
	CreatedAt string          `json:"created_at"`
}

type NewTransaction struct {
	UserID   string          `json:"user_id"`
	Title    string          `json:"title"`
	Amount   decimal.Decimal `json:"amount"`
	Category string          `json:"category"`
}

type Summary struct {
	Balance  decimal.Decimal `json:"balance"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
}

// APIError is a non-2xx response.
type APIError struct {
	StatusCode int
	Message    string   `json:"message"`
	Details    []string `json:"details"`
}

func (e *APIError) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("ledger api: %d %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("ledger api: %d %s (%s)", e.StatusCode, e.Message, strings.Join(e.Details, "; "))
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithToken sends the token as a bearer credential on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New creates a client for the API rooted at baseURL, for example
// "http://localhost:5001/api".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) CreateTransaction(ctx context.Context, input NewTransaction) (*Transaction, error) {
	var tx Transaction
	if err := c.do(ctx, http.MethodPost, "/transactions", input, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// ListUserTransactions returns the user's transactions, newest first. A user
// without transactions is reported as a 404 APIError.
func (c *Client) ListUserTransactions(ctx context.Context, userID string) ([]Transaction, error) {
	var txs []Transaction
	if err := c.do(ctx, http.MethodGet, "/transactions/"+url.PathEscape(userID), nil, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

func (c *Client) ListTransactions(ctx context.Context) ([]Transaction, error) {
	var txs []Transaction
	if err := c.do(ctx, http.MethodGet, "/transactions", nil, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

func (c *Client) DeleteTransaction(ctx context.Context, id int64) (*Transaction, error) {
	var resp struct {
		Message     string      `json:"message"`
		Transaction Transaction `json:"transaction"`
	}
	if err := c.do(ctx, http.MethodDelete, "/transactions/"+strconv.FormatInt(id, 10), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Transaction, nil
}

func (c *Client) Summary(ctx context.Context, userID string) (*Summary, error) {
	var summary Summary
	if err := c.do(ctx, http.MethodGet, "/transactions/summary/"+url.PathEscape(userID), nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		// A non-JSON error body still yields the status code.
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
