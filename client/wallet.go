package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/shopspring/decimal"
)

// Wallet is one configured wallet as reported by the panel server.
type Wallet struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Shifts []string `json:"shifts,omitempty"`
}

// Transaction is one normalized transaction as reported by the panel.
type Transaction struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Amount         decimal.Decimal `json:"amount"`
	Identification string          `json:"identification"`
	OccurredAt     *time.Time      `json:"occurred_at"`
}

// Page is a page of incoming transactions.
type Page struct {
	Transactions []Transaction `json:"transactions"`
	Page         int           `json:"page"`
	TotalPages   int           `json:"total_pages"`
}

// OutflowSummary is the itemized outgoing view with its total.
type OutflowSummary struct {
	Outflows    []Transaction   `json:"outflows"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// Balance is the provider account balance passthrough.
type Balance struct {
	TotalAmount        decimal.Decimal `json:"total_amount"`
	AvailableBalance   decimal.Decimal `json:"available_balance"`
	UnavailableBalance decimal.Decimal `json:"unavailable_balance"`
}

// Client is the HTTP client for the wallet panel API. The session
// cookie issued at login is held in the client's cookie jar.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new panel API client. If httpClient is nil a
// default client with a cookie jar and 30s timeout is used.
func NewClient(baseURL string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		jar, _ := cookiejar.New(nil)
		httpClient = &http.Client{Timeout: 30 * time.Second, Jar: jar}
	}
	if httpClient.Jar == nil {
		jar, _ := cookiejar.New(nil)
		httpClient.Jar = jar
	}
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Login authenticates against the panel and stores the session cookie.
func (c *Client) Login(ctx context.Context, username, password string) error {
	body := map[string]string{"username": username, "password": password}
	var resp struct {
		Message string `json:"message"`
	}
	if err := c.post(ctx, "/api/v1/auth/login", body, &resp); err != nil {
		return err
	}
	c.logger.Debug("logged in", "username", username)
	return nil
}

// Wallets lists the configured wallets.
func (c *Client) Wallets(ctx context.Context) ([]Wallet, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/api/v1/wallets", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseErrorResponse(resp)
	}

	var response struct {
		Wallets []Wallet `json:"wallets"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return response.Wallets, nil
}

// Incoming fetches one page of incoming transactions for a wallet.
func (c *Client) Incoming(ctx context.Context, walletID, date, shift string, page int) (*Page, error) {
	body := map[string]interface{}{
		"wallet_id": walletID,
		"date":      date,
		"shift":     shift,
		"page":      page,
	}
	var result Page
	if err := c.post(ctx, "/api/v1/transactions", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Outflows fetches the outgoing transactions and total for a wallet.
func (c *Client) Outflows(ctx context.Context, walletID, date, shift string) (*OutflowSummary, error) {
	body := map[string]interface{}{
		"wallet_id": walletID,
		"date":      date,
		"shift":     shift,
	}
	var result OutflowSummary
	if err := c.post(ctx, "/api/v1/outflows", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Balance fetches the provider account balance for a wallet.
func (c *Client) Balance(ctx context.Context, walletID string) (*Balance, error) {
	body := map[string]interface{}{"wallet_id": walletID}
	var result Balance
	if err := c.post(ctx, "/api/v1/balance", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Health checks the server's health endpoint.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed with status %d", resp.StatusCode)
	}
	return nil
}

// post sends a JSON body and decodes the JSON response into out.
func (c *Client) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.parseErrorResponse(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// parseErrorResponse attempts to parse an error response from the server.
func (c *Client) parseErrorResponse(resp *http.Response) error {
	var errResp struct {
		Error string `json:"error"`
	}

	body, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Error == "" {
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
	}

	return fmt.Errorf("request failed: %s", errResp.Error)
}
