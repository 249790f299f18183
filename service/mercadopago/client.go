package mercadopago

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/AleeCode25/panel-billeteras/service/metrics"
)

// DefaultBaseURL is the production MercadoPago API host.
const DefaultBaseURL = "https://api.mercadopago.com"

// searchLimit caps how many payments a single search returns. The
// provider boundary truncates, it does not paginate: classification only
// ever sees up to this many records for a given window.
const searchLimit = 200

// HTTPDoer is the subset of http.Client the adapter needs.
// This allows us to swap the transport in tests without a live API.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client issues authenticated requests against the MercadoPago API.
// It wraps the HTTP transport with the two domain operations the panel
// needs: a bounded payment search and a balance lookup.
type Client struct {
	http    HTTPDoer
	baseURL string
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewClient creates a MercadoPago API client. If httpClient is nil a
// default client with a 30s timeout is used. If m is nil, no metrics
// are recorded. A nil logger discards log output.
func NewClient(baseURL string, httpClient HTTPDoer, m *metrics.Metrics, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Client{
		http:    httpClient,
		baseURL: baseURL,
		logger:  logger,
		metrics: m,
	}
}

// ProviderError is a non-success response from the provider. The raw
// body is preserved for diagnostics and surfaced verbatim to the caller.
type ProviderError struct {
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("mercadopago: provider returned status %d: %s", e.StatusCode, e.Body)
}

// SearchPayments fetches the payments created inside [begin, end) for
// the account behind accessToken, newest first. Results are capped at
// 200 records; no retries are attempted, a single failure surfaces
// immediately.
func (c *Client) SearchPayments(ctx context.Context, accessToken string, begin, end time.Time) ([]Payment, error) {
	params := url.Values{}
	params.Set("sort", "date_created")
	params.Set("criteria", "desc")
	params.Set("limit", strconv.Itoa(searchLimit))
	params.Set("offset", "0")
	params.Set("begin_date", begin.Format(time.RFC3339))
	params.Set("end_date", end.Format(time.RFC3339))

	endpoint := c.baseURL + "/v1/payments/search?" + params.Encode()

	var resp searchResponse
	if err := c.get(ctx, "payments_search", endpoint, accessToken, &resp); err != nil {
		return nil, err
	}

	c.logger.DebugContext(ctx, "fetched payments from provider",
		"count", len(resp.Results),
		"total", resp.Paging.Total,
		"begin", begin,
		"end", end,
	)

	if c.metrics != nil {
		c.metrics.RecordPaymentsFetched(float64(len(resp.Results)))
	}

	return resp.Results, nil
}

// GetBalance fetches the account balance for the given owner id.
func (c *Client) GetBalance(ctx context.Context, accessToken string, ownerID int64) (*Balance, error) {
	endpoint := fmt.Sprintf("%s/users/%d/mercadopago_account/balance", c.baseURL, ownerID)

	var balance Balance
	if err := c.get(ctx, "account_balance", endpoint, accessToken, &balance); err != nil {
		return nil, err
	}

	c.logger.DebugContext(ctx, "fetched account balance", "owner_id", ownerID)
	return &balance, nil
}

// get performs an authenticated GET and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, operation, endpoint, accessToken string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	start := time.Now()
	resp, err := c.http.Do(req)
	duration := time.Since(start).Seconds()

	status := "success"
	if err != nil {
		status = "error"
	} else if resp.StatusCode != http.StatusOK {
		status = strconv.Itoa(resp.StatusCode)
	}
	if c.metrics != nil {
		c.metrics.RecordProviderCall(operation, status, duration)
	}

	if err != nil {
		c.logger.ErrorContext(ctx, "provider request failed",
			"operation", operation,
			"error", err,
		)
		return fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		c.logger.ErrorContext(ctx, "provider returned non-success status",
			"operation", operation,
			"status", resp.StatusCode,
			"body", string(body),
		)
		return &ProviderError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode provider response: %w", err)
	}
	return nil
}
