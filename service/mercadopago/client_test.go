package mercadopago

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSearchPayments_RequestShape(t *testing.T) {
	var gotAuth string
	var gotQuery map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/payments/search", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[],"paging":{"total":0,"limit":200,"offset":0}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil, nil, testLogger())

	loc := time.FixedZone("UTC-03:00", -3*60*60)
	begin := time.Date(2024, 5, 1, 0, 0, 0, 0, loc)
	end := time.Date(2024, 5, 2, 0, 0, 0, 0, loc)

	payments, err := client.SearchPayments(context.Background(), "TEST-TOKEN", begin, end)
	require.NoError(t, err)
	assert.Empty(t, payments)

	assert.Equal(t, "Bearer TEST-TOKEN", gotAuth)
	assert.Equal(t, "date_created", gotQuery["sort"])
	assert.Equal(t, "desc", gotQuery["criteria"])
	assert.Equal(t, "200", gotQuery["limit"])
	assert.Equal(t, "0", gotQuery["offset"])
	assert.Equal(t, "2024-05-01T00:00:00-03:00", gotQuery["begin_date"])
	assert.Equal(t, "2024-05-02T00:00:00-03:00", gotQuery["end_date"])
}

func TestNewClient_NilLoggerDoesNotPanic(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"invalid access token"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil, nil, nil)

	_, err := client.SearchPayments(context.Background(), "BAD-TOKEN", time.Now().Add(-time.Hour), time.Now())
	require.Error(t, err)

	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, http.StatusUnauthorized, provErr.StatusCode)
}

func TestSearchPayments_DecodesResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"results": [
				{
					"id": 987654321,
					"status": "approved",
					"transaction_amount": 1500.50,
					"description": "Venta",
					"date_created": "2024-05-01T10:00:00.000-03:00",
					"date_approved": "2024-05-01T10:00:05.000-03:00",
					"collector_id": 123,
					"payer": {
						"id": 456,
						"nickname": "JUANP",
						"identification": {"type": "CUIL", "number": "20-11111111-1"}
					},
					"transaction_details": {"net_received_amount": 1450.25}
				},
				{
					"id": 987654322,
					"status": "pending",
					"transaction_amount": 10,
					"date_created": "2024-05-01T11:00:00.000-03:00",
					"collector_id": 123
				}
			],
			"paging": {"total": 2, "limit": 200, "offset": 0}
		}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil, nil, testLogger())

	payments, err := client.SearchPayments(context.Background(), "tok", time.Now().Add(-time.Hour), time.Now())
	require.NoError(t, err)
	require.Len(t, payments, 2)

	first := payments[0]
	assert.Equal(t, int64(987654321), first.ID)
	assert.Equal(t, "approved", first.Status)
	assert.True(t, first.TransactionAmount.Equal(decimal.RequireFromString("1500.50")))
	assert.Equal(t, "JUANP", first.Payer.Nickname)
	assert.Equal(t, "20-11111111-1", first.Payer.Identification.Number)
	require.NotNil(t, first.DateApproved)
	require.NotNil(t, first.TransactionDetails)
	assert.True(t, first.TransactionDetails.NetReceivedAmount.Equal(decimal.RequireFromString("1450.25")))

	second := payments[1]
	assert.Equal(t, "pending", second.Status)
	assert.Nil(t, second.DateApproved)
	assert.Nil(t, second.TransactionDetails)
}

func TestSearchPayments_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"invalid access token","error":"unauthorized","status":401}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil, nil, testLogger())

	_, err := client.SearchPayments(context.Background(), "bad-token", time.Now().Add(-time.Hour), time.Now())
	require.Error(t, err)

	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, http.StatusUnauthorized, provErr.StatusCode)
	assert.Contains(t, provErr.Body, "invalid access token")
}

func TestSearchPayments_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := NewClient(srv.URL, nil, nil, testLogger())

	_, err := client.SearchPayments(context.Background(), "tok", time.Now().Add(-time.Hour), time.Now())
	require.Error(t, err)

	var provErr *ProviderError
	assert.False(t, errors.As(err, &provErr), "transport errors are not provider errors")
}

func TestGetBalance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/users/123456789/mercadopago_account/balance", r.URL.Path)
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"total_amount": 10500.75, "available_balance": 10000.25, "unavailable_balance": 500.50}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil, nil, testLogger())

	balance, err := client.GetBalance(context.Background(), "tok", 123456789)
	require.NoError(t, err)
	assert.True(t, balance.TotalAmount.Equal(decimal.RequireFromString("10500.75")))
	assert.True(t, balance.AvailableBalance.Equal(decimal.RequireFromString("10000.25")))
	assert.True(t, balance.UnavailableBalance.Equal(decimal.RequireFromString("500.50")))
}

func TestGetBalance_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"forbidden"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil, nil, testLogger())

	_, err := client.GetBalance(context.Background(), "tok", 42)
	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, http.StatusForbidden, provErr.StatusCode)
}
