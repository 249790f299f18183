package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/AleeCode25/panel-billeteras/service/ledger"
	"github.com/AleeCode25/panel-billeteras/service/mercadopago"
	"github.com/AleeCode25/panel-billeteras/service/wallet"
)

const (
	maxRequestBodySize = 1 << 20 // 1MB - plenty for panel requests
	dateLayout         = "2006-01-02"
)

// panelRequest is the common body shape for the panel routes. Page and
// shift are optional depending on the route.
type panelRequest struct {
	WalletID string `json:"wallet_id"`
	Date     string `json:"date"`
	Shift    string `json:"shift"`
	Page     int    `json:"page"`
}

// handleListWallets returns a handler that lists the configured wallets.
// Credentials are never exposed here, only display data.
// GET /api/v1/wallets
func handleListWallets(registry *wallet.Registry, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wallets := registry.List()

		resp := make([]walletSummary, len(wallets))
		for i, wa := range wallets {
			resp[i] = walletSummary{
				ID:     wa.ID,
				Name:   wa.Name,
				Shifts: wa.Shifts,
			}
		}

		logger.Debug("wallets listed", "count", len(resp))
		writeJSON(w, map[string]interface{}{"wallets": resp}, http.StatusOK)
	})
}

// handleIncoming returns a handler that serves one page of a wallet's
// incoming transactions for a date and shift.
// POST /api/v1/transactions
func handleIncoming(registry *wallet.Registry, svc *wallet.Service, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, wa, ok := decodePanelRequest(w, r, registry, logger)
		if !ok {
			return
		}

		shift, ok := resolveShift(w, wa, req.Shift, logger)
		if !ok {
			return
		}

		page := req.Page
		if page < 1 {
			page = 1
		}

		result, err := svc.FetchIncoming(r.Context(), wa, req.Date, shift, page)
		if err != nil {
			writeServiceError(w, logger, "fetch incoming", req.WalletID, err)
			return
		}

		writeJSON(w, result, http.StatusOK)
	})
}

// handleOutflows returns a handler that serves a wallet's outgoing
// transactions and their total for a date and shift.
// POST /api/v1/outflows
func handleOutflows(registry *wallet.Registry, svc *wallet.Service, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, wa, ok := decodePanelRequest(w, r, registry, logger)
		if !ok {
			return
		}

		shift, ok := resolveShift(w, wa, req.Shift, logger)
		if !ok {
			return
		}

		summary, err := svc.FetchOutflows(r.Context(), wa, req.Date, shift)
		if err != nil {
			writeServiceError(w, logger, "fetch outflows", req.WalletID, err)
			return
		}

		writeJSON(w, summary, http.StatusOK)
	})
}

// handleBalance returns a handler that passes through the provider's
// account balance for a wallet.
// POST /api/v1/balance
func handleBalance(registry *wallet.Registry, svc *wallet.Service, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

		var req struct {
			WalletID string `json:"wallet_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeDecodeError(w, logger, err)
			return
		}

		wa, err := registry.Get(req.WalletID)
		if err != nil {
			writeError(w, "wallet not found", http.StatusNotFound)
			return
		}

		balance, err := svc.FetchBalance(r.Context(), wa)
		if err != nil {
			writeServiceError(w, logger, "fetch balance", req.WalletID, err)
			return
		}

		writeJSON(w, balance, http.StatusOK)
	})
}

// handleDebugPayments returns a handler that exposes the raw provider
// records for a wallet's day window. Intended for diagnosing
// classification questions against live data.
// POST /api/v1/debug/payments
func handleDebugPayments(registry *wallet.Registry, svc *wallet.Service, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, wa, ok := decodePanelRequest(w, r, registry, logger)
		if !ok {
			return
		}

		shift, ok := resolveShift(w, wa, req.Shift, logger)
		if !ok {
			return
		}

		payments, err := svc.FetchRawPayments(r.Context(), wa, req.Date, shift)
		if err != nil {
			writeServiceError(w, logger, "fetch raw payments", req.WalletID, err)
			return
		}

		writeJSON(w, map[string]interface{}{
			"results": payments,
			"count":   len(payments),
		}, http.StatusOK)
	})
}

// decodePanelRequest decodes and validates the common request body and
// resolves the wallet. On failure it writes the error response and
// returns ok=false.
func decodePanelRequest(w http.ResponseWriter, r *http.Request, registry *wallet.Registry, logger *slog.Logger) (panelRequest, *wallet.Wallet, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	var req panelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDecodeError(w, logger, err)
		return req, nil, false
	}

	if err := validateDate(req.Date); err != nil {
		logger.Debug("invalid date", "date", req.Date, "error", err)
		writeError(w, err.Error(), http.StatusBadRequest)
		return req, nil, false
	}

	wa, err := registry.Get(req.WalletID)
	if err != nil {
		logger.Debug("unknown wallet", "wallet_id", req.WalletID)
		writeError(w, "wallet not found", http.StatusNotFound)
		return req, nil, false
	}

	return req, wa, true
}

// resolveShift parses the requested shift and checks the wallet serves
// it. A shift outside the wallet's configured set is rejected with 422;
// the full-day view is always served.
func resolveShift(w http.ResponseWriter, wa *wallet.Wallet, raw string, logger *slog.Logger) (ledger.Shift, bool) {
	shift := ledger.ParseShift(raw)
	if !wa.ServesShift(shift) {
		logger.Debug("shift not served", "wallet_id", wa.ID, "shift", shift)
		writeError(w, fmt.Sprintf("wallet does not serve the %s shift", shift), http.StatusUnprocessableEntity)
		return shift, false
	}
	return shift, true
}

// writeDecodeError maps JSON decoding failures to a 400 response.
func writeDecodeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	logger.Debug("failed to decode request", "error", err)
	if strings.Contains(err.Error(), "http: request body too large") {
		writeError(w, "request body too large: maximum size is 1MB", http.StatusBadRequest)
		return
	}
	writeError(w, "invalid request body: must be valid JSON", http.StatusBadRequest)
}

// writeServiceError maps service-layer failures to HTTP responses.
// Provider failures surface the provider's status for diagnostics.
func writeServiceError(w http.ResponseWriter, logger *slog.Logger, op, walletID string, err error) {
	var provErr *mercadopago.ProviderError

	switch {
	case errors.As(err, &provErr):
		logger.Error("provider request failed",
			"operation", op,
			"wallet_id", walletID,
			"status", provErr.StatusCode,
			"body", provErr.Body,
		)
		writeError(w, fmt.Sprintf("payment provider error (status %d)", provErr.StatusCode), http.StatusBadGateway)
	case errors.Is(err, wallet.ErrOwnerNotConfigured):
		logger.Warn("operation requires owner id", "operation", op, "wallet_id", walletID)
		writeError(w, "wallet owner id is not configured for this operation", http.StatusUnprocessableEntity)
	default:
		logger.Error("service call failed", "operation", op, "wallet_id", walletID, "error", err)
		writeError(w, "internal server error", http.StatusInternalServerError)
	}
}

// walletSummary is the JSON response format for a configured wallet.
type walletSummary struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Shifts []ledger.Shift `json:"shifts,omitempty"`
}

// validateDate validates a civil date parameter.
func validateDate(date string) error {
	if date == "" {
		return fmt.Errorf("date is required")
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return fmt.Errorf("invalid date: must be formatted as YYYY-MM-DD")
	}
	return nil
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}
