package wallet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/AleeCode25/panel-billeteras/service/ledger"
	"github.com/AleeCode25/panel-billeteras/service/mercadopago"
	"github.com/AleeCode25/panel-billeteras/service/metrics"
)

// ErrOwnerNotConfigured is returned by operations that need the
// provider-assigned owner id when the wallet has none configured.
// Balance lookups fail closed rather than silently returning zeros.
var ErrOwnerNotConfigured = errors.New("wallet owner id is not configured")

// Provider is the subset of the MercadoPago client the service needs.
// This allows tests to substitute canned payment sets for the live API.
type Provider interface {
	SearchPayments(ctx context.Context, accessToken string, begin, end time.Time) ([]mercadopago.Payment, error)
	GetBalance(ctx context.Context, accessToken string, ownerID int64) (*mercadopago.Balance, error)
}

// Service implements the panel's three wallet operations on top of the
// provider adapter. Each call is stateless: credentials, date, shift and
// page arrive as explicit arguments, nothing is captured or cached.
type Service struct {
	provider Provider
	loc      *time.Location
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewService creates a wallet service. loc is the fixed-offset timezone
// all shift windows are anchored to. If m is nil, no metrics are recorded.
func NewService(provider Provider, loc *time.Location, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		provider: provider,
		loc:      loc,
		metrics:  m,
		logger:   logger,
	}
}

// FetchIncoming returns one page of the approved payments the wallet
// owner received on the given date and shift, newest first.
func (s *Service) FetchIncoming(ctx context.Context, w *Wallet, date string, shift ledger.Shift, page int) (*ledger.Page, error) {
	classified, err := s.classifyDay(ctx, w, date, shift)
	if err != nil {
		return nil, err
	}

	result := ledger.PaginateIncoming(classified.Incoming, page)

	s.logger.DebugContext(ctx, "incoming transactions fetched",
		"wallet_id", w.ID,
		"date", date,
		"shift", shift,
		"page", result.Page,
		"total_pages", result.TotalPages,
		"count", len(result.Transactions),
	)
	return &result, nil
}

// FetchOutflows returns the itemized payments the wallet owner sent on
// the given date and shift, with their exact total.
func (s *Service) FetchOutflows(ctx context.Context, w *Wallet, date string, shift ledger.Shift) (*ledger.OutflowSummary, error) {
	classified, err := s.classifyDay(ctx, w, date, shift)
	if err != nil {
		return nil, err
	}

	summary := ledger.SummarizeOutflows(classified.Outgoing)

	s.logger.DebugContext(ctx, "outflows fetched",
		"wallet_id", w.ID,
		"date", date,
		"shift", shift,
		"count", len(summary.Outflows),
		"total_amount", summary.TotalAmount,
	)
	return &summary, nil
}

// FetchBalance passes through the provider's account balance. It is not
// classified or filtered; it shares only the credential model.
func (s *Service) FetchBalance(ctx context.Context, w *Wallet) (*mercadopago.Balance, error) {
	if w.OwnerID == 0 {
		return nil, fmt.Errorf("wallet %s: %w", w.ID, ErrOwnerNotConfigured)
	}
	return s.provider.GetBalance(ctx, w.AccessToken, w.OwnerID)
}

// FetchRawPayments returns the provider's raw records for a wallet's
// day window, unclassified. Used by the debug endpoint.
func (s *Service) FetchRawPayments(ctx context.Context, w *Wallet, date string, shift ledger.Shift) ([]mercadopago.Payment, error) {
	window, err := ledger.ResolveShiftWindow(date, shift, s.loc)
	if err != nil {
		return nil, err
	}
	return s.provider.SearchPayments(ctx, w.AccessToken, window.Start, window.End)
}

// classifyDay resolves the shift window, fetches the raw records and
// splits them by direction.
func (s *Service) classifyDay(ctx context.Context, w *Wallet, date string, shift ledger.Shift) (ledger.Classified, error) {
	window, err := ledger.ResolveShiftWindow(date, shift, s.loc)
	if err != nil {
		return ledger.Classified{}, err
	}

	payments, err := s.provider.SearchPayments(ctx, w.AccessToken, window.Start, window.End)
	if err != nil {
		return ledger.Classified{}, err
	}

	classified := ledger.Classify(payments, w.OwnerID)

	if s.metrics != nil {
		s.metrics.RecordTransactionsClassified(w.ID, "incoming", len(classified.Incoming))
		s.metrics.RecordTransactionsClassified(w.ID, "outgoing", len(classified.Outgoing))
	}
	return classified, nil
}
