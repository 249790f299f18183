package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus collectors for the application.
// Following the explicit dependency injection pattern, this struct
// is passed to all components that need to record metrics.
type Metrics struct {
	// Provider API metrics
	providerCallsTotal  *prometheus.CounterVec
	providerCallLatency *prometheus.HistogramVec
	paymentsFetched     prometheus.Histogram

	// Classification metrics
	transactionsClassified *prometheus.CounterVec

	// HTTP metrics
	httpRequestDuration *prometheus.HistogramVec
	httpRequestsTotal   *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance and registers all collectors.
// If registry is nil, prometheus.DefaultRegisterer is used.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	factory := promauto.With(registry)

	return &Metrics{
		providerCallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mercadopago_api_calls_total",
				Help: "Total number of MercadoPago API calls by operation and status",
			},
			[]string{"operation", "status"},
		),
		providerCallLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mercadopago_api_call_duration_seconds",
				Help:    "Duration of MercadoPago API calls in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"operation"},
		),
		paymentsFetched: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "mercadopago_payments_per_search",
				Help:    "Number of payment records returned per search call",
				Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 200},
			},
		),
		transactionsClassified: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transactions_classified_total",
				Help: "Total number of transactions classified by direction",
			},
			[]string{"wallet_id", "direction"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
			},
			[]string{"handler", "method", "status"},
		),
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"handler", "method", "status"},
		),
	}
}

// RecordProviderCall records a provider API call with duration.
func (m *Metrics) RecordProviderCall(operation, status string, duration float64) {
	m.providerCallsTotal.WithLabelValues(operation, status).Inc()
	m.providerCallLatency.WithLabelValues(operation).Observe(duration)
}

// RecordPaymentsFetched records the number of payments returned by a search.
func (m *Metrics) RecordPaymentsFetched(count float64) {
	m.paymentsFetched.Observe(count)
}

// RecordTransactionsClassified records classification output by direction.
func (m *Metrics) RecordTransactionsClassified(walletID, direction string, count int) {
	m.transactionsClassified.WithLabelValues(walletID, direction).Add(float64(count))
}

// RecordHTTPRequest records an HTTP request with duration.
func (m *Metrics) RecordHTTPRequest(handler, method string, statusCode int, duration float64) {
	status := statusCodeToString(statusCode)
	m.httpRequestDuration.WithLabelValues(handler, method, status).Observe(duration)
	m.httpRequestsTotal.WithLabelValues(handler, method, status).Inc()
}

func statusCodeToString(code int) string {
	// Group status codes by class
	switch {
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	case code >= 500 && code < 600:
		return "5xx"
	default:
		return "unknown"
	}
}
