package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
	"github.com/shopspring/decimal"
)

// Metrics holds all Prometheus metrics for the chit fund API.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	storeErrors     *prometheus.CounterVec
	cacheHits       *prometheus.CounterVec
	cacheMisses     *prometheus.CounterVec
	paymentsTotal   *prometheus.CounterVec
	amountCollected *prometheus.CounterVec
	requestsTotal   *prometheus.CounterVec
}

// CollectionSnapshot is a point-in-time read of the collection counters,
// served on the admin reports endpoint.
type CollectionSnapshot struct {
	InstallmentPayments float64 `json:"installment_payments"`
	PayoutsSettled      float64 `json:"payouts_settled"`
	AmountCollected     float64 `json:"amount_collected"`
	AmountDisbursed     float64 `json:"amount_disbursed"`
	StoreErrors         float64 `json:"store_errors"`
	CacheHitRate        float64 `json:"cache_hit_rate"`
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "chitfund_request_duration_seconds",
				Help:    "Duration of requests by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		storeErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chitfund_store_errors_total",
				Help: "Total errors from the document store.",
			},
			[]string{"store"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chitfund_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chitfund_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		paymentsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chitfund_payments_total",
				Help: "Total money-movement operations processed.",
			},
			[]string{"kind"},
		),
		amountCollected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chitfund_amount_total",
				Help: "Total amount moved, by direction.",
			},
			[]string{"direction"},
		),
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chitfund_requests_total",
				Help: "Total requests processed.",
			},
			[]string{"status"},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrStoreError increments the store error counter.
func (m *Metrics) IncrStoreError(store string) {
	m.storeErrors.WithLabelValues(store).Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// RecordPayment records one money-movement operation and its amount.
// kind is "installment", "payout", "transaction"...; direction is
// "collected" or "disbursed". Amounts are exact decimals in the store;
// the metric is a float approximation, which is fine for dashboards.
func (m *Metrics) RecordPayment(kind, direction string, amount decimal.Decimal) {
	m.paymentsTotal.WithLabelValues(kind).Inc()
	m.amountCollected.WithLabelValues(direction).Add(amount.InexactFloat64())
}

// IncrRequest increments the request counter with a status label.
func (m *Metrics) IncrRequest(status string) {
	m.requestsTotal.WithLabelValues(status).Inc()
}

// GetCollectionSnapshot returns current counter values for the
// GET /v1/reports/metrics endpoint.
func (m *Metrics) GetCollectionSnapshot() *CollectionSnapshot {
	hits := getCounterValue(m.cacheHits, "scheme")
	misses := getCounterValue(m.cacheMisses, "scheme")
	hitRate := float64(0)
	if hits+misses > 0 {
		hitRate = hits / (hits + misses)
	}

	return &CollectionSnapshot{
		InstallmentPayments: getCounterValue(m.paymentsTotal, "installment"),
		PayoutsSettled:      getCounterValue(m.paymentsTotal, "payout"),
		AmountCollected:     getCounterValue(m.amountCollected, "collected"),
		AmountDisbursed:     getCounterValue(m.amountCollected, "disbursed"),
		StoreErrors:         getCounterValue(m.storeErrors, "supabase"),
		CacheHitRate:        hitRate,
	}
}

// getCounterValue extracts the current float64 value from a CounterVec for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	counter := cv.WithLabelValues(label)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
