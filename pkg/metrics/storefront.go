package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StorefrontMetrics records catalog fetch outcomes and cart activity.
type StorefrontMetrics struct {
	fetchDuration *prometheus.HistogramVec
	fetchOutcome  *prometheus.CounterVec
	cartMutations *prometheus.CounterVec
	ordersPlaced  prometheus.Counter
}

// NewStorefrontMetrics registers the storefront metrics on the provided registerer.
func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	fetchDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_fetch_duration_seconds",
		Help:    "Duration of catalog fetches in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"source"})
	fetchOutcome := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_fetch_total",
		Help: "Catalog fetches by source and outcome.",
	}, []string{"source", "outcome"})
	cartMutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Cart mutations by operation.",
	}, []string{"op"})
	ordersPlaced := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Completed checkouts.",
	})
	reg.MustRegister(fetchDuration, fetchOutcome, cartMutations, ordersPlaced)
	return &StorefrontMetrics{
		fetchDuration: fetchDuration,
		fetchOutcome:  fetchOutcome,
		cartMutations: cartMutations,
		ordersPlaced:  ordersPlaced,
	}
}

// ObserveFetchDuration records how long a catalog fetch took for the named source.
func (m *StorefrontMetrics) ObserveFetchDuration(source string, duration time.Duration) {
	if m == nil || m.fetchDuration == nil {
		return
	}
	m.fetchDuration.WithLabelValues(normalizeLabel(source)).Observe(duration.Seconds())
}

// IncFetchOutcome increments the fetch counter for a source/outcome pair.
func (m *StorefrontMetrics) IncFetchOutcome(source, outcome string) {
	if m == nil || m.fetchOutcome == nil {
		return
	}
	m.fetchOutcome.WithLabelValues(normalizeLabel(source), normalizeLabel(outcome)).Inc()
}

// IncCartMutation increments the cart mutation counter for the named operation.
func (m *StorefrontMetrics) IncCartMutation(op string) {
	if m == nil || m.cartMutations == nil {
		return
	}
	m.cartMutations.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncOrderPlaced increments the completed checkout counter.
func (m *StorefrontMetrics) IncOrderPlaced() {
	if m == nil || m.ordersPlaced == nil {
		return
	}
	m.ordersPlaced.Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
