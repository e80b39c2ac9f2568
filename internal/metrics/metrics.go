package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wanderlust-tours/wanderlust/internal/access"
)

// Metrics holds the service's prometheus collectors on a private registry
type Metrics struct {
	registry *prometheus.Registry

	accessDecisions   *prometheus.CounterVec
	wishlistMutations *prometheus.CounterVec
}

// New creates the collectors and registers them with a fresh registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	return &Metrics{
		registry: reg,

		accessDecisions: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "wanderlust_access_decisions_total",
				Help: "Access gate decisions by route class and outcome.",
			}, []string{"class", "outcome"},
		),
		wishlistMutations: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "wanderlust_wishlist_mutations_total",
				Help: "Effective wishlist mutations by collection and operation.",
			}, []string{"collection", "op"},
		),
	}
}

// ObserveDecision counts a gate decision for path
func (m *Metrics) ObserveDecision(path string, d access.Decision) {
	m.accessDecisions.WithLabelValues(string(access.Classify(path)), string(d.Outcome)).Inc()
}

// ObserveWishlist counts a wishlist mutation. Its signature matches
// wishlist.Observer.
func (m *Metrics) ObserveWishlist(collection, op string) {
	m.wishlistMutations.WithLabelValues(collection, op).Inc()
}

// Handler serves the registry in the prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
