package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the console's Prometheus collectors.
type Metrics struct {
	registry        *prometheus.Registry
	scoresComputed  *prometheus.CounterVec
	scoreValue      prometheus.Histogram
	payloadDecodes  *prometheus.CounterVec
	backendRequests *prometheus.CounterVec
	feedEvents      prometheus.Counter
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		scoresComputed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "riskconsole",
			Name:      "risk_scores_computed_total",
			Help:      "Risk scores computed or decoded, by band.",
		}, []string{"band"}),
		scoreValue: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "riskconsole",
			Name:      "risk_score_value",
			Help:      "Distribution of composite risk scores.",
			Buckets:   []float64{25, 50, 75, 90, 100},
		}),
		payloadDecodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "riskconsole",
			Name:      "risk_payload_decodes_total",
			Help:      "Risk payload decodes, by risk_factors encoding.",
		}, []string{"encoding"}),
		backendRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "riskconsole",
			Name:      "backend_requests_total",
			Help:      "Requests sent to the SOC backend, by method and outcome.",
		}, []string{"method", "outcome"}),
		feedEvents: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "riskconsole",
			Name:      "feed_events_written_total",
			Help:      "Risk feed events written to the sink.",
		}),
	}
	m.registry.MustRegister(m.scoresComputed, m.scoreValue, m.payloadDecodes, m.backendRequests, m.feedEvents)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveScore records a computed score. Safe on a nil receiver.
func (m *Metrics) ObserveScore(band string, score float64) {
	if m == nil {
		return
	}
	m.scoresComputed.WithLabelValues(band).Inc()
	m.scoreValue.Observe(score)
}

// ObserveDecode records how a risk payload was encoded.
func (m *Metrics) ObserveDecode(encoding string) {
	if m == nil {
		return
	}
	m.payloadDecodes.WithLabelValues(encoding).Inc()
}

// ObserveBackend records one backend request outcome.
func (m *Metrics) ObserveBackend(method, outcome string) {
	if m == nil {
		return
	}
	m.backendRequests.WithLabelValues(method, outcome).Inc()
}

// AddFeedEvents records events written by the feed.
func (m *Metrics) AddFeedEvents(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.feedEvents.Add(float64(n))
}
