package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "weather_comfort"

// Metrics holds the Prometheus counters, histograms, and gauges for the service.
type Metrics struct {
	// Forecast metrics.
	ForecastRequests *prometheus.CounterVec // labels: outcome={success,invalid,no_data,provider_error,error}
	ProviderDuration prometheus.Histogram
	ReportCache      *prometheus.CounterVec // labels: result={hit,miss}

	// Reasoning service metrics.
	ReasonerDecisions    *prometheus.CounterVec   // labels: decision, source={reasoner,fallback}, cause
	ReasonerCallDuration *prometheus.HistogramVec // labels: decision
	ReasonerEnabled      prometheus.Gauge

	// Community metrics.
	ModerationOutcomes *prometheus.CounterVec // labels: outcome={accepted,rejected}, field={name,email,content,none}
	PostsCreated       prometheus.Counter
	PostsPublished     *prometheus.CounterVec // labels: outcome={success,error}
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.ForecastRequests,
		m.ProviderDuration,
		m.ReportCache,
		m.ReasonerDecisions,
		m.ReasonerCallDuration,
		m.ReasonerEnabled,
		m.ModerationOutcomes,
		m.PostsCreated,
		m.PostsPublished,
	)

	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ForecastRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "forecast_requests_total",
			Help:      "Day forecast requests by outcome.",
		}, []string{"outcome"}),
		ProviderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "forecast_provider_duration_seconds",
			Help:      "Forecast provider request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		ReportCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_cache_total",
			Help:      "Forecast report cache lookups by result.",
		}, []string{"result"}),
		ReasonerDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reasoner_decisions_total",
			Help:      "Augmented decisions by decision kind, value source, and degrade cause.",
		}, []string{"decision", "source", "cause"}),
		ReasonerCallDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reasoner_call_duration_seconds",
			Help:      "Reasoning service call duration in seconds, including timeouts.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
		}, []string{"decision"}),
		ReasonerEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "reasoner_enabled",
			Help:      "1 when a reasoning service credential is configured, 0 otherwise.",
		}),
		ModerationOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "moderation_outcomes_total",
			Help:      "Moderation pipeline results by outcome and rejecting field.",
		}, []string{"outcome", "field"}),
		PostsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "posts_created_total",
			Help:      "Community posts persisted after moderation.",
		}),
		PostsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "posts_published_total",
			Help:      "Accepted-post events published to Kafka by outcome.",
		}, []string{"outcome"}),
	}
}
