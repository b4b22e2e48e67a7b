// Package metrics exposes analysis and provider counters in the Prometheus
// exposition format on a private registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nyashahama/culture-guard/internal/culture"
)

const namespace = "culture_guard"

// Collector implements ai.Recorder.
type Collector struct {
	registry *prometheus.Registry

	analyses         *prometheus.CounterVec
	results          *prometheus.CounterVec
	providerCalls    *prometheus.CounterVec
	providerDuration *prometheus.HistogramVec
}

// NewCollector registers every metric on a fresh registry, along with the Go
// runtime and process collectors.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		registry: reg,
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Analysis requests served, by source (ai or heuristic) and scope (single or all).",
		}, []string{"source", "scope"}),
		results: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "results_total",
			Help:      "Per-country results returned, by risk level.",
		}, []string{"risk_level"}),
		providerCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_calls_total",
			Help:      "Provider attempts by outcome: success or a failure kind.",
		}, []string{"provider", "outcome"}),
		providerDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_duration_seconds",
			Help:      "Wall time of a provider call including response parsing.",
			// LLM latencies sit between a few hundred ms and the 20s timeout.
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 30},
		}, []string{"provider"}),
	}

	reg.MustRegister(
		c.analyses,
		c.results,
		c.providerCalls,
		c.providerDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// RecordProviderCall counts one provider attempt.
func (c *Collector) RecordProviderCall(provider string, elapsed time.Duration, failure string) {
	outcome := failure
	if outcome == "" {
		outcome = "success"
	}
	c.providerCalls.WithLabelValues(provider, outcome).Inc()
	c.providerDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
}

// RecordAnalysis counts one served request and each result it carried.
func (c *Collector) RecordAnalysis(source, scope string, results []culture.Result) {
	c.analyses.WithLabelValues(source, scope).Inc()
	for _, r := range results {
		c.results.WithLabelValues(r.RiskLevel.String()).Inc()
	}
}

// Handler serves the registry for scraping.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})
}
