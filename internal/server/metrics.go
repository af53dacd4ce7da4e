package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Analysis outcomes used as the "outcome" label.
const (
	outcomeSuccess    = "success"
	outcomeInvalidURL = "invalid_url"
	outcomeError      = "error"
)

// Metrics holds the collectors the server updates.
//
// Design decision: Metrics are registered on a private registry instead of
// prometheus.DefaultRegisterer so several servers (and parallel tests) can
// coexist in one process without duplicate registration panics.
type Metrics struct {
	registry *prometheus.Registry

	analyses         *prometheus.CounterVec
	riskScore        prometheus.Histogram
	analysisDuration prometheus.Histogram
	requests         *prometheus.CounterVec
}

// NewMetrics creates and registers the linkpeek collectors together with
// the Go runtime and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "linkpeek",
			Name:      "analyses_total",
			Help:      "Number of URL analyses by outcome.",
		}, []string{"outcome"}),
		riskScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "linkpeek",
			Name:      "risk_score",
			Help:      "Distribution of computed risk scores.",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		}),
		analysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "linkpeek",
			Name:      "analysis_duration_seconds",
			Help:      "Time spent analyzing a single URL.",
			Buckets:   prometheus.DefBuckets,
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "linkpeek",
			Name:      "http_requests_total",
			Help:      "Number of HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
	}

	m.registry.MustRegister(
		m.analyses,
		m.riskScore,
		m.analysisDuration,
		m.requests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Handler returns the /metrics handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// observeAnalysis records one finished analysis. score is ignored for
// invalid URLs, which never reach the scorer.
func (m *Metrics) observeAnalysis(outcome string, score int, elapsed time.Duration) {
	m.analyses.WithLabelValues(outcome).Inc()
	if outcome == outcomeInvalidURL {
		return
	}
	m.riskScore.Observe(float64(score))
	m.analysisDuration.Observe(elapsed.Seconds())
}

// observeRequest records one served HTTP request.
func (m *Metrics) observeRequest(method, route string, status int) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}
