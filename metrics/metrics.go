// Package metrics exposes pipeline measurements in the Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/elum-utils/safetymonitor/interfaces"
	"github.com/elum-utils/safetymonitor/models"
)

const (
	DefaultNamespace = "safety"
	DefaultSubsystem = "monitor"
)

// Options configure the collector.
type Options struct {
	Namespace string
	Subsystem string
	// DurationBuckets are used for both histograms. Empty means the defaults.
	DurationBuckets []float64
}

// Collector implements interfaces.Recorder on top of a Prometheus registry.
//
// Metrics:
//   - safety_monitor_decisions_total{action,status,stage}
//   - safety_monitor_decision_categories_total{category}
//   - safety_monitor_decision_duration_seconds{stage}
//   - safety_monitor_analyses_total{outcome}
//   - safety_monitor_analysis_duration_seconds
type Collector struct {
	registry *prometheus.Registry

	decisionsTotal   *prometheus.CounterVec
	categoriesTotal  *prometheus.CounterVec
	decisionDuration *prometheus.HistogramVec
	analysesTotal    *prometheus.CounterVec
	analysisDuration prometheus.Histogram
}

var _ interfaces.Recorder = (*Collector)(nil)

// NewCollector creates and registers the pipeline metrics. A nil registry
// gets a fresh one.
func NewCollector(opt Options, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if opt.Namespace == "" {
		opt.Namespace = DefaultNamespace
	}
	if opt.Subsystem == "" {
		opt.Subsystem = DefaultSubsystem
	}
	if len(opt.DurationBuckets) == 0 {
		// Static checks finish in microseconds, model calls take seconds.
		opt.DurationBuckets = []float64{0.0001, 0.001, 0.01, 0.1, 0.5, 1, 2.5, 5, 10, 15}
	}

	c := &Collector{
		registry: registry,
		decisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: opt.Namespace,
				Subsystem: opt.Subsystem,
				Name:      "decisions_total",
				Help:      "Total number of moderation decisions",
			},
			[]string{"action", "status", "stage"},
		),
		categoriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: opt.Namespace,
				Subsystem: opt.Subsystem,
				Name:      "decision_categories_total",
				Help:      "Total number of decisions per content category",
			},
			[]string{"category"},
		),
		decisionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: opt.Namespace,
				Subsystem: opt.Subsystem,
				Name:      "decision_duration_seconds",
				Help:      "Time spent moderating one message",
				Buckets:   opt.DurationBuckets,
			},
			[]string{"stage"},
		),
		analysesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: opt.Namespace,
				Subsystem: opt.Subsystem,
				Name:      "analyses_total",
				Help:      "Total number of AI analyses by outcome",
			},
			[]string{"outcome"},
		),
		analysisDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: opt.Namespace,
				Subsystem: opt.Subsystem,
				Name:      "analysis_duration_seconds",
				Help:      "Duration of AI analysis calls",
				Buckets:   opt.DurationBuckets,
			},
		),
	}

	registry.MustRegister(
		c.decisionsTotal,
		c.categoriesTotal,
		c.decisionDuration,
		c.analysesTotal,
		c.analysisDuration,
	)
	return c
}

// RecordDecision counts one pipeline verdict.
func (c *Collector) RecordDecision(v models.Verdict, category string, elapsed time.Duration) {
	c.decisionsTotal.WithLabelValues(string(v.Action), string(v.Status), string(v.Stage)).Inc()
	if category != "" {
		c.categoriesTotal.WithLabelValues(category).Inc()
	}
	c.decisionDuration.WithLabelValues(string(v.Stage)).Observe(elapsed.Seconds())
}

// RecordAnalysis counts one analyzer call.
func (c *Collector) RecordAnalysis(outcome string, elapsed time.Duration) {
	c.analysesTotal.WithLabelValues(outcome).Inc()
	c.analysisDuration.Observe(elapsed.Seconds())
}

// RegisterGauge exposes a value computed at scrape time, such as the lexicon size.
func (c *Collector) RegisterGauge(namespace, name, help string, fn func() float64) error {
	return c.registry.Register(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{Namespace: namespace, Name: name, Help: help},
		fn,
	))
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler returns the scrape endpoint.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}
