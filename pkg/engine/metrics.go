package engine

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures engine metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "vcore").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for pass duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Metrics holds the Prometheus metrics for an engine. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	passes           prometheus.Counter
	passDuration     prometheus.Histogram
	mutations        *prometheus.CounterVec
	renders          *prometheus.CounterVec
	renderErrors     prometheus.Counter
	recovery         *prometheus.CounterVec
	recoveryFailures prometheus.Counter
	instancesLive    prometheus.Gauge
}

// NewMetrics registers engine metrics with config.Registry.
//
// Metrics collected:
//   - vcore_render_passes_total: Counter of RenderToTree and Update passes
//   - vcore_render_pass_duration_seconds: Histogram of pass duration
//   - vcore_host_mutations_total: Counter of host mutations by op
//   - vcore_component_renders_total: Counter of component renders by result
//   - vcore_render_errors_total: Counter of contained render failures
//   - vcore_identity_recovery_total: Counter of recovered matches by signal
//   - vcore_identity_recovery_failures_total: Counter of failed recoveries
//   - vcore_instances_live: Gauge of mounted component instances
func NewMetrics(config MetricsConfig) *Metrics {
	if config.Namespace == "" {
		config.Namespace = "vcore"
	}
	if config.Buckets == nil {
		config.Buckets = prometheus.DefBuckets
	}
	if config.Registry == nil {
		config.Registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		passes: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_passes_total",
			Help:        "Total number of render passes",
			ConstLabels: config.ConstLabels,
		}),

		passDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_pass_duration_seconds",
			Help:        "Render pass duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		mutations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "host_mutations_total",
			Help:        "Total host tree mutations by operation",
			ConstLabels: config.ConstLabels,
		}, []string{"op"}),

		renders: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "component_renders_total",
			Help:        "Total component renders by result",
			ConstLabels: config.ConstLabels,
		}, []string{"result"}),

		renderErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_errors_total",
			Help:        "Total component render failures",
			ConstLabels: config.ConstLabels,
		}),

		recovery: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "identity_recovery_total",
			Help:        "Total reused host nodes by matching signal",
			ConstLabels: config.ConstLabels,
		}, []string{"signal"}),

		recoveryFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "identity_recovery_failures_total",
			Help:        "Total component children created because no identity signal matched",
			ConstLabels: config.ConstLabels,
		}),

		instancesLive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "instances_live",
			Help:        "Number of mounted component instances",
			ConstLabels: config.ConstLabels,
		}),
	}
}

func (m *Metrics) pass(d time.Duration) {
	if m == nil {
		return
	}
	m.passes.Inc()
	m.passDuration.Observe(d.Seconds())
}

func (m *Metrics) mutation(op string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(op).Inc()
}

func (m *Metrics) render(result string) {
	if m == nil {
		return
	}
	m.renders.WithLabelValues(result).Inc()
}

func (m *Metrics) renderError() {
	if m == nil {
		return
	}
	m.renderErrors.Inc()
}

func (m *Metrics) recovered(signal string) {
	if m == nil {
		return
	}
	m.recovery.WithLabelValues(signal).Inc()
}

func (m *Metrics) recoveryFailed() {
	if m == nil {
		return
	}
	m.recoveryFailures.Inc()
}

func (m *Metrics) instanceMounted() {
	if m == nil {
		return
	}
	m.instancesLive.Inc()
}

func (m *Metrics) instanceDisposed() {
	if m == nil {
		return
	}
	m.instancesLive.Dec()
}
