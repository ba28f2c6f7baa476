package engine

import (
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation name used for engine spans.
const TracerName = "vcore"

// Options configures an Engine.
type Options struct {
	// Production suppresses returned errors; they are still logged.
	Production bool

	// DisableRenderCache re-renders components even when their props are
	// unchanged.
	DisableRenderCache bool

	// WarnOnRecoveryFailure logs failed component identity recovery at warn
	// level. When false it is logged at debug level.
	WarnOnRecoveryFailure bool

	// Logger receives engine logs.
	// Default: slog.Default().With("component", "engine")
	Logger *slog.Logger

	// Metrics records engine metrics. Nil disables metrics.
	Metrics *Metrics

	// Tracer starts pass spans.
	// Default: otel.Tracer(TracerName)
	Tracer trace.Tracer

	// Registry holds identity bindings. Sharing a registry between engines
	// is not supported.
	// Default: a fresh registry.
	Registry *Registry
}

// Option configures an Engine.
type Option func(*Options)

// WithProduction sets production mode.
func WithProduction(production bool) Option {
	return func(o *Options) {
		o.Production = production
	}
}

// WithRenderCache enables or disables the per-instance render cache.
func WithRenderCache(enabled bool) Option {
	return func(o *Options) {
		o.DisableRenderCache = !enabled
	}
}

// WithRecoveryWarnings sets whether failed identity recovery logs at warn
// level.
func WithRecoveryWarnings(warn bool) Option {
	return func(o *Options) {
		o.WarnOnRecoveryFailure = warn
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithMetrics sets the engine metrics.
func WithMetrics(m *Metrics) Option {
	return func(o *Options) {
		o.Metrics = m
	}
}

// WithTracer sets the tracer used for pass spans.
func WithTracer(t trace.Tracer) Option {
	return func(o *Options) {
		o.Tracer = t
	}
}

// WithRegistry sets the identity registry.
func WithRegistry(r *Registry) Option {
	return func(o *Options) {
		o.Registry = r
	}
}

// defaultOptions returns the default engine options.
func defaultOptions() Options {
	return Options{
		WarnOnRecoveryFailure: true,
	}
}

func (o *Options) applyDefaults() {
	if o.Logger == nil {
		o.Logger = slog.Default().With("component", "engine")
	}
	if o.Tracer == nil {
		o.Tracer = otel.Tracer(TracerName)
	}
	if o.Registry == nil {
		o.Registry = NewRegistry()
	}
}
