// Package middleware provides observability middleware for vcore HTTP
// servers. Every middleware has the func(http.Handler) http.Handler shape
// and works with chi routers.
//
// # OpenTelemetry
//
// OpenTelemetry starts a server span per request and names it after the
// matched chi route:
//
//	r.Use(middleware.OpenTelemetry(
//	    middleware.WithRequestFilter(func(r *http.Request) bool {
//	        return r.URL.Path != "/metrics"
//	    }),
//	))
//
// # Prometheus
//
// Metrics counts requests by route, method and status:
//
//	m := middleware.NewMetrics(middleware.WithRegistry(reg))
//	r.Use(m.Handler)
//	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
//
// # Logging
//
// RequestLogger writes one slog record per request.
package middleware
