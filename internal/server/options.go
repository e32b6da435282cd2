package server

import (
	"context"
	"net/http"

	"github.com/urbano-mdr/urbano/internal/observability"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// ReadinessFunc adapts a function to ReadinessChecker.
type ReadinessFunc func(ctx context.Context) error

func (f ReadinessFunc) CheckReadiness(ctx context.Context) error { return f(ctx) }

type OptionFunc func(opt *Options)

type Options struct {
	readiness   ReadinessChecker
	metrics     *observability.Metrics
	corsOrigins []string
	notFound    http.Handler
}

func defaultOptions() *Options {
	return &Options{
		readiness: ReadinessFunc(func(context.Context) error { return nil }),
	}
}

// WithReadiness sets the check behind /readyz.
func WithReadiness(r ReadinessChecker) OptionFunc {
	return func(opt *Options) {
		opt.readiness = r
	}
}

// WithMetrics enables per-route request metrics.
func WithMetrics(m *observability.Metrics) OptionFunc {
	return func(opt *Options) {
		opt.metrics = m
	}
}

// WithCORS allows cross-origin GET requests from the given origins.
func WithCORS(origins []string) OptionFunc {
	return func(opt *Options) {
		opt.corsOrigins = origins
	}
}

// WithNotFound replaces the default 404 handler.
func WithNotFound(h http.Handler) OptionFunc {
	return func(opt *Options) {
		opt.notFound = h
	}
}
