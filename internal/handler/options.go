package handler

import (
	"github.com/gorilla/sessions"
	"github.com/jonboulle/clockwork"

	"github.com/urbano-mdr/urbano/internal/notify"
	"github.com/urbano-mdr/urbano/internal/observability"
	"github.com/urbano-mdr/urbano/internal/rainfall"
	"github.com/urbano-mdr/urbano/internal/storage"
	"github.com/urbano-mdr/urbano/internal/water"
)

const (
	defaultUploadDir      = "static/uploads"
	defaultMaxUploadBytes = 16 << 20
	defaultSecretKey      = "dev-secret-key"
)

type OptionFunc func(opt *Options)

type Options struct {
	storage           storage.Storage
	publisher         notify.Publisher
	sessions          sessions.Store
	clock             clockwork.Clock
	metrics           *observability.Metrics
	rainfall          *rainfall.Dataset
	water             *water.Loader
	uploadDir         string
	maxUploadBytes    int64
	requireSituations bool
}

func defaultHandlerOptions() *Options {
	return &Options{
		publisher:      notify.Noop{},
		clock:          clockwork.NewRealClock(),
		uploadDir:      defaultUploadDir,
		maxUploadBytes: defaultMaxUploadBytes,
	}
}

// WithStorage sets the reports storage.
func WithStorage(s storage.Storage) OptionFunc {
	return func(opt *Options) {
		opt.storage = s
	}
}

// WithPublisher sets where saved reports are announced.
func WithPublisher(p notify.Publisher) OptionFunc {
	return func(opt *Options) {
		opt.publisher = p
	}
}

// WithSessions sets the store holding flash messages.
func WithSessions(s sessions.Store) OptionFunc {
	return func(opt *Options) {
		opt.sessions = s
	}
}

// WithSecretKey keeps flash messages in cookies signed with key.
func WithSecretKey(key string) OptionFunc {
	return func(opt *Options) {
		opt.sessions = newCookieStore(key)
	}
}

func WithClock(c clockwork.Clock) OptionFunc {
	return func(opt *Options) {
		opt.clock = c
	}
}

func WithMetrics(m *observability.Metrics) OptionFunc {
	return func(opt *Options) {
		opt.metrics = m
	}
}

// WithRainfall sets the dataset behind the rainfall endpoints.
func WithRainfall(d *rainfall.Dataset) OptionFunc {
	return func(opt *Options) {
		opt.rainfall = d
	}
}

// WithWater sets the loader behind the water dashboard.
func WithWater(l *water.Loader) OptionFunc {
	return func(opt *Options) {
		opt.water = l
	}
}

// WithUploads sets where photos are stored and the request size limit.
func WithUploads(dir string, maxBytes int64) OptionFunc {
	return func(opt *Options) {
		if dir != "" {
			opt.uploadDir = dir
		}
		if maxBytes > 0 {
			opt.maxUploadBytes = maxBytes
		}
	}
}

// WithRequireSituations makes at least one situation mandatory.
func WithRequireSituations(required bool) OptionFunc {
	return func(opt *Options) {
		opt.requireSituations = required
	}
}
