package handler

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator"
	"github.com/gorilla/sessions"
	"github.com/jonboulle/clockwork"

	"github.com/urbano-mdr/urbano/internal/notify"
	"github.com/urbano-mdr/urbano/internal/observability"
	"github.com/urbano-mdr/urbano/internal/rainfall"
	"github.com/urbano-mdr/urbano/internal/storage"
	"github.com/urbano-mdr/urbano/internal/water"
)

type Handler struct {
	validator         *validator.Validate
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

func New(opts ...OptionFunc) *Handler {
	opt := defaultHandlerOptions()
	for _, f := range opts {
		f(opt)
	}
	if opt.sessions == nil {
		opt.sessions = newCookieStore(defaultSecretKey)
	}
	return &Handler{
		validator:         newValidator(),
		storage:           opt.storage,
		publisher:         opt.publisher,
		sessions:          opt.sessions,
		clock:             opt.clock,
		metrics:           opt.metrics,
		rainfall:          opt.rainfall,
		water:             opt.water,
		uploadDir:         opt.uploadDir,
		maxUploadBytes:    opt.maxUploadBytes,
		requireSituations: opt.requireSituations,
	}
}

func (h *Handler) countSubmission(outcome string) {
	if h.metrics != nil {
		h.metrics.ReportsSubmitted.WithLabelValues(outcome).Inc()
	}
}

// newValidator reports fields by their form names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("schema"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
