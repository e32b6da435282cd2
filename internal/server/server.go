package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/urbano-mdr/urbano/internal/logging"
)

// RouteOption describes a route; API names the endpoint in logs and metrics.
type RouteOption struct {
	API    string
	Method string
	Path   string
	Prefix bool
}

// Server is an HTTP service with health, readiness and metrics endpoints.
type Server struct {
	service         string
	router          *mux.Router
	handler         http.Handler
	httpServer      *http.Server
	shutdownTimeout time.Duration
}

// New creates a server listening on addr for the named service.
func New(service, addr string, shutdownTimeout time.Duration, opts ...OptionFunc) *Server {
	opt := defaultOptions()
	for _, f := range opts {
		f(opt)
	}

	r := mux.NewRouter()
	// recovery runs inside the compressor so a recovered 500 is written
	// before the gzip stream is closed
	r.Use(loggingMiddleware)
	r.Use(handlers.CompressHandler)
	r.Use(recoveryMiddleware)
	if opt.metrics != nil {
		r.Use(metricsMiddleware(opt.metrics))
	}

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	}).Methods(http.MethodGet).Name("Healthz")
	r.HandleFunc("/readyz", handleReady(opt.readiness)).Methods(http.MethodGet).Name("Readyz")
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet).Name("Metrics")

	if opt.notFound != nil {
		r.NotFoundHandler = opt.notFound
	}

	var h http.Handler = r
	if len(opt.corsOrigins) > 0 {
		h = cors.New(cors.Options{
			AllowedOrigins: opt.corsOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			MaxAge:         86400,
		}).Handler(r)
	}

	return &Server{
		service: service,
		router:  r,
		handler: h,
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           h,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
		shutdownTimeout: shutdownTimeout,
	}
}

// AddRoute registers h under the route described by opt.
func (s *Server) AddRoute(opt RouteOption, h http.Handler) error {
	if opt.Path == "" {
		return fmt.Errorf("route %q: empty path", opt.API)
	}
	var route *mux.Route
	if opt.Prefix {
		route = s.router.PathPrefix(opt.Path).Handler(h)
	} else {
		route = s.router.Handle(opt.Path, h)
	}
	if opt.Method != "" {
		route.Methods(opt.Method)
	}
	if opt.API != "" {
		route.Name(opt.API)
	}
	return route.GetError()
}

// MustAddRoute is AddRoute that panics on a malformed route.
func (s *Server) MustAddRoute(opt RouteOption, h http.Handler) {
	if err := s.AddRoute(opt, h); err != nil {
		panic(err)
	}
}

// Run serves until SIGINT/SIGTERM and then drains connections.
func (s *Server) Run() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErrors := make(chan error, 1)
	go func() {
		logging.Info(ctx, logging.Data{"service": s.service, "addr": s.httpServer.Addr}, "http server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	select {
	case <-ctx.Done():
		logging.Info(context.Background(), nil, "shutdown signal received")
	case err := <-serverErrors:
		logging.Error(context.Background(), err, nil, "http server error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		logging.Error(shutdownCtx, err, nil, "http server shutdown error")
		return
	}
	logging.Info(shutdownCtx, logging.Data{"service": s.service}, "shutdown complete")
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
