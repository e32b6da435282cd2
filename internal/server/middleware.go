package server

import (
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/urbano-mdr/urbano/internal/logging"
	"github.com/urbano-mdr/urbano/internal/observability"
)

const requestIDHeader = "X-Request-ID"

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// loggingMiddleware assigns a request id and logs one line per request.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := logging.WithRequestID(r.Context(), id)

		wrw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrw, r.WithContext(ctx))

		logging.Info(ctx, logging.Data{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   wrw.status,
			"duration": time.Since(start).String(),
			"remote":   r.RemoteAddr,
		}, "request")
	})
}

// recoveryMiddleware turns a panic into a JSON 500.
func recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logging.Error(r.Context(), nil, logging.Data{
					"panic": rec,
					"stack": string(debug.Stack()),
				}, "panic recovered")
				WriteJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Erro interno do servidor"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// metricsMiddleware records request counts and latency by route name.
func metricsMiddleware(m *observability.Metrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(wrw, r)

			api := "unknown"
			if route := mux.CurrentRoute(r); route != nil && route.GetName() != "" {
				api = route.GetName()
			}
			m.HTTPRequests.WithLabelValues(api, r.Method, strconv.Itoa(wrw.status)).Inc()
			m.HTTPDuration.WithLabelValues(api).Observe(time.Since(start).Seconds())
		})
	}
}
