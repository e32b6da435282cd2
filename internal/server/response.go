package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/urbano-mdr/urbano/internal/logging"
)

// HandlerFunc is a JSON endpoint: it returns the status code and either a
// payload or an error.
type HandlerFunc func(r *http.Request) (int, interface{}, error)

// ErrorResponse is the body written for failed JSON requests.
type ErrorResponse struct {
	Error interface{} `json:"error"`
}

// ValidationErrors carries every problem found in a request so they can be
// reported together.
type ValidationErrors []string

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}
	msg := v[0]
	for _, e := range v[1:] {
		msg += "; " + e
	}
	return msg
}

// ErrorToResponse is the return value of a HandlerFunc that failed.
func ErrorToResponse(err error, status int) (int, interface{}, error) {
	return status, nil, err
}

// ToHTTPHandlerFunc adapts a HandlerFunc to net/http, encoding the payload or
// the error as JSON.
func ToHTTPHandlerFunc(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, payload, err := h(r)
		if err != nil {
			var verrs ValidationErrors
			if errors.As(err, &verrs) {
				WriteJSON(w, status, ErrorResponse{Error: []string(verrs)})
				return
			}
			WriteJSON(w, status, ErrorResponse{Error: err.Error()})
			return
		}
		WriteJSON(w, status, payload)
	}
}

// WriteJSON writes v as the JSON response body.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		logging.Error(context.Background(), err, logging.Data{"status": status}, "failed to encode response")
	}
}
