package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
)

var ErrInvalidBody = errors.New("invalid request body")

// Request is an incoming request with its route variables resolved.
type Request struct {
	*http.Request
	PathParams map[string]string
}

// Unmarshal wraps r and, when body is not nil, decodes the JSON body into it.
func Unmarshal(r *http.Request, body interface{}) (*Request, error) {
	req := &Request{
		Request:    r,
		PathParams: mux.Vars(r),
	}
	if body != nil && r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(body); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidBody, err)
		}
	}
	return req, nil
}

// UnmarshalQueryParams decodes the query string into dst using its schema
// tags. Repeated keys fill slice fields.
func (r *Request) UnmarshalQueryParams(_ context.Context, dst interface{}, ignoreUnknown bool) error {
	return DecodeValues(dst, r.URL.Query(), ignoreUnknown)
}

// DecodeValues decodes url values (query string or parsed form) into dst.
func DecodeValues(dst interface{}, values map[string][]string, ignoreUnknown bool) error {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(ignoreUnknown)
	dec.ZeroEmpty(true)
	return dec.Decode(dst, values)
}
