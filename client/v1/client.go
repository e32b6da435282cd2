package v1

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/urbano-mdr/urbano/internal/logging"
	"github.com/urbano-mdr/urbano/internal/rainfall"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Error exported by the client package
var (
	ErrClient     = errors.New("client error")
	ErrBadRequest = fmt.Errorf("%w bad request", ErrClient)
	ErrNotFound   = fmt.Errorf("%w not found", ErrClient)
	ErrServer     = fmt.Errorf("%w server error", ErrClient)
)

// StatusError is returned for non 2xx answers. Messages holds the error
// body of the API, one entry per validation problem.
type StatusError struct {
	StatusCode int
	Messages   []string
	kind       error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.StatusCode, strings.Join(e.Messages, "; "))
}

func (e *StatusError) Unwrap() error { return e.kind }

// RainfallService is the JSON API of the rainfall dashboard.
type RainfallService interface {
	Data(ctx context.Context, q rainfall.Query) (*FeatureCollection, error)
	Stats(ctx context.Context, uf, date string) (*rainfall.Stats, error)
	Timeline(ctx context.Context, uf string) ([]rainfall.TimelinePoint, error)
	Municipalities(ctx context.Context, uf, term string) ([]string, error)
	Heatmap(ctx context.Context, uf, date string) ([][3]float64, error)
}

// FeatureCollection is the /data answer. Message is set when no record
// matched the filter.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
	Message  string    `json:"message,omitempty"`
}

type Feature struct {
	Type     string `json:"type"`
	Geometry struct {
		Type        string     `json:"type"`
		Coordinates [2]float64 `json:"coordinates"`
	} `json:"geometry"`
	Properties rainfall.Record `json:"properties"`
}

type ClientFunc func(c *Client)

// WithHTTPClient replaces the default http client.
func WithHTTPClient(hc *http.Client) ClientFunc {
	return func(c *Client) {
		c.http = hc
	}
}

// WithMaxRetries bounds the retries of transport errors and 5xx answers.
func WithMaxRetries(n uint64) ClientFunc {
	return func(c *Client) {
		c.maxRetries = n
	}
}

// WithRetryInterval sets the wait between retries.
func WithRetryInterval(d time.Duration) ClientFunc {
	return func(c *Client) {
		c.retryInterval = d
	}
}

var _ RainfallService = (*Client)(nil)

type Client struct {
	baseURL       *url.URL
	http          *http.Client
	maxRetries    uint64
	retryInterval time.Duration
}

// New returns a client of the rainfall service listening at baseURL.
func New(baseURL string, opts ...ClientFunc) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base url: %v", ErrClient, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid base url %q", ErrClient, baseURL)
	}
	c := &Client{
		baseURL:       u,
		http:          &http.Client{Timeout: 30 * time.Second},
		maxRetries:    3,
		retryInterval: 200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) Data(ctx context.Context, q rainfall.Query) (*FeatureCollection, error) {
	params := url.Values{}
	setParam(params, "uf", q.UF)
	setParam(params, "data", q.Date)
	setParam(params, "min_precip", q.MinPrecip)
	setParam(params, "max_precip", q.MaxPrecip)
	for _, m := range q.Municipalities {
		params.Add("municipios", m)
	}
	res := FeatureCollection{}
	if err := c.get(ctx, "/data", params, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Stats(ctx context.Context, uf, date string) (*rainfall.Stats, error) {
	params := url.Values{}
	setParam(params, "uf", uf)
	setParam(params, "data", date)
	res := rainfall.Stats{}
	if err := c.get(ctx, "/stats", params, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Timeline(ctx context.Context, uf string) ([]rainfall.TimelinePoint, error) {
	params := url.Values{}
	setParam(params, "uf", uf)
	var res []rainfall.TimelinePoint
	err := c.get(ctx, "/timeline", params, &res)
	return res, err
}

func (c *Client) Municipalities(ctx context.Context, uf, term string) ([]string, error) {
	params := url.Values{}
	setParam(params, "uf", uf)
	setParam(params, "q", term)
	var res []string
	err := c.get(ctx, "/municipios", params, &res)
	return res, err
}

func (c *Client) Heatmap(ctx context.Context, uf, date string) ([][3]float64, error) {
	params := url.Values{}
	setParam(params, "uf", uf)
	setParam(params, "data", date)
	var res [][3]float64
	err := c.get(ctx, "/heatmap", params, &res)
	return res, err
}

func setParam(v url.Values, key, value string) {
	if value = strings.TrimSpace(value); value != "" {
		v.Set(key, value)
	}
}

// get sends the request, retrying transport errors and 5xx answers, and
// decodes a 2xx body into dst.
func (c *Client) get(ctx context.Context, path string, params url.Values, dst interface{}) error {
	u := *c.baseURL
	u.Path += path
	u.RawQuery = params.Encode()
	reqID := logging.RequestID(ctx)
	if reqID == "" {
		reqID = uuid.NewString()
	}

	var body []byte
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Request-ID", reqID)
		res, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer res.Body.Close()
		body, err = io.ReadAll(res.Body)
		if err != nil {
			return err
		}
		if res.StatusCode >= http.StatusInternalServerError {
			return statusError(res.StatusCode, body)
		}
		if res.StatusCode >= http.StatusBadRequest {
			return backoff.Permanent(statusError(res.StatusCode, body))
		}
		return nil
	}
	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(c.retryInterval), c.maxRetries), ctx)
	notify := func(err error, d time.Duration) {
		logging.Warn(ctx, err, logging.Data{"path": path, "retry_in": d.String()}, "rainfall request failed, retrying")
	}
	if err := backoff.RetryNotify(op, b, notify); err != nil {
		var perm *backoff.PermanentError
		if errors.As(err, &perm) {
			return perm.Err
		}
		return err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%w: decoding %s: %v", ErrClient, path, err)
	}
	return nil
}

// statusError decodes the {"error": ...} body, a string or a list.
func statusError(status int, body []byte) *StatusError {
	e := &StatusError{StatusCode: status}
	switch {
	case status == http.StatusNotFound:
		e.kind = ErrNotFound
	case status >= http.StatusInternalServerError:
		e.kind = ErrServer
	default:
		e.kind = ErrBadRequest
	}
	var res struct {
		Error jsoniter.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &res); err == nil && len(res.Error) > 0 {
		var msg string
		if json.Unmarshal(res.Error, &msg) == nil {
			e.Messages = []string{msg}
			return e
		}
		var msgs []string
		if json.Unmarshal(res.Error, &msgs) == nil {
			e.Messages = msgs
			return e
		}
	}
	e.Messages = []string{strconv.Itoa(status) + " " + http.StatusText(status)}
	return e
}
