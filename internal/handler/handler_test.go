package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/urbano-mdr/urbano/internal/notify"
	"github.com/urbano-mdr/urbano/internal/server"
)

type publisherMock struct {
	mu        sync.Mutex
	events    []notify.ReportEvent
	deadlines []time.Time
	block     bool
	err       error
}

func (p *publisherMock) Publish(ctx context.Context, e notify.ReportEvent) error {
	if d, ok := ctx.Deadline(); ok {
		p.mu.Lock()
		p.deadlines = append(p.deadlines, d)
		p.mu.Unlock()
	}
	if p.block {
		<-ctx.Done()
		return ctx.Err()
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

func (p *publisherMock) Close() error { return nil }

func newTestServer(t *testing.T, register func(*Handler, *server.Server), opts ...OptionFunc) (*server.Server, *Handler) {
	t.Helper()
	h := New(opts...)
	s := server.New("test", ":0", time.Second, server.WithNotFound(http.HandlerFunc(NotFoundJSON)))
	register(h, s)
	return s, h
}

func get(t *testing.T, s http.Handler, target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func postForm(t *testing.T, s http.Handler, target string, values url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

// followFlash replays the session cookie of rec on the form page.
func followFlash(t *testing.T, s http.Handler, rec *httptest.ResponseRecorder) string {
	t.Helper()
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/", rec.Header().Get("Location"))
	page := get(t, s, "/", rec.Result().Cookies()...)
	require.Equal(t, http.StatusOK, page.Code)
	return page.Body.String()
}
