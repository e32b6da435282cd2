package handler

import (
	"context"
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/urbano-mdr/urbano/internal/logging"
)

const sessionName = "urbano"

// Flash categories.
const (
	flashSuccess = "success"
	flashError   = "error"
)

// Flash is a one-shot message shown on the next page view.
type Flash struct {
	Category string
	Message  string
}

func newCookieStore(key string) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(key))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   3600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

func (h *Handler) session(ctx context.Context, r *http.Request) *sessions.Session {
	s, err := h.sessions.Get(r, sessionName)
	if err != nil {
		// a cookie signed with another key yields a fresh session
		logging.Warn(ctx, err, nil, "discarding invalid session")
	}
	return s
}

func (h *Handler) addFlash(ctx context.Context, w http.ResponseWriter, r *http.Request, category, msg string) {
	s := h.session(ctx, r)
	s.AddFlash(msg, category)
	if err := s.Save(r, w); err != nil {
		logging.Error(ctx, err, nil, "failed to save session")
	}
}

// popFlashes returns and clears pending flashes, errors first.
func (h *Handler) popFlashes(ctx context.Context, w http.ResponseWriter, r *http.Request) []Flash {
	s := h.session(ctx, r)
	var out []Flash
	for _, category := range []string{flashError, flashSuccess} {
		for _, v := range s.Flashes(category) {
			if msg, ok := v.(string); ok {
				out = append(out, Flash{Category: category, Message: msg})
			}
		}
	}
	if len(out) > 0 {
		if err := s.Save(r, w); err != nil {
			logging.Error(ctx, err, nil, "failed to save session")
		}
	}
	return out
}
