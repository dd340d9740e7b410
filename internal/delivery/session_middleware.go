package delivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/google/uuid"

	"github.com/Vovarama1992/speakmosaic/internal/session"
)

const SessionCookie = "speakmosaic_sid"

type ctxKey struct{}

// SessionMiddleware resolves the visitor's session from the cookie, starting
// a new one when it is missing or expired, and holds the session lock until
// the request is served.
func SessionMiddleware(sessions session.Service, log *logger.ZapLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			var h *session.Handle
			if c, err := r.Cookie(SessionCookie); err == nil && webSessionID(c.Value) {
				h, err = sessions.Acquire(ctx, c.Value)
				if err != nil && !errors.Is(err, session.ErrNotFound) {
					log.Log(logger.LogEntry{Level: "warn", Message: "session acquire", Error: err})
					http.Error(w, "session busy", http.StatusServiceUnavailable)
					return
				}
			}
			if h == nil {
				var err error
				if h, err = sessions.Start(ctx); err != nil {
					http.Error(w, "session start failed", http.StatusServiceUnavailable)
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookie,
					Value:    h.ID(),
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}
			defer h.Release()

			next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, ctxKey{}, h)))
		})
	}
}

// webSessionID reports whether v looks like an ID minted by Start. Chat
// sessions use other IDs and must not be reachable through a cookie.
func webSessionID(v string) bool {
	_, err := uuid.Parse(v)
	return err == nil
}

// StateFrom returns the locked session state of the request.
func StateFrom(ctx context.Context) *session.State {
	h, _ := ctx.Value(ctxKey{}).(*session.Handle)
	if h == nil {
		return nil
	}
	return h.State()
}
