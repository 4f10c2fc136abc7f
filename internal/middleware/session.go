package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Asim1921/Jodi-frontend/internal/session"
	"github.com/Asim1921/Jodi-frontend/pkg/logger"
)

type sessionKey struct{}

// Session returns middleware that resolves (or mints) the browser session
// for every request and stores it in context. The session ID is also made
// available to the request-scoped logger.
func Session(mgr *session.Manager, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := mgr.Session(w, r)
			if err != nil {
				log.ErrorContext(r.Context(), "resolve browser session",
					slog.String("error", err.Error()),
				)
				http.Error(w, "session unavailable", http.StatusInternalServerError)
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey{}, sess)
			ctx = logger.WithSessionID(ctx, sess.ID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext returns the browser session stored by the Session
// middleware, or nil when none is mounted.
func SessionFromContext(ctx context.Context) *session.Session {
	if sess, ok := ctx.Value(sessionKey{}).(*session.Session); ok {
		return sess
	}
	return nil
}
