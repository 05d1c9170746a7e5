package handler

import (
	"context"
	"net/http"

	"github.com/boddenberg/financeiro-bfa-go/internal/infra/session"

	"go.uber.org/zap"
)

type contextKey string

const pageKey contextKey = "page"

// SessionMiddleware resolves the session cookie and injects the session's
// page into the request context. Invalid or expired cookies get a new session.
func SessionMiddleware(sessions *session.Store[*Page], logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			page, err := sessions.Resolve(w, r)
			if err != nil {
				logger.Error("session: could not start session",
					zap.String("path", r.URL.Path),
					zap.Error(err),
				)
				writeError(w, http.StatusInternalServerError, "internal server error")
				return
			}

			ctx := context.WithValue(r.Context(), pageKey, page)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PageFromContext returns the session page set by SessionMiddleware.
func PageFromContext(ctx context.Context) *Page {
	p, _ := ctx.Value(pageKey).(*Page)
	return p
}
