package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/ctxlog"
	"github.com/trailhead-social/caravan/pkg/domain/model"
	"github.com/trailhead-social/caravan/pkg/domain/types"
)

// userHeader carries the acting user identifier resolved by the upstream
// auth layer. This service never authenticates.
const userHeader = "X-User-ID"

// RequireUser middleware extracts the acting user from the request header and
// stores it in the request context. Requests without it are rejected.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := types.UserID(r.Header.Get(userHeader))
		if user == "" {
			http.Error(w, "Unauthorized: missing "+userHeader+" header", http.StatusUnauthorized)
			return
		}

		ctx := model.WithActor(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// LoggingMiddleware creates a chi-compatible logging middleware
func LoggingMiddleware(ctx context.Context) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Embed logger from the initial context into request context
			r = r.WithContext(ctxlog.With(r.Context(), ctxlog.From(ctx)))

			logger := ctxlog.From(r.Context())
			start := time.Now()

			// Wrap response writer to capture status
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("HTTP request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
			)
		})
	}
}
