package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	appLogger "github.com/FACorreiaa/parkpal/app/logger"
	"github.com/FACorreiaa/parkpal/internal/api"
)

// tokenFromRequest prefers the session cookie and falls back to a Bearer header.
func tokenFromRequest(r *http.Request, cookieName string) string {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value
	}
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// Authenticate loads the session user into the request context.
// Requests without a valid session get a bare 401.
func Authenticate(svc Service, cookieName string, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			l := logger.With(slog.String("middleware", "Authenticate"))

			token := tokenFromRequest(r, cookieName)
			if token == "" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			user, err := svc.Authenticate(ctx, token)
			if err != nil {
				if errors.Is(err, api.ErrUnauthenticated) {
					l.DebugContext(ctx, "Unauthenticated request", slog.String("path", r.URL.Path), slog.Any("error", err))
					w.WriteHeader(http.StatusUnauthorized)
					return
				}
				l.ErrorContext(ctx, "Session lookup failed", slog.Any("error", err))
				api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal server error")
				return
			}

			appLogger.AddFields(ctx, slog.String("userID", user.ID.String()))
			next.ServeHTTP(w, r.WithContext(WithUser(ctx, user)))
		})
	}
}
