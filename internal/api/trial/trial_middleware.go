package trial

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/FACorreiaa/parkpal/app/observability/metrics"
	"github.com/FACorreiaa/parkpal/internal/api"
	"github.com/FACorreiaa/parkpal/internal/api/auth"
)

const premiumRequiredMessage = "Premium feature. Please upgrade to access parking history."

// RequirePremium lets through users who are premium or still in their trial. It runs after
// auth.Authenticate.
func RequirePremium(now func() time.Time, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			user, ok := auth.GetUserFromContext(ctx)
			if !ok {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			if !HasPremiumAccess(user, now()) {
				metrics.Get().PremiumGateDenied.Add(ctx, 1)
				api.HandleServiceError(w, r, logger.With(slog.String("middleware", "RequirePremium")),
					api.NewError(api.ErrPremiumRequired, premiumRequiredMessage))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
