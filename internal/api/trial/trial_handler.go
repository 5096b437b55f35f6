package trial

import (
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/FACorreiaa/parkpal/internal/api"
	"github.com/FACorreiaa/parkpal/internal/api/auth"
)

type HandlerImpl struct {
	logger *slog.Logger
	now    func() time.Time
}

func NewHandler(now func() time.Time, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{logger: logger, now: now}
}

// GetTrialStatus godoc
// @Summary      Trial status
// @Description  Premium flag, whether the 7-day trial is running and how many days remain.
// @Tags         Trial
// @Produce      json
// @Success      200 {object} types.TrialStatus
// @Failure      401 "No session"
// @Router       /trial-status [get]
func (h *HandlerImpl) GetTrialStatus(w http.ResponseWriter, r *http.Request) {
	_, span := otel.Tracer("TrialHandler").Start(r.Context(), "GetTrialStatus")
	defer span.End()

	user, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	status := ComputeStatus(user, h.now())
	span.SetAttributes(
		attribute.Bool("trial.active", status.IsTrialActive),
		attribute.Int("trial.days_left", status.DaysLeft),
	)
	api.WriteJSONResponse(w, r, http.StatusOK, status)
}
