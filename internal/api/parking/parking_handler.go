package parking

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/parkpal/internal/api"
	"github.com/FACorreiaa/parkpal/internal/api/auth"
	"github.com/FACorreiaa/parkpal/internal/types"
)

type HandlerImpl struct {
	logger  *slog.Logger
	service Service
}

func NewHandler(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		logger:  logger,
		service: service,
	}
}

func pathUUID(r *http.Request, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		return uuid.Nil, api.NewError(api.ErrValidation, "Invalid "+param)
	}
	return id, nil
}

// CreateParkingLocation godoc
// @Summary      Save parking location
// @Description  Records where the user parked. The previous active location and its timer are deactivated.
// @Tags         Parking
// @Accept       json
// @Produce      json
// @Param        body body types.CreateParkingLocationRequest true "Location"
// @Success      201 {object} types.ParkingLocation
// @Failure      400 {object} types.MessageResponse
// @Failure      401 "No session"
// @Router       /parking [post]
func (h *HandlerImpl) CreateParkingLocation(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ParkingHandler").Start(r.Context(), "CreateParkingLocation", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/parking"),
	))
	defer span.End()
	l := h.logger.With(slog.String("handler", "CreateParkingLocation"))

	userID, ok := auth.GetUserIDFromContext(ctx)
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	var req types.CreateParkingLocationRequest
	if err := api.DecodeAndValidate(w, r, &req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid body")
		api.HandleServiceError(w, r, l, err)
		return
	}

	loc, err := h.service.CreateParkingLocation(ctx, userID, types.NewParkingLocation{
		Latitude:     string(req.Latitude),
		Longitude:    string(req.Longitude),
		LocationName: req.LocationName,
		Notes:        req.Notes,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create failed")
		api.HandleServiceError(w, r, l, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	api.WriteJSONResponse(w, r, http.StatusCreated, loc)
}

// GetActiveParkingLocation godoc
// @Summary      Active parking location
// @Tags         Parking
// @Produce      json
// @Success      200 {object} types.ParkingLocation
// @Failure      404 {object} types.MessageResponse
// @Router       /parking/active [get]
func (h *HandlerImpl) GetActiveParkingLocation(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ParkingHandler").Start(r.Context(), "GetActiveParkingLocation")
	defer span.End()
	l := h.logger.With(slog.String("handler", "GetActiveParkingLocation"))

	userID, ok := auth.GetUserIDFromContext(ctx)
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	loc, err := h.service.GetActiveParkingLocation(ctx, userID)
	if err != nil {
		span.RecordError(err)
		api.HandleServiceError(w, r, l, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, loc)
}

// EndParkingLocation godoc
// @Summary      End parking session
// @Tags         Parking
// @Produce      json
// @Param        id path string true "Parking location ID" format(uuid)
// @Success      200 {object} types.MessageResponse
// @Failure      403 {object} types.MessageResponse
// @Failure      404 {object} types.MessageResponse
// @Router       /parking/{id}/end [post]
func (h *HandlerImpl) EndParkingLocation(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ParkingHandler").Start(r.Context(), "EndParkingLocation")
	defer span.End()
	l := h.logger.With(slog.String("handler", "EndParkingLocation"))

	userID, ok := auth.GetUserIDFromContext(ctx)
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	locationID, err := pathUUID(r, "id")
	if err != nil {
		api.HandleServiceError(w, r, l, err)
		return
	}
	span.SetAttributes(attribute.String("parking_location.id", locationID.String()))

	if err := h.service.EndParkingLocation(ctx, locationID, userID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "end failed")
		api.HandleServiceError(w, r, l, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, types.MessageResponse{Message: "Parking session ended"})
}

// GetHistory godoc
// @Summary      Parking history
// @Description  Most recent parking locations, newest first. Requires premium or an active trial.
// @Tags         Parking
// @Produce      json
// @Param        limit query int false "Maximum entries (1-100)" default(10)
// @Success      200 {array} types.ParkingLocation
// @Failure      400 {object} types.MessageResponse
// @Failure      403 {object} types.MessageResponse
// @Router       /parking/history [get]
func (h *HandlerImpl) GetHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ParkingHandler").Start(r.Context(), "GetHistory")
	defer span.End()
	l := h.logger.With(slog.String("handler", "GetHistory"))

	userID, ok := auth.GetUserIDFromContext(ctx)
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	limit := DefaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			api.ErrorResponse(w, r, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	history, err := h.service.GetHistory(ctx, userID, limit)
	if err != nil {
		span.RecordError(err)
		api.HandleServiceError(w, r, l, err)
		return
	}
	span.SetAttributes(attribute.Int("results", len(history)))
	api.WriteJSONResponse(w, r, http.StatusOK, history)
}

// CreateTimer godoc
// @Summary      Set parking timer
// @Description  Replaces any active timer on the location.
// @Tags         Timer
// @Accept       json
// @Produce      json
// @Param        body body types.CreateTimerRequest true "Timer"
// @Success      201 {object} types.ParkingTimer
// @Failure      400 {object} types.MessageResponse
// @Failure      403 {object} types.MessageResponse
// @Router       /timer [post]
func (h *HandlerImpl) CreateTimer(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ParkingHandler").Start(r.Context(), "CreateTimer", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/timer"),
	))
	defer span.End()
	l := h.logger.With(slog.String("handler", "CreateTimer"))

	userID, ok := auth.GetUserIDFromContext(ctx)
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	var req types.CreateTimerRequest
	if err := api.DecodeAndValidate(w, r, &req); err != nil {
		span.RecordError(err)
		api.HandleServiceError(w, r, l, err)
		return
	}

	timer, err := h.service.CreateTimer(ctx, req.ParkingLocationID, userID, req.DurationMinutes)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create timer failed")
		api.HandleServiceError(w, r, l, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	api.WriteJSONResponse(w, r, http.StatusCreated, timer)
}

// GetActiveTimer godoc
// @Summary      Active timer for a parking location
// @Tags         Timer
// @Produce      json
// @Param        parkingId path string true "Parking location ID" format(uuid)
// @Success      200 {object} types.ParkingTimer
// @Failure      403 {object} types.MessageResponse
// @Failure      404 {object} types.MessageResponse
// @Router       /timer/{parkingId} [get]
func (h *HandlerImpl) GetActiveTimer(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ParkingHandler").Start(r.Context(), "GetActiveTimer")
	defer span.End()
	l := h.logger.With(slog.String("handler", "GetActiveTimer"))

	userID, ok := auth.GetUserIDFromContext(ctx)
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	locationID, err := pathUUID(r, "parkingId")
	if err != nil {
		api.HandleServiceError(w, r, l, err)
		return
	}

	timer, err := h.service.GetActiveTimer(ctx, locationID, userID)
	if err != nil {
		span.RecordError(err)
		api.HandleServiceError(w, r, l, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, timer)
}

// CancelTimer godoc
// @Summary      Cancel timer
// @Tags         Timer
// @Produce      json
// @Param        id path string true "Timer ID" format(uuid)
// @Success      200 {object} types.MessageResponse
// @Router       /timer/{id}/cancel [post]
func (h *HandlerImpl) CancelTimer(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ParkingHandler").Start(r.Context(), "CancelTimer")
	defer span.End()
	l := h.logger.With(slog.String("handler", "CancelTimer"))

	timerID, err := pathUUID(r, "id")
	if err != nil {
		api.HandleServiceError(w, r, l, err)
		return
	}

	if err := h.service.CancelTimer(ctx, timerID); err != nil {
		span.RecordError(err)
		api.HandleServiceError(w, r, l, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, types.MessageResponse{Message: "Timer cancelled"})
}
