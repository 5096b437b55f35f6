package payment

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
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

// CreatePaymentIntent godoc
// @Summary      Create payment intent
// @Description  Opens a Stripe payment intent for the premium upgrade and returns its client secret.
// @Tags         Payments
// @Accept       json
// @Produce      json
// @Param        body body types.CreatePaymentIntentRequest true "Amount in cents"
// @Success      200 {object} types.CreatePaymentIntentResponse
// @Failure      400 {object} types.MessageResponse
// @Failure      500 {object} types.MessageResponse
// @Router       /create-payment-intent [post]
func (h *HandlerImpl) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PaymentHandler").Start(r.Context(), "CreatePaymentIntent", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/create-payment-intent"),
	))
	defer span.End()
	l := h.logger.With(slog.String("handler", "CreatePaymentIntent"))

	userID, ok := auth.GetUserIDFromContext(ctx)
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	var req types.CreatePaymentIntentRequest
	if err := api.DecodeAndValidate(w, r, &req); err != nil {
		span.RecordError(err)
		api.HandleServiceError(w, r, l, err)
		return
	}

	secret, err := h.service.CreatePaymentIntent(ctx, userID, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create intent failed")
		api.HandleServiceError(w, r, l, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	api.WriteJSONResponse(w, r, http.StatusOK, types.CreatePaymentIntentResponse{ClientSecret: secret})
}

// ConfirmSubscription godoc
// @Summary      Confirm subscription
// @Description  Verifies the payment intent succeeded and upgrades the user to premium.
// @Tags         Payments
// @Accept       json
// @Produce      json
// @Param        body body types.ConfirmSubscriptionRequest true "Payment intent"
// @Success      200 {object} types.ConfirmSubscriptionResponse
// @Failure      400 {object} types.MessageResponse
// @Failure      403 {object} types.MessageResponse
// @Failure      500 {object} types.MessageResponse
// @Router       /confirm-subscription [post]
func (h *HandlerImpl) ConfirmSubscription(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PaymentHandler").Start(r.Context(), "ConfirmSubscription", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/confirm-subscription"),
	))
	defer span.End()
	l := h.logger.With(slog.String("handler", "ConfirmSubscription"))

	userID, ok := auth.GetUserIDFromContext(ctx)
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	var req types.ConfirmSubscriptionRequest
	if err := api.DecodeAndValidate(w, r, &req); err != nil {
		span.RecordError(err)
		api.HandleServiceError(w, r, l, err)
		return
	}

	user, err := h.service.ConfirmSubscription(ctx, userID, req.PaymentIntentID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "confirm failed")
		api.HandleServiceError(w, r, l, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	api.WriteJSONResponse(w, r, http.StatusOK, types.ConfirmSubscriptionResponse{Success: true, User: user})
}
