package payment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/parkpal/app/observability/metrics"
	"github.com/FACorreiaa/parkpal/config"
	"github.com/FACorreiaa/parkpal/internal/api"
	"github.com/FACorreiaa/parkpal/internal/types"
)

// UserStore is the slice of the user repository payments need.
type UserStore interface {
	UpdatePremiumStatus(ctx context.Context, id uuid.UUID, premium bool) (*types.User, error)
	UpdateStripeCustomerID(ctx context.Context, id uuid.UUID, customerID string) (*types.User, error)
}

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	// CreatePaymentIntent opens a provider intent tagged with the user's id and returns its client secret.
	CreatePaymentIntent(ctx context.Context, userID uuid.UUID, req types.CreatePaymentIntentRequest) (string, error)
	// ConfirmSubscription verifies the intent succeeded and marks the user premium.
	ConfirmSubscription(ctx context.Context, userID uuid.UUID, paymentIntentID string) (*types.User, error)
}

type ServiceImpl struct {
	logger  *slog.Logger
	gateway Gateway
	users   UserStore
	cfg     config.PaymentConfig
}

func NewService(gateway Gateway, users UserStore, cfg config.PaymentConfig, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:  logger,
		gateway: gateway,
		users:   users,
		cfg:     cfg,
	}
}

func (s *ServiceImpl) CreatePaymentIntent(ctx context.Context, userID uuid.UUID, req types.CreatePaymentIntentRequest) (string, error) {
	ctx, span := otel.Tracer("PaymentService").Start(ctx, "CreatePaymentIntent", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
		attribute.Int64("amount", req.Amount),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "CreatePaymentIntent"), slog.String("userID", userID.String()))

	if req.Amount <= 0 {
		return "", api.NewError(api.ErrValidation, "amount must be a positive number of cents")
	}
	if s.cfg.PremiumPriceCents > 0 && req.Amount != s.cfg.PremiumPriceCents {
		l.WarnContext(ctx, "Payment amount differs from configured premium price",
			slog.Int64("amount", req.Amount), slog.Int64("price", s.cfg.PremiumPriceCents))
	}

	description := req.Description
	if description == "" {
		description = types.DefaultPaymentDescription
	}

	intent, err := s.gateway.CreatePaymentIntent(ctx, CreateIntentParams{
		AmountCents: req.Amount,
		Currency:    s.cfg.Currency,
		Description: description,
		UserID:      userID.String(),
	})
	if err != nil {
		l.ErrorContext(ctx, "Payment provider rejected intent", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "provider error")
		return "", fmt.Errorf("%w: %w", api.NewError(api.ErrUpstreamProvider, "Error creating payment intent: "+err.Error()), err)
	}

	metrics.Get().PaymentIntentsCreated.Add(ctx, 1)
	l.InfoContext(ctx, "Payment intent created", slog.String("paymentIntentID", intent.ID))
	span.SetStatus(codes.Ok, "")
	return intent.ClientSecret, nil
}

func (s *ServiceImpl) ConfirmSubscription(ctx context.Context, userID uuid.UUID, paymentIntentID string) (*types.User, error) {
	ctx, span := otel.Tracer("PaymentService").Start(ctx, "ConfirmSubscription", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("payment_intent.id", paymentIntentID),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "ConfirmSubscription"),
		slog.String("userID", userID.String()), slog.String("paymentIntentID", paymentIntentID))

	intent, err := s.gateway.GetPaymentIntent(ctx, paymentIntentID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to retrieve payment intent", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "provider error")
		return nil, fmt.Errorf("%w: %w", api.NewError(api.ErrUpstreamProvider, "Error confirming subscription: "+err.Error()), err)
	}

	if intent.Metadata[metadataUserID] != userID.String() {
		l.WarnContext(ctx, "Payment intent belongs to another user", slog.String("owner", intent.Metadata[metadataUserID]))
		span.SetStatus(codes.Error, "intent owner mismatch")
		return nil, api.NewError(api.ErrForbidden, "Payment intent does not belong to this user")
	}
	if intent.Status != StatusSucceeded {
		l.InfoContext(ctx, "Payment not completed", slog.String("status", intent.Status))
		return nil, api.NewError(api.ErrPaymentIncomplete, "Payment has not been completed")
	}

	if intent.CustomerID != "" {
		if _, err := s.users.UpdateStripeCustomerID(ctx, userID, intent.CustomerID); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to store stripe customer: %w", err)
		}
	}

	user, err := s.users.UpdatePremiumStatus(ctx, userID, true)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "premium update failed")
		return nil, fmt.Errorf("failed to upgrade user: %w", err)
	}

	metrics.Get().SubscriptionsConfirmed.Add(ctx, 1)
	l.InfoContext(ctx, "Subscription confirmed")
	span.SetStatus(codes.Ok, "")
	return user, nil
}
