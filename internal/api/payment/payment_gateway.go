package payment

import (
	"context"
	"errors"
	"log/slog"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

const (
	StatusSucceeded = string(stripe.PaymentIntentStatusSucceeded)

	metadataUserID      = "userId"
	metadataDescription = "description"
)

var errNotConfigured = errors.New("stripe secret key is not configured")

// PaymentIntent is the provider-neutral view of an intent.
type PaymentIntent struct {
	ID           string
	ClientSecret string
	Status       string
	Metadata     map[string]string
	CustomerID   string
}

type CreateIntentParams struct {
	AmountCents int64
	Currency    string
	Description string
	UserID      string
}

// Gateway is the payment provider port.
type Gateway interface {
	CreatePaymentIntent(ctx context.Context, p CreateIntentParams) (*PaymentIntent, error)
	GetPaymentIntent(ctx context.Context, id string) (*PaymentIntent, error)
}

var _ Gateway = (*StripeGateway)(nil)

// StripeGateway implements Gateway with the Stripe API.
type StripeGateway struct {
	logger *slog.Logger
	sc     *client.API
}

// NewStripeGateway returns a gateway for secretKey. With an empty key every call fails.
func NewStripeGateway(secretKey string, logger *slog.Logger) *StripeGateway {
	return newStripeGateway(secretKey, nil, logger)
}

// newStripeGateway uses the default Stripe backends when backends is nil.
func newStripeGateway(secretKey string, backends *stripe.Backends, logger *slog.Logger) *StripeGateway {
	g := &StripeGateway{logger: logger}
	if secretKey == "" {
		logger.Warn("Stripe secret key not set; payment endpoints will fail")
		return g
	}
	g.sc = &client.API{}
	g.sc.Init(secretKey, backends)
	return g
}

func (g *StripeGateway) CreatePaymentIntent(ctx context.Context, p CreateIntentParams) (*PaymentIntent, error) {
	if g.sc == nil {
		return nil, errNotConfigured
	}
	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(p.AmountCents),
		Currency:    stripe.String(p.Currency),
		Description: stripe.String(p.Description),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.AddMetadata(metadataUserID, p.UserID)
	params.AddMetadata(metadataDescription, p.Description)

	pi, err := g.sc.PaymentIntents.New(params)
	if err != nil {
		return nil, stripeError(err)
	}
	g.logger.DebugContext(ctx, "Stripe payment intent created", slog.String("paymentIntentID", pi.ID))
	return fromStripe(pi), nil
}

func (g *StripeGateway) GetPaymentIntent(ctx context.Context, id string) (*PaymentIntent, error) {
	if g.sc == nil {
		return nil, errNotConfigured
	}
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := g.sc.PaymentIntents.Get(id, params)
	if err != nil {
		return nil, stripeError(err)
	}
	return fromStripe(pi), nil
}

func fromStripe(pi *stripe.PaymentIntent) *PaymentIntent {
	out := &PaymentIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
		Metadata:     pi.Metadata,
	}
	if pi.Customer != nil {
		out.CustomerID = pi.Customer.ID
	}
	return out
}

// ProviderError carries the provider's human-readable message.
type ProviderError struct {
	Message string
	Err     error
}

func (e *ProviderError) Error() string { return e.Message }

func (e *ProviderError) Unwrap() error { return e.Err }

func stripeError(err error) error {
	var se *stripe.Error
	if errors.As(err, &se) && se.Msg != "" {
		return &ProviderError{Message: se.Msg, Err: err}
	}
	return &ProviderError{Message: err.Error(), Err: err}
}
