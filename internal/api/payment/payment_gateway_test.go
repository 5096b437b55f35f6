package payment

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"
)

// fakeStripe serves the two payment intent endpoints the gateway calls.
func fakeStripe(t *testing.T) (*StripeGateway, *url.Values) {
	t.Helper()
	var created url.Values

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/payment_intents", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		created = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"pi_123","object":"payment_intent","client_secret":"pi_123_secret_abc","status":"requires_payment_method","metadata":{"userId":"` + r.PostForm.Get("metadata[userId]") + `"}}`))
	})
	mux.HandleFunc("GET /v1/payment_intents/pi_123", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"pi_123","object":"payment_intent","status":"succeeded","customer":"cus_9","metadata":{"userId":"u-1"}}`))
	})
	mux.HandleFunc("GET /v1/payment_intents/pi_missing", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"No such payment_intent: 'pi_missing'"}}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:               stripe.String(srv.URL),
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
	})
	g := newStripeGateway("sk_test_123", &stripe.Backends{API: backend, Connect: backend, Uploads: backend}, slog.Default())
	return g, &created
}

func TestStripeGateway(t *testing.T) {
	ctx := context.Background()

	t.Run("CreateTagsUser", func(t *testing.T) {
		g, created := fakeStripe(t)
		intent, err := g.CreatePaymentIntent(ctx, CreateIntentParams{
			AmountCents: 499, Currency: "usd", Description: "ParkPal Premium Subscription", UserID: "u-1",
		})
		require.NoError(t, err)
		assert.Equal(t, "pi_123_secret_abc", intent.ClientSecret)
		assert.Equal(t, "499", created.Get("amount"))
		assert.Equal(t, "usd", created.Get("currency"))
		assert.Equal(t, "u-1", created.Get("metadata[userId]"))
		assert.Equal(t, "ParkPal Premium Subscription", created.Get("metadata[description]"))
	})

	t.Run("Retrieve", func(t *testing.T) {
		g, _ := fakeStripe(t)
		intent, err := g.GetPaymentIntent(ctx, "pi_123")
		require.NoError(t, err)
		assert.Equal(t, StatusSucceeded, intent.Status)
		assert.Equal(t, "cus_9", intent.CustomerID)
		assert.Equal(t, "u-1", intent.Metadata["userId"])
	})

	t.Run("ProviderMessage", func(t *testing.T) {
		g, _ := fakeStripe(t)
		_, err := g.GetPaymentIntent(ctx, "pi_missing")
		require.Error(t, err)
		var pe *ProviderError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, "No such payment_intent: 'pi_missing'", pe.Message)
	})

	t.Run("NotConfigured", func(t *testing.T) {
		g := NewStripeGateway("", slog.Default())
		_, err := g.CreatePaymentIntent(ctx, CreateIntentParams{AmountCents: 499})
		assert.ErrorIs(t, err, errNotConfigured)
	})
}
