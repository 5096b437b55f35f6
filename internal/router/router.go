package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/FACorreiaa/parkpal/internal/api/auth"
	"github.com/FACorreiaa/parkpal/internal/api/parking"
	"github.com/FACorreiaa/parkpal/internal/api/payment"
	"github.com/FACorreiaa/parkpal/internal/api/trial"
)

// Config contains dependencies needed for the router setup
type Config struct {
	AllowedOrigins         []string
	AuthHandler            *auth.HandlerImpl
	ParkingHandler         *parking.HandlerImpl
	TrialHandler           *trial.HandlerImpl
	PaymentHandler         *payment.HandlerImpl
	AuthenticateMiddleware func(http.Handler) http.Handler
	PremiumMiddleware      func(http.Handler) http.Handler
	LoginRateLimit         func(http.Handler) http.Handler
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, request id, recoverer) is applied by the caller.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/api", func(r chi.Router) {
		// --- Public Auth Routes ---
		r.Post("/register", cfg.AuthHandler.Register)
		r.With(cfg.LoginRateLimit).Post("/login", cfg.AuthHandler.Login)
		r.Post("/logout", cfg.AuthHandler.Logout)

		// --- Protected Routes ---
		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthenticateMiddleware)

			r.Get("/user", cfg.AuthHandler.CurrentUser)

			r.Post("/parking", cfg.ParkingHandler.CreateParkingLocation)
			r.Get("/parking/active", cfg.ParkingHandler.GetActiveParkingLocation)
			r.With(cfg.PremiumMiddleware).Get("/parking/history", cfg.ParkingHandler.GetHistory)
			r.Post("/parking/{id}/end", cfg.ParkingHandler.EndParkingLocation)

			r.Post("/timer", cfg.ParkingHandler.CreateTimer)
			r.Get("/timer/{parkingId}", cfg.ParkingHandler.GetActiveTimer)
			r.Post("/timer/{id}/cancel", cfg.ParkingHandler.CancelTimer)

			r.Get("/trial-status", cfg.TrialHandler.GetTrialStatus)

			r.Post("/create-payment-intent", cfg.PaymentHandler.CreatePaymentIntent)
			r.Post("/confirm-subscription", cfg.PaymentHandler.ConfirmSubscription)
		})
	})

	return r
}
