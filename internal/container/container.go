package container

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	database "github.com/FACorreiaa/parkpal/app/db"
	appMiddleware "github.com/FACorreiaa/parkpal/app/middleware"
	"github.com/FACorreiaa/parkpal/config"
	"github.com/FACorreiaa/parkpal/internal/api/auth"
	"github.com/FACorreiaa/parkpal/internal/api/parking"
	"github.com/FACorreiaa/parkpal/internal/api/payment"
	"github.com/FACorreiaa/parkpal/internal/api/trial"
	"github.com/FACorreiaa/parkpal/internal/router"
)

// Container holds all application dependencies
type Container struct {
	Config         *config.Config
	Logger         *slog.Logger
	Pool           *pgxpool.Pool
	Redis          *redis.Client
	AuthHandler    *auth.HandlerImpl
	ParkingHandler *parking.HandlerImpl
	TrialHandler   *trial.HandlerImpl
	PaymentHandler *payment.HandlerImpl
	AuthService    auth.Service
	LoginLimiter   *appMiddleware.RateLimiter
}

// NewContainer wires repositories, services and handlers on top of an open pool.
// Sessions live in Redis when session.redisAddr is set, in process memory otherwise.
func NewContainer(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, logger *slog.Logger) (*Container, error) {
	var (
		sessions auth.SessionStore
		rdb      *redis.Client
	)
	if cfg.Session.RedisAddr != "" {
		client, err := auth.ConnectRedis(ctx, cfg.Session.RedisAddr, cfg.Session.RedisPassword, cfg.Session.RedisDB)
		if err != nil {
			logger.Error("Failed to connect to redis", slog.Any("error", err))
			return nil, err
		}
		rdb = client
		sessions = auth.NewRedisSessionStore(client)
		logger.Info("Using redis session store", slog.String("addr", cfg.Session.RedisAddr))
	} else {
		sessions = auth.NewMemorySessionStore()
		logger.Warn("session.redisAddr not set; sessions are kept in memory")
	}

	// Initialize repositories
	userRepo := auth.NewUserRepository(pool, logger)
	parkingRepo := parking.NewRepository(pool, logger)

	// Initialize services
	authService := auth.NewService(userRepo, sessions, cfg.Session, logger)
	parkingService := parking.NewService(parkingRepo, logger)
	gateway := payment.NewStripeGateway(cfg.Payment.StripeSecretKey, logger)
	paymentService := payment.NewService(gateway, userRepo, cfg.Payment, logger)

	return &Container{
		Config:         cfg,
		Logger:         logger,
		Pool:           pool,
		Redis:          rdb,
		AuthHandler:    auth.NewHandler(authService, cfg.Session, logger),
		ParkingHandler: parking.NewHandler(parkingService, logger),
		TrialHandler:   trial.NewHandler(time.Now, logger),
		PaymentHandler: payment.NewHandler(paymentService, logger),
		AuthService:    authService,
		LoginLimiter:   appMiddleware.NewRateLimiter(cfg.Session.LoginRate, cfg.Session.LoginBurst, logger),
	}, nil
}

// Router builds the application routes from the container's handlers.
func (c *Container) Router() http.Handler {
	return router.SetupRouter(&router.Config{
		AllowedOrigins:         c.Config.CORS.AllowedOrigins,
		AuthHandler:            c.AuthHandler,
		ParkingHandler:         c.ParkingHandler,
		TrialHandler:           c.TrialHandler,
		PaymentHandler:         c.PaymentHandler,
		AuthenticateMiddleware: auth.Authenticate(c.AuthService, c.Config.Session.CookieName, c.Logger),
		PremiumMiddleware:      trial.RequirePremium(time.Now, c.Logger),
		LoginRateLimit:         c.LoginLimiter.Middleware,
	})
}

// Close releases all resources held by the container
func (c *Container) Close() {
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Logger.Warn("Error closing redis client", slog.Any("error", err))
		}
	}
	if c.Pool != nil {
		c.Pool.Close()
	}
}

// WaitForDB waits for the database to be ready
func (c *Container) WaitForDB(ctx context.Context) bool {
	return database.WaitForDB(ctx, c.Pool, c.Logger)
}
