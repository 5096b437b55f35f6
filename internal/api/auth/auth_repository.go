package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	database "github.com/FACorreiaa/parkpal/app/db"
	"github.com/FACorreiaa/parkpal/app/observability/metrics"
	"github.com/FACorreiaa/parkpal/internal/api"
	"github.com/FACorreiaa/parkpal/internal/types"
)

var _ UserRepository = (*UserRepositoryImpl)(nil)

type UserRepository interface {
	// CreateUser inserts a non-premium user whose trial starts at trialStart.
	// Returns api.ErrUsernameTaken if the username exists.
	CreateUser(ctx context.Context, username, passwordHash string, email *string, trialStart time.Time) (*types.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*types.User, error)
	GetUserByUsername(ctx context.Context, username string) (*types.User, error)
	UpdatePremiumStatus(ctx context.Context, id uuid.UUID, premium bool) (*types.User, error)
	UpdateStripeCustomerID(ctx context.Context, id uuid.UUID, customerID string) (*types.User, error)
}

type UserRepositoryImpl struct {
	logger *slog.Logger
	db     database.DB
}

func NewUserRepository(db database.DB, logger *slog.Logger) *UserRepositoryImpl {
	return &UserRepositoryImpl{
		logger: logger,
		db:     db,
	}
}

const userColumns = `id, username, password, email, trial_start_date, premium_user,
	stripe_customer_id, stripe_subscription_id, created_at`

func scanUser(row pgx.Row) (*types.User, error) {
	var u types.User
	err := row.Scan(&u.ID, &u.Username, &u.Password, &u.Email, &u.TrialStartDate, &u.PremiumUser,
		&u.StripeCustomerID, &u.StripeSubscriptionID, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepositoryImpl) CreateUser(ctx context.Context, username, passwordHash string, email *string, trialStart time.Time) (*types.User, error) {
	ctx, span := otel.Tracer("UserRepo").Start(ctx, "CreateUser", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	query := `
		INSERT INTO users (username, password, email, trial_start_date, premium_user)
		VALUES ($1, $2, $3, $4, FALSE)
		RETURNING ` + userColumns

	start := time.Now()
	user, err := scanUser(r.db.QueryRow(ctx, query, username, passwordHash, email, trialStart))
	metrics.ObserveQuery(ctx, "users.insert", start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		if database.IsUniqueViolation(err) {
			return nil, api.NewError(api.ErrUsernameTaken, "Username already exists")
		}
		r.logger.ErrorContext(ctx, "Failed to insert user", slog.Any("error", err))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (r *UserRepositoryImpl) GetUserByID(ctx context.Context, id uuid.UUID) (*types.User, error) {
	ctx, span := otel.Tracer("UserRepo").Start(ctx, "GetUserByID", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.user.id", id.String()),
	))
	defer span.End()

	return r.getOne(ctx, span, "users.get_by_id", `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepositoryImpl) GetUserByUsername(ctx context.Context, username string) (*types.User, error) {
	ctx, span := otel.Tracer("UserRepo").Start(ctx, "GetUserByUsername", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
	))
	defer span.End()

	return r.getOne(ctx, span, "users.get_by_username", `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r *UserRepositoryImpl) UpdatePremiumStatus(ctx context.Context, id uuid.UUID, premium bool) (*types.User, error) {
	ctx, span := otel.Tracer("UserRepo").Start(ctx, "UpdatePremiumStatus", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.user.id", id.String()),
		attribute.Bool("premium", premium),
	))
	defer span.End()

	query := `UPDATE users SET premium_user = $2 WHERE id = $1 RETURNING ` + userColumns
	return r.getOne(ctx, span, "users.update_premium", query, id, premium)
}

func (r *UserRepositoryImpl) UpdateStripeCustomerID(ctx context.Context, id uuid.UUID, customerID string) (*types.User, error) {
	ctx, span := otel.Tracer("UserRepo").Start(ctx, "UpdateStripeCustomerID", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.user.id", id.String()),
	))
	defer span.End()

	query := `UPDATE users SET stripe_customer_id = $2 WHERE id = $1 RETURNING ` + userColumns
	return r.getOne(ctx, span, "users.update_stripe_customer", query, id, customerID)
}

func (r *UserRepositoryImpl) getOne(ctx context.Context, span trace.Span, op, query string, args ...any) (*types.User, error) {
	start := time.Now()
	user, err := scanUser(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		metrics.ObserveQuery(ctx, op, start, nil)
		span.SetStatus(codes.Error, "user not found")
		return nil, fmt.Errorf("user not found: %w", api.ErrNotFound)
	}
	metrics.ObserveQuery(ctx, op, start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "User query failed", slog.String("op", op), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error in %s: %w", op, err)
	}
	span.SetStatus(codes.Ok, "")
	return user, nil
}
