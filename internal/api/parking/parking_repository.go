package parking

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

var _ Repository = (*RepositoryImpl)(nil)

type Repository interface {
	// CreateLocation deactivates the user's active location and its active timer, then inserts
	// loc as the new active location, all in one transaction.
	CreateLocation(ctx context.Context, userID uuid.UUID, loc types.NewParkingLocation, parkedAt time.Time) (*types.ParkingLocation, error)
	GetActiveLocation(ctx context.Context, userID uuid.UUID) (*types.ParkingLocation, error)
	GetLocationByID(ctx context.Context, id uuid.UUID) (*types.ParkingLocation, error)
	// EndLocation deactivates the location and its active timer atomically.
	EndLocation(ctx context.Context, id uuid.UUID) error
	// ListHistory returns the user's most recent locations, newest first.
	ListHistory(ctx context.Context, userID uuid.UUID, limit int) ([]types.ParkingLocation, error)
	// CreateTimer replaces the location's active timer in one transaction.
	CreateTimer(ctx context.Context, locationID uuid.UUID, durationMinutes int, endTime, createdAt time.Time) (*types.ParkingTimer, error)
	GetActiveTimer(ctx context.Context, locationID uuid.UUID) (*types.ParkingTimer, error)
	CancelTimer(ctx context.Context, timerID uuid.UUID) error
}

type RepositoryImpl struct {
	logger *slog.Logger
	db     database.DB
}

func NewRepository(db database.DB, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		db:     db,
	}
}

const (
	locationColumns = `id, user_id, latitude, longitude, location_name, notes, parked_at, is_active`
	timerColumns    = `id, parking_location_id, duration_minutes, end_time, is_active, created_at`

	deactivateUserTimers = `
		UPDATE parking_timers SET is_active = FALSE
		WHERE is_active AND parking_location_id IN (
			SELECT id FROM parking_locations WHERE user_id = $1 AND is_active
		)`
	deactivateUserLocations = `UPDATE parking_locations SET is_active = FALSE WHERE user_id = $1 AND is_active`
	deactivateLocationTimer = `UPDATE parking_timers SET is_active = FALSE WHERE parking_location_id = $1 AND is_active`
)

func scanLocation(row pgx.Row) (*types.ParkingLocation, error) {
	var p types.ParkingLocation
	if err := row.Scan(&p.ID, &p.UserID, &p.Latitude, &p.Longitude, &p.LocationName, &p.Notes, &p.ParkedAt, &p.IsActive); err != nil {
		return nil, err
	}
	return &p, nil
}

func scanTimer(row pgx.Row) (*types.ParkingTimer, error) {
	var t types.ParkingTimer
	if err := row.Scan(&t.ID, &t.ParkingLocationID, &t.DurationMinutes, &t.EndTime, &t.IsActive, &t.CreatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func startSpan(ctx context.Context, name, table string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, semconv.DBSystemPostgreSQL, attribute.String("db.sql.table", table))
	return otel.Tracer("ParkingRepo").Start(ctx, name, trace.WithAttributes(attrs...))
}

func (r *RepositoryImpl) fail(ctx context.Context, span trace.Span, msg string, err error) error {
	r.logger.ErrorContext(ctx, msg, slog.Any("error", err))
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	if database.IsUniqueViolation(err) {
		return fmt.Errorf("%s: %w", msg, api.ErrConflict)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// inTx runs fn in a transaction, committing on success and rolling back on error.
func (r *RepositoryImpl) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			r.logger.WarnContext(ctx, "Rollback failed", slog.Any("error", rbErr))
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) CreateLocation(ctx context.Context, userID uuid.UUID, loc types.NewParkingLocation, parkedAt time.Time) (*types.ParkingLocation, error) {
	ctx, span := startSpan(ctx, "CreateLocation", "parking_locations", attribute.String("db.user.id", userID.String()))
	defer span.End()

	start := time.Now()
	var created *types.ParkingLocation
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		// Serializes concurrent creates for the same user.
		tag, err := tx.Exec(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, userID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("user %s: %w", userID, api.ErrNotFound)
		}
		if _, err := tx.Exec(ctx, deactivateUserTimers, userID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, deactivateUserLocations, userID); err != nil {
			return err
		}
		created, err = scanLocation(tx.QueryRow(ctx, `
			INSERT INTO parking_locations (user_id, latitude, longitude, location_name, notes, parked_at, is_active)
			VALUES ($1, $2, $3, $4, $5, $6, TRUE)
			RETURNING `+locationColumns,
			userID, loc.Latitude, loc.Longitude, loc.LocationName, loc.Notes, parkedAt))
		return err
	})
	metrics.ObserveQuery(ctx, "parking_locations.create", start, err)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			return nil, err
		}
		return nil, r.fail(ctx, span, "failed to create parking location", err)
	}

	span.SetStatus(codes.Ok, "")
	return created, nil
}

func (r *RepositoryImpl) GetActiveLocation(ctx context.Context, userID uuid.UUID) (*types.ParkingLocation, error) {
	ctx, span := startSpan(ctx, "GetActiveLocation", "parking_locations", attribute.String("db.user.id", userID.String()))
	defer span.End()

	start := time.Now()
	loc, err := scanLocation(r.db.QueryRow(ctx,
		`SELECT `+locationColumns+` FROM parking_locations WHERE user_id = $1 AND is_active`, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		metrics.ObserveQuery(ctx, "parking_locations.get_active", start, nil)
		return nil, fmt.Errorf("no active location: %w", api.ErrNotFound)
	}
	metrics.ObserveQuery(ctx, "parking_locations.get_active", start, err)
	if err != nil {
		return nil, r.fail(ctx, span, "failed to fetch active parking location", err)
	}
	return loc, nil
}

func (r *RepositoryImpl) GetLocationByID(ctx context.Context, id uuid.UUID) (*types.ParkingLocation, error) {
	ctx, span := startSpan(ctx, "GetLocationByID", "parking_locations", attribute.String("db.parking_location.id", id.String()))
	defer span.End()

	start := time.Now()
	loc, err := scanLocation(r.db.QueryRow(ctx,
		`SELECT `+locationColumns+` FROM parking_locations WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		metrics.ObserveQuery(ctx, "parking_locations.get", start, nil)
		return nil, fmt.Errorf("location %s: %w", id, api.ErrNotFound)
	}
	metrics.ObserveQuery(ctx, "parking_locations.get", start, err)
	if err != nil {
		return nil, r.fail(ctx, span, "failed to fetch parking location", err)
	}
	return loc, nil
}

func (r *RepositoryImpl) EndLocation(ctx context.Context, id uuid.UUID) error {
	ctx, span := startSpan(ctx, "EndLocation", "parking_locations", attribute.String("db.parking_location.id", id.String()))
	defer span.End()

	start := time.Now()
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, deactivateLocationTimer, id); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `UPDATE parking_locations SET is_active = FALSE WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("location %s: %w", id, api.ErrNotFound)
		}
		return nil
	})
	metrics.ObserveQuery(ctx, "parking_locations.end", start, err)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			return err
		}
		return r.fail(ctx, span, "failed to end parking location", err)
	}
	span.SetStatus(codes.Ok, "")
	return nil
}

func (r *RepositoryImpl) ListHistory(ctx context.Context, userID uuid.UUID, limit int) ([]types.ParkingLocation, error) {
	ctx, span := startSpan(ctx, "ListHistory", "parking_locations",
		attribute.String("db.user.id", userID.String()), attribute.Int("limit", limit))
	defer span.End()

	start := time.Now()
	rows, err := r.db.Query(ctx, `
		SELECT `+locationColumns+`
		FROM parking_locations
		WHERE user_id = $1
		ORDER BY parked_at DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		metrics.ObserveQuery(ctx, "parking_locations.history", start, err)
		return nil, r.fail(ctx, span, "failed to query parking history", err)
	}
	defer rows.Close()

	history := make([]types.ParkingLocation, 0, limit)
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			metrics.ObserveQuery(ctx, "parking_locations.history", start, err)
			return nil, r.fail(ctx, span, "failed to scan parking history row", err)
		}
		history = append(history, *loc)
	}
	err = rows.Err()
	metrics.ObserveQuery(ctx, "parking_locations.history", start, err)
	if err != nil {
		return nil, r.fail(ctx, span, "failed to read parking history", err)
	}

	span.SetAttributes(attribute.Int("rows", len(history)))
	return history, nil
}

func (r *RepositoryImpl) CreateTimer(ctx context.Context, locationID uuid.UUID, durationMinutes int, endTime, createdAt time.Time) (*types.ParkingTimer, error) {
	ctx, span := startSpan(ctx, "CreateTimer", "parking_timers", attribute.String("db.parking_location.id", locationID.String()))
	defer span.End()

	start := time.Now()
	var created *types.ParkingTimer
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `SELECT id FROM parking_locations WHERE id = $1 FOR UPDATE`, locationID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("location %s: %w", locationID, api.ErrNotFound)
		}
		if _, err := tx.Exec(ctx, deactivateLocationTimer, locationID); err != nil {
			return err
		}
		created, err = scanTimer(tx.QueryRow(ctx, `
			INSERT INTO parking_timers (parking_location_id, duration_minutes, end_time, is_active, created_at)
			VALUES ($1, $2, $3, TRUE, $4)
			RETURNING `+timerColumns,
			locationID, durationMinutes, endTime, createdAt))
		return err
	})
	metrics.ObserveQuery(ctx, "parking_timers.create", start, err)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			return nil, err
		}
		return nil, r.fail(ctx, span, "failed to create parking timer", err)
	}
	span.SetStatus(codes.Ok, "")
	return created, nil
}

func (r *RepositoryImpl) GetActiveTimer(ctx context.Context, locationID uuid.UUID) (*types.ParkingTimer, error) {
	ctx, span := startSpan(ctx, "GetActiveTimer", "parking_timers", attribute.String("db.parking_location.id", locationID.String()))
	defer span.End()

	start := time.Now()
	timer, err := scanTimer(r.db.QueryRow(ctx,
		`SELECT `+timerColumns+` FROM parking_timers WHERE parking_location_id = $1 AND is_active`, locationID))
	if errors.Is(err, pgx.ErrNoRows) {
		metrics.ObserveQuery(ctx, "parking_timers.get_active", start, nil)
		return nil, fmt.Errorf("no active timer: %w", api.ErrNotFound)
	}
	metrics.ObserveQuery(ctx, "parking_timers.get_active", start, err)
	if err != nil {
		return nil, r.fail(ctx, span, "failed to fetch active timer", err)
	}
	return timer, nil
}

func (r *RepositoryImpl) CancelTimer(ctx context.Context, timerID uuid.UUID) error {
	ctx, span := startSpan(ctx, "CancelTimer", "parking_timers", attribute.String("db.parking_timer.id", timerID.String()))
	defer span.End()

	start := time.Now()
	tag, err := r.db.Exec(ctx, `UPDATE parking_timers SET is_active = FALSE WHERE id = $1`, timerID)
	metrics.ObserveQuery(ctx, "parking_timers.cancel", start, err)
	if err != nil {
		return r.fail(ctx, span, "failed to cancel timer", err)
	}
	span.SetAttributes(attribute.Int64("rows_affected", tag.RowsAffected()))
	return nil
}
