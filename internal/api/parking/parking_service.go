package parking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/parkpal/app/observability/metrics"
	"github.com/FACorreiaa/parkpal/internal/api"
	"github.com/FACorreiaa/parkpal/internal/types"
)

const (
	DefaultHistoryLimit = 10
	MaxHistoryLimit     = 100
	// MaxTimerMinutes is the longest timer whose end time fits in a time.Duration.
	MaxTimerMinutes = int(math.MaxInt64 / int64(time.Minute))
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	// CreateParkingLocation records where the user parked. Any previously active location
	// and its timer are deactivated first.
	CreateParkingLocation(ctx context.Context, userID uuid.UUID, loc types.NewParkingLocation) (*types.ParkingLocation, error)
	GetActiveParkingLocation(ctx context.Context, userID uuid.UUID) (*types.ParkingLocation, error)
	// EndParkingLocation deactivates a location owned by userID together with its timer.
	EndParkingLocation(ctx context.Context, locationID, userID uuid.UUID) error
	// GetHistory does not check premium access; callers gate it.
	GetHistory(ctx context.Context, userID uuid.UUID, limit int) ([]types.ParkingLocation, error)
	CreateTimer(ctx context.Context, locationID, userID uuid.UUID, durationMinutes int) (*types.ParkingTimer, error)
	GetActiveTimer(ctx context.Context, locationID, userID uuid.UUID) (*types.ParkingTimer, error)
	// CancelTimer deactivates a timer by id. Ownership is not checked.
	CancelTimer(ctx context.Context, timerID uuid.UUID) error
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
	now    func() time.Time
}

func NewService(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
		now:    time.Now,
	}
}

func (s *ServiceImpl) CreateParkingLocation(ctx context.Context, userID uuid.UUID, loc types.NewParkingLocation) (*types.ParkingLocation, error) {
	ctx, span := otel.Tracer("ParkingService").Start(ctx, "CreateParkingLocation", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "CreateParkingLocation"), slog.String("userID", userID.String()))

	if loc.Latitude == "" || loc.Longitude == "" {
		return nil, api.NewError(api.ErrValidation, "Latitude and longitude are required")
	}

	created, err := s.repo.CreateLocation(ctx, userID, loc, s.now())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create failed")
		return nil, fmt.Errorf("failed to create parking location: %w", err)
	}

	metrics.Get().ParkingLocationsCreated.Add(ctx, 1)
	l.InfoContext(ctx, "Parking location saved", slog.String("locationID", created.ID.String()))
	span.SetStatus(codes.Ok, "")
	return created, nil
}

func (s *ServiceImpl) GetActiveParkingLocation(ctx context.Context, userID uuid.UUID) (*types.ParkingLocation, error) {
	ctx, span := otel.Tracer("ParkingService").Start(ctx, "GetActiveParkingLocation", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	loc, err := s.repo.GetActiveLocation(ctx, userID)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			return nil, api.NewError(api.ErrNotFound, "No active parking location found")
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get active parking location: %w", err)
	}
	return loc, nil
}

func (s *ServiceImpl) EndParkingLocation(ctx context.Context, locationID, userID uuid.UUID) error {
	ctx, span := otel.Tracer("ParkingService").Start(ctx, "EndParkingLocation", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("parking_location.id", locationID.String()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "EndParkingLocation"), slog.String("locationID", locationID.String()))

	loc, err := s.repo.GetLocationByID(ctx, locationID)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			return api.NewError(api.ErrNotFound, "Parking location not found")
		}
		span.RecordError(err)
		return fmt.Errorf("failed to load parking location: %w", err)
	}
	if loc.UserID != userID {
		l.WarnContext(ctx, "Attempt to end another user's parking session", slog.String("userID", userID.String()))
		span.SetStatus(codes.Error, "not owner")
		return api.NewError(api.ErrForbidden, "Not authorized to end this parking session")
	}

	if err := s.repo.EndLocation(ctx, locationID); err != nil {
		if errors.Is(err, api.ErrNotFound) {
			return api.NewError(api.ErrNotFound, "Parking location not found")
		}
		span.RecordError(err)
		return fmt.Errorf("failed to end parking location: %w", err)
	}

	metrics.Get().ParkingSessionsEnded.Add(ctx, 1)
	l.InfoContext(ctx, "Parking session ended")
	return nil
}

func (s *ServiceImpl) GetHistory(ctx context.Context, userID uuid.UUID, limit int) ([]types.ParkingLocation, error) {
	ctx, span := otel.Tracer("ParkingService").Start(ctx, "GetHistory", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
		attribute.Int("limit", limit),
	))
	defer span.End()

	if limit == 0 {
		limit = DefaultHistoryLimit
	}
	if limit < 0 || limit > MaxHistoryLimit {
		return nil, api.NewError(api.ErrValidation, fmt.Sprintf("limit must be between 1 and %d", MaxHistoryLimit))
	}

	history, err := s.repo.ListHistory(ctx, userID, limit)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get parking history: %w", err)
	}
	return history, nil
}

// ownedLocation loads a location and returns forbidden with msg when it is missing or not the user's.
func (s *ServiceImpl) ownedLocation(ctx context.Context, locationID, userID uuid.UUID, msg string) (*types.ParkingLocation, error) {
	loc, err := s.repo.GetLocationByID(ctx, locationID)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			return nil, api.NewError(api.ErrForbidden, msg)
		}
		return nil, fmt.Errorf("failed to load parking location: %w", err)
	}
	if loc.UserID != userID {
		return nil, api.NewError(api.ErrForbidden, msg)
	}
	return loc, nil
}

func (s *ServiceImpl) CreateTimer(ctx context.Context, locationID, userID uuid.UUID, durationMinutes int) (*types.ParkingTimer, error) {
	ctx, span := otel.Tracer("ParkingService").Start(ctx, "CreateTimer", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("parking_location.id", locationID.String()),
		attribute.Int("duration_minutes", durationMinutes),
	))
	defer span.End()

	if durationMinutes <= 0 {
		return nil, api.NewError(api.ErrValidation, "durationMinutes must be a positive integer")
	}
	if durationMinutes > MaxTimerMinutes {
		return nil, api.NewError(api.ErrValidation, fmt.Sprintf("durationMinutes must not exceed %d", MaxTimerMinutes))
	}

	if _, err := s.ownedLocation(ctx, locationID, userID, "Not authorized to set timer for this parking location"); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "ownership check failed")
		return nil, err
	}

	now := s.now()
	endTime := now.Add(time.Duration(durationMinutes) * time.Minute)
	timer, err := s.repo.CreateTimer(ctx, locationID, durationMinutes, endTime, now)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to create timer: %w", err)
	}

	metrics.Get().TimersCreated.Add(ctx, 1)
	s.logger.InfoContext(ctx, "Parking timer set",
		slog.String("timerID", timer.ID.String()),
		slog.Time("endTime", timer.EndTime))
	return timer, nil
}

func (s *ServiceImpl) GetActiveTimer(ctx context.Context, locationID, userID uuid.UUID) (*types.ParkingTimer, error) {
	ctx, span := otel.Tracer("ParkingService").Start(ctx, "GetActiveTimer", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("parking_location.id", locationID.String()),
	))
	defer span.End()

	if _, err := s.ownedLocation(ctx, locationID, userID, "Not authorized to access this timer"); err != nil {
		span.RecordError(err)
		return nil, err
	}

	timer, err := s.repo.GetActiveTimer(ctx, locationID)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			return nil, api.NewError(api.ErrNotFound, "No active timer found")
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get active timer: %w", err)
	}
	return timer, nil
}

func (s *ServiceImpl) CancelTimer(ctx context.Context, timerID uuid.UUID) error {
	ctx, span := otel.Tracer("ParkingService").Start(ctx, "CancelTimer", trace.WithAttributes(
		attribute.String("parking_timer.id", timerID.String()),
	))
	defer span.End()

	if err := s.repo.CancelTimer(ctx, timerID); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to cancel timer: %w", err)
	}
	return nil
}
