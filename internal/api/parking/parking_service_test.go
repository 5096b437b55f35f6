package parking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/parkpal/internal/api"
	"github.com/FACorreiaa/parkpal/internal/types"
)

// MockRepository is a mock implementation of Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateLocation(ctx context.Context, userID uuid.UUID, loc types.NewParkingLocation, at time.Time) (*types.ParkingLocation, error) {
	args := m.Called(ctx, userID, loc, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ParkingLocation), args.Error(1)
}

func (m *MockRepository) GetActiveLocation(ctx context.Context, userID uuid.UUID) (*types.ParkingLocation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ParkingLocation), args.Error(1)
}

func (m *MockRepository) GetLocationByID(ctx context.Context, id uuid.UUID) (*types.ParkingLocation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ParkingLocation), args.Error(1)
}

func (m *MockRepository) EndLocation(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRepository) ListHistory(ctx context.Context, userID uuid.UUID, limit int) ([]types.ParkingLocation, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.ParkingLocation), args.Error(1)
}

func (m *MockRepository) CreateTimer(ctx context.Context, locationID uuid.UUID, durationMinutes int, endTime, createdAt time.Time) (*types.ParkingTimer, error) {
	args := m.Called(ctx, locationID, durationMinutes, endTime, createdAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ParkingTimer), args.Error(1)
}

func (m *MockRepository) GetActiveTimer(ctx context.Context, locationID uuid.UUID) (*types.ParkingTimer, error) {
	args := m.Called(ctx, locationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ParkingTimer), args.Error(1)
}

func (m *MockRepository) CancelTimer(ctx context.Context, timerID uuid.UUID) error {
	return m.Called(ctx, timerID).Error(0)
}

var fixedNow = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

func setupServiceTest() (*ServiceImpl, *MockRepository) {
	repo := new(MockRepository)
	svc := NewService(repo, slog.Default())
	svc.now = func() time.Time { return fixedNow }
	return svc, repo
}

func notFound(what string) error {
	return fmt.Errorf("%s: %w", what, api.ErrNotFound)
}

func TestCreateParkingLocation(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	input := types.NewParkingLocation{Latitude: "40.7128", Longitude: "-74.0060"}

	t.Run("StampsParkedAtWithNow", func(t *testing.T) {
		svc, repo := setupServiceTest()
		want := &types.ParkingLocation{ID: uuid.New(), UserID: userID, Latitude: "40.7128", Longitude: "-74.0060", ParkedAt: fixedNow, IsActive: true}
		repo.On("CreateLocation", mock.Anything, userID, input, fixedNow).Return(want, nil).Once()

		got, err := svc.CreateParkingLocation(ctx, userID, input)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		repo.AssertExpectations(t)
	})

	t.Run("MissingCoordinates", func(t *testing.T) {
		svc, repo := setupServiceTest()
		_, err := svc.CreateParkingLocation(ctx, userID, types.NewParkingLocation{Latitude: "40.7128"})
		assert.ErrorIs(t, err, api.ErrValidation)
		repo.AssertNotCalled(t, "CreateLocation", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("RepositoryFailure", func(t *testing.T) {
		svc, repo := setupServiceTest()
		repo.On("CreateLocation", mock.Anything, userID, input, fixedNow).Return(nil, errors.New("db down")).Once()

		_, err := svc.CreateParkingLocation(ctx, userID, input)
		require.Error(t, err)
		assert.Equal(t, 500, api.StatusForError(err))
	})
}

func TestGetActiveParkingLocation(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("NoneActive", func(t *testing.T) {
		svc, repo := setupServiceTest()
		repo.On("GetActiveLocation", mock.Anything, userID).Return(nil, notFound("no active location")).Once()

		_, err := svc.GetActiveParkingLocation(ctx, userID)
		assert.ErrorIs(t, err, api.ErrNotFound)
		assert.Equal(t, "No active parking location found", api.MessageForError(err, ""))
	})

	t.Run("Found", func(t *testing.T) {
		svc, repo := setupServiceTest()
		loc := &types.ParkingLocation{ID: uuid.New(), UserID: userID, IsActive: true}
		repo.On("GetActiveLocation", mock.Anything, userID).Return(loc, nil).Once()

		got, err := svc.GetActiveParkingLocation(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, loc, got)
	})
}

func TestEndParkingLocation(t *testing.T) {
	ctx := context.Background()
	owner, stranger := uuid.New(), uuid.New()
	locationID := uuid.New()
	loc := &types.ParkingLocation{ID: locationID, UserID: owner, IsActive: true}

	t.Run("Owner", func(t *testing.T) {
		svc, repo := setupServiceTest()
		repo.On("GetLocationByID", mock.Anything, locationID).Return(loc, nil).Once()
		repo.On("EndLocation", mock.Anything, locationID).Return(nil).Once()

		require.NoError(t, svc.EndParkingLocation(ctx, locationID, owner))
		repo.AssertExpectations(t)
	})

	t.Run("NotOwner", func(t *testing.T) {
		svc, repo := setupServiceTest()
		repo.On("GetLocationByID", mock.Anything, locationID).Return(loc, nil).Once()

		err := svc.EndParkingLocation(ctx, locationID, stranger)
		assert.ErrorIs(t, err, api.ErrForbidden)
		assert.Equal(t, "Not authorized to end this parking session", api.MessageForError(err, ""))
		repo.AssertNotCalled(t, "EndLocation", mock.Anything, mock.Anything)
	})

	t.Run("Missing", func(t *testing.T) {
		svc, repo := setupServiceTest()
		repo.On("GetLocationByID", mock.Anything, locationID).Return(nil, notFound("location")).Once()

		err := svc.EndParkingLocation(ctx, locationID, owner)
		assert.ErrorIs(t, err, api.ErrNotFound)
		assert.Equal(t, "Parking location not found", api.MessageForError(err, ""))
	})
}

func TestGetHistory(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("DefaultLimit", func(t *testing.T) {
		svc, repo := setupServiceTest()
		repo.On("ListHistory", mock.Anything, userID, DefaultHistoryLimit).Return([]types.ParkingLocation{}, nil).Once()

		history, err := svc.GetHistory(ctx, userID, 0)
		require.NoError(t, err)
		assert.Empty(t, history)
		repo.AssertExpectations(t)
	})

	t.Run("OutOfRange", func(t *testing.T) {
		svc, repo := setupServiceTest()
		for _, limit := range []int{-1, MaxHistoryLimit + 1} {
			_, err := svc.GetHistory(ctx, userID, limit)
			assert.ErrorIs(t, err, api.ErrValidation)
		}
		repo.AssertNotCalled(t, "ListHistory", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCreateTimer(t *testing.T) {
	ctx := context.Background()
	owner, stranger := uuid.New(), uuid.New()
	locationID := uuid.New()
	loc := &types.ParkingLocation{ID: locationID, UserID: owner, IsActive: true}

	t.Run("EndTimeIsNowPlusDuration", func(t *testing.T) {
		svc, repo := setupServiceTest()
		endTime := fixedNow.Add(90 * time.Minute)
		timer := &types.ParkingTimer{ID: uuid.New(), ParkingLocationID: locationID, DurationMinutes: 90, EndTime: endTime, IsActive: true, CreatedAt: fixedNow}
		repo.On("GetLocationByID", mock.Anything, locationID).Return(loc, nil).Once()
		repo.On("CreateTimer", mock.Anything, locationID, 90, endTime, fixedNow).Return(timer, nil).Once()

		got, err := svc.CreateTimer(ctx, locationID, owner, 90)
		require.NoError(t, err)
		assert.Equal(t, endTime, got.EndTime)
		repo.AssertExpectations(t)
	})

	t.Run("NonPositiveDuration", func(t *testing.T) {
		svc, repo := setupServiceTest()
		for _, d := range []int{0, -15} {
			_, err := svc.CreateTimer(ctx, locationID, owner, d)
			assert.ErrorIs(t, err, api.ErrValidation)
		}
		repo.AssertNotCalled(t, "GetLocationByID", mock.Anything, mock.Anything)
	})

	t.Run("LongestDurationKeepsEndTime", func(t *testing.T) {
		svc, repo := setupServiceTest()
		endTime := fixedNow.Add(time.Duration(MaxTimerMinutes) * time.Minute)
		require.True(t, endTime.After(fixedNow))
		timer := &types.ParkingTimer{ID: uuid.New(), ParkingLocationID: locationID, DurationMinutes: MaxTimerMinutes, EndTime: endTime, IsActive: true, CreatedAt: fixedNow}
		repo.On("GetLocationByID", mock.Anything, locationID).Return(loc, nil).Once()
		repo.On("CreateTimer", mock.Anything, locationID, MaxTimerMinutes, endTime, fixedNow).Return(timer, nil).Once()

		_, err := svc.CreateTimer(ctx, locationID, owner, MaxTimerMinutes)
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("DurationBeyondLimit", func(t *testing.T) {
		svc, repo := setupServiceTest()
		for _, d := range []int{MaxTimerMinutes + 1, 200000000, math.MaxInt32} {
			_, err := svc.CreateTimer(ctx, locationID, owner, d)
			assert.ErrorIs(t, err, api.ErrValidation)
		}
		repo.AssertNotCalled(t, "GetLocationByID", mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "CreateTimer", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("NotOwner", func(t *testing.T) {
		svc, repo := setupServiceTest()
		repo.On("GetLocationByID", mock.Anything, locationID).Return(loc, nil).Once()

		_, err := svc.CreateTimer(ctx, locationID, stranger, 30)
		assert.ErrorIs(t, err, api.ErrForbidden)
		assert.Equal(t, "Not authorized to set timer for this parking location", api.MessageForError(err, ""))
		repo.AssertNotCalled(t, "CreateTimer", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("UnknownLocationIsForbidden", func(t *testing.T) {
		svc, repo := setupServiceTest()
		repo.On("GetLocationByID", mock.Anything, locationID).Return(nil, notFound("location")).Once()

		_, err := svc.CreateTimer(ctx, locationID, owner, 30)
		assert.ErrorIs(t, err, api.ErrForbidden)
	})
}

func TestGetActiveTimer(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	locationID := uuid.New()
	loc := &types.ParkingLocation{ID: locationID, UserID: owner}

	t.Run("NoneActive", func(t *testing.T) {
		svc, repo := setupServiceTest()
		repo.On("GetLocationByID", mock.Anything, locationID).Return(loc, nil).Once()
		repo.On("GetActiveTimer", mock.Anything, locationID).Return(nil, notFound("timer")).Once()

		_, err := svc.GetActiveTimer(ctx, locationID, owner)
		assert.ErrorIs(t, err, api.ErrNotFound)
		assert.Equal(t, "No active timer found", api.MessageForError(err, ""))
	})

	t.Run("NotOwner", func(t *testing.T) {
		svc, repo := setupServiceTest()
		repo.On("GetLocationByID", mock.Anything, locationID).Return(loc, nil).Once()

		_, err := svc.GetActiveTimer(ctx, locationID, uuid.New())
		assert.ErrorIs(t, err, api.ErrForbidden)
		assert.Equal(t, "Not authorized to access this timer", api.MessageForError(err, ""))
	})
}

func TestCancelTimer(t *testing.T) {
	svc, repo := setupServiceTest()
	timerID := uuid.New()
	repo.On("CancelTimer", mock.Anything, timerID).Return(nil).Once()

	require.NoError(t, svc.CancelTimer(context.Background(), timerID))
	repo.AssertExpectations(t)
}
