package trial

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/parkpal/internal/api/auth"
	"github.com/FACorreiaa/parkpal/internal/types"
)

var now = time.Date(2026, 5, 20, 15, 30, 0, 0, time.UTC)

func userStarted(ago time.Duration, premium bool) *types.User {
	return &types.User{ID: uuid.New(), Username: "driver42", TrialStartDate: now.Add(-ago), PremiumUser: premium}
}

func TestComputeStatus(t *testing.T) {
	tests := []struct {
		name       string
		user       *types.User
		wantActive bool
		wantDays   int
	}{
		{"ThreeDaysIn", userStarted(3*24*time.Hour, false), true, 4},
		{"TenDaysIn", userStarted(10*24*time.Hour, false), false, 0},
		{"JustStarted", userStarted(0, false), true, 7},
		{"PartialDayRoundsUp", userStarted(6*24*time.Hour+time.Hour, false), true, 1},
		{"ExactlyAtEnd", userStarted(Period, false), true, 0},
		{"OneSecondAfterEnd", userStarted(Period+time.Second, false), false, 0},
		{"PremiumTrialOver", userStarted(30*24*time.Hour, true), false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ComputeStatus(tt.user, now)
			assert.Equal(t, tt.wantActive, s.IsTrialActive)
			assert.Equal(t, tt.wantDays, s.DaysLeft)
			assert.Equal(t, tt.user.PremiumUser, s.IsPremium)
			assert.Equal(t, tt.user.TrialStartDate.Add(7*24*time.Hour), s.TrialEndDate)
		})
	}
}

func TestHasPremiumAccess(t *testing.T) {
	assert.False(t, HasPremiumAccess(userStarted(8*24*time.Hour, false), now), "trial expired one day ago")
	assert.True(t, HasPremiumAccess(userStarted(6*24*time.Hour, false), now), "one day before expiry")
	assert.True(t, HasPremiumAccess(userStarted(90*24*time.Hour, true), now), "premium never expires")
}

func TestRequirePremium(t *testing.T) {
	gate := RequirePremium(func() time.Time { return now }, slog.Default())
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	serve := func(user *types.User) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/parking/history", nil)
		if user != nil {
			req = req.WithContext(auth.WithUser(req.Context(), user))
		}
		w := httptest.NewRecorder()
		gate(next).ServeHTTP(w, req)
		return w
	}

	t.Run("Expired", func(t *testing.T) {
		w := serve(userStarted(8*24*time.Hour, false))
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.JSONEq(t, `{"message":"Premium feature. Please upgrade to access parking history."}`, w.Body.String())
	})

	t.Run("InTrial", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, serve(userStarted(time.Hour, false)).Code)
	})

	t.Run("Premium", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, serve(userStarted(60*24*time.Hour, true)).Code)
	})

	t.Run("NoUser", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, serve(nil).Code)
	})
}

func TestGetTrialStatusHandler(t *testing.T) {
	h := NewHandler(func() time.Time { return now }, slog.Default())
	user := userStarted(3*24*time.Hour, false)

	req := httptest.NewRequest(http.MethodGet, "/api/trial-status", nil)
	req = req.WithContext(auth.WithUser(req.Context(), user))
	w := httptest.NewRecorder()
	h.GetTrialStatus(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"isPremium":false,"isTrialActive":true,"daysLeft":4,"trialEndDate":"2026-05-24T15:30:00Z"}`, w.Body.String())
}
