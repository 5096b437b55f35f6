package auth

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/parkpal/internal/api"
)

var userCols = []string{"id", "username", "password", "email", "trial_start_date", "premium_user",
	"stripe_customer_id", "stripe_subscription_id", "created_at"}

func setupUserRepoTest(t *testing.T) (*UserRepositoryImpl, pgxmock.PgxPoolIface) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)
	return NewUserRepository(mockPool, slog.Default()), mockPool
}

func userRow(id uuid.UUID, username string, premium bool, trialStart time.Time) *pgxmock.Rows {
	return pgxmock.NewRows(userCols).AddRow(
		id, username, "$2a$10$hash", (*string)(nil), trialStart, premium, (*string)(nil), (*string)(nil), trialStart,
	)
}

func TestUserRepositoryCreateUser(t *testing.T) {
	repo, mockPool := setupUserRepoTest(t)
	ctx := context.Background()
	trialStart := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	t.Run("Success", func(t *testing.T) {
		id := uuid.New()
		mockPool.ExpectQuery(`INSERT INTO users`).
			WithArgs("driver42", "$2a$10$hash", (*string)(nil), trialStart).
			WillReturnRows(userRow(id, "driver42", false, trialStart))

		user, err := repo.CreateUser(ctx, "driver42", "$2a$10$hash", nil, trialStart)
		require.NoError(t, err)
		assert.Equal(t, id, user.ID)
		assert.False(t, user.PremiumUser)
		assert.Equal(t, trialStart, user.TrialStartDate)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("DuplicateUsername", func(t *testing.T) {
		mockPool.ExpectQuery(`INSERT INTO users`).
			WithArgs("driver42", "h", (*string)(nil), trialStart).
			WillReturnError(&pgconn.PgError{Code: "23505"})

		_, err := repo.CreateUser(ctx, "driver42", "h", nil, trialStart)
		assert.ErrorIs(t, err, api.ErrUsernameTaken)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestUserRepositoryGetUser(t *testing.T) {
	repo, mockPool := setupUserRepoTest(t)
	ctx := context.Background()

	t.Run("ByID", func(t *testing.T) {
		id := uuid.New()
		mockPool.ExpectQuery(`FROM users WHERE id = \$1`).
			WithArgs(id).
			WillReturnRows(userRow(id, "driver42", true, time.Now()))

		user, err := repo.GetUserByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "driver42", user.Username)
		assert.True(t, user.PremiumUser)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("ByUsernameNotFound", func(t *testing.T) {
		mockPool.ExpectQuery(`FROM users WHERE username = \$1`).
			WithArgs("ghost").
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.GetUserByUsername(ctx, "ghost")
		assert.ErrorIs(t, err, api.ErrNotFound)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestUserRepositoryUpdates(t *testing.T) {
	repo, mockPool := setupUserRepoTest(t)
	ctx := context.Background()
	id := uuid.New()

	t.Run("Premium", func(t *testing.T) {
		mockPool.ExpectQuery(`UPDATE users SET premium_user = \$2 WHERE id = \$1`).
			WithArgs(id, true).
			WillReturnRows(userRow(id, "driver42", true, time.Now()))

		user, err := repo.UpdatePremiumStatus(ctx, id, true)
		require.NoError(t, err)
		assert.True(t, user.PremiumUser)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("StripeCustomer", func(t *testing.T) {
		mockPool.ExpectQuery(`UPDATE users SET stripe_customer_id = \$2 WHERE id = \$1`).
			WithArgs(id, "cus_123").
			WillReturnRows(userRow(id, "driver42", true, time.Now()))

		_, err := repo.UpdateStripeCustomerID(ctx, id, "cus_123")
		require.NoError(t, err)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("StripeCustomerUnknownUser", func(t *testing.T) {
		mockPool.ExpectQuery(`UPDATE users SET stripe_customer_id = \$2 WHERE id = \$1`).
			WithArgs(id, "cus_123").
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.UpdateStripeCustomerID(ctx, id, "cus_123")
		assert.ErrorIs(t, err, api.ErrNotFound)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}
