package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/parkpal/internal/api"
)

func setupRedisStore(t *testing.T) (*RedisSessionStore, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	client, err := ConnectRedis(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisSessionStore(client), mr
}

func newTestSession(ttl time.Duration) Session {
	now := time.Now().UTC().Truncate(time.Second)
	return Session{
		ID:        uuid.NewString(),
		UserID:    uuid.New(),
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

func TestSessionStores(t *testing.T) {
	stores := map[string]func(t *testing.T) SessionStore{
		"Redis": func(t *testing.T) SessionStore {
			s, _ := setupRedisStore(t)
			return s
		},
		"Memory": func(t *testing.T) SessionStore {
			return NewMemorySessionStore()
		},
	}

	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := newStore(t)

			t.Run("CreateGetDelete", func(t *testing.T) {
				sess := newTestSession(time.Hour)
				require.NoError(t, store.Create(ctx, sess))

				got, err := store.Get(ctx, sess.ID)
				require.NoError(t, err)
				assert.Equal(t, sess.UserID, got.UserID)
				assert.True(t, sess.ExpiresAt.Equal(got.ExpiresAt))

				require.NoError(t, store.Delete(ctx, sess.ID))
				_, err = store.Get(ctx, sess.ID)
				assert.ErrorIs(t, err, api.ErrNotFound)
			})

			t.Run("Unknown", func(t *testing.T) {
				_, err := store.Get(ctx, "missing")
				assert.ErrorIs(t, err, api.ErrNotFound)
			})

			t.Run("AlreadyExpired", func(t *testing.T) {
				assert.Error(t, store.Create(ctx, newTestSession(-time.Minute)))
			})
		})
	}
}

func TestRedisSessionStoreExpiry(t *testing.T) {
	store, mr := setupRedisStore(t)
	ctx := context.Background()

	sess := newTestSession(time.Minute)
	require.NoError(t, store.Create(ctx, sess))
	assert.True(t, mr.Exists(sessionKeyPrefix+sess.ID))

	mr.FastForward(2 * time.Minute)

	_, err := store.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, api.ErrNotFound)
}

func TestConnectRedisInvalidAddr(t *testing.T) {
	_, err := ConnectRedis(context.Background(), "127.0.0.1:1", "", 0)
	assert.Error(t, err)
}
