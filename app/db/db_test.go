package database

import (
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/parkpal/config"
)

func TestNewDatabaseConfig(t *testing.T) {
	logger := slog.Default()

	t.Run("Success", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.Repositories.Postgres.Host = "db"
		cfg.Repositories.Postgres.Port = "5432"
		cfg.Repositories.Postgres.Username = "park"
		cfg.Repositories.Postgres.Password = "secret"
		cfg.Repositories.Postgres.DB = "parkpal"
		cfg.Repositories.Postgres.MaxConns = 4

		dbCfg, err := NewDatabaseConfig(cfg, logger)
		require.NoError(t, err)
		assert.Equal(t, "postgresql://park:secret@db:5432/parkpal?sslmode=disable&timezone=utc", dbCfg.ConnectionURL)
		assert.Equal(t, int32(4), dbCfg.MaxConns)
	})

	t.Run("MissingHost", func(t *testing.T) {
		_, err := NewDatabaseConfig(&config.Config{}, logger)
		assert.Error(t, err)
	})
}

func TestRunMigrationsRejectsScheme(t *testing.T) {
	err := RunMigrations("mysql://localhost/parkpal", slog.Default())
	assert.Error(t, err)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
}
