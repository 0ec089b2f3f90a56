package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"PLANNER_APP_NAME":                os.Getenv("PLANNER_APP_NAME"),
		"PLANNER_APP_ENV":                 os.Getenv("PLANNER_APP_ENV"),
		"PLANNER_APP_PORT":                os.Getenv("PLANNER_APP_PORT"),
		"PLANNER_DATABASE_HOST":           os.Getenv("PLANNER_DATABASE_HOST"),
		"PLANNER_DATABASE_PORT":           os.Getenv("PLANNER_DATABASE_PORT"),
		"PLANNER_DATABASE_USER":           os.Getenv("PLANNER_DATABASE_USER"),
		"PLANNER_DATABASE_PASSWORD":       os.Getenv("PLANNER_DATABASE_PASSWORD"),
		"PLANNER_DATABASE_DBNAME":         os.Getenv("PLANNER_DATABASE_DBNAME"),
		"PLANNER_DATABASE_SSLMODE":        os.Getenv("PLANNER_DATABASE_SSLMODE"),
		"PLANNER_DATABASE_MAX_OPEN_CONNS": os.Getenv("PLANNER_DATABASE_MAX_OPEN_CONNS"),
		"PLANNER_DATABASE_MAX_IDLE_CONNS": os.Getenv("PLANNER_DATABASE_MAX_IDLE_CONNS"),
		"PLANNER_PLANNING_RUN_RETENTION":  os.Getenv("PLANNER_PLANNING_RUN_RETENTION"),
		"PLANNER_PLANNING_MAX_RANGE_DAYS": os.Getenv("PLANNER_PLANNING_MAX_RANGE_DAYS"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "purchase-planner", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "planner", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 168*time.Hour, cfg.Planning.RunRetention)
		assert.Equal(t, 366, cfg.Planning.MaxRangeDays)
	})

	t.Run("loads values from environment variables with PLANNER prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("PLANNER_APP_NAME", "test-planner")
		os.Setenv("PLANNER_APP_PORT", "9000")
		os.Setenv("PLANNER_DATABASE_HOST", "testdb.local")
		os.Setenv("PLANNER_DATABASE_PORT", "5433")
		os.Setenv("PLANNER_DATABASE_USER", "testuser")
		os.Setenv("PLANNER_DATABASE_PASSWORD", "testpass")
		os.Setenv("PLANNER_PLANNING_RUN_RETENTION", "48h")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-planner", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testuser", cfg.Database.User)
		assert.Equal(t, "testpass", cfg.Database.Password)
		assert.Equal(t, 48*time.Hour, cfg.Planning.RunRetention)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv()
		os.Setenv("PLANNER_DATABASE_MAX_OPEN_CONNS", "10")
		os.Setenv("PLANNER_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
	})

	t.Run("production requires database password", func(t *testing.T) {
		clearEnv()
		os.Setenv("PLANNER_APP_ENV", "production")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password")
	})
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "p@ss/word",
		DBName:   "planner",
		SSLMode:  "disable",
	}

	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "localhost:5432")
	assert.Contains(t, dsn, "sslmode=disable")
	// special characters must be escaped
	assert.NotContains(t, dsn, "p@ss/word")
}
