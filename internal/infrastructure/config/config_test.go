package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	originalEnv := map[string]string{
		"SAB_APP_NAME":                os.Getenv("SAB_APP_NAME"),
		"SAB_APP_ENV":                 os.Getenv("SAB_APP_ENV"),
		"SAB_APP_PORT":                os.Getenv("SAB_APP_PORT"),
		"SAB_DATABASE_HOST":           os.Getenv("SAB_DATABASE_HOST"),
		"SAB_DATABASE_PORT":           os.Getenv("SAB_DATABASE_PORT"),
		"SAB_DATABASE_MAX_OPEN_CONNS": os.Getenv("SAB_DATABASE_MAX_OPEN_CONNS"),
		"SAB_DATABASE_MAX_IDLE_CONNS": os.Getenv("SAB_DATABASE_MAX_IDLE_CONNS"),
		"SAB_STORE_TAX_RATE_PERCENT":  os.Getenv("SAB_STORE_TAX_RATE_PERCENT"),
		"SAB_PAYSTACK_SECRET_KEY":     os.Getenv("SAB_PAYSTACK_SECRET_KEY"),
		"SAB_JWT_SECRET":              os.Getenv("SAB_JWT_SECRET"),
		"SAB_DATABASE_PASSWORD":       os.Getenv("SAB_DATABASE_PASSWORD"),
		"SAB_DATABASE_SSLMODE":        os.Getenv("SAB_DATABASE_SSLMODE"),
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

		assert.Equal(t, "sabstore-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "sabstore", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, "NGN", cfg.Store.Currency)
		assert.Equal(t, "https://api.paystack.co", cfg.Paystack.BaseURL)
		assert.Equal(t, 3, cfg.Sync.MaxAttempts)
	})

	t.Run("loads values from environment variables with SAB prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("SAB_APP_NAME", "test-store")
		os.Setenv("SAB_APP_PORT", "9000")
		os.Setenv("SAB_DATABASE_HOST", "testdb.local")
		os.Setenv("SAB_DATABASE_PORT", "5433")
		os.Setenv("SAB_STORE_TAX_RATE_PERCENT", "7.5")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-store", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, 7.5, cfg.Store.TaxRatePercent)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv()
		os.Setenv("SAB_DATABASE_MAX_OPEN_CONNS", "10")
		os.Setenv("SAB_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("rejects tax rate above 100", func(t *testing.T) {
		clearEnv()
		os.Setenv("SAB_STORE_TAX_RATE_PERCENT", "150")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "tax_rate_percent")
	})

	t.Run("requires secrets in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("SAB_APP_ENV", "production")
		os.Setenv("SAB_DATABASE_PASSWORD", "secure-password")
		os.Setenv("SAB_DATABASE_SSLMODE", "require")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret is required in production")
	})

	t.Run("requires paystack secret in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("SAB_APP_ENV", "production")
		os.Setenv("SAB_JWT_SECRET", "a-very-long-signing-secret-with-32-chars!")
		os.Setenv("SAB_DATABASE_PASSWORD", "secure-password")
		os.Setenv("SAB_DATABASE_SSLMODE", "require")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "paystack.secret_key is required in production")
	})

	t.Run("passes validation with full production config", func(t *testing.T) {
		clearEnv()
		os.Setenv("SAB_APP_ENV", "production")
		os.Setenv("SAB_JWT_SECRET", "a-very-long-signing-secret-with-32-chars!")
		os.Setenv("SAB_DATABASE_PASSWORD", "secure-password")
		os.Setenv("SAB_DATABASE_SSLMODE", "require")
		os.Setenv("SAB_PAYSTACK_SECRET_KEY", "sk_live_xxxx")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost")
		assert.Contains(t, dsn, "5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "pass%40word%23123")
	})
}
