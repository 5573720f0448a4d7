package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srgjo27/hotel_booking/internal/platform/config"
	"github.com/srgjo27/hotel_booking/internal/platform/database"
)

func Test_Load_Defaults(t *testing.T) {
	for _, key := range []string{"HTTP_ADDR", "STORE", "DB_DRIVER", "REQUEST_TIMEOUT", "LOG_FORMAT", "REDIS_ENABLED"} {
		t.Setenv(key, "")
	}

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, config.StorePostgres, cfg.Store)
	assert.Equal(t, database.DriverPQ, cfg.DB.Driver)
	assert.Equal(t, 25, cfg.DB.MaxOpenConns)
	assert.Equal(t, []string{"*"}, cfg.HTTP.AllowedOrigins)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 5, cfg.Tx.MaxAttempts)
}

func Test_Load_Overrides(t *testing.T) {
	t.Setenv("STORE", "memory")
	t.Setenv("DB_DRIVER", "pgx")
	t.Setenv("REQUEST_TIMEOUT", "750ms")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.StoreMemory, cfg.Store)
	assert.Equal(t, database.DriverPGX, cfg.DB.Driver)
	assert.Equal(t, 750*time.Millisecond, cfg.RequestTimeout)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.AllowedOrigins)
}

func Test_Load_RejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"REQUEST_TIMEOUT":   "soon",
		"DB_MAX_OPEN_CONNS": "many",
		"STORE":             "cassandra",
		"DB_DRIVER":         "mysql",
		"REDIS_ENABLED":     "maybe",
	}

	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)

			_, err := config.Load()
			assert.ErrorContains(t, err, key)
		})
	}
}

func Test_LoadEnv_SetsVariablesAndSkipsComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "# local settings\nBOOKING_CFG_TEST_A = one\n\nBOOKING_CFG_TEST_B=two=2\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("BOOKING_CFG_TEST_A", "")
	t.Setenv("BOOKING_CFG_TEST_B", "")

	require.NoError(t, config.LoadEnv(path))

	assert.Equal(t, "one", os.Getenv("BOOKING_CFG_TEST_A"))
	assert.Equal(t, "two=2", os.Getenv("BOOKING_CFG_TEST_B"))
}

func Test_LoadEnv_MissingFileIsIgnored(t *testing.T) {
	assert.NoError(t, config.LoadEnv(filepath.Join(t.TempDir(), "absent.env")))
}
