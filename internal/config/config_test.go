package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[server]
http_port = 9090

[database]
enabled = true
host = "db"
user = "booking"
password = "from-file"
dbname = "appointments"

[booking]
timezone = "Europe/Moscow"
default_slot_minutes = 45
lock_wait_ms = 500
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, 30, cfg.Server.ShutdownTimeout)
	assert.True(t, cfg.Database.Enabled)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "host=db port=5432 user=booking password=from-file dbname=appointments sslmode=disable", cfg.Database.DSN())
	assert.Equal(t, 45, cfg.Booking.DefaultSlotMinutes)
	assert.Equal(t, 500*time.Millisecond, cfg.Booking.LockWait())
	assert.Equal(t, 10*time.Second, cfg.Booking.LockTTL())

	loc, err := cfg.Booking.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Moscow", loc.String())
}

func TestLoad_EnvSecrets(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("REDIS_PASSWORD", "redis-secret")

	cfg, err := Load(writeConfig(t, `
[database]
password = "from-file"
`))
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.Database.Password)
	assert.Equal(t, "redis-secret", cfg.Redis.Password)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax", `[server`},
		{"unknown timezone", "[booking]\ntimezone = \"Mars/Olympus\""},
		{"zero slot", "[booking]\ndefault_slot_minutes = 0"},
		{"negative notice", "[booking]\nmin_notice_minutes = -5"},
		{"bad port", "[server]\nhttp_port = 70000"},
		{"rate limit without burst", "[rate_limit]\nenabled = true\nburst = 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}
