package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("ADMIN_ID", "42")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.BotToken)
	assert.Equal(t, int64(42), cfg.AdminID)
	assert.Equal(t, "data.json", cfg.DataFile)
	assert.Equal(t, "bot_instance.json", cfg.MarkerFile)
	assert.Equal(t, 48735, cfg.GuardPort)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, 24, cfg.SessionTTLHours)
	assert.Equal(t, 50*time.Millisecond, cfg.BroadcastDelay)
	assert.Equal(t, 50*time.Second, cfg.PollTimeout)
}

func TestNewOverrides(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("ADMIN_ID", "42")
	t.Setenv("DATA_FILE", "/var/lib/bot/state.json")
	t.Setenv("GUARD_PORT", "50000")
	t.Setenv("BROADCAST_DELAY", "200ms")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/bot/state.json", cfg.DataFile)
	assert.Equal(t, 50000, cfg.GuardPort)
	assert.Equal(t, 200*time.Millisecond, cfg.BroadcastDelay)
}

func TestNewMissingRequired(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("ADMIN_ID", "")
	os.Unsetenv("BOT_TOKEN")
	os.Unsetenv("ADMIN_ID")

	_, err := New()
	assert.Error(t, err)
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.env")
	body := "# comment\nBOT_TOKEN=\"999:xyz\"\nEXTRA_VALUE=plain\n\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	t.Setenv("EXTRA_VALUE", "preset")
	os.Unsetenv("BOT_TOKEN")
	t.Cleanup(func() { os.Unsetenv("BOT_TOKEN") })

	require.NoError(t, LoadEnvFile(path))

	assert.Equal(t, "999:xyz", os.Getenv("BOT_TOKEN"), "quotes are stripped")
	assert.Equal(t, "preset", os.Getenv("EXTRA_VALUE"), "already-set vars win")
}

func TestLoadEnvFileMissingIsNotAnError(t *testing.T) {
	assert.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), "absent.env")))
}
