package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is filled from the environment, optionally pre-seeded by an env
// file (see LoadEnvFile).
type Config struct {
	BotToken string `envconfig:"BOT_TOKEN" required:"true"`
	// AdminID is the single privileged operator; it doubles as the
	// destination for operational alerts.
	AdminID int64 `envconfig:"ADMIN_ID" required:"true"`

	DataFile   string `envconfig:"DATA_FILE" default:"data.json"`
	MarkerFile string `envconfig:"MARKER_FILE" default:"bot_instance.json"`
	GuardPort  int    `envconfig:"GUARD_PORT" default:"48735"`
	LogFile    string `envconfig:"LOG_FILE" default:""`

	// Redis is optional: without it pending dialogs live in memory only.
	RedisAddr       string `envconfig:"REDIS_ADDR" default:""`
	RedisPassword   string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB         int    `envconfig:"REDIS_DB" default:"0"`
	SessionTTLHours int    `envconfig:"SESSION_TTL_HOURS" default:"24"`

	// Postgres is optional: analytics sink only, never the source of truth.
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`

	BroadcastDelay time.Duration `envconfig:"BROADCAST_DELAY" default:"50ms"`
	PollTimeout    time.Duration `envconfig:"POLL_TIMEOUT" default:"50s"`
}

func New() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
