// Package config holds the process configuration. Every tunable is read
// from the environment so deployments can adjust timing behaviour without
// touching code; none of the timing values are load-bearing for correctness.
package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is populated from the environment by Load. A .env file, if
// present, is read by the caller before Load runs (see cmd/main.go).
type Config struct {
	Port           string   `envconfig:"PORT" default:"8080"`
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS"` // empty slice allows any origin
	StaticDir      string   `envconfig:"STATIC_DIR" default:"./public"`

	JWTSecret string        `envconfig:"JWT_SECRET" default:"dev-only-secret-change-me"`
	TokenTTL  time.Duration `envconfig:"TOKEN_TTL" default:"72h"`

	// GraceWindow is how long a room survives in Degraded state after one
	// member disconnects before it is closed.
	GraceWindow time.Duration `envconfig:"GRACE_WINDOW" default:"45s"`
	// QueueWaitNotify is the delay before a queued user gets a one-shot
	// "still waiting" reminder.
	QueueWaitNotify time.Duration `envconfig:"QUEUE_WAIT_NOTIFY" default:"15s"`
	// SessionIdleTTL bounds how long a roomless, queueless session outlives
	// its last connection.
	SessionIdleTTL time.Duration `envconfig:"SESSION_IDLE_TTL" default:"2m"`

	RateLimitCount  int           `envconfig:"RATE_LIMIT_COUNT" default:"5"`
	RateLimitWindow time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1s"`
	MaxMessageLen   int           `envconfig:"MAX_MESSAGE_LEN" default:"2000"`

	ReaperInterval time.Duration `envconfig:"REAPER_INTERVAL" default:"1m"`
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
