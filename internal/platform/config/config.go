package config

import (
	"os"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr              string
	Environment       string
	DatabaseURL       string
	TokenSigningKey   string
	TokenTTL          time.Duration
	HeartbeatInterval time.Duration
	RecoveryDebounce  time.Duration
	RateLimitSweep    time.Duration
	AuditBufferSize   int
}

// Defaults; overridable via environment.
var (
	TokenTTL          = 5 * time.Minute
	HeartbeatInterval = 4 * time.Minute
	RecoveryDebounce  = 2 * time.Second
	RateLimitSweep    = time.Minute
)

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("SENTRA_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	env := os.Getenv("SENTRA_ENV")
	if env == "" {
		env = "development"
	}

	signingKey := os.Getenv("TOKEN_SIGNING_KEY")
	if signingKey == "" {
		// Use a default for development - should be overridden in production
		signingKey = "dev-secret-key-change-in-production"
	}

	cfg := Server{
		Addr:              addr,
		Environment:       env,
		DatabaseURL:       os.Getenv("SENTRA_DATABASE_URL"),
		TokenSigningKey:   signingKey,
		TokenTTL:          TokenTTL,
		HeartbeatInterval: HeartbeatInterval,
		RecoveryDebounce:  RecoveryDebounce,
		RateLimitSweep:    RateLimitSweep,
		AuditBufferSize:   256,
	}

	if d, ok := durationFromEnv("TOKEN_TTL"); ok {
		cfg.TokenTTL = d
	}
	if d, ok := durationFromEnv("HEARTBEAT_INTERVAL"); ok {
		cfg.HeartbeatInterval = d
	}
	if d, ok := durationFromEnv("RECOVERY_DEBOUNCE"); ok {
		cfg.RecoveryDebounce = d
	}
	if d, ok := durationFromEnv("RATE_LIMIT_SWEEP"); ok {
		cfg.RateLimitSweep = d
	}

	return cfg
}

func durationFromEnv(key string) (time.Duration, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, false
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, false
	}
	return d, true
}
