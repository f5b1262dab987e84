package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAppName       = "AndinoPay Reconciler"
	defaultAppEnv        = "development"
	defaultPort          = "8080"
	defaultLogLevel      = "info"
	defaultShutdownDelay = 10 * time.Second

	defaultIdempotencyTTL = 24 * time.Hour
	// defaultMatchWindow bounds how far back the matcher scans pending deposits.
	defaultMatchWindow = 24 * time.Hour
	// defaultLedgerWindow bounds which pending ledger entries a settlement reconciles.
	defaultLedgerWindow    = time.Hour
	defaultSettleTimeout   = 5 * time.Second
	defaultRelayRatePerMin = 60
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName        string
	AppEnv         string
	Port           string
	LogLevel       string
	DatabaseURL    string
	RedisURL       string
	ShutdownPeriod time.Duration
	IdempotencyTTL time.Duration

	// MatchWindow is the trailing window inside which a pending deposit is
	// still eligible for matching.
	MatchWindow time.Duration
	// LedgerWindow is the trailing window inside which pending ledger
	// transactions are reconciled during settlement.
	LedgerWindow time.Duration
	// SettleTimeout bounds a single settlement attempt.
	SettleTimeout time.Duration
	// RelayTokenHash is the bcrypt hash of the shared token presented by the
	// mobile notification relay. Empty disables relay authentication.
	RelayTokenHash string
	// RelayRatePerMin caps notification submissions per sender per minute.
	RelayRatePerMin int
}

// Load reads configuration values from the environment and populates a Config instance.
func Load() (Config, error) {
	cfg := Config{
		AppName:         getEnv("APP_NAME", defaultAppName),
		AppEnv:          getEnv("APP_ENV", defaultAppEnv),
		Port:            getEnv("PORT", defaultPort),
		LogLevel:        strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RedisURL:        os.Getenv("REDIS_URL"),
		ShutdownPeriod:  defaultShutdownDelay,
		IdempotencyTTL:  defaultIdempotencyTTL,
		MatchWindow:     defaultMatchWindow,
		LedgerWindow:    defaultLedgerWindow,
		SettleTimeout:   defaultSettleTimeout,
		RelayTokenHash:  os.Getenv("RELAY_TOKEN_HASH"),
		RelayRatePerMin: defaultRelayRatePerMin,
	}

	var err error
	if cfg.ShutdownPeriod, err = durationEnv("SHUTDOWN_TIMEOUT", cfg.ShutdownPeriod); err != nil {
		return Config{}, err
	}
	if cfg.IdempotencyTTL, err = durationEnv("IDEMPOTENCY_TTL", cfg.IdempotencyTTL); err != nil {
		return Config{}, err
	}
	if cfg.MatchWindow, err = durationEnv("MATCH_WINDOW", cfg.MatchWindow); err != nil {
		return Config{}, err
	}
	if cfg.LedgerWindow, err = durationEnv("LEDGER_WINDOW", cfg.LedgerWindow); err != nil {
		return Config{}, err
	}
	if cfg.SettleTimeout, err = durationEnv("SETTLE_TIMEOUT", cfg.SettleTimeout); err != nil {
		return Config{}, err
	}

	if v := os.Getenv("RELAY_RATE_PER_MIN"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid RELAY_RATE_PER_MIN: %w", err)
		}
		cfg.RelayRatePerMin = n
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL must be set")
	}

	if cfg.RedisURL == "" {
		return Config{}, fmt.Errorf("REDIS_URL must be set")
	}

	return cfg, nil
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
