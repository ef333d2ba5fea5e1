package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Supported storage drivers
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds the service configuration. Defaults match a bare local run.
type Config struct {
	ListenAddr      string        `env:"LISTEN_ADDR" envDefault:"0.0.0.0:3000"`
	GinMode         string        `env:"GIN_MODE" envDefault:"release"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`

	DBDriver string `env:"DB_DRIVER" envDefault:"sqlite3"`
	DBDSN    string `env:"DB_DSN" envDefault:"data/ambitions.db"`

	Timezone         string `env:"TIMEZONE" envDefault:"Local"`
	SchedulerEnabled bool   `env:"ENABLE_SCHEDULER" envDefault:"true"`
	BackfillAt       string `env:"BACKFILL_AT" envDefault:"00:05"`
	ReminderAt       string `env:"REMINDER_AT" envDefault:"21:00"`
	HistoryLimit     int    `env:"HISTORY_LIMIT" envDefault:"366"`

	TelegramToken  string `env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID int64  `env:"TELEGRAM_CHAT_ID"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`
}

// Load reads an optional .env file and then the process environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("WARN: cannot load .env file: %v, using environment variables", err)
	}
	return Parse()
}

// Parse builds a Config from the process environment only
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values env tags cannot express
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverSQLite, DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.DBDriver != DriverMemory && strings.TrimSpace(c.DBDSN) == "" {
		return errors.New("DB_DSN is required")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if err := validateClock("BACKFILL_AT", c.BackfillAt); err != nil {
		return err
	}
	if err := validateClock("REMINDER_AT", c.ReminderAt); err != nil {
		return err
	}
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("HISTORY_LIMIT must be positive, got %d", c.HistoryLimit)
	}
	if c.TelegramToken != "" && c.TelegramChatID == 0 {
		return errors.New("TELEGRAM_CHAT_ID is required when TELEGRAM_BOT_TOKEN is set")
	}
	return nil
}

// Location resolves the configured timezone
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// TelegramEnabled reports whether the bot should be started
func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}

func validateClock(key, value string) error {
	if _, err := time.Parse("15:04", value); err != nil {
		return fmt.Errorf("invalid %s %q: expected HH:MM", key, value)
	}
	return nil
}
