package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr                   string
	DBPath                 string
	LogLevel               string
	NewCardsPerDay         int
	CounterRetentionDays   int
	SessionMaxIdleMinutes  int
	MaintenanceWorkerCount int
	MaintenanceQueueSize   int
}

// Load reads configuration from a .env file (if present) and environment
// variables, applying defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                   envOr("ADDR", ":8080"),
		DBPath:                 envOr("DB_PATH", "file:dewdrop.db"),
		LogLevel:               envOr("LOG_LEVEL", "INFO"),
		NewCardsPerDay:         envIntOr("NEW_CARDS_PER_DAY", 10),
		CounterRetentionDays:   envIntOr("COUNTER_RETENTION_DAYS", 30),
		SessionMaxIdleMinutes:  envIntOr("SESSION_MAX_IDLE_MINUTES", 360),
		MaintenanceWorkerCount: envIntOr("MAINTENANCE_WORKER_COUNT", 1),
		MaintenanceQueueSize:   envIntOr("MAINTENANCE_QUEUE_SIZE", 16),
	}
}

// Validate checks the configuration for values the server cannot run with.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("ADDR cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR")
	}
	if c.NewCardsPerDay < 0 {
		return fmt.Errorf("NEW_CARDS_PER_DAY cannot be negative")
	}
	if c.CounterRetentionDays <= 0 {
		return fmt.Errorf("COUNTER_RETENTION_DAYS must be positive")
	}
	if c.SessionMaxIdleMinutes <= 0 {
		return fmt.Errorf("SESSION_MAX_IDLE_MINUTES must be positive")
	}
	if c.MaintenanceWorkerCount <= 0 {
		return fmt.Errorf("MAINTENANCE_WORKER_COUNT must be positive")
	}
	if c.MaintenanceQueueSize <= 0 {
		return fmt.Errorf("MAINTENANCE_QUEUE_SIZE must be positive")
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
