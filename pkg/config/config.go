// Package config loads application configuration from the environment.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv   string
	LogLevel string
	Timezone string

	// Database. DatabaseURL selects the backend: a postgres:// URL uses the
	// pgx pool, anything else is treated as a SQLite file path.
	DatabaseURL string
	SQLitePath  string

	// Redis (optional advisory run lock)
	RedisURL string

	// RabbitMQ (reminder delivery)
	RabbitMQURL string

	// API
	APIAddr       string
	CronAuthToken string

	// Worker
	WorkerHealthAddr string

	// Scheduler
	ExtensionDays    int
	LowWaterMarkDays int
	MinCycleLength   int
	MaxCycleLength   int
	FreeThreshold    int
	DefaultCapacity  int
	ExtendInterval   time.Duration

	// Slots
	MorningSlot   string
	AfternoonSlot string
	EveningSlot   string

	// Reminder scanner
	ScanInterval     time.Duration
	ScanTolerance    time.Duration
	LookaheadHorizon time.Duration
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Timezone: getEnv("COURSECAST_TIMEZONE", "UTC"),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		SQLitePath:  getEnv("SQLITE_PATH", "coursecast.db"),

		RedisURL:    getEnv("REDIS_URL", ""),
		RabbitMQURL: getEnv("RABBITMQ_URL", ""),

		APIAddr:       getEnv("API_ADDR", "0.0.0.0:8080"),
		CronAuthToken: getEnv("CRON_AUTH_TOKEN", ""),

		WorkerHealthAddr: getEnv("WORKER_HEALTH_ADDR", "0.0.0.0:8081"),

		ExtensionDays:    getIntEnv("EXTENSION_DAYS", 30),
		LowWaterMarkDays: getIntEnv("LOW_WATER_MARK_DAYS", 7),
		MinCycleLength:   getIntEnv("MIN_CYCLE_LENGTH", 7),
		MaxCycleLength:   getIntEnv("MAX_CYCLE_LENGTH", 60),
		FreeThreshold:    getIntEnv("FREE_THRESHOLD", 2),
		DefaultCapacity:  getIntEnv("DEFAULT_CAPACITY", 0),
		ExtendInterval:   getDurationEnv("EXTEND_INTERVAL", 6*time.Hour),

		MorningSlot:   getEnv("MORNING_SLOT", "09:00"),
		AfternoonSlot: getEnv("AFTERNOON_SLOT", "14:00"),
		EveningSlot:   getEnv("EVENING_SLOT", "19:00"),

		ScanInterval:     getDurationEnv("SCAN_INTERVAL", time.Minute),
		ScanTolerance:    getDurationEnv("SCAN_TOLERANCE", 5*time.Minute),
		LookaheadHorizon: getDurationEnv("LOOKAHEAD_HORIZON", 25*time.Hour),
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// UsesPostgres reports whether the configured database is PostgreSQL.
func (c *Config) UsesPostgres() bool {
	return c.DatabaseURL != ""
}

// Location resolves the configured timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ParseSlotTime parses an "HH:MM" slot time.
func ParseSlotTime(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, err
	}
	return t.Hour(), t.Minute(), nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
