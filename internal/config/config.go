package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Common
	Environment string
	LogLevel    string

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// Services
	Engine EngineConfig
	Alert  AlertConfig
	API    APIConfig
}

// DatabaseConfig holds PostgreSQL configuration for the signal log
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	SSLMode         string
	MaxConnections  int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host         string
	Port         int
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
}

// EngineConfig holds thesis engine configuration
type EngineConfig struct {
	Segment         string        // Instrument segment to evaluate ("INDEX")
	NotifyWindow    time.Duration // Per-instrument notification debounce window
	CandleHistory   int           // Candles kept per instrument per timeframe
	DriverStoreType string        // "memory" or "redis"
	SnapshotStream  string        // Stream of upstream signal snapshots
	CandleStream    string        // Stream of completed candles
	ConsumerGroup   string
	AlertStream     string // Stream the notifier dispatches alerts to
}

// AlertConfig holds alert delivery worker configuration
type AlertConfig struct {
	StreamName     string
	ConsumerGroup  string
	DedupeTTL      time.Duration
	ProcessTimeout time.Duration

	// Telegram delivery
	TelegramBotToken string
	TelegramChatID   string
	RetryAttempts    int
	RetryDelay       time.Duration
}

// APIConfig holds REST API configuration
type APIConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Load loads configuration from environment variables. A .env file in the
// working directory is loaded first if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Database:        getEnv("DB_NAME", "thesis_engine"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnvAsInt("REDIS_PORT", 6379),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvAsInt("REDIS_DB", 0),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 5),
		},
		Engine: EngineConfig{
			Segment:         getEnv("ENGINE_SEGMENT", "INDEX"),
			NotifyWindow:    getEnvAsDuration("ENGINE_NOTIFY_WINDOW", 60*time.Second),
			CandleHistory:   getEnvAsInt("ENGINE_CANDLE_HISTORY", 100),
			DriverStoreType: getEnv("ENGINE_DRIVER_STORE_TYPE", "memory"),
			SnapshotStream:  getEnv("ENGINE_SNAPSHOT_STREAM", "signal_snapshots"),
			CandleStream:    getEnv("ENGINE_CANDLE_STREAM", "candles"),
			ConsumerGroup:   getEnv("ENGINE_CONSUMER_GROUP", "thesis-engine"),
			AlertStream:     getEnv("ENGINE_ALERT_STREAM", "signal_alerts"),
		},
		Alert: AlertConfig{
			StreamName:       getEnv("ALERT_STREAM_NAME", "signal_alerts"),
			ConsumerGroup:    getEnv("ALERT_CONSUMER_GROUP", "alert-delivery"),
			DedupeTTL:        getEnvAsDuration("ALERT_DEDUPE_TTL", 1*time.Hour),
			ProcessTimeout:   getEnvAsDuration("ALERT_PROCESS_TIMEOUT", 5*time.Second),
			TelegramBotToken: getEnv("ALERT_TELEGRAM_BOT_TOKEN", ""),
			TelegramChatID:   getEnv("ALERT_TELEGRAM_CHAT_ID", ""),
			RetryAttempts:    getEnvAsInt("ALERT_RETRY_ATTEMPTS", 3),
			RetryDelay:       getEnvAsDuration("ALERT_RETRY_DELAY", 1*time.Second),
		},
		API: APIConfig{
			Port:         getEnvAsInt("API_PORT", 8090),
			ReadTimeout:  getEnvAsDuration("API_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getEnvAsDuration("API_WRITE_TIMEOUT", 10*time.Second),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Redis.Host == "" {
		return fmt.Errorf("REDIS_HOST is required")
	}
	if c.Engine.Segment == "" {
		return fmt.Errorf("ENGINE_SEGMENT is required")
	}
	if c.Engine.NotifyWindow <= 0 {
		return fmt.Errorf("ENGINE_NOTIFY_WINDOW must be positive")
	}
	if t := c.Engine.DriverStoreType; t != "memory" && t != "redis" {
		return fmt.Errorf("ENGINE_DRIVER_STORE_TYPE must be \"memory\" or \"redis\", got %q", t)
	}
	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}
