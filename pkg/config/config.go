package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/korjavin/kitchentimer/pkg/logger"
)

// Config holds all configuration for the application
type Config struct {
	// Telegram Bot configuration
	BotToken string

	// Storage configuration
	DataDir    string
	GCInterval time.Duration

	// Timer configuration
	TickInterval     time.Duration
	MaxTimersPerChat int
	PresetsFile      string

	LogLevel string
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Global.Warn("Error loading .env file: %v", err)
	}

	cfg := &Config{}

	// Required configurations
	cfg.BotToken = os.Getenv("BOT_TOKEN")
	if cfg.BotToken == "" {
		return nil, errors.New("BOT_TOKEN environment variable is required")
	}

	// Optional configurations with defaults
	cfg.DataDir = getEnvWithDefault("DATA_DIR", "./data")
	cfg.PresetsFile = os.Getenv("PRESETS_FILE")
	cfg.LogLevel = getEnvWithDefault("LOG_LEVEL", "info")

	var err error
	if cfg.TickInterval, err = getDuration("TICK_INTERVAL", time.Second); err != nil {
		return nil, err
	}
	if cfg.GCInterval, err = getDuration("GC_INTERVAL", 10*time.Minute); err != nil {
		return nil, err
	}
	if cfg.MaxTimersPerChat, err = getPositiveInt("MAX_TIMERS_PER_CHAT", 20); err != nil {
		return nil, err
	}

	logger.Global.Info("Configuration loaded: %s", cfg.Redacted())
	return cfg, nil
}

// Redacted returns a printable form of the configuration without secrets
func (c Config) Redacted() string {
	token := c.BotToken
	if len(token) > 8 {
		token = token[:8] + "...REDACTED..."
	} else if token != "" {
		token = "REDACTED"
	}
	return "{BotToken:" + token +
		" DataDir:" + c.DataDir +
		" GCInterval:" + c.GCInterval.String() +
		" TickInterval:" + c.TickInterval.String() +
		" MaxTimersPerChat:" + strconv.Itoa(c.MaxTimersPerChat) +
		" PresetsFile:" + c.PresetsFile +
		" LogLevel:" + c.LogLevel + "}"
}

// getEnvWithDefault returns the value of the environment variable or the default value
func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, errors.Wrapf(err, "%s must be a duration", key)
	}
	if d <= 0 {
		return 0, errors.Errorf("%s must be positive, got %s", key, d)
	}
	return d, nil
}

func getPositiveInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.Wrapf(err, "%s must be an integer", key)
	}
	if n <= 0 {
		return 0, errors.Errorf("%s must be positive, got %d", key, n)
	}
	return n, nil
}
