// Package config loads server configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	// Server
	ServerAddress string
	Environment   string

	// Websocket
	AllowedOrigin   string // "*" disables the origin check
	SendBuffer      int    // per-session outbound queue, messages
	MaxMessageBytes int64
	WriteWait       time.Duration
	PongWait        time.Duration
	PingPeriod      time.Duration

	// Features
	EnableMetrics bool
}

// Load reads configuration from the environment, falling back to
// development defaults.
func Load() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),

		AllowedOrigin:   getEnv("ALLOWED_ORIGIN", "*"),
		SendBuffer:      getEnvInt("WS_SEND_BUFFER", 256),
		MaxMessageBytes: int64(getEnvInt("WS_MAX_MESSAGE_BYTES", 4096)),
		WriteWait:       getEnvDuration("WS_WRITE_WAIT", 10*time.Second),
		PongWait:        getEnvDuration("WS_PONG_WAIT", 60*time.Second),

		EnableMetrics: getEnvBool("ENABLE_METRICS", true),
	}
	// Pings must outpace the pong deadline or healthy clients get cut.
	cfg.PingPeriod = getEnvDuration("WS_PING_PERIOD", cfg.PongWait*9/10)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the loaded values are internally consistent.
func (c *Config) Validate() error {
	if c.SendBuffer <= 0 {
		return fmt.Errorf("WS_SEND_BUFFER must be positive, got %d", c.SendBuffer)
	}
	if c.MaxMessageBytes <= 0 {
		return fmt.Errorf("WS_MAX_MESSAGE_BYTES must be positive, got %d", c.MaxMessageBytes)
	}
	if c.PingPeriod >= c.PongWait {
		return fmt.Errorf("WS_PING_PERIOD (%s) must be shorter than WS_PONG_WAIT (%s)", c.PingPeriod, c.PongWait)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
