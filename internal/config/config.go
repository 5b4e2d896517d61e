package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Server  ServerConfig
	Tracker TrackerConfig
	Board   BoardConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  []string
}

// TrackerConfig holds settings for the remote tracker API.
type TrackerConfig struct {
	BaseURL string
	Timeout time.Duration
}

// BoardConfig holds board and backlog view settings.
type BoardConfig struct {
	BacklogPageSize int
}

// Load reads configuration from environment variables. Defaults are safe
// for local development; the tracker base URL must be set explicitly.
func Load() (*Config, error) {
	readTimeout, err := getEnvDuration("SPRINTDECK_SERVER_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	writeTimeout, err := getEnvDuration("SPRINTDECK_SERVER_WRITE_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	trackerTimeout, err := getEnvDuration("SPRINTDECK_TRACKER_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	backlogPageSize, err := getEnvInt("SPRINTDECK_BACKLOG_PAGE_SIZE", 50)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	corsOrigins := getEnvList("SPRINTDECK_CORS_ORIGINS", []string{"http://localhost:5173"})

	cfg := &Config{
		Server: ServerConfig{
			Addr:         getEnv("SPRINTDECK_SERVER_ADDR", ":8080"),
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			CORSOrigins:  corsOrigins,
		},
		Tracker: TrackerConfig{
			BaseURL: getEnv("SPRINTDECK_TRACKER_URL", ""),
			Timeout: trackerTimeout,
		},
		Board: BoardConfig{
			BacklogPageSize: backlogPageSize,
		},
	}

	err = cfg.validate()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	return cfg, nil
}

// validate checks required fields and value bounds.
func (c *Config) validate() error {
	if c.Tracker.BaseURL == "" {
		return errors.New("SPRINTDECK_TRACKER_URL is required")
	}
	u, err := url.Parse(c.Tracker.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("SPRINTDECK_TRACKER_URL must be an absolute URL, got %q", c.Tracker.BaseURL)
	}

	if c.Tracker.Timeout <= 0 {
		return fmt.Errorf("SPRINTDECK_TRACKER_TIMEOUT must be positive, got %s", c.Tracker.Timeout)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("SPRINTDECK_SERVER_READ_TIMEOUT must be positive, got %s", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("SPRINTDECK_SERVER_WRITE_TIMEOUT must be positive, got %s", c.Server.WriteTimeout)
	}
	if c.Board.BacklogPageSize < 1 {
		return fmt.Errorf("SPRINTDECK_BACKLOG_PAGE_SIZE must be >= 1, got %d", c.Board.BacklogPageSize)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as int: %w", key, v, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as duration: %w", key, v, err)
	}
	return d, nil
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
