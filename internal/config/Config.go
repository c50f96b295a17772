// This file contains the Config struct, which holds every environment-driven setting of the downloader.
// Values come from the process environment, optionally seeded from .env files. Variables already set in the
// environment win over the files, as godotenv never overrides them.

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names
const (
	EnvBaseURL     = "MOBILENERF_BASE_URL"
	EnvLogPath     = "MOBILENERF_LOG_PATH"
	EnvHTTPTimeout = "MOBILENERF_HTTP_TIMEOUT"
	EnvMongoURI    = "MOBILENERF_MONGO_URI"
	EnvAMQPURL     = "MOBILENERF_AMQP_URL"
	EnvAMQPQueue   = "MOBILENERF_AMQP_QUEUE"
)

// Default values
const (
	DefaultBaseURL     = "https://storage.googleapis.com/jax3d-public/projects/mobilenerf/mobilenerf_viewer_mac/"
	DefaultLogPath     = "stderr"
	DefaultHTTPTimeout = 5 * time.Minute
	DefaultAMQPQueue   = "mobilenerf-samples"
)

// Config represents the downloader configuration
type Config struct {
	// BaseURL is the remote root of all sample scenes. Always ends in a slash.
	BaseURL     string
	LogPath     string
	HTTPTimeout time.Duration
	// MongoURI enables the download history when set.
	MongoURI string
	// AMQPURL enables scene-ready notifications when set.
	AMQPURL   string
	AMQPQueue string
}

// Load reads the given .env files (missing files are ignored) and builds a Config from the environment.
func Load(envFiles ...string) (*Config, error) {
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	cfg := &Config{
		BaseURL:     getenv(EnvBaseURL, DefaultBaseURL),
		LogPath:     getenv(EnvLogPath, DefaultLogPath),
		HTTPTimeout: DefaultHTTPTimeout,
		MongoURI:    os.Getenv(EnvMongoURI),
		AMQPURL:     os.Getenv(EnvAMQPURL),
		AMQPQueue:   getenv(EnvAMQPQueue, DefaultAMQPQueue),
	}

	if !strings.HasSuffix(cfg.BaseURL, "/") {
		cfg.BaseURL += "/"
	}

	if raw := os.Getenv(EnvHTTPTimeout); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvHTTPTimeout, err)
		}
		if timeout <= 0 {
			return nil, fmt.Errorf("invalid %s: must be positive", EnvHTTPTimeout)
		}
		cfg.HTTPTimeout = timeout
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
