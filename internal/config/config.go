// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing, the process exits with an error.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all runtime configuration for the workflow service.
type Config struct {
	Port        string
	DatabaseURL string // Postgres status store; ignored when ATSAPIURL is set
	RedisURL    string
	ATSAPIURL   string // remote ATS status API; empty means use Postgres
	CatalogPath string // JSON stage catalog; empty means built-in pipeline

	FeedCap                int // max undoable notifications kept in the feed
	NotificationTTLMinutes int // 0 disables expiry
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	atsURL := os.Getenv("ATS_API_URL")
	dbURL := os.Getenv("DATABASE_URL")
	if atsURL == "" && dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required when ATS_API_URL is not set")
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}

	port := os.Getenv("WORKFLOW_PORT")
	if port == "" {
		port = "8083"
	}

	feedCap := 20
	if s := os.Getenv("FEED_CAP"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("FEED_CAP must be a positive integer, got %q", s)
		}
		feedCap = v
	}

	ttl := 0
	if s := os.Getenv("NOTIFICATION_TTL_MINUTES"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			return nil, fmt.Errorf("NOTIFICATION_TTL_MINUTES must be a non-negative integer, got %q", s)
		}
		ttl = v
	}

	return &Config{
		Port:                   port,
		DatabaseURL:            dbURL,
		RedisURL:               redisURL,
		ATSAPIURL:              atsURL,
		CatalogPath:            os.Getenv("CATALOG_PATH"),
		FeedCap:                feedCap,
		NotificationTTLMinutes: ttl,
	}, nil
}
