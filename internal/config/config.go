package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime settings shared by the scraper, server and tools binaries.
type Config struct {
	DatabasePath string
	MetricsPort  string
	UserAgent    string
	FetchTimeout time.Duration
	RequestDelay time.Duration
	Strategy     string // document strategy: "dom" or "regex"
}

const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36"

// Load reads configuration from the environment, loading a .env file if present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		DatabasePath: getEnv("DATABASE_PATH", "data/casa-italia.db"),
		MetricsPort:  getEnv("METRICS_PORT", "9090"),
		UserAgent:    getEnv("SCRAPER_USER_AGENT", defaultUserAgent),
		FetchTimeout: getDuration("FETCH_TIMEOUT", 30*time.Second),
		RequestDelay: getDuration("REQUEST_DELAY", 2*time.Second),
		Strategy:     getEnv("DOCUMENT_STRATEGY", "dom"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
