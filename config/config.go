package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Config represents the application configuration
type Config struct {
	// Postgres connection string; empty selects the in-memory store
	DatabaseURL string

	// Redis configuration
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamCount     int
	RedisStreamMaxLength int

	// Memcache configuration
	MemcacheAddr string

	// Fetch configuration
	FetchTimeout       time.Duration
	FetchRatePerSecond float64
	RateLimitBlockTime time.Duration

	// Agency base URLs
	TravelplanetURL string
	WakacjeURL      string
	FlyURL          string

	// Scheduling
	ScrapeCron      string
	CleanupCron     string
	RunRetention    time.Duration
	RunLockTTL      time.Duration
	MetricsAddr     string
	ProfilePath     string
	StrictNormalize bool

	// Environment
	Environment string
	LogLevel    string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() *Config {
	return &Config{
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		RedisAddr:            getEnv("REDIS_ADDR", ""),
		RedisDB:              getEnvInt("REDIS_DB", 0),
		RedisStream:          getEnv("REDIS_STREAM", "offers"),
		RedisStreamCount:     getEnvInt("REDIS_STREAM_COUNT", 1),
		RedisStreamMaxLength: getEnvInt("REDIS_STREAM_MAX_LENGTH", 1000),
		MemcacheAddr:         getEnv("MEMCACHE_ADDR", ""),
		FetchTimeout:         time.Duration(getEnvInt("FETCH_TIMEOUT_SECONDS", 30)) * time.Second,
		FetchRatePerSecond:   getEnvFloat("FETCH_RATE_PER_SECOND", 1),
		RateLimitBlockTime:   time.Duration(getEnvInt("RATE_LIMIT_BLOCK_SECONDS", 300)) * time.Second,
		TravelplanetURL:      getEnv("TRAVELPLANET_URL", "https://www.travelplanet.pl/"),
		WakacjeURL:           getEnv("WAKACJE_URL", "https://www.wakacje.pl/"),
		FlyURL:               getEnv("FLY_URL", "https://www.fly.pl/"),
		ScrapeCron:           getEnv("SCRAPE_CRON", "0 0 * * *"),
		CleanupCron:          getEnv("CLEANUP_CRON", "0 0 * * 1"),
		RunRetention:         time.Duration(getEnvInt("RUN_RETENTION_HOURS", 168)) * time.Hour,
		RunLockTTL:           time.Duration(getEnvInt("RUN_LOCK_TTL_SECONDS", 3600)) * time.Second,
		MetricsAddr:          getEnv("METRICS_ADDR", ":9100"),
		ProfilePath:          getEnv("PROFILE_PATH", ""),
		StrictNormalize:      getEnvBool("NORMALIZE_STRICT", false),
		Environment:          getEnv("ENVIRONMENT", "development"),
		LogLevel:             getEnv("LOG_LEVEL", ""),
	}
}

// Validate checks the configuration for values the worker cannot run with
func (c *Config) Validate() error {
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT_SECONDS must be positive")
	}
	if c.FetchRatePerSecond <= 0 {
		return fmt.Errorf("FETCH_RATE_PER_SECOND must be positive")
	}
	if c.RedisStreamCount < 1 {
		return fmt.Errorf("REDIS_STREAM_COUNT must be at least 1")
	}
	if c.RunRetention <= 0 {
		return fmt.Errorf("RUN_RETENTION_HOURS must be positive")
	}
	for name, u := range map[string]string{
		"TRAVELPLANET_URL": c.TravelplanetURL,
		"WAKACJE_URL":      c.WakacjeURL,
		"FLY_URL":          c.FlyURL,
	} {
		if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
			return fmt.Errorf("%s must be an absolute http(s) URL, got %q", name, u)
		}
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(c.ScrapeCron); err != nil {
		return fmt.Errorf("invalid SCRAPE_CRON %q: %w", c.ScrapeCron, err)
	}
	if _, err := parser.Parse(c.CleanupCron); err != nil {
		return fmt.Errorf("invalid CLEANUP_CRON %q: %w", c.CleanupCron, err)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvFloat(key string, defaultValue float64) float64 {
	v, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}
