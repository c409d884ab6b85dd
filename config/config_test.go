package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	// Test with default values
	config := LoadConfig()
	assert.Equal(t, "", config.DatabaseURL)
	assert.Equal(t, 0, config.RedisDB)
	assert.Equal(t, 1, config.RedisStreamCount)
	assert.Equal(t, 30*time.Second, config.FetchTimeout)
	assert.Equal(t, "https://www.travelplanet.pl/", config.TravelplanetURL)
	assert.Equal(t, "0 0 * * *", config.ScrapeCron)
	assert.Equal(t, "0 0 * * 1", config.CleanupCron)
	assert.Equal(t, 168*time.Hour, config.RunRetention)
	assert.False(t, config.StrictNormalize)
	assert.NoError(t, config.Validate())

	// Test with environment variables
	t.Setenv("REDIS_ADDR", "redis.example.com:6379")
	t.Setenv("REDIS_DB", "1")
	t.Setenv("MEMCACHE_ADDR", "memcache.example.com:11211")
	t.Setenv("FETCH_TIMEOUT_SECONDS", "10")
	t.Setenv("FLY_URL", "https://example.com/fly/")
	t.Setenv("NORMALIZE_STRICT", "true")

	config = LoadConfig()
	assert.Equal(t, "redis.example.com:6379", config.RedisAddr)
	assert.Equal(t, 1, config.RedisDB)
	assert.Equal(t, "memcache.example.com:11211", config.MemcacheAddr)
	assert.Equal(t, 10*time.Second, config.FetchTimeout)
	assert.Equal(t, "https://example.com/fly/", config.FlyURL)
	assert.True(t, config.StrictNormalize)
}

func TestLoadConfigIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("REDIS_STREAM_COUNT", "many")
	t.Setenv("FETCH_RATE_PER_SECOND", "fast")

	config := LoadConfig()
	assert.Equal(t, 1, config.RedisStreamCount)
	assert.Equal(t, 1.0, config.FetchRatePerSecond)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero timeout", func(c *Config) { c.FetchTimeout = 0 }},
		{"relative url", func(c *Config) { c.WakacjeURL = "www.wakacje.pl" }},
		{"bad cron", func(c *Config) { c.ScrapeCron = "every day" }},
		{"bad cleanup cron", func(c *Config) { c.CleanupCron = "61 * * * *" }},
		{"no streams", func(c *Config) { c.RedisStreamCount = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := LoadConfig()
			tc.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}
