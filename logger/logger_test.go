package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Environment: "production", Output: &buf})

	log.ForAgency("Travelplanet").Info().Str("url", "https://example.com").Msg("fetched")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "Travelplanet", entry["agency"])
	assert.Equal(t, "https://example.com", entry["url"])
	assert.Equal(t, "fetched", entry["message"])
}

func TestProductionSkipsDebug(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Environment: "production", Output: &buf})

	log.Debug().Msg("hidden")
	assert.Empty(t, buf.String())
	assert.False(t, log.IsDebugEnabled())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, parseLevel("", "development"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("", "production"))
	assert.Equal(t, zerolog.WarnLevel, parseLevel("WARN", "development"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("nonsense", ""))
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Environment: "production", Output: &buf}).
		WithFields(Fields{"country": "Egipt", "candidates": 3})

	log.Warn().Msg("x")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Egipt", entry["country"])
	assert.Equal(t, float64(3), entry["candidates"])
}

func TestNop(t *testing.T) {
	log := Nop()
	log.Error().Msg("discarded")
	assert.NotNil(t, log.ForComponent("x"))
}
