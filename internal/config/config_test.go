package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ANALYSIS_SIMULATED_LATENCY_MS", "")
	t.Setenv("KAFKA_BROKERS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 800*time.Millisecond, cfg.Analysis.SimulatedLatency())
	assert.Equal(t, 5*time.Minute, cfg.Analysis.CacheTTL())
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, "support.insights", cfg.Kafka.Topic)
	assert.Equal(t, time.Hour, cfg.Auth.AccessTokenTTL())
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ANALYSIS_SIMULATED_LATENCY_MS", "0")
	t.Setenv("ANALYSIS_RATE_LIMIT_PER_SECOND", "2.5")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("APP_PORT", "9000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Zero(t, cfg.Analysis.SimulatedLatency())
	assert.Equal(t, 2.5, cfg.Analysis.RateLimitPerSecond)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "0.0.0.0:9000", cfg.App.Addr())
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("negative latency", func(t *testing.T) {
		t.Setenv("ANALYSIS_SIMULATED_LATENCY_MS", "-5")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("bad redis db", func(t *testing.T) {
		t.Setenv("REDIS_DB", "zero")
		_, err := Load()
		assert.Error(t, err)
	})
}
