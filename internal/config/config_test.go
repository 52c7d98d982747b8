package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "*", cfg.AllowedOrigin)
	assert.Less(t, cfg.PingPeriod, cfg.PongWait)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", ":9090")
	t.Setenv("WS_SEND_BUFFER", "16")
	t.Setenv("WS_PONG_WAIT", "30s")
	t.Setenv("ENABLE_METRICS", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.ServerAddress)
	assert.Equal(t, 16, cfg.SendBuffer)
	assert.Equal(t, 30*time.Second, cfg.PongWait)
	assert.Equal(t, 27*time.Second, cfg.PingPeriod)
	assert.False(t, cfg.EnableMetrics)
}

func TestValidateRejectsBadTiming(t *testing.T) {
	t.Setenv("WS_PING_PERIOD", "2m")
	_, err := Load()
	assert.Error(t, err)
}

func TestValidateRejectsNonPositiveBuffer(t *testing.T) {
	t.Setenv("WS_SEND_BUFFER", "-1")
	_, err := Load()
	assert.Error(t, err)
}
