package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"main/internal/domain/entity/analysis"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_DSN", "postgres://localhost:5432/analysis")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, "postgres://localhost:5432/analysis", cfg.Postgres.DSN)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 30, cfg.Cache.TTLSeconds)
	assert.Equal(t, "analysis.requests", cfg.RabbitMQ.RequestQueue)
	assert.Equal(t, "https://gamma-api.polymarket.com", cfg.Venue.BaseURL)
	assert.Equal(t, 20000, cfg.Agents.TimeoutMs)
	assert.Equal(t, 2, cfg.Agents.MinAgentsRequired)
	assert.Len(t, cfg.Agents.Enabled, 5)
	assert.Equal(t, 0.2, cfg.SignalFusion.ConflictThreshold)
	assert.Equal(t, 0.1, cfg.SignalFusion.AlignmentBonus)
	assert.True(t, cfg.SignalFusion.ContextAdjustments)
	assert.Equal(t, 0.05, cfg.Consensus.MinEdgeThreshold)
	assert.Equal(t, 0.6, cfg.Consensus.HighDisagreementThreshold)
	assert.Equal(t, 16, cfg.Pipeline.MaxSteps)
	assert.Equal(t, 1.0, cfg.SignalFusion.BaseWeights[analysis.CategoryPolling])
}

func TestLoadRequiresDSN(t *testing.T) {
	t.Setenv("DATABASE_DSN", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_DSN")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_DSN", "postgres://db:5432/x")
	t.Setenv("APP_ENV", "production")
	t.Setenv("HTTP_HOST", "127.0.0.1")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("AGENT_TIMEOUT_MS", "5000")
	t.Setenv("AGENTS_MIN_REQUIRED", "3")
	t.Setenv("AGENTS_ENABLED", "order_flow, polling_intel")
	t.Setenv("FUSION_CONTEXT_ADJUSTMENTS", "false")
	t.Setenv("CONSENSUS_MIN_EDGE_THRESHOLD", "0.08")
	t.Setenv("PIPELINE_MAX_STEPS", "8")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "127.0.0.1:9090", cfg.HTTP.Addr())
	assert.Equal(t, 5000, cfg.Agents.TimeoutMs)
	assert.Equal(t, 3, cfg.Agents.MinAgentsRequired)
	assert.Equal(t, []string{"order_flow", "polling_intel"}, cfg.Agents.Enabled)
	assert.False(t, cfg.SignalFusion.ContextAdjustments)
	assert.Equal(t, 0.08, cfg.Consensus.MinEdgeThreshold)
	assert.Equal(t, 8, cfg.Pipeline.MaxSteps)
}

func TestLoadBadValues(t *testing.T) {
	cases := []struct {
		key   string
		value string
	}{
		{"HTTP_PORT", "eighty"},
		{"AGENT_TIMEOUT_MS", "2s"},
		{"FUSION_CONFLICT_THRESHOLD", "lots"},
		{"FUSION_CONTEXT_ADJUSTMENTS", "maybe"},
		{"PIPELINE_MAX_STEPS", "3.5"},
	}
	for _, tc := range cases {
		t.Run(tc.key, func(t *testing.T) {
			t.Setenv("DATABASE_DSN", "postgres://db:5432/x")
			t.Setenv(tc.key, tc.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.key)
		})
	}
}

func TestGetWeights(t *testing.T) {
	t.Run("custom pairs", func(t *testing.T) {
		t.Setenv("FUSION_BASE_WEIGHTS", "microstructure:1.2, polling:0.8")

		weights, err := getWeights("FUSION_BASE_WEIGHTS", defaultBaseWeights())
		require.NoError(t, err)
		assert.Equal(t, map[string]float64{"microstructure": 1.2, "polling": 0.8}, weights)
	})

	t.Run("unset falls back", func(t *testing.T) {
		weights, err := getWeights("FUSION_BASE_WEIGHTS_UNSET", defaultBaseWeights())
		require.NoError(t, err)
		assert.Equal(t, defaultBaseWeights(), weights)
	})

	t.Run("missing colon", func(t *testing.T) {
		t.Setenv("FUSION_BASE_WEIGHTS", "microstructure=1.2")

		_, err := getWeights("FUSION_BASE_WEIGHTS", defaultBaseWeights())
		require.Error(t, err)
	})

	t.Run("negative weight", func(t *testing.T) {
		t.Setenv("FUSION_BASE_WEIGHTS", "polling:-1")

		_, err := getWeights("FUSION_BASE_WEIGHTS", defaultBaseWeights())
		require.Error(t, err)
	})

	t.Run("bad number", func(t *testing.T) {
		t.Setenv("FUSION_BASE_WEIGHTS", "polling:heavy")

		_, err := getWeights("FUSION_BASE_WEIGHTS", defaultBaseWeights())
		require.Error(t, err)
	})
}
