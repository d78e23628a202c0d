package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "STORAGE", "RATE_SOURCES", "RATE_FRESHNESS_MS", "RATE_DEFAULT", "RATE_LIMIT_MAX", "INFERENCE_TIMEOUT_MS", "TRUST_PROXY"} {
		t.Setenv(k, "")
	}
	c := Load()
	require.Equal(t, "8080", c.Port)
	require.Equal(t, "memory", c.Storage)
	require.Equal(t, []string{"exchangerate-api", "frankfurter", "tcmb"}, c.RateSources)
	require.Equal(t, 5*time.Minute, c.RateFreshness)
	require.Equal(t, 10*time.Second, c.RateSourceTimeout)
	require.Equal(t, 5*time.Second, c.InferenceTimeout)
	require.Equal(t, "34.50", c.RateDefault)
	require.Equal(t, 100, c.RateLimitMax)
	require.Equal(t, 15*time.Minute, c.RateLimitWindow)
	require.Zero(t, c.RateWarmInterval)
	require.False(t, c.TrustProxy)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("RATE_SOURCES", " static , frankfurter,")
	t.Setenv("RATE_FRESHNESS_MS", "60000")
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("INFERENCE_TARGET", "ml:50051")
	t.Setenv("TRUST_PROXY", "true")

	c := Load()
	require.Equal(t, []string{"static", "frankfurter"}, c.RateSources)
	require.Equal(t, time.Minute, c.RateFreshness)
	require.Equal(t, 0, c.RedisDB)
	require.Equal(t, "ml:50051", c.InferenceTarget)
	require.True(t, c.TrustProxy)
}
