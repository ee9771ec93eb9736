package ratelimit

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllowWithinBudget(t *testing.T) {
	rl := NewAILimiter(3)

	require.NoError(t, rl.Allow("openai"))
	require.NoError(t, rl.Allow("gemini"))
	require.NoError(t, rl.Allow("openai"))
	require.Error(t, rl.Allow("openai"))
}

func TestAllowUnlimited(t *testing.T) {
	rl := NewAILimiter(0)
	for i := 0; i < 100; i++ {
		require.NoError(t, rl.Allow("openai"))
	}
}

func TestCacheHitRate(t *testing.T) {
	rl := NewAILimiter(10)
	require.Zero(t, rl.CacheHitRate())

	require.NoError(t, rl.Allow("openai"))
	rl.RecordCacheHit()

	require.InDelta(t, 50.0, rl.CacheHitRate(), 0.01)
}

func TestGetStats(t *testing.T) {
	rl := NewAILimiter(5)
	require.NoError(t, rl.Allow("openai"))
	require.NoError(t, rl.Allow("gemini"))

	stats := rl.GetStats()
	require.Equal(t, 1, stats["openai_used"])
	require.Equal(t, 1, stats["gemini_used"])
	require.Equal(t, 2, stats["total_used"])
	require.Equal(t, 5, stats["total_limit"])
}
