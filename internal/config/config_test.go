package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("TELEGRAM_BOT_TOKEN", "test-token")
	t.Setenv("OPENAI_API_KEY", "test-key")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "persian_sports_bot", cfg.BotUsername)
	require.Equal(t, 5, cfg.MaxNewsPerRequest)
	require.Equal(t, 10*time.Second, cfg.RequestTimeout)
	require.Equal(t, 300*time.Second, cfg.CacheTimeout)
	require.Equal(t, 600*time.Second, cfg.FeedRefreshInterval)
	require.Equal(t, "configs/feeds.yaml", cfg.FeedsConfigPath)
	require.False(t, cfg.Debug)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("MAX_NEWS_PER_REQUEST", "8")
	t.Setenv("REQUEST_TIMEOUT", "20")
	t.Setenv("DEBUG_MODE", "true")
	t.Setenv("BOT_USERNAME", "esteghlal_bot")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, 8, cfg.MaxNewsPerRequest)
	require.Equal(t, 20*time.Second, cfg.RequestTimeout)
	require.True(t, cfg.Debug)
	require.Equal(t, "esteghlal_bot", cfg.BotUsername)
}

func TestLoadInvalidIntFallsBackToDefault(t *testing.T) {
	setRequired(t)
	t.Setenv("MAX_NEWS_PER_REQUEST", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 5, cfg.MaxNewsPerRequest)
}

func TestValidateMissingCredentials(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("OPENAI_API_KEY", "irrelevant")
	_, err := Load()
	require.ErrorContains(t, err, "TELEGRAM_BOT_TOKEN")

	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("OPENAI_API_KEY", "")
	_, err = Load()
	require.ErrorContains(t, err, "OPENAI_API_KEY")
}
