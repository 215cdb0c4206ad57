package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"AYUSH_BASE_URL", "AYUSH_ACCESS_TOKEN", "AYUSH_DB",
		"AYUSH_STUB_ADDR", "AYUSH_TYPING_DELAY", "AYUSH_HTTP_TIMEOUT",
	} {
		t.Setenv(k, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 40*time.Millisecond, cfg.TypingDelay)
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("AYUSH_BASE_URL", "https://bot.example.org")
	t.Setenv("AYUSH_ACCESS_TOKEN", "tok")
	t.Setenv("AYUSH_TYPING_DELAY", "0s")
	t.Setenv("AYUSH_HTTP_TIMEOUT", "3s")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "https://bot.example.org", cfg.BaseURL)
	assert.Equal(t, "tok", cfg.AccessToken)
	assert.Equal(t, time.Duration(0), cfg.TypingDelay)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad delay", "AYUSH_TYPING_DELAY", "fast"},
		{"negative delay", "AYUSH_TYPING_DELAY", "-1s"},
		{"zero timeout", "AYUSH_HTTP_TIMEOUT", "0s"},
		{"non-http base", "AYUSH_BASE_URL", "ftp://example.org"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestResolveDBPath(t *testing.T) {
	dir := t.TempDir()

	explicit := Config{DBPath: filepath.Join(dir, "nested", "x.db")}
	p, err := explicit.ResolveDBPath()
	require.NoError(t, err)
	assert.Equal(t, explicit.DBPath, p)
	assert.DirExists(t, filepath.Join(dir, "nested"))

	t.Setenv("XDG_DATA_HOME", dir)
	p, err = Config{}.ResolveDBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "ayushbot", "ayushbot.db"), p)
}
