package config

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("GEMINI_API_KEY", "")

	cfg, err := fromViper(newTestViper())
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, 20*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, ProviderGoogleAI, cfg.LLM.Provider)
	assert.Equal(t, "gemini-1.5-flash", cfg.LLM.Model)
	assert.Empty(t, cfg.LLM.APIKey, "no placeholder key may be baked in")
	assert.Zero(t, cfg.LLM.Timeout)
	assert.Equal(t, 200, cfg.Generation.FailureStatus)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.False(t, cfg.CacheActive())
	assert.Nil(t, cfg.LLM.Temperature, "unset temperature keeps the provider default")
}

func TestFromViper_Temperature(t *testing.T) {
	for _, want := range []float64{0, 0.7} {
		v := newTestViper()
		v.Set("llm.api_key", "k")
		v.Set("llm.temperature", want)

		cfg, err := fromViper(v)
		require.NoError(t, err)

		require.NotNil(t, cfg.LLM.Temperature)
		assert.InDelta(t, want, *cfg.LLM.Temperature, 1e-9)
	}
}

func TestLoadConfig_ReportsFileWithoutPrinting(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "config"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config", "config.yaml"),
		[]byte("llm:\n  provider: ollama\n  model: qwen3:0.6b\n"), 0o644))
	t.Chdir(dir)
	t.Setenv("ENV", "")

	stdout := captureStdout(t, func() {
		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, ProviderOllama, cfg.LLM.Provider)
		assert.True(t, strings.HasSuffix(cfg.File, filepath.Join("config", "config.yaml")), cfg.File)
	})

	assert.Empty(t, stdout)
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()

	require.NoError(t, w.Close())
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out)
}

func TestFromViper_ProviderKeyFallback(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("OPENAI_API_KEY", "openai-key")

	cfg, err := fromViper(newTestViper())
	require.NoError(t, err)
	assert.Equal(t, "gemini-key", cfg.LLM.APIKey)

	v := newTestViper()
	v.Set("llm.provider", "OpenAI")
	cfg, err = fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, "openai-key", cfg.LLM.APIKey)

	v = newTestViper()
	v.Set("llm.api_key", "explicit")
	cfg, err = fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "explicit", cfg.LLM.APIKey)
}

func TestFromViper_Validation(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   interface{}
		wantErr string
	}{
		{name: "unknown provider", key: "llm.provider", value: "bard", wantErr: "unsupported llm provider"},
		{name: "port zero", key: "server.port", value: 0, wantErr: "server port out of range"},
		{name: "port too large", key: "server.port", value: 70000, wantErr: "server port out of range"},
		{name: "failure status too small", key: "generation.failure_status", value: 99, wantErr: "valid HTTP status"},
		{name: "negative timeout", key: "llm.timeout", value: -1, wantErr: "cannot be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newTestViper()
			v.Set(tt.key, tt.value)
			_, err := fromViper(v)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCacheActive(t *testing.T) {
	v := newTestViper()
	v.Set("cache.enabled", true)
	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.False(t, cfg.CacheActive(), "cache needs a redis address")

	v.Set("redis.address", "localhost:6379")
	cfg, err = fromViper(v)
	require.NoError(t, err)
	assert.True(t, cfg.CacheActive())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("LLM_PROVIDER", "ollama")
	t.Setenv("LLM_MODEL", "qwen3:0.6b")
	t.Setenv("GENERATION_FAILURE_STATUS", "502")
	t.Setenv("CACHE_TTL", "15m")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, ProviderOllama, cfg.LLM.Provider)
	assert.Equal(t, "qwen3:0.6b", cfg.LLM.Model)
	assert.Equal(t, 502, cfg.Generation.FailureStatus)
	assert.Equal(t, 15*time.Minute, cfg.Cache.TTL)
}

func TestParseTTLStringOrDefault(t *testing.T) {
	assert.Equal(t, 30*time.Minute, ParseTTLStringOrDefault("30m", time.Hour))
	assert.Equal(t, time.Hour, ParseTTLStringOrDefault("", time.Hour))
	assert.Equal(t, time.Hour, ParseTTLStringOrDefault("soon", time.Hour))
	assert.Equal(t, time.Hour, ParseTTLStringOrDefault("-5m", time.Hour))
}
