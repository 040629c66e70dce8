// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loaderWithEnv(t *testing.T, configPath string, env map[string]string) *Loader {
	t.Helper()
	l := NewLoader(configPath, "test")
	l.lookupEnv = func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
	return l
}

func TestLoad_Defaults(t *testing.T) {
	l := loaderWithEnv(t, "", map[string]string{
		"FORGEBRIDGE_GITEA_URL": "https://gitea.example.com",
	})

	cfg, err := l.Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultListen, cfg.Listen)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, DefaultGiteaTimeout, cfg.GiteaTimeout)
	assert.Empty(t, cfg.FallbackToken)
	assert.True(t, cfg.RateLimitEnabled)
	assert.Equal(t, DefaultRateLimitRequests, cfg.RateLimitRequests)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
listen: ":9000"
logLevel: debug
gitea:
  baseUrl: https://file.example.com
  timeout: 5s
rateLimit:
  enabled: false
  requests: 10
  window: 30s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	l := loaderWithEnv(t, path, map[string]string{
		"FORGEBRIDGE_GITEA_URL": "https://env.example.com",
		"FALLBACK_GITEA_TOKEN":  "env_ghi789",
	})

	cfg, err := l.Load()
	require.NoError(t, err)

	// ENV beats file for the base URL; file values survive elsewhere.
	assert.Equal(t, "https://env.example.com", cfg.GiteaBaseURL)
	assert.Equal(t, ":9000", cfg.Listen)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.GiteaTimeout)
	assert.Equal(t, "env_ghi789", cfg.FallbackToken)
	assert.False(t, cfg.RateLimitEnabled)
	assert.Equal(t, 10, cfg.RateLimitRequests)
	assert.Equal(t, 30*time.Second, cfg.RateLimitWindow)
}

func TestLoad_MissingGiteaURL(t *testing.T) {
	l := loaderWithEnv(t, "", map[string]string{})

	_, err := l.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gitea base URL")
}

func TestLoad_InvalidGiteaURL(t *testing.T) {
	l := loaderWithEnv(t, "", map[string]string{
		"FORGEBRIDGE_GITEA_URL": "not-a-url",
	})

	_, err := l.Load()
	require.Error(t, err)
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen: [unclosed"), 0o600))

	l := loaderWithEnv(t, path, map[string]string{
		"FORGEBRIDGE_GITEA_URL": "https://gitea.example.com",
	})

	_, err := l.Load()
	require.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	l := loaderWithEnv(t, "/nonexistent/config.yaml", map[string]string{
		"FORGEBRIDGE_GITEA_URL": "https://gitea.example.com",
	})

	_, err := l.Load()
	require.Error(t, err)
}

func TestString_RedactsToken(t *testing.T) {
	cfg := AppConfig{
		Listen:        ":8069",
		GiteaBaseURL:  "https://gitea.example.com",
		FallbackToken: "super-secret",
	}

	s := cfg.String()
	assert.NotContains(t, s, "super-secret")
	assert.Contains(t, s, "fallback_token=configured")

	cfg.FallbackToken = ""
	assert.Contains(t, cfg.String(), "fallback_token=unset")
}
