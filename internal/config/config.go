// SPDX-License-Identifier: MIT

// Package config provides configuration management for forgebridge.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied before file and environment merging.
const (
	DefaultListen            = ":8069"
	DefaultGiteaTimeout      = 10 * time.Second
	DefaultRateLimitRequests = 600
	DefaultRateLimitWindow   = time.Minute
)

// EnvFallbackToken names the environment variable holding the
// process-wide fallback Gitea token.
const EnvFallbackToken = "FALLBACK_GITEA_TOKEN"

// AppConfig is the resolved, immutable runtime configuration. It is
// built once at process start and passed by value afterwards.
type AppConfig struct {
	Listen     string
	LogLevel   string
	LogService string
	Version    string

	GiteaBaseURL string
	GiteaTimeout time.Duration

	// FallbackToken authenticates outbound Gitea calls when the inbound
	// request carries no authorization header. Empty means unset.
	FallbackToken string

	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// FileConfig represents the optional YAML configuration file.
type FileConfig struct {
	Listen   string `yaml:"listen,omitempty"`
	LogLevel string `yaml:"logLevel,omitempty"`

	Gitea struct {
		BaseURL string `yaml:"baseUrl"`
		Timeout string `yaml:"timeout,omitempty"` // e.g. "10s"
	} `yaml:"gitea"`

	RateLimit struct {
		Enabled  *bool  `yaml:"enabled,omitempty"`
		Requests int    `yaml:"requests,omitempty"`
		Window   string `yaml:"window,omitempty"` // e.g. "1m"
	} `yaml:"rateLimit,omitempty"`
}

// Loader resolves configuration with precedence ENV > file > defaults.
type Loader struct {
	configPath string
	version    string
	lookupEnv  func(string) (string, bool)
}

// NewLoader creates a Loader for the given (possibly empty) config path.
func NewLoader(configPath, version string) *Loader {
	return &Loader{
		configPath: configPath,
		version:    version,
		lookupEnv:  os.LookupEnv,
	}
}

func (l *Loader) envString(key, defaultVal string) string {
	if v, ok := l.lookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return defaultVal
}

func (l *Loader) envBool(key string, defaultVal bool) bool {
	if v, ok := l.lookupEnv(key); ok {
		if parsed, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func (l *Loader) envInt(key string, defaultVal int) int {
	if v, ok := l.lookupEnv(key); ok {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func (l *Loader) envDuration(key string, defaultVal time.Duration) time.Duration {
	if v, ok := l.lookupEnv(key); ok {
		if parsed, err := time.ParseDuration(strings.TrimSpace(v)); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// Load builds the AppConfig. It fails on an unreadable or malformed
// config file and on a missing or invalid Gitea base URL.
func (l *Loader) Load() (AppConfig, error) {
	cfg := AppConfig{
		Listen:            DefaultListen,
		LogLevel:          "info",
		LogService:        "forgebridge",
		Version:           l.version,
		GiteaTimeout:      DefaultGiteaTimeout,
		RateLimitEnabled:  true,
		RateLimitRequests: DefaultRateLimitRequests,
		RateLimitWindow:   DefaultRateLimitWindow,
	}

	if l.configPath != "" {
		fc, err := l.loadFile(l.configPath)
		if err != nil {
			return AppConfig{}, err
		}
		mergeFileConfig(&cfg, fc)
	}

	l.mergeEnvConfig(&cfg)

	if err := validate(cfg); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

func (l *Loader) loadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}
	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return &fc, nil
}

func mergeFileConfig(dst *AppConfig, src *FileConfig) {
	if src.Listen != "" {
		dst.Listen = src.Listen
	}
	if src.LogLevel != "" {
		dst.LogLevel = src.LogLevel
	}
	if src.Gitea.BaseURL != "" {
		dst.GiteaBaseURL = src.Gitea.BaseURL
	}
	if src.Gitea.Timeout != "" {
		if d, err := time.ParseDuration(src.Gitea.Timeout); err == nil {
			dst.GiteaTimeout = d
		}
	}
	if src.RateLimit.Enabled != nil {
		dst.RateLimitEnabled = *src.RateLimit.Enabled
	}
	if src.RateLimit.Requests > 0 {
		dst.RateLimitRequests = src.RateLimit.Requests
	}
	if src.RateLimit.Window != "" {
		if d, err := time.ParseDuration(src.RateLimit.Window); err == nil {
			dst.RateLimitWindow = d
		}
	}
}

func (l *Loader) mergeEnvConfig(cfg *AppConfig) {
	cfg.Listen = l.envString("FORGEBRIDGE_LISTEN", cfg.Listen)
	cfg.LogLevel = l.envString("LOG_LEVEL", cfg.LogLevel)
	cfg.LogService = l.envString("LOG_SERVICE", cfg.LogService)
	cfg.GiteaBaseURL = l.envString("FORGEBRIDGE_GITEA_URL", cfg.GiteaBaseURL)
	cfg.GiteaTimeout = l.envDuration("FORGEBRIDGE_GITEA_TIMEOUT", cfg.GiteaTimeout)
	cfg.FallbackToken = l.envString(EnvFallbackToken, cfg.FallbackToken)
	cfg.RateLimitEnabled = l.envBool("FORGEBRIDGE_RATELIMIT_ENABLED", cfg.RateLimitEnabled)
	cfg.RateLimitRequests = l.envInt("FORGEBRIDGE_RATELIMIT_REQUESTS", cfg.RateLimitRequests)
	cfg.RateLimitWindow = l.envDuration("FORGEBRIDGE_RATELIMIT_WINDOW", cfg.RateLimitWindow)
}

func validate(cfg AppConfig) error {
	if strings.TrimSpace(cfg.GiteaBaseURL) == "" {
		return fmt.Errorf("gitea base URL is required (set FORGEBRIDGE_GITEA_URL or gitea.baseUrl)")
	}
	u, err := url.Parse(cfg.GiteaBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid gitea base URL %q", cfg.GiteaBaseURL)
	}
	if cfg.RateLimitRequests <= 0 {
		return fmt.Errorf("rate limit request count must be positive, got %d", cfg.RateLimitRequests)
	}
	return nil
}

// String renders the configuration for startup logging. The fallback
// token is reduced to its presence.
func (c AppConfig) String() string {
	token := "unset"
	if c.FallbackToken != "" {
		token = "configured"
	}
	return fmt.Sprintf("listen=%s gitea=%s timeout=%s fallback_token=%s rate_limit=%v",
		c.Listen, c.GiteaBaseURL, c.GiteaTimeout, token, c.RateLimitEnabled)
}
