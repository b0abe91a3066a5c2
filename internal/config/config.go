package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	constants "pistat/config"
)

// RateLimitConfig controls per-client request admission.
type RateLimitConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	Requests      int  `mapstructure:"requests"`
	WindowSeconds int  `mapstructure:"window_seconds"`
}

// Config represents the resolved service configuration. It is read-only
// for the lifetime of the process; every component receives it at
// construction time.
type Config struct {
	Host         string          `mapstructure:"host"`
	Port         int             `mapstructure:"port"`
	CacheSeconds int             `mapstructure:"cache_seconds"`
	Debug        bool            `mapstructure:"debug"`
	LogLevel     string          `mapstructure:"log_level"`
	RateLimit    RateLimitConfig `mapstructure:"ratelimit"`
}

// Addr returns the host:port the HTTP server binds to.
func (cfg *Config) Addr() string {
	return fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
}

// CacheTTL returns the snapshot freshness window.
func (cfg *Config) CacheTTL() time.Duration {
	return time.Duration(cfg.CacheSeconds) * time.Second
}

// RateLimitWindow returns the rate limiter's fixed window length.
func (cfg *Config) RateLimitWindow() time.Duration {
	return time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
}

// LoadConfig resolves configuration from defaults, an optional yaml file
// (./config.yaml or /etc/pistat/config.yaml) and PISTAT_* environment
// variables, with the environment taking precedence over the file.
func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetDefault("host", constants.DEFAULT_HOST)
	v.SetDefault("port", constants.DEFAULT_PORT)
	v.SetDefault("cache_seconds", constants.DEFAULT_CACHE_SECONDS)
	v.SetDefault("debug", false)
	v.SetDefault("log_level", constants.DEFAULT_LOG_LEVEL)
	v.SetDefault("ratelimit.enabled", constants.DEFAULT_RATELIMIT_ENABLED)
	v.SetDefault("ratelimit.requests", constants.DEFAULT_RATELIMIT_REQUESTS)
	v.SetDefault("ratelimit.window_seconds", constants.DEFAULT_RATELIMIT_WINDOW_SECONDS)

	v.SetEnvPrefix(constants.ENV_PREFIX)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName(constants.CONFIG_FILE_NAME)
	v.SetConfigType("yaml")
	v.AddConfigPath(constants.CONFIG_DIR)
	v.AddConfigPath(".")
	// The file is optional; env vars and defaults are enough to run.
	_ = v.ReadInConfig()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("cannot decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects configurations the server cannot run with. Called at
// startup so bad values fail the process with a clear message instead of
// surfacing mid-request.
func (cfg *Config) Validate() error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", cfg.Port)
	}
	if cfg.CacheSeconds < 0 {
		return fmt.Errorf("invalid cache_seconds %d: must not be negative", cfg.CacheSeconds)
	}
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.Requests < 1 {
			return fmt.Errorf("invalid ratelimit.requests %d: must be at least 1", cfg.RateLimit.Requests)
		}
		if cfg.RateLimit.WindowSeconds < 1 {
			return fmt.Errorf("invalid ratelimit.window_seconds %d: must be at least 1", cfg.RateLimit.WindowSeconds)
		}
	}
	switch strings.ToLower(cfg.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q: must be one of debug, info, warn, error", cfg.LogLevel)
	}
	return nil
}
