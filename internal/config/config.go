// Package config loads server configuration from the environment,
// with the same defaults the original service shipped with.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the runtime configuration for wikiracer-server.
type Config struct {
	ListenPort int
	RedisHost  string
	RedisPort  int
	Debug      bool

	WikiPrefix      string
	FetchTimeout    time.Duration
	FetchGate       int64
	InFlightGate    int64
	MemCacheEntries int
	RequestTimeout  time.Duration
}

// DefaultConfig returns a Config with sensible defaults, mirroring the
// environment-variable defaults the service has always shipped with.
func DefaultConfig() *Config {
	return &Config{
		ListenPort:      8080,
		RedisHost:       "localhost",
		RedisPort:       6439,
		Debug:           false,
		WikiPrefix:      "https://en.wikipedia.org/wiki/",
		FetchTimeout:    10 * time.Second,
		FetchGate:       750,
		InFlightGate:    500,
		MemCacheEntries: 200_000,
		RequestTimeout:  60 * time.Second,
	}
}

// Load reads configuration from the environment, falling back to
// DefaultConfig's values for anything unset. LISTEN_PORT and
// REDIS_PORT are the two variables the original service recognized;
// the rest are wikiracer-specific additions with the same mechanism.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetEnvPrefix("")
	v.AutomaticEnv()
	v.SetDefault("listen_port", cfg.ListenPort)
	v.SetDefault("redis_host", cfg.RedisHost)
	v.SetDefault("redis_port", cfg.RedisPort)
	v.SetDefault("debug", cfg.Debug)
	v.SetDefault("wiki_prefix", cfg.WikiPrefix)
	v.SetDefault("fetch_gate", cfg.FetchGate)
	v.SetDefault("in_flight_gate", cfg.InFlightGate)
	v.SetDefault("mem_cache_entries", cfg.MemCacheEntries)
	v.SetDefault("request_timeout_seconds", int(cfg.RequestTimeout/time.Second))

	cfg.ListenPort = v.GetInt("LISTEN_PORT")
	cfg.RedisHost = v.GetString("REDIS_HOST")
	cfg.RedisPort = v.GetInt("REDIS_PORT")
	cfg.Debug = v.GetBool("DEBUG")
	cfg.WikiPrefix = v.GetString("WIKI_PREFIX")
	cfg.FetchGate = v.GetInt64("FETCH_GATE")
	cfg.InFlightGate = v.GetInt64("IN_FLIGHT_GATE")
	cfg.MemCacheEntries = v.GetInt("MEM_CACHE_ENTRIES")
	cfg.RequestTimeout = time.Duration(v.GetInt("REQUEST_TIMEOUT_SECONDS")) * time.Second

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.ListenPort <= 0 || c.ListenPort > 65535 {
		return fmt.Errorf("config: invalid listen port %d", c.ListenPort)
	}
	if c.RedisPort <= 0 || c.RedisPort > 65535 {
		return fmt.Errorf("config: invalid redis port %d", c.RedisPort)
	}
	if c.FetchGate <= 0 {
		return fmt.Errorf("config: fetch gate must be positive, got %d", c.FetchGate)
	}
	if c.InFlightGate <= 0 {
		return fmt.Errorf("config: in-flight gate must be positive, got %d", c.InFlightGate)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("config: request timeout must be positive, got %s", c.RequestTimeout)
	}
	return nil
}

// RedisAddr returns the host:port address of the configured Redis
// instance.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}
