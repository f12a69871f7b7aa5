// Package config defines the service configuration: plain mapstructure-tagged
// structs and their validation.  No I/O or parsing lives here.
package config

import (
	"fmt"
	"time"

	"github.com/pharmyrus/pharmyrus/internal/application/keypool"
	"github.com/pharmyrus/pharmyrus/internal/infrastructure/keystore"
	"github.com/pharmyrus/pharmyrus/internal/infrastructure/monitoring/logging"
)

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// AllowedOrigins is the CORS allow-list.  A single "*" allows any origin.
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// KeySeed is one statically configured search-provider credential.  Seeds
// materialize pool state only when the backing store is empty; afterwards the
// store is authoritative.
type KeySeed struct {
	Name string `mapstructure:"name"`
	Key  string `mapstructure:"key"`
}

// Store backend selectors for PoolConfig.Store.
const (
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// PoolConfig holds the credential pool settings.
type PoolConfig struct {
	Keys        []KeySeed `mapstructure:"keys"`
	Store       string    `mapstructure:"store"` // "file" | "redis" | "memory"
	FilePath    string    `mapstructure:"file_path"`
	ResetPolicy string    `mapstructure:"reset_policy"` // "exhausted_only" | "all"
}

// ProviderConfig holds one upstream HTTP client's settings.
type ProviderConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ProvidersConfig groups every upstream client.
type ProvidersConfig struct {
	PubChem ProviderConfig `mapstructure:"pubchem"`
	Serp    ProviderConfig `mapstructure:"serp"`
	INPI    ProviderConfig `mapstructure:"inpi"`
}

// PipelineConfig holds discovery pipeline tunables.
type PipelineConfig struct {
	Jurisdiction string        `mapstructure:"jurisdiction"`
	SearchPause  time.Duration `mapstructure:"search_pause"`
	FamilyPause  time.Duration `mapstructure:"family_pause"`
	CrawlPause   time.Duration `mapstructure:"crawl_pause"`
}

// Config is the root configuration structure.
type Config struct {
	Server    ServerConfig         `mapstructure:"server"`
	Log       logging.LogConfig    `mapstructure:"log"`
	Pool      PoolConfig           `mapstructure:"pool"`
	Redis     keystore.RedisConfig `mapstructure:"redis"`
	Providers ProvidersConfig      `mapstructure:"providers"`
	Pipeline  PipelineConfig       `mapstructure:"pipeline"`
}

// Validate performs semantic validation of the fully-populated Config.  It
// returns the first error encountered; callers should treat any error as
// fatal and refuse to start.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	switch c.Pool.Store {
	case StoreFile, StoreRedis, StoreMemory:
	default:
		return fmt.Errorf("config: pool.store %q is invalid; expected file|redis|memory", c.Pool.Store)
	}
	if c.Pool.Store == StoreFile && c.Pool.FilePath == "" {
		return fmt.Errorf("config: pool.file_path is required when pool.store is %q", StoreFile)
	}
	if c.Pool.Store == StoreRedis && c.Redis.Addr == "" {
		return fmt.Errorf("config: redis.addr is required when pool.store is %q", StoreRedis)
	}
	switch keypool.ResetPolicy(c.Pool.ResetPolicy) {
	case keypool.ResetExhaustedOnly, keypool.ResetAll:
	default:
		return fmt.Errorf("config: pool.reset_policy %q is invalid; expected exhausted_only|all", c.Pool.ResetPolicy)
	}
	for i, k := range c.Pool.Keys {
		if k.Key == "" {
			return fmt.Errorf("config: pool.keys[%d] has an empty key", i)
		}
	}

	for _, p := range []struct {
		name string
		cfg  ProviderConfig
	}{
		{"providers.pubchem", c.Providers.PubChem},
		{"providers.serp", c.Providers.Serp},
		{"providers.inpi", c.Providers.INPI},
	} {
		if p.cfg.BaseURL == "" {
			return fmt.Errorf("config: %s.base_url is empty", p.name)
		}
		if p.cfg.Timeout <= 0 {
			return fmt.Errorf("config: %s.timeout must be positive", p.name)
		}
	}

	if c.Pipeline.Jurisdiction == "" {
		return fmt.Errorf("config: pipeline.jurisdiction is empty")
	}
	return nil
}
