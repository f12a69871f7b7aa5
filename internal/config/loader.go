package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix for all settings.
const envPrefix = "PHARMYRUS"

// newViper builds a pre-configured viper instance: YAML file type,
// PHARMYRUS_ env prefix, automatic env binding, and a key replacer mapping
// "." to "_" so nested keys like "pool.store" resolve to PHARMYRUS_POOL_STORE.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Unmarshal only sees keys viper knows about, so env-only keys must be
	// bound explicitly.
	for _, key := range []string{
		"server.port", "server.read_timeout", "server.write_timeout",
		"server.shutdown_timeout", "server.allowed_origins",
		"log.level", "log.format",
		"pool.store", "pool.file_path", "pool.reset_policy",
		"redis.addr", "redis.password", "redis.db", "redis.state_key",
		"redis.dial_timeout", "redis.read_timeout", "redis.write_timeout",
		"providers.pubchem.base_url", "providers.pubchem.timeout",
		"providers.serp.base_url", "providers.serp.timeout",
		"providers.inpi.base_url", "providers.inpi.timeout",
		"pipeline.jurisdiction", "pipeline.search_pause",
		"pipeline.family_pause", "pipeline.crawl_pause",
	} {
		_ = v.BindEnv(key)
	}
	return v
}

// Load reads the YAML file at configPath, merges PHARMYRUS_* environment
// overrides, applies defaults and validates the result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}
	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from PHARMYRUS_* environment variables
// and defaults, with no config file required.
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MustLoad wraps Load and panics on any error.  For use in main(), where a
// config-load failure is always fatal.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}
