package config

import (
	"time"

	"github.com/pharmyrus/pharmyrus/internal/application/keypool"
	"github.com/pharmyrus/pharmyrus/internal/infrastructure/providers/inpi"
	"github.com/pharmyrus/pharmyrus/internal/infrastructure/providers/pubchem"
	"github.com/pharmyrus/pharmyrus/internal/infrastructure/providers/serp"
)

const (
	DefaultServerPort      = 8000
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 10 * time.Minute // a full pipeline run can take minutes
	DefaultShutdownTimeout = 15 * time.Second

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultPoolStore    = StoreFile
	DefaultPoolFilePath = "/tmp/serpapi_keys.json"

	DefaultProviderTimeout = 30 * time.Second
	DefaultCrawlerTimeout  = 60 * time.Second

	DefaultJurisdiction = "BR"
	DefaultSearchPause  = 500 * time.Millisecond
	DefaultFamilyPause  = time.Second
	DefaultCrawlPause   = time.Second
)

// ApplyDefaults fills every zero-value field in cfg with the service default.
// Fields already set by the caller are left unchanged so that explicit
// configuration always wins.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = []string{"*"}
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	if cfg.Pool.Store == "" {
		cfg.Pool.Store = DefaultPoolStore
	}
	if cfg.Pool.FilePath == "" {
		cfg.Pool.FilePath = DefaultPoolFilePath
	}
	if cfg.Pool.ResetPolicy == "" {
		cfg.Pool.ResetPolicy = string(keypool.ResetExhaustedOnly)
	}

	if cfg.Providers.PubChem.BaseURL == "" {
		cfg.Providers.PubChem.BaseURL = pubchem.DefaultBaseURL
	}
	if cfg.Providers.PubChem.Timeout == 0 {
		cfg.Providers.PubChem.Timeout = DefaultProviderTimeout
	}
	if cfg.Providers.Serp.BaseURL == "" {
		cfg.Providers.Serp.BaseURL = serp.DefaultBaseURL
	}
	if cfg.Providers.Serp.Timeout == 0 {
		cfg.Providers.Serp.Timeout = DefaultProviderTimeout
	}
	if cfg.Providers.INPI.BaseURL == "" {
		cfg.Providers.INPI.BaseURL = inpi.DefaultBaseURL
	}
	if cfg.Providers.INPI.Timeout == 0 {
		cfg.Providers.INPI.Timeout = DefaultCrawlerTimeout
	}

	if cfg.Pipeline.Jurisdiction == "" {
		cfg.Pipeline.Jurisdiction = DefaultJurisdiction
	}
	if cfg.Pipeline.SearchPause == 0 {
		cfg.Pipeline.SearchPause = DefaultSearchPause
	}
	if cfg.Pipeline.FamilyPause == 0 {
		cfg.Pipeline.FamilyPause = DefaultFamilyPause
	}
	if cfg.Pipeline.CrawlPause == 0 {
		cfg.Pipeline.CrawlPause = DefaultCrawlPause
	}
}
