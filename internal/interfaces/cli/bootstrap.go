// Package cli implements the pharmyrus command tree: serve, search and keys.
package cli

import (
	"context"
	"fmt"

	"github.com/pharmyrus/pharmyrus/internal/application/discovery"
	"github.com/pharmyrus/pharmyrus/internal/application/keypool"
	"github.com/pharmyrus/pharmyrus/internal/config"
	"github.com/pharmyrus/pharmyrus/internal/domain/credential"
	"github.com/pharmyrus/pharmyrus/internal/infrastructure/keystore"
	"github.com/pharmyrus/pharmyrus/internal/infrastructure/monitoring/logging"
	"github.com/pharmyrus/pharmyrus/internal/infrastructure/providers/inpi"
	"github.com/pharmyrus/pharmyrus/internal/infrastructure/providers/pubchem"
	"github.com/pharmyrus/pharmyrus/internal/infrastructure/providers/serp"
)

// App bundles the wired application for the commands.
type App struct {
	Config  *config.Config
	Logger  logging.Logger
	Pool    *keypool.Pool
	Service *discovery.Service

	// Closers are shut down in reverse order on exit.
	Closers []func() error

	// Checkers feed the readiness probe in serve mode.
	Checkers []Checker
}

// Checker mirrors the HTTP health-checker contract without importing the
// interfaces/http package.
type Checker interface {
	Name() string
	Check(ctx context.Context) error
}

// buildApp wires the full dependency graph from cfg.  recorder may be nil
// for one-shot commands.
func buildApp(cfg *config.Config, recorder discovery.Recorder) (*App, error) {
	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	app := &App{Config: cfg, Logger: logger}

	var store credential.StateStore
	switch cfg.Pool.Store {
	case config.StoreRedis:
		rs := keystore.NewRedisStore(cfg.Redis)
		app.Closers = append(app.Closers, rs.Close)
		app.Checkers = append(app.Checkers, rs)
		store = rs
	case config.StoreMemory:
		store = keystore.NewMemoryStore()
	default:
		fs := keystore.NewFileStore(cfg.Pool.FilePath)
		app.Checkers = append(app.Checkers, fs)
		store = fs
	}

	seeds := make([]*credential.Credential, 0, len(cfg.Pool.Keys))
	for _, k := range cfg.Pool.Keys {
		seeds = append(seeds, &credential.Credential{Name: k.Name, Key: k.Key})
	}
	app.Pool = keypool.NewPool(store, seeds, logger,
		keypool.WithResetPolicy(keypool.ResetPolicy(cfg.Pool.ResetPolicy)))

	pubchemClient := pubchem.NewClient(pubchem.Config{
		BaseURL: cfg.Providers.PubChem.BaseURL,
		Timeout: cfg.Providers.PubChem.Timeout,
	})
	serpClient := serp.NewClient(serp.Config{
		BaseURL: cfg.Providers.Serp.BaseURL,
		Timeout: cfg.Providers.Serp.Timeout,
	})
	inpiClient := inpi.NewClient(inpi.Config{
		BaseURL: cfg.Providers.INPI.BaseURL,
		Timeout: cfg.Providers.INPI.Timeout,
	})

	app.Service = discovery.NewService(
		discovery.NewChemistryLookup(pubchemClient, logger),
		discovery.NewWebSearchStage(serpClient, app.Pool, cfg.Pipeline.SearchPause, logger),
		discovery.NewFamilyExpansionStage(serpClient, app.Pool, cfg.Pipeline.Jurisdiction, cfg.Pipeline.FamilyPause, logger),
		discovery.NewDirectCrawlStage(inpiClient, cfg.Pipeline.CrawlPause, logger),
		recorder,
		logger,
	)
	return app, nil
}

// Close runs the registered closers in reverse order.
func (a *App) Close() {
	for i := len(a.Closers) - 1; i >= 0; i-- {
		if err := a.Closers[i](); err != nil {
			a.Logger.Warn("close failed", logging.Err(err))
		}
	}
}
