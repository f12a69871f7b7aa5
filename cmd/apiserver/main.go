// API server entry point.  The pharmyrus CLI's serve command offers the same
// server with flag parity; this binary exists for minimal container images.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pharmyrus/pharmyrus/internal/application/discovery"
	"github.com/pharmyrus/pharmyrus/internal/application/keypool"
	"github.com/pharmyrus/pharmyrus/internal/config"
	"github.com/pharmyrus/pharmyrus/internal/domain/credential"
	"github.com/pharmyrus/pharmyrus/internal/infrastructure/keystore"
	"github.com/pharmyrus/pharmyrus/internal/infrastructure/monitoring/logging"
	"github.com/pharmyrus/pharmyrus/internal/infrastructure/monitoring/prometheus"
	"github.com/pharmyrus/pharmyrus/internal/infrastructure/providers/inpi"
	"github.com/pharmyrus/pharmyrus/internal/infrastructure/providers/pubchem"
	"github.com/pharmyrus/pharmyrus/internal/infrastructure/providers/serp"
	httpserver "github.com/pharmyrus/pharmyrus/internal/interfaces/http"
	"github.com/pharmyrus/pharmyrus/internal/interfaces/http/handlers"
	"github.com/pharmyrus/pharmyrus/internal/interfaces/http/middleware"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "", "path to configuration file (default: environment only)")
	port := flag.Int("port", 0, "listen port (overrides config)")
	flag.Parse()

	if err := run(*configPath, *port); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, port int) error {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}
	if port > 0 {
		cfg.Server.Port = port
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logging.SetDefault(logger)

	var (
		store    credential.StateStore
		checkers []handlers.HealthChecker
		closers  []func() error
	)
	switch cfg.Pool.Store {
	case config.StoreRedis:
		rs := keystore.NewRedisStore(cfg.Redis)
		store, checkers, closers = rs, append(checkers, rs), append(closers, rs.Close)
	case config.StoreMemory:
		store = keystore.NewMemoryStore()
	default:
		fs := keystore.NewFileStore(cfg.Pool.FilePath)
		store, checkers = fs, append(checkers, fs)
	}
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i]()
		}
	}()

	seeds := make([]*credential.Credential, 0, len(cfg.Pool.Keys))
	for _, k := range cfg.Pool.Keys {
		seeds = append(seeds, &credential.Credential{Name: k.Name, Key: k.Key})
	}
	pool := keypool.NewPool(store, seeds, logger,
		keypool.WithResetPolicy(keypool.ResetPolicy(cfg.Pool.ResetPolicy)))

	metrics := prometheus.NewMetrics()
	metrics.WatchPool(pool.Status)

	service := discovery.NewService(
		discovery.NewChemistryLookup(pubchem.NewClient(pubchem.Config{
			BaseURL: cfg.Providers.PubChem.BaseURL,
			Timeout: cfg.Providers.PubChem.Timeout,
		}), logger),
		discovery.NewWebSearchStage(serp.NewClient(serp.Config{
			BaseURL: cfg.Providers.Serp.BaseURL,
			Timeout: cfg.Providers.Serp.Timeout,
		}), pool, cfg.Pipeline.SearchPause, logger),
		discovery.NewFamilyExpansionStage(serp.NewClient(serp.Config{
			BaseURL: cfg.Providers.Serp.BaseURL,
			Timeout: cfg.Providers.Serp.Timeout,
		}), pool, cfg.Pipeline.Jurisdiction, cfg.Pipeline.FamilyPause, logger),
		discovery.NewDirectCrawlStage(inpi.NewClient(inpi.Config{
			BaseURL: cfg.Providers.INPI.BaseURL,
			Timeout: cfg.Providers.INPI.Timeout,
		}), cfg.Pipeline.CrawlPause, logger),
		metrics,
		logger,
	)

	router := httpserver.NewRouter(httpserver.RouterConfig{
		HealthHandler:  handlers.NewHealthHandler(version, pool, checkers...),
		SearchHandler:  handlers.NewSearchHandler(service, logger),
		KeyPoolHandler: handlers.NewKeyPoolHandler(pool, logger),
		MetricsHandler: metrics.Handler(),
		CORS: middleware.CORSConfig{
			AllowedOrigins: cfg.Server.AllowedOrigins,
			AllowedMethods: middleware.DefaultCORSConfig().AllowedMethods,
			AllowedHeaders: middleware.DefaultCORSConfig().AllowedHeaders,
			MaxAge:         middleware.DefaultCORSConfig().MaxAge,
		},
		Logger: logger,
	})

	srv := httpserver.NewServer(router, httpserver.ServerOptions{
		Port:            cfg.Server.Port,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Info("signal received, shutting down", logging.String("signal", sig.String()))
		return srv.Stop(context.Background())
	}
}
