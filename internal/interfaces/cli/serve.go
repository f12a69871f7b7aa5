package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pharmyrus/pharmyrus/internal/infrastructure/monitoring/logging"
	"github.com/pharmyrus/pharmyrus/internal/infrastructure/monitoring/prometheus"
	httpserver "github.com/pharmyrus/pharmyrus/internal/interfaces/http"
	"github.com/pharmyrus/pharmyrus/internal/interfaces/http/handlers"
	"github.com/pharmyrus/pharmyrus/internal/interfaces/http/middleware"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the Pharmyrus API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Server.Port = port
			}

			metrics := prometheus.NewMetrics()
			app, err := buildApp(cfg, metrics)
			if err != nil {
				return err
			}
			defer app.Close()
			logging.SetDefault(app.Logger)
			metrics.WatchPool(app.Pool.Status)

			checkers := make([]handlers.HealthChecker, 0, len(app.Checkers))
			for _, c := range app.Checkers {
				checkers = append(checkers, c)
			}

			router := httpserver.NewRouter(httpserver.RouterConfig{
				HealthHandler:  handlers.NewHealthHandler(Version, app.Pool, checkers...),
				SearchHandler:  handlers.NewSearchHandler(app.Service, app.Logger),
				KeyPoolHandler: handlers.NewKeyPoolHandler(app.Pool, app.Logger),
				MetricsHandler: metrics.Handler(),
				CORS: middleware.CORSConfig{
					AllowedOrigins: cfg.Server.AllowedOrigins,
					AllowedMethods: middleware.DefaultCORSConfig().AllowedMethods,
					AllowedHeaders: middleware.DefaultCORSConfig().AllowedHeaders,
					MaxAge:         middleware.DefaultCORSConfig().MaxAge,
				},
				Logger: app.Logger,
			})

			srv := httpserver.NewServer(router, httpserver.ServerOptions{
				Port:            cfg.Server.Port,
				ReadTimeout:     cfg.Server.ReadTimeout,
				WriteTimeout:    cfg.Server.WriteTimeout,
				ShutdownTimeout: cfg.Server.ShutdownTimeout,
			}, app.Logger)

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start() }()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				app.Logger.Info("signal received, shutting down",
					logging.String("signal", sig.String()))
				return srv.Stop(context.Background())
			}
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "listen port (overrides config)")
	return cmd
}
