package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/webiny-go/restroute/internal/cache"
	"github.com/webiny-go/restroute/internal/config"
	"github.com/webiny-go/restroute/internal/gateway"
	"github.com/webiny-go/restroute/internal/invoke"
	"github.com/webiny-go/restroute/internal/observability"
	"github.com/webiny-go/restroute/internal/router"
	"github.com/webiny-go/restroute/internal/util"
)

// application holds the wired service components.
type application struct {
	cfg      *config.Config
	server   *gateway.Server
	registry *invoke.Registry
	backend  cache.Cache
	loader   *cache.Loader
	watcher  *cache.Watcher
	metrics  *observability.Metrics
	tracer   *observability.Tracer
}

// newApplication wires the cache, loader, registry, observability stack,
// and HTTP server from configuration.
func newApplication(cfg *config.Config, logger observability.Logger) (*application, error) {
	metrics := observability.NewMetrics("restroute")
	metrics.SetBuildInfo(version, gitCommit, buildTime)
	cache.RegisterMetrics(metrics.Registry())
	router.RegisterMetrics(metrics.Registry())

	tracer, err := observability.NewTracer(observability.TracerConfig{
		ServiceName:  cfg.Tracing.ServiceName,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		SamplingRate: cfg.Tracing.SamplingRate,
		Enabled:      cfg.Tracing.Enabled,
	})
	if err != nil {
		return nil, util.WrapError(err, "initializing tracer")
	}

	backend, err := cache.New(&cfg.Cache, logger)
	if err != nil {
		return nil, util.WrapError(err, "initializing cache")
	}

	loader := cache.NewLoader(cfg.Cache.TableDir, backend, cfg.Cache.TTL.Duration(), logger)

	var watcher *cache.Watcher
	if cfg.Cache.Watch {
		watcher, err = cache.NewWatcher(cfg.Cache.TableDir, loader, logger)
		if err != nil {
			return nil, util.WrapError(err, "initializing table watcher")
		}
	}

	registry := invoke.NewRegistry(logger)
	registry.SetFallback(invoke.EchoHandler())

	server := gateway.NewServer(cfg, gateway.Deps{
		Loader:  loader,
		Invoker: registry,
		Logger:  logger,
		Metrics: metrics,
	})

	return &application{
		cfg:      cfg,
		server:   server,
		registry: registry,
		backend:  backend,
		loader:   loader,
		watcher:  watcher,
		metrics:  metrics,
		tracer:   tracer,
	}, nil
}

// run starts the service and blocks until a shutdown signal arrives.
func run(app *application, configPath string, logger observability.Logger) {
	ctx := context.Background()

	if app.watcher != nil {
		if err := app.watcher.Start(ctx); err != nil {
			logger.Fatal("failed to start table watcher", observability.Error(err))
		}
	}

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- app.server.Start(ctx)
	}()

	configWatcher := startConfigWatcher(configPath, logger)

	waitForShutdown(app, configWatcher, serverErrCh, logger)
}

// startConfigWatcher watches the configuration file. Routing tables reload
// live through the table watcher; listener or cache topology changes need
// a restart, so a change is logged rather than applied.
func startConfigWatcher(configPath string, logger observability.Logger) *config.Watcher {
	watcher, err := config.NewWatcher(configPath, func(newCfg *config.Config) {
		logger.Info("configuration file changed; restart to apply listener or cache changes",
			observability.Int("apis", len(newCfg.APIs)))
	}, config.WithLogger(logger))
	if err != nil {
		logger.Error("failed to create config watcher", observability.Error(err))
		return nil
	}

	if err := watcher.Start(context.Background()); err != nil {
		logger.Error("failed to start config watcher", observability.Error(err))
		return nil
	}

	return watcher
}

func waitForShutdown(
	app *application,
	configWatcher *config.Watcher,
	serverErrCh <-chan error,
	logger observability.Logger,
) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", observability.String("signal", sig.String()))
	case err := <-serverErrCh:
		if err != nil {
			logger.Error("server exited", observability.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(), app.cfg.Listener.ShutdownTimeout.Duration())
	defer cancel()

	if configWatcher != nil {
		_ = configWatcher.Stop()
	}
	if app.watcher != nil {
		_ = app.watcher.Stop()
	}

	if err := app.server.Stop(shutdownCtx); err != nil {
		logger.Error("failed to stop server gracefully", observability.Error(err))
	}

	if err := app.backend.Close(); err != nil {
		logger.Error("failed to close cache", observability.Error(err))
	}

	if err := app.tracer.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown tracer", observability.Error(err))
	}

	logger.Info("restroute stopped")
}
