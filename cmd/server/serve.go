package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iliyamo/flight-transfer-admin/internal/config"
	"github.com/iliyamo/flight-transfer-admin/internal/handler"
	"github.com/iliyamo/flight-transfer-admin/internal/logger"
	"github.com/iliyamo/flight-transfer-admin/internal/metrics"
	"github.com/iliyamo/flight-transfer-admin/internal/middleware"
	"github.com/iliyamo/flight-transfer-admin/internal/queue"
	"github.com/iliyamo/flight-transfer-admin/internal/repository"
	"github.com/iliyamo/flight-transfer-admin/internal/router"
	"github.com/iliyamo/flight-transfer-admin/internal/service"
)

const metricsNamespace = "flight_transfers"

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			return serve(cmd.Context(), cfg, log)
		},
	}
}

func serve(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewMetrics(metricsNamespace, reg)

	raw, closeStore, err := openStore(ctx, cfg.Store, cfg.Store.AutoMigrate, log)
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	// Redis is optional: without it the API runs uncached and unlimited.
	rdb := config.NewRedisClient(cfg.Redis)
	if rdb == nil {
		log.Warn("redis unavailable; response cache and rate limiting disabled", zap.String("addr", cfg.Redis.Addr))
	} else {
		defer func() { _ = rdb.Close() }()
	}

	invalidator := service.NewCacheInvalidator(rdb, cfg.Cache.Prefix, m, logger.Named(log, "cache"))
	var pub service.Publisher
	if cfg.Queue.Enabled {
		pub = service.NewAMQPPublisher(cfg.Queue.URL, cfg.Queue.Name, logger.Named(log, "publisher"))
		consumer := queue.NewConsumer(cfg.Queue.URL, cfg.Queue.Name, invalidator.Handle, logger.Named(log, "consumer"))
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("transfer event consumer stopped", zap.Error(err))
			}
		}()
	} else {
		pub = service.NewLocalPublisher(invalidator.Handle)
	}
	defer func() { _ = pub.Close() }()

	store := service.WithEvents(
		repository.Instrument(raw, m, logger.Named(log, "store")),
		pub, m, logger.Named(log, "events"),
	)

	renderer, err := handler.NewRenderer()
	if err != nil {
		return err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(logger.Named(log, "http")))

	var gatherer prometheus.Gatherer
	if cfg.MetricsEnabled {
		gatherer = reg
	}
	router.RegisterRoutes(e, gatherer)
	router.RegisterDashboard(e, handler.NewDashboardHandler(store, logger.Named(log, "dashboard")))
	router.RegisterAPI(e, handler.NewTransferHandler(store, logger.Named(log, "api")),
		middleware.NewTokenBucket(cfg.RateLimit, rdb, logger.Named(log, "ratelimit")),
		middleware.NewRedisCache(cfg.Cache, rdb, logger.Named(log, "cache")),
	)

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", addr), zap.String("driver", cfg.Store.Driver))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
