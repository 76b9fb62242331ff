package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/invenx-app/invenx-backend/api/routes"
	"github.com/invenx-app/invenx-backend/internal/connectivity"
	"github.com/invenx-app/invenx-backend/internal/identity"
	"github.com/invenx-app/invenx-backend/internal/ledger"
	"github.com/invenx-app/invenx-backend/internal/notify"
	"github.com/invenx-app/invenx-backend/internal/storage"
	"github.com/invenx-app/invenx-backend/internal/syncqueue"
	"github.com/invenx-app/invenx-backend/pkg/config"
	"github.com/invenx-app/invenx-backend/pkg/db"
	"github.com/invenx-app/invenx-backend/pkg/logger"
	"github.com/invenx-app/invenx-backend/pkg/metrics"
	"github.com/invenx-app/invenx-backend/pkg/migrate"
	"github.com/invenx-app/invenx-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	ledgerMetrics := metrics.NewLedgerMetrics(registry)

	store, err := storage.New(dbClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create snapshot store", err)
		os.Exit(1)
	}

	notifier, redisClient, err := buildNotifier(cfg, logg, ledgerMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifier", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis client", err)
			}
		}()
	}

	monitor, err := connectivity.NewMonitor(connectivity.MonitorParams{
		Logger:       logg,
		Pending:      store,
		Notifier:     notifier,
		Metrics:      ledgerMetrics,
		PollInterval: cfg.Connectivity.PollInterval,
		StartOnline:  cfg.Connectivity.StartOnline,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create connectivity monitor", err)
		os.Exit(1)
	}

	drainerParams := syncqueue.DrainerParams{
		Logger:     logg,
		Queue:      store,
		Notifier:   notifier,
		Metrics:    ledgerMetrics,
		DrainDelay: cfg.Sync.DrainDelay,
	}
	if redisClient != nil {
		drainerParams.Bookkeeper = redisClient
	}
	drainer, err := syncqueue.NewDrainer(drainerParams)
	if err != nil {
		logg.Error(context.Background(), "failed to create sync drainer", err)
		os.Exit(1)
	}
	monitor.Subscribe(drainer)
	defer drainer.Stop()

	ledgerService, err := ledger.NewService(ledger.ServiceParams{
		Store:        store,
		Connectivity: monitor,
		Identity:     identity.NewStaticProvider(cfg.Identity),
		Logger:       logg,
		Metrics:      ledgerMetrics,
		Notifier:     notifier,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory ledger", err)
		os.Exit(1)
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		if err := monitor.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			logg.Error(runCtx, "connectivity monitor stopped unexpectedly", err)
		}
	}()

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(runCtx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:       cfg,
			Logger:       logg,
			DB:           dbClient,
			Ledger:       ledgerService,
			Monitor:      monitor,
			Queue:        store,
			PromGatherer: registry,
		}),
	}

	go func() {
		<-runCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "error shutting down api server", err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "api server shutting down gracefully")
}

// buildNotifier returns the notifier plus the redis client backing it, so the
// caller can close the client and reuse it for drain bookkeeping. The client
// is nil when redis is disabled.
func buildNotifier(cfg *config.Config, logg *logger.Logger, m *metrics.LedgerMetrics) (notify.Notifier, *redis.Client, error) {
	if !cfg.Redis.Enabled() {
		notifier, err := notify.NewLogNotifier(logg, m)
		return notifier, nil, err
	}
	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		return nil, nil, err
	}
	notifier, err := notify.NewRedisNotifier(redisClient, cfg.Redis.NotificationChannel, logg, m)
	if err != nil {
		return nil, nil, err
	}
	return notifier, redisClient, nil
}
