package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/farmgatehq/farmgate-backend/api/routes"
	"github.com/farmgatehq/farmgate-backend/internal/assignments"
	"github.com/farmgatehq/farmgate-backend/internal/inventory"
	"github.com/farmgatehq/farmgate-backend/internal/orders"
	"github.com/farmgatehq/farmgate-backend/internal/payments"
	"github.com/farmgatehq/farmgate-backend/internal/receipts"
	"github.com/farmgatehq/farmgate-backend/internal/returns"
	"github.com/farmgatehq/farmgate-backend/pkg/clock"
	"github.com/farmgatehq/farmgate-backend/pkg/config"
	"github.com/farmgatehq/farmgate-backend/pkg/db"
	"github.com/farmgatehq/farmgate-backend/pkg/logger"
	"github.com/farmgatehq/farmgate-backend/pkg/metrics"
	"github.com/farmgatehq/farmgate-backend/pkg/migrate"
	"github.com/farmgatehq/farmgate-backend/pkg/pubsub"
	"github.com/farmgatehq/farmgate-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

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

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	var pubsubClient *pubsub.Client
	if cfg.PubSub.Enabled {
		pubsubClient, err = pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap pubsub", err)
			os.Exit(1)
		}
	}

	hours, err := clock.NewWorkingHours(cfg.WorkingHours)
	if err != nil {
		logg.Error(context.Background(), "invalid working hours config", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	transitionMetrics := metrics.NewTransitionMetrics(registry)

	inventorySvc, err := inventory.NewService(inventory.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}

	paymentsSvc, err := payments.NewService(payments.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create payments service", err)
		os.Exit(1)
	}

	assignmentsSvc, err := assignments.NewService(assignments.NewRepository(dbClient.DB()), dbClient, inventorySvc, clock.System{})
	if err != nil {
		logg.Error(context.Background(), "failed to create assignments service", err)
		os.Exit(1)
	}

	returnsSvc, err := returns.NewService(returns.NewRepository(dbClient.DB()), dbClient, inventorySvc)
	if err != nil {
		logg.Error(context.Background(), "failed to create returns service", err)
		os.Exit(1)
	}

	var notifier orders.ReceiptNotifier
	if pubsubClient != nil {
		notifier = receipts.NewNotifier(pubsubClient.ReceiptsPublisher(), logg)
	}

	ordersSvc, err := orders.NewService(orders.ServiceParams{
		Repo:       orders.NewRepository(dbClient.DB()),
		Tx:         dbClient,
		Inventory:  inventorySvc,
		Payments:   paymentsSvc,
		Notifier:   notifier,
		Clock:      clock.System{},
		Hours:      hours,
		Transition: transitionMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	params := routes.RouterParams{
		Config:      cfg,
		Logger:      logg,
		DB:          dbClient,
		Redis:       redisClient,
		Metrics:     registry,
		Orders:      ordersSvc,
		Inventory:   inventorySvc,
		Assignments: assignmentsSvc,
		Returns:     returnsSvc,
	}
	if pubsubClient != nil {
		params.PubSub = pubsubClient
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(params),
	}

	stopCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-stopCtx.Done():
		logg.Info(ctx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(ctx, "graceful shutdown failed", err)
	}

	var closeErr error
	closeErr = multierr.Append(closeErr, redisClient.Close())
	if pubsubClient != nil {
		closeErr = multierr.Append(closeErr, pubsubClient.Close())
	}
	closeErr = multierr.Append(closeErr, dbClient.Close())
	if closeErr != nil {
		logg.Error(ctx, "error closing resources", closeErr)
		os.Exit(1)
	}

	logg.Info(ctx, "api server stopped")
}
