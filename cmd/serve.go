package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hdfops/field-console/internal/api"
	"github.com/hdfops/field-console/internal/clients/geolocate"
	"github.com/hdfops/field-console/internal/core/service"
	"github.com/hdfops/field-console/internal/infrastructure/config"
	mongodb "github.com/hdfops/field-console/internal/infrastructure/db/mongo"
	redisdb "github.com/hdfops/field-console/internal/infrastructure/db/redis"
	"github.com/hdfops/field-console/internal/infrastructure/notify"
	"github.com/hdfops/field-console/internal/infrastructure/queue"
	"github.com/hdfops/field-console/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the session service",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(parent context.Context) error {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer func() { _ = rdb.Close() }()

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	// --- Credential store: reset-on-start seed, then follow external changes ---
	credRepo := redisdb.NewCredentialRepository(rdb, log)
	store := service.NewCredentialStore(credRepo, log)
	if err := store.Seed(ctx); err != nil {
		return fmt.Errorf("seed credentials: %w", err)
	}
	go func() {
		if err := store.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("credential change feed stopped")
		}
	}()

	// --- Audit trail ---
	auditRepo := mongodb.NewAuditRepository(db)
	dispatcher := queue.NewDispatcher(0, auditRepo, log)
	dispatcher.Start(ctx)

	// --- Notifications ---
	notifier := notify.Multi{notify.NewLogNotifier(log)}
	if cfg.Kafka.Enabled {
		kafkaNotifier := notify.NewKafkaNotifier(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		defer kafkaNotifier.Close()
		notifier = append(notifier, kafkaNotifier)
	}

	// --- Session subsystem ---
	probe := geolocate.NewClient(cfg.Geolocate.BaseURL, cfg.Geolocate.RetryMax)
	monitor := service.NewLocationMonitor(probe, notifier, service.MonitorOptions{
		Interval:         cfg.Monitor.Interval,
		ProbeTimeout:     cfg.Monitor.ProbeTimeout,
		MaximumAge:       cfg.Monitor.MaximumAge,
		FailureThreshold: cfg.Monitor.FailureThreshold,
	}, log)
	guard := service.NewSessionGuard(credRepo, store, monitor, notifier, dispatcher,
		cfg.JWTSecret, cfg.TokenTTL, log)

	// --- HTTP ---
	e := api.NewRouter(api.RouterConfig{
		Guard:     guard,
		Monitor:   monitor,
		Probe:     probe,
		Directory: store,
		Audit:     auditRepo,
		Redis:     rdb,
		Mongo:     db,
		JWTSecret: cfg.JWTSecret,
		Logger:    log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("session service started")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	monitor.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
