package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gartstein/careers/internal/careers/auth"
	"github.com/gartstein/careers/internal/careers/config"
	"github.com/gartstein/careers/internal/careers/controller"
	"github.com/gartstein/careers/internal/careers/db"
	"github.com/gartstein/careers/internal/careers/editor"
	"github.com/gartstein/careers/internal/careers/events"
	"github.com/gartstein/careers/internal/careers/handlers"
	"github.com/gartstein/careers/internal/careers/render"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func main() {
	logger := initLogger()
	defer func(logger *zap.Logger) {
		_ = logger.Sync()
	}(logger)

	cfg, err := config.Load(configPath())
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, err := db.Connect(ctx, cfg.Database(), logger, db.DefaultConnectTimeout)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Error("failed to close database", zap.Error(err))
		}
	}()

	producer := initProducer(cfg, logger)
	defer producer.Close()

	companySvc := controller.NewCompanyService(repo, producer, logger)
	registry := editor.NewRegistry(companySvc, logger)

	consumer := initConsumer(ctx, cfg, registry, logger)
	if consumer != nil {
		defer consumer.Close()
	}

	renderer, err := render.NewRenderer()
	if err != nil {
		logger.Fatal("failed to load templates", zap.Error(err))
	}
	sessions := auth.NewStore(cfg.SessionSecret, cfg.SessionLifetime(), cfg.IsProduction(), logger)
	api := handlers.NewAPI(companySvc, sessions, registry, renderer, logger, handlers.Options{
		BaseURL:   cfg.BaseURL,
		AllowSeed: cfg.IsDevelopment(),
	})

	server := handlers.NewServer(cfg.GRPCPort, cfg.HTTPPort, logger)
	if err := server.RegisterHTTPGateway(
		ctx,
		[]grpc.DialOption{
			grpc.WithTransportCredentials(insecure.NewCredentials()),
		},
		api); err != nil {
		logger.Fatal("Failed to register HTTP gateway", zap.Error(err))
	}
	go server.MonitorHealth(ctx, companySvc, cfg.HealthCheckInterval())

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	waitForShutdown(ctx, errCh, server, logger)
}

type eventProducer interface {
	controller.EventProducer
	Close()
}

// initLogger initializes a Zap production logger.
func initLogger() *zap.Logger {
	logger, _ := zap.NewProduction()
	return logger
}

// configPath returns CONFIG_PATH, or the default config file.
func configPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return config.DefaultPath
}

// initProducer connects the company event producer, or returns a no-op
// producer when no brokers are configured.
func initProducer(cfg *config.Config, logger *zap.Logger) eventProducer {
	brokers := cfg.KafkaBrokersList()
	if len(brokers) == 0 {
		logger.Info("No Kafka brokers configured, company events disabled")
		return events.Discard{}
	}
	producer, err := events.NewProducer(brokers, logger, cfg.Topic)
	if err != nil {
		logger.Fatal("failed to initialize Kafka producer", zap.Error(err))
	}
	return producer
}

// initConsumer subscribes this instance to company events so that open
// editors follow changes made elsewhere. Every instance uses its own group
// and starts from the newest event.
func initConsumer(ctx context.Context, cfg *config.Config, registry *editor.Registry, logger *zap.Logger) *events.Consumer {
	brokers := cfg.KafkaBrokersList()
	if len(brokers) == 0 {
		return nil
	}
	groupID := cfg.KafkaGroupID + "-" + uuid.NewString()
	consumer := events.NewConsumer(brokers, groupID, cfg.Topic, logger)
	consumer.RegisterHandler(registry.HandleEvent)
	consumer.Start(ctx)
	return consumer
}

// waitForShutdown blocks until an interrupt or SIGTERM is received, or the
// servers fail, then shuts down servers.
func waitForShutdown(ctx context.Context, errCh <-chan error, server *handlers.Server, logger *zap.Logger) {
	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			logger.Error("Server failed", zap.Error(err))
		}
	}

	server.Stop()
	logger.Info("Servers stopped properly")
}
