package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	adapterRepo "github.com/fitrahmoef/Saintara-Mobile/internal/adapter/repository"
	"github.com/fitrahmoef/Saintara-Mobile/internal/catalog"
	"github.com/fitrahmoef/Saintara-Mobile/internal/config"
	"github.com/fitrahmoef/Saintara-Mobile/internal/infrastructure/database"
	grpcServer "github.com/fitrahmoef/Saintara-Mobile/internal/infrastructure/grpc"
	httpServer "github.com/fitrahmoef/Saintara-Mobile/internal/infrastructure/http"
	"github.com/fitrahmoef/Saintara-Mobile/internal/infrastructure/provider"
	"github.com/fitrahmoef/Saintara-Mobile/internal/middleware/auth"
	"github.com/fitrahmoef/Saintara-Mobile/internal/usecase"
	"github.com/fitrahmoef/Saintara-Mobile/pkg/logger"
	"github.com/fitrahmoef/Saintara-Mobile/pkg/messaging"
)

func main() {
	// A local .env is optional
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to read .env: %v", err)
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	zapLogger, err := logger.NewZapLogger(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Output:      cfg.Log.Output,
		FilePath:    cfg.Log.FilePath,
		Development: cfg.Log.Development,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	zapLogger = zapLogger.With(zap.String("service", cfg.Service.Name))
	defer zapLogger.Sync()

	zapLogger.Info("Starting service",
		zap.String("version", cfg.Service.Version),
		zap.String("environment", cfg.Service.Environment),
		zap.String("payment_provider", cfg.Payment.Provider))

	// Initialize database connection
	db, err := database.NewConnection(&cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db, zapLogger); err != nil {
			zapLogger.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	// Run database migrations
	if err := database.Migrate(db, zapLogger); err != nil {
		zapLogger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	store := adapterRepo.NewStore(db, zapLogger)

	gateways, err := provider.NewFactory(cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to initialize payment gateways", zap.Error(err))
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = database.NewRedisClient(&cfg.Redis, zapLogger)
		if err != nil {
			zapLogger.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer redisClient.Close()
	}

	publisher, err := newPublisher(cfg, redisClient)
	if err != nil {
		zapLogger.Fatal("Failed to initialize event publisher", zap.Error(err))
	}
	defer publisher.Close()

	// An empty path selects the embedded catalog
	packages, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		zapLogger.Fatal("Failed to load package catalog", zap.String("path", cfg.Catalog.Path), zap.Error(err))
	}

	// Use cases
	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TTL)
	events := usecase.NewEventPublisher(publisher, cfg.Messaging.Topic, zapLogger)
	reconciler := usecase.NewReconciliationService(store, events, zapLogger)

	ping := func(ctx context.Context) error { return database.Ping(ctx, db) }

	httpSrv := httpServer.NewServer(cfg, zapLogger, httpServer.Dependencies{
		Ping:       ping,
		Redis:      redisClient,
		Tokens:     tokens,
		Auth:       usecase.NewAuthUsecase(store, tokens, events, zapLogger),
		Activities: usecase.NewActivityUsecase(store, zapLogger),
		Orders:     usecase.NewOrderUsecase(store, packages, events, zapLogger),
		Payments:   usecase.NewPaymentUsecase(store, gateways, reconciler, packages, cfg.Payment.GatewayTimeout, zapLogger),
		Dashboard:  usecase.NewDashboardUsecase(store, zapLogger),
		Catalog:    packages,
	})
	grpcSrv := grpcServer.NewServer(cfg, zapLogger, ping)

	// Start servers
	go func() {
		if err := grpcSrv.Start(); err != nil {
			zapLogger.Fatal("Failed to start gRPC server", zap.Error(err))
		}
	}()

	go func() {
		if err := httpSrv.Start(); err != nil {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	zapLogger.Info("Shutting down servers...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		zapLogger.Error("Failed to shutdown HTTP server", zap.Error(err))
	}
	if err := grpcSrv.Shutdown(ctx); err != nil {
		zapLogger.Error("Failed to shutdown gRPC server", zap.Error(err))
	}

	zapLogger.Info("Servers stopped")
}

func newPublisher(cfg *config.Config, redisClient *redis.Client) (messaging.Publisher, error) {
	switch cfg.Messaging.Driver {
	case "redis":
		return messaging.NewRedisPublisher(redisClient), nil
	case "kafka":
		return messaging.NewKafkaPublisher(cfg.Messaging.KafkaBrokers), nil
	case "rabbitmq":
		return messaging.NewRabbitMQPublisher(cfg.Messaging.RabbitMQURL)
	default:
		return messaging.NoopPublisher{}, nil
	}
}
