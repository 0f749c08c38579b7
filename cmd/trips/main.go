package main

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"
	"github.com/piresc/fleetnav/internal/pkg/config"
	"github.com/piresc/fleetnav/internal/pkg/database"
	"github.com/piresc/fleetnav/internal/pkg/health"
	"github.com/piresc/fleetnav/internal/pkg/logger"
	"github.com/piresc/fleetnav/internal/pkg/middleware"
	"github.com/piresc/fleetnav/internal/pkg/nats"
	"github.com/piresc/fleetnav/internal/pkg/nsq"
	"github.com/piresc/fleetnav/internal/pkg/retry"
	"github.com/piresc/fleetnav/internal/pkg/server"
	"github.com/piresc/fleetnav/internal/pkg/websocket"
	"github.com/piresc/fleetnav/services/trips/gateway"
	"github.com/piresc/fleetnav/services/trips/handler"
	"github.com/piresc/fleetnav/services/trips/repository"
	"github.com/piresc/fleetnav/services/trips/usecase"
)

func main() {
	appName := "trips-service"
	configPath := "config/trips.env"
	configs := config.InitConfig(configPath)

	zapLogger, err := logger.InitZapLoggerFromConfig(configs)
	if err != nil {
		log.Fatalf("Failed to create Zap logger: %v", err)
	}
	defer zapLogger.Close()

	// Set global logger for application-wide access
	logger.SetGlobalLogger(zapLogger)

	logger.Info("Starting application",
		logger.String("app", appName),
		logger.String("version", configs.App.Version),
		logger.String("environment", configs.App.Environment),
	)

	// Initialize PostgreSQL database connection
	postgresClient, err := database.NewPostgresClient(configs.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to PostgreSQL", logger.Err(err))
	}

	// Initialize Redis client
	redisClient, err := database.NewRedisClient(configs.Redis)
	if err != nil {
		zapLogger.Fatal("Failed to connect to Redis", logger.Err(err))
	}

	// Initialize NATS client for trip events and dispatch
	natsClient, err := nats.NewClient(configs.NATS.URL)
	if err != nil {
		zapLogger.Fatal("Failed to connect to NATS", logger.Err(err))
	}

	// Initialize NSQ producer for maintenance requests
	nsqProducer, err := nsq.NewProducer(configs.NSQ.Address)
	if err != nil {
		zapLogger.Fatal("Failed to create NSQ producer", logger.Err(err))
	}

	// Initialize repositories
	tripRepo := repository.NewTripRepository(configs, postgresClient.GetDB())
	locationRepo := repository.NewLocationRepository(redisClient)

	// Initialize gateways
	routingGW := gateway.NewRoutingClient(configs.Routing, retry.FromConfig(configs.Retry), zapLogger)
	eventGW := gateway.NewEventPublisher(natsClient)
	maintenanceGW := gateway.NewMaintenancePublisher(nsqProducer, configs.NSQ.Topic)

	// Initialize usecase
	tripUC, err := usecase.NewTripUC(configs, tripRepo, locationRepo, routingGW, eventGW, maintenanceGW, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to initialize trip use case", logger.Err(err))
	}

	// Initialize handlers
	wsManager := websocket.NewManager()
	tripsHandler := handler.NewHandler(tripUC, natsClient, wsManager, configs)

	if err := tripsHandler.InitNATSConsumers(); err != nil {
		zapLogger.Fatal("Failed to initialize NATS consumers", logger.Err(err))
	}

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true

	// Add middlewares (panic recovery should be first)
	e.Use(middleware.PanicRecoveryWithZapMiddleware(zapLogger))
	e.Use(middleware.RequestIDMiddleware())
	e.Use(logger.ZapEchoMiddleware(zapLogger))

	healthService := health.NewService()
	healthService.AddChecker("postgres", postgresClient)
	healthService.AddChecker("redis", redisClient)
	healthService.AddChecker("nats", natsClient)
	healthService.AddChecker("nsq", health.CheckerFunc(func(context.Context) error {
		return nsqProducer.Ping()
	}))
	health.RegisterHealthEndpoints(e, appName, configs.App.Version, healthService)

	tripsHandler.RegisterRoutes(e, redisClient.GetClient())

	srv := server.NewGracefulServer(e, zapLogger, configs.Server.Host, configs.Server.Port, configs.Server.ShutdownTimeout)
	srv.OnShutdown("dispatch consumers", func(context.Context) error {
		tripsHandler.Close()
		return nil
	})
	srv.OnShutdown("sessions", func(ctx context.Context) error {
		tripUC.Shutdown(ctx)
		return nil
	})
	srv.OnShutdown("websocket", func(context.Context) error {
		wsManager.CloseAll()
		return nil
	})
	srv.OnShutdown("nats", func(context.Context) error {
		natsClient.Close()
		return nil
	})
	srv.OnShutdown("nsq", func(context.Context) error {
		nsqProducer.Stop()
		return nil
	})
	srv.OnShutdown("redis", func(context.Context) error {
		return redisClient.Close()
	})
	srv.OnShutdown("postgres", func(context.Context) error {
		return postgresClient.Close()
	})

	if err := srv.Start(); err != nil {
		zapLogger.Fatal("Server stopped with error", logger.Err(err))
	}
}
