// main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"travel-backoffice/cmd"
	"travel-backoffice/internal/data/repository"
	"travel-backoffice/internal/wire"
	"travel-backoffice/internal/worker"
	"travel-backoffice/pkg/cache"
	"travel-backoffice/pkg/database"
	"travel-backoffice/pkg/messaging"
	"travel-backoffice/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using zap production logger.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := database.InitDB(ctx, config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.EnsureSchema(ctx, db); err != nil {
		logger.Fatal("Failed to apply database schema", zap.Error(err))
	}
	logger.Info("Database connected successfully")

	// Package cache
	var packageCache cache.Cache = cache.NopCache{}
	if config.Redis.Enabled {
		redisCache, err := cache.NewRedisCache(ctx, config.Redis, logger)
		if err != nil {
			logger.Warn("Redis unavailable, package cache disabled", zap.Error(err))
		} else {
			packageCache = redisCache
			logger.Info("Redis connected", zap.String("addr", config.Redis.Addr))
		}
	}
	defer packageCache.Close()

	// Booking events
	var publisher messaging.Publisher = messaging.NewLogPublisher(logger)
	if config.RabbitMQ.Enabled {
		rabbit, err := messaging.NewRabbitMQPublisher(config.RabbitMQ, logger)
		if err != nil {
			logger.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
		}
		publisher = rabbit
	}
	defer publisher.Close()

	// Wire all dependencies
	app := wire.Wiring(wire.Deps{
		Repo:      repository.NewRepository(db, logger),
		Cache:     packageCache,
		Publisher: publisher,
	}, config, logger)

	sweeper := worker.NewOptionSweeper(app.Service.Booking, config.Booking.OptionSweepInterval, logger)
	go sweeper.Run(ctx)

	if err := cmd.APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server error", zap.Error(err))
	}
}
