package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/ledger-server/api"
	"github.com/carson-networks/ledger-server/internal/config"
	"github.com/carson-networks/ledger-server/internal/identity"
	"github.com/carson-networks/ledger-server/internal/logging"
	"github.com/carson-networks/ledger-server/internal/ratelimit"
	"github.com/carson-networks/ledger-server/internal/service"
	"github.com/carson-networks/ledger-server/internal/storage"
)

func main() {
	logger := logging.SetupLogging()

	envConfig, err := config.ProcessEnvironmentVariables()
	if err != nil {
		logrus.WithError(err).Fatal("config.ProcessEnvironmentVariables")
		return
	}

	if err := logging.SetLevel(logger, envConfig.LogLevel); err != nil {
		logger.WithError(err).Warn("logging.SetLevel")
	}
	logger.Info("ledger-server starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dsn := envConfig.PostgresDSN()
	if err := storage.Migrate(dsn); err != nil {
		logrus.WithError(err).Fatal("storage.Migrate")
		return
	}

	dbStorage, err := storage.NewStorage(ctx, dsn)
	if err != nil {
		logrus.WithError(err).Fatal("storage.NewStorage")
		return
	}
	defer func() {
		if err := dbStorage.Close(); err != nil {
			logger.WithError(err).Error("storage.Close")
		}
	}()

	httpRest := api.Rest{
		Logger:          logger,
		Port:            envConfig.Port,
		Service:         service.NewService(dbStorage),
		CORSOrigins:     envConfig.CORSOrigins,
		ShutdownTimeout: envConfig.ShutdownTimeout,
	}

	if envConfig.RedisOptions != nil {
		redisClient := redis.NewClient(envConfig.RedisOptions)
		defer redisClient.Close()

		// The limiter fails open, so an unreachable Redis only degrades it.
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.WithError(err).Warn("redis.Ping")
		}
		httpRest.Limiter = ratelimit.New(redisClient, envConfig.RateLimitMax, envConfig.RateLimitWindow)
	} else {
		logger.Info("rate limiting disabled, REDIS_URL not set")
	}

	if len(envConfig.AuthJWTSecret) != 0 {
		httpRest.Verifier = identity.NewVerifier(envConfig.AuthJWTSecret)
	}

	if err := httpRest.Serve(ctx); err != nil {
		logger.WithError(err).Error("HttpServer.Serve")
	}
	logger.Info("ledger-server stopped")
}
