package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/userdesk/user-management/internal/api"
	"github.com/userdesk/user-management/internal/api/metrics"
	"github.com/userdesk/user-management/internal/core/service"
	mongodb "github.com/userdesk/user-management/internal/infrastructure/db/mongo"
	redisdb "github.com/userdesk/user-management/internal/infrastructure/db/redis"
	"github.com/userdesk/user-management/internal/infrastructure/queue"
	"github.com/userdesk/user-management/internal/pkg/config"
	"github.com/userdesk/user-management/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Stores ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	userRepo := mongodb.NewUserRepository(db)
	roleRepo := mongodb.NewRoleRepository(db)
	activityRepo := mongodb.NewActivityRepository(db)

	for _, ensure := range []func(context.Context) error{
		userRepo.EnsureIndexes,
		roleRepo.EnsureIndexes,
		activityRepo.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			log.Fatal().Err(err).Msg("index creation failed")
		}
	}

	// --- Default data (best-effort: failures are logged, never fatal) ---
	bootstrap := service.NewBootstrap(userRepo, roleRepo, log)
	if err := bootstrap.SeedDefaults(ctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		metrics.SeedRunsTotal.WithLabelValues("error").Inc()
		log.Warn().Err(err).Msg("default data seeding incomplete; will retry on next startup")
	} else {
		metrics.SeedRunsTotal.WithLabelValues("ok").Inc()
	}

	// --- Activity trail workers ---
	activityService := service.NewActivityService(activityRepo, log)
	dispatcher := queue.NewDispatcher(0, activityService, log)
	dispatcher.Start(ctx)

	// --- HTTP ---
	e := api.NewRouter(api.RouterConfig{
		Mongo:     db,
		Redis:     rdb,
		JWTSecret: cfg.JWTSecret,
		TokenTTL:  cfg.TokenTTL,
		Activity:  dispatcher,
		Logger:    log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server started")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}
