package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tripsplit/expenses-system/internal/api"
	"github.com/tripsplit/expenses-system/internal/api/handler"
	"github.com/tripsplit/expenses-system/internal/core/service"
	"github.com/tripsplit/expenses-system/internal/infrastructure/db/mongo"
	"github.com/tripsplit/expenses-system/internal/infrastructure/db/redis"
	"github.com/tripsplit/expenses-system/internal/infrastructure/feed"
	"github.com/tripsplit/expenses-system/internal/pkg/config"
	"github.com/tripsplit/expenses-system/pkg/logger"
)

// @title                      Expenses System API
// @version                    1.0
// @description                Shared-expense tracking: projects, participants, and equally split expenses.
// @BasePath                   /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Persistence gateway ---
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	projectRepo := mongo.NewProjectRepository(db)
	expenseRepo := mongo.NewExpenseRepository(db)
	authRepo := mongo.NewAuthRepository(db)

	for _, ensure := range []func(context.Context) error{
		projectRepo.EnsureIndexes,
		expenseRepo.EnsureIndexes,
		authRepo.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			log.Fatal().Err(err).Msg("index creation failed")
		}
	}

	// --- Redis: idempotency markers + change feed transport ---
	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	idemStore := redis.NewIdempotencyStore(rdb)
	changeFeed := redis.NewChangeFeed(rdb, log)

	dispatcher := feed.NewDispatcher(cfg.FeedWorkers, changeFeed, log)
	dispatcher.Start(ctx)

	// --- Services ---
	authService := service.NewAuthService(authRepo, cfg.JWTSecret, 24*time.Hour)
	projectService := service.NewProjectService(projectRepo, expenseRepo, dispatcher, log)
	expenseService := service.NewExpenseService(projectRepo, expenseRepo, idemStore, dispatcher, log)

	// --- HTTP ---
	e := api.NewRouter(api.Dependencies{
		AuthService:    authService,
		ProjectService: projectService,
		ExpenseService: expenseService,
		Subscriber:     changeFeed,
		Health:         handler.NewHealthHandler(),
		Readiness:      handler.NewHealthDependenciesHandler(db, rdb),
		JWTSecret:      cfg.JWTSecret,
		Logger:         log,
	})

	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}
}
