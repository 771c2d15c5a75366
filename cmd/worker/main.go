package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/gridstone-erp/gridstone-erp/internal/app"
	"github.com/gridstone-erp/gridstone-erp/internal/decision"
	"github.com/gridstone-erp/gridstone-erp/internal/identity"
	jobmetrics "github.com/gridstone-erp/gridstone-erp/internal/jobs"
	"github.com/gridstone-erp/gridstone-erp/internal/pagestate"
	"github.com/gridstone-erp/gridstone-erp/internal/platform/cache"
	"github.com/gridstone-erp/gridstone-erp/internal/platform/db"
	"github.com/gridstone-erp/gridstone-erp/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	registry, err := pagestate.Default()
	if err != nil {
		logger.Error("page registry", slog.Any("error", err))
		os.Exit(1)
	}

	decisionService := decision.NewService(decision.Config{
		Source:   identity.NewRepository(pool),
		Registry: registry,
		Cache:    redisClient,
		CacheTTL: cfg.DecisionCacheTTL,
		Logger:   logger,
	})

	metrics := jobmetrics.NewMetrics(prometheus.DefaultRegisterer)
	invalidateJob := jobs.NewDecisionInvalidateJob(decisionService, logger, metrics)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskDecisionInvalidate, Handler: invalidateJob.Handle},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
