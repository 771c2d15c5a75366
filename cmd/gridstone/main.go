package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/gridstone-erp/gridstone-erp/internal/app"
	"github.com/gridstone-erp/gridstone-erp/internal/decision"
	"github.com/gridstone-erp/gridstone-erp/internal/identity"
	"github.com/gridstone-erp/gridstone-erp/internal/menu"
	"github.com/gridstone-erp/gridstone-erp/internal/observability"
	"github.com/gridstone-erp/gridstone-erp/internal/pagestate"
	"github.com/gridstone-erp/gridstone-erp/internal/platform/cache"
	"github.com/gridstone-erp/gridstone-erp/internal/platform/db"
	"github.com/gridstone-erp/gridstone-erp/internal/shared"
	"github.com/gridstone-erp/gridstone-erp/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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
		logger.Error("connect postgres", slog.Any("error", err))
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

	sessionManager := shared.NewSessionManager(redisClient, "gridstone_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	if err := menu.Validate(menu.PlatformMenu()); err != nil {
		logger.Error("platform menu registry", slog.Any("error", err))
		os.Exit(1)
	}
	if err := menu.Validate(menu.TenantMenu()); err != nil {
		logger.Error("tenant menu registry", slog.Any("error", err))
		os.Exit(1)
	}

	registry, err := pagestate.Default()
	if err != nil {
		logger.Error("page registry", slog.Any("error", err))
		os.Exit(1)
	}

	metrics := observability.NewMetrics()

	decisionService := decision.NewService(decision.Config{
		Source:   identity.NewRepository(pool),
		Registry: registry,
		Cache:    redisClient,
		CacheTTL: cfg.DecisionCacheTTL,
		Logger:   logger,
		Metrics:  metrics,
	})

	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	enqueue := func(r *http.Request, userID int64, reason string) error {
		_, err := jobClient.EnqueueDecisionInvalidate(r.Context(), jobs.DecisionInvalidatePayload{
			UserID: userID,
			Reason: reason,
		})
		return err
	}

	decisionHandler := decision.NewHandler(logger, decisionService, enqueue)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		SessionManager:  sessionManager,
		CSRFManager:     csrfManager,
		DecisionHandler: decisionHandler,
		JobHandler:      jobHandler,
		Metrics:         metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
