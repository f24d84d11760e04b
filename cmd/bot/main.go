package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/usdt-market/backend/internal/bot"
	"github.com/usdt-market/backend/internal/config"
	"github.com/usdt-market/backend/internal/db"
	"github.com/usdt-market/backend/internal/events"
	"github.com/usdt-market/backend/internal/explorer"
	"github.com/usdt-market/backend/internal/monitor"
	"github.com/usdt-market/backend/internal/payments"
	"github.com/usdt-market/backend/internal/repositories"
	"github.com/usdt-market/backend/internal/services"
	"github.com/usdt-market/backend/migrations"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	cfg.Validate(log)
	if cfg.BotToken == "" {
		log.Fatal("BOT_TOKEN is required for the bot process")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database
	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool, migrations.FS, log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	// Redis
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	// Repositories
	userRepo := repositories.NewUserRepo(pool)
	productRepo := repositories.NewProductRepo(pool)
	orderRepo := repositories.NewOrderRepo(pool)
	auditRepo := repositories.NewAuditRepo(pool)

	// Events
	publisher := events.NewRedisPublisher(rdb, log)
	subscriber := events.NewRedisSubscriber(rdb, log)

	// Telegram
	tb, err := bot.New(cfg.BotToken, log)
	if err != nil {
		log.Fatal("failed to create telegram bot", zap.Error(err))
	}
	messenger := tb.Messenger()

	// Services
	matcher := payments.NewMatcher(explorer.NewSources(cfg, log), log)
	claims := payments.NewRedisClaims(rdb)
	orderService := services.NewOrderService(orderRepo, productRepo, auditRepo, matcher, claims, publisher, cfg, log)
	deliveryService := services.NewDeliveryService(orderRepo, productRepo, userRepo, auditRepo, messenger, publisher, log)

	registry := monitor.NewRegistry(orderService, deliveryService, messenger, monitor.Options{
		Interval:  cfg.MonitorInterval,
		MaxChecks: cfg.MonitorMaxChecks,
	}, log)
	orderService.SetMonitor(registry)

	tb.Register(bot.NewHandler(orderService, deliveryService, userRepo, productRepo, registry, messenger, log))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return tb.Run(gctx)
	})
	g.Go(func() error {
		// Notifications from the api and worker processes
		return bot.Forward(gctx, subscriber, messenger, log)
	})

	if err := g.Wait(); err != nil {
		log.Error("bot stopped with error", zap.Error(err))
	}

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := registry.Shutdown(shutdownCtx); err != nil {
		log.Warn("payment monitors did not stop in time", zap.Error(err))
	}
}
