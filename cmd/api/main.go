package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/usdt-market/backend/internal/config"
	"github.com/usdt-market/backend/internal/db"
	"github.com/usdt-market/backend/internal/events"
	"github.com/usdt-market/backend/internal/explorer"
	apphttp "github.com/usdt-market/backend/internal/http"
	"github.com/usdt-market/backend/internal/http/dto"
	"github.com/usdt-market/backend/internal/http/handlers"
	"github.com/usdt-market/backend/internal/middleware"
	"github.com/usdt-market/backend/internal/payments"
	"github.com/usdt-market/backend/internal/repositories"
	"github.com/usdt-market/backend/internal/services"
	"github.com/usdt-market/backend/migrations"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	cfg.Validate(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	// Run migrations
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

	// Services. Telegram messages go through the bot process.
	messenger := services.NewEventMessenger(publisher)
	matcher := payments.NewMatcher(explorer.NewSources(cfg, log), log)
	orderService := services.NewOrderService(orderRepo, productRepo, auditRepo, matcher, payments.NewRedisClaims(rdb), publisher, cfg, log)
	deliveryService := services.NewDeliveryService(orderRepo, productRepo, userRepo, auditRepo, messenger, publisher, log)

	// Handlers
	wsHub := handlers.NewWSHub(cfg.JWTSecret, subscriber, log)
	h := apphttp.Handlers{
		Auth: handlers.NewAuthHandler(userRepo, handlers.AuthConfig{
			WebAppSecret:   cfg.WebAppSecret,
			JWTSecret:      cfg.JWTSecret,
			JWTExpiration:  cfg.JWTExpiration,
			InitDataMaxAge: cfg.InitDataMaxAge,
		}, log),
		User:  handlers.NewUserHandler(userRepo, log),
		Meta:  handlers.NewMetaHandler(cfg),
		Order: handlers.NewOrderHandler(orderService, deliveryService, log),
		WSHub: wsHub,
	}

	// Start WS hub
	if err := wsHub.Start(ctx); err != nil {
		log.Fatal("failed to subscribe websocket hub", zap.Error(err))
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			return c.Status(code).JSON(dto.ErrorResponse{Error: err.Error(), RequestID: middleware.GetRequestID(c)})
		},
	})

	apphttp.SetupRouter(app, cfg.JWTSecret, log, rdb, h)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")
		cancel()
		_ = app.Shutdown()
	}()

	addr := fmt.Sprintf(":%s", cfg.APIPort)
	log.Info("starting API server", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
