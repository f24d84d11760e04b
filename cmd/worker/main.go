package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/usdt-market/backend/internal/config"
	"github.com/usdt-market/backend/internal/db"
	"github.com/usdt-market/backend/internal/events"
	"github.com/usdt-market/backend/internal/models"
	"github.com/usdt-market/backend/internal/repositories"
	"github.com/usdt-market/backend/internal/services"
)

// recoveryBatch caps deliveries per sweep.
const recoveryBatch = 50

type stuckOrders interface {
	ListStuckPaid(ctx context.Context, olderThan time.Time, limit int) ([]models.Order, error)
}

type deliverer interface {
	Deliver(ctx context.Context, orderID uuid.UUID, chatID int64) (*services.Delivery, error)
}

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	// Repos
	orderRepo := repositories.NewOrderRepo(pool)
	productRepo := repositories.NewProductRepo(pool)
	userRepo := repositories.NewUserRepo(pool)
	auditRepo := repositories.NewAuditRepo(pool)

	// Services
	publisher := events.NewRedisPublisher(rdb, log)
	deliveryService := services.NewDeliveryService(orderRepo, productRepo, userRepo, auditRepo, services.NewEventMessenger(publisher), publisher, log)

	log.Info("worker started", zap.Duration("recovery_interval", cfg.RecoveryInterval))

	recoveryTicker := time.NewTicker(cfg.RecoveryInterval)
	defer recoveryTicker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-recoveryTicker.C:
			runRecovery(ctx, orderRepo, deliveryService, cfg.RecoveryInterval, log)
		case <-sigCh:
			log.Info("shutting down worker")
			cancel()
			return
		case <-ctx.Done():
			return
		}
	}
}

// runRecovery delivers orders left in paid, e.g. after a crash between the
// payment match and the delivery. Pending orders are never touched.
func runRecovery(ctx context.Context, orders stuckOrders, delivery deliverer, age time.Duration, log *zap.Logger) {
	stuck, err := orders.ListStuckPaid(ctx, time.Now().Add(-age), recoveryBatch)
	if err != nil {
		log.Error("failed to list stuck paid orders", zap.Error(err))
		return
	}

	for _, order := range stuck {
		log.Info("recovering paid order", zap.String("order_id", order.OrderID))
		if _, err := delivery.Deliver(ctx, order.ID, 0); err != nil {
			if errors.Is(err, services.ErrNotPaid) {
				continue
			}
			log.Error("failed to deliver stuck order", zap.String("order_id", order.OrderID), zap.Error(err))
		}
	}
}
