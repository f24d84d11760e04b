package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/usdt-market/backend/internal/events"
	"github.com/usdt-market/backend/internal/models"
	"github.com/usdt-market/backend/internal/payments"
)

// Storage and collaborator contracts. Implemented by repositories, payments
// and monitor; faked in tests.

type OrderStore interface {
	Create(ctx context.Context, o *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByBuyer(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]models.Order, error)
	MarkPaid(ctx context.Context, id uuid.UUID, txHash string, paidAt time.Time) (bool, error)
	Cancel(ctx context.Context, id uuid.UUID) (bool, error)
	Complete(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	MarkDelivered(ctx context.Context, o *models.Order, at time.Time) (bool, error)
	TxHashOwner(ctx context.Context, network models.Network, txHash string) (uuid.UUID, error)
}

type ProductStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error)
}

type AuditLogger interface {
	Log(ctx context.Context, entry models.AuditLog) error
}

type PaymentMatcher interface {
	Supports(network models.Network) bool
	Match(ctx context.Context, req payments.Request) *payments.Transaction
}

type TransferClaims interface {
	Claim(ctx context.Context, network models.Network, txHash, orderRef string) (bool, error)
	Owner(ctx context.Context, network models.Network, txHash string) (string, error)
	Release(ctx context.Context, network models.Network, txHash, orderRef string) error
}

// MonitorStopper cancels automatic payment checks for an order.
type MonitorStopper interface {
	StopOrder(orderID uuid.UUID)
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, string, events.Event) error { return nil }
