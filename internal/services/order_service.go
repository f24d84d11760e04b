package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/usdt-market/backend/internal/apperr"
	"github.com/usdt-market/backend/internal/config"
	"github.com/usdt-market/backend/internal/events"
	"github.com/usdt-market/backend/internal/models"
	"github.com/usdt-market/backend/internal/payments"
	"github.com/usdt-market/backend/internal/repositories"
)

// USDT carries 6 decimals on every supported network contract.
const moneyPlaces = 6

// Reasons reported by CheckPayment when nothing was matched.
const (
	ReasonAlreadyProcessed = "already processed"
	ReasonUnknownNetwork   = "unknown network"
	ReasonNotFound         = "payment not found"
)

type PaymentInfo struct {
	OrderRef     string          `json:"order_id"`
	Amount       decimal.Decimal `json:"amount"` // total to send
	Commission   decimal.Decimal `json:"commission"`
	ProductPrice decimal.Decimal `json:"product_price"`
	Network      models.Network  `json:"network"`
	Address      string          `json:"address"`
}

type CreateOrderResult struct {
	Order       *models.Order
	PaymentInfo PaymentInfo
	QRCode      []byte // nil when rendering failed
}

type PaymentCheck struct {
	Found       bool
	Transaction *payments.Transaction
	Reason      string
	Order       *models.Order
}

type OrderService struct {
	orders    OrderStore
	products  ProductStore
	audit     AuditLogger
	matcher   PaymentMatcher
	claims    TransferClaims
	publisher events.Publisher
	monitor   MonitorStopper
	cfg       *config.Config
	log       *zap.Logger
	now       func() time.Time
}

func NewOrderService(
	orders OrderStore,
	products ProductStore,
	audit AuditLogger,
	matcher PaymentMatcher,
	claims TransferClaims,
	publisher events.Publisher,
	cfg *config.Config,
	log *zap.Logger,
) *OrderService {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	return &OrderService{
		orders:    orders,
		products:  products,
		audit:     audit,
		matcher:   matcher,
		claims:    claims,
		publisher: publisher,
		cfg:       cfg,
		log:       log,
		now:       time.Now,
	}
}

// SetMonitor wires the payment monitor after construction; the monitor
// itself depends on this service.
func (s *OrderService) SetMonitor(m MonitorStopper) {
	s.monitor = m
}

func (s *OrderService) CreateOrder(ctx context.Context, buyerID, productID uuid.UUID, network models.Network) (*CreateOrderResult, error) {
	// 1. Сеть должна быть известна и иметь кошелёк
	parsed, ok := models.ParseNetwork(string(network))
	if !ok {
		return nil, apperr.Configuration("unknown network %q", network)
	}
	network = parsed
	address := s.cfg.Wallet(network)
	if address == "" {
		return nil, apperr.Configuration("network %s has no deposit wallet", network)
	}

	// 2. Товар активен и не принадлежит покупателю
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductUnavailable
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	if !product.IsPurchasable() {
		return nil, ErrProductUnavailable
	}
	if product.SellerID == buyerID {
		return nil, ErrOwnProduct
	}

	// 3. Комиссия сверху цены товара, фиксируется на момент создания
	rate := s.cfg.CommissionRate
	commission := product.Price.Mul(rate).Round(moneyPlaces)
	now := s.now()

	order := &models.Order{
		OrderID:        models.GenerateOrderID(now),
		BuyerID:        buyerID,
		SellerID:       product.SellerID,
		ProductID:      product.ID,
		Price:          product.Price.Add(commission),
		Commission:     commission,
		PaymentAddress: address,
		PaymentNetwork: network,
		Status:         models.OrderStatusPending,
		CreatedAt:      now,
	}
	order.SetEscrow(now, s.cfg.EscrowHours)

	// 4. Сохраняем
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.log.Info("order created",
		zap.String("order_id", order.ID.String()),
		zap.String("order_ref", order.OrderID),
		zap.String("network", string(network)),
		zap.String("price", order.Price.String()),
		zap.String("commission", commission.String()),
	)

	result := &CreateOrderResult{
		Order: order,
		PaymentInfo: PaymentInfo{
			OrderRef:     order.OrderID,
			Amount:       order.Price,
			Commission:   order.Commission,
			ProductPrice: product.Price,
			Network:      network,
			Address:      address,
		},
	}

	// 5. QR с адресом кошелька
	png, err := QRCode(address)
	if err != nil {
		s.log.Warn("qr code generation failed", zap.String("order_ref", order.OrderID), zap.Error(err))
	} else {
		result.QRCode = png
	}

	s.record(ctx, order, &buyerID, models.ActorUser, "order_created", map[string]any{
		"network":         network,
		"price":           order.Price.String(),
		"commission":      commission.String(),
		"commission_rate": rate.String(),
	})
	_ = s.publisher.Publish(ctx, events.StreamOrders, events.Event{
		Type:    events.EventOrderCreated,
		Payload: orderPayload(order, "", order.Status),
	})

	return result, nil
}

// CheckPayment looks for a transfer paying the order and moves it to paid.
// Safe to call concurrently: only one caller observes Found.
func (s *OrderService) CheckPayment(ctx context.Context, orderID uuid.UUID) (*PaymentCheck, error) {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusPending {
		return &PaymentCheck{Reason: ReasonAlreadyProcessed, Order: order}, nil
	}
	if !s.matcher.Supports(order.PaymentNetwork) {
		return &PaymentCheck{Reason: ReasonUnknownNetwork, Order: order}, nil
	}

	tx := s.matcher.Match(ctx, payments.Request{
		Address:   order.PaymentAddress,
		Expected:  order.Price,
		Network:   order.PaymentNetwork,
		NotBefore: order.CreatedAt,
		Skip:      s.claimedElsewhere(ctx, order),
	})
	if tx == nil {
		return &PaymentCheck{Reason: ReasonNotFound, Order: order}, nil
	}

	log := s.log.With(
		zap.String("order_id", order.ID.String()),
		zap.String("order_ref", order.OrderID),
		zap.String("tx_hash", tx.Hash),
	)

	if s.claims != nil {
		owned, err := s.claims.Claim(ctx, order.PaymentNetwork, tx.Hash, order.OrderID)
		if err != nil {
			// the unique index on tx_hash still guards double use
			log.Warn("transfer claim failed", zap.Error(err))
		} else if !owned {
			log.Info("transfer claimed by another order")
			return &PaymentCheck{Reason: ReasonNotFound, Order: order}, nil
		}
	}

	paid, err := s.orders.MarkPaid(ctx, order.ID, tx.Hash, tx.Timestamp)
	if errors.Is(err, repositories.ErrTxHashUsed) {
		log.Warn("transfer already pays another order")
		s.releaseClaim(ctx, order, tx.Hash)
		return &PaymentCheck{Reason: ReasonNotFound, Order: order}, nil
	}
	if err != nil {
		s.releaseClaim(ctx, order, tx.Hash)
		return nil, fmt.Errorf("mark paid: %w", err)
	}
	if !paid {
		// another check won the race
		log.Info("order already processed by a concurrent check")
		current, err := s.GetOrder(ctx, order.ID)
		if err == nil && (current.TxHash == nil || *current.TxHash != tx.Hash) {
			s.releaseClaim(ctx, order, tx.Hash)
		}
		if err == nil {
			order = current
		}
		return &PaymentCheck{Reason: ReasonAlreadyProcessed, Order: order}, nil
	}

	paidAt := tx.Timestamp
	order.Status = models.OrderStatusPaid
	order.TxHash = &tx.Hash
	order.PaidAt = &paidAt

	log.Info("payment confirmed", zap.String("amount", tx.Amount.String()), zap.String("from", tx.From))

	s.record(ctx, order, nil, models.ActorSystem, statusAction(models.OrderStatusPending, models.OrderStatusPaid), map[string]any{
		"tx_hash": tx.Hash,
		"amount":  tx.Amount.String(),
		"from":    tx.From,
	})
	_ = s.publisher.Publish(ctx, events.StreamOrders, events.Event{
		Type:    events.EventOrderStatusChanged,
		Payload: orderPayload(order, models.OrderStatusPending, models.OrderStatusPaid),
	})

	return &PaymentCheck{Found: true, Transaction: tx, Order: order}, nil
}

func (s *OrderService) CancelOrder(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, error) {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != userID {
		return nil, ErrNotBuyer
	}
	if order.Status != models.OrderStatusPending {
		return nil, ErrNotCancellable
	}

	if s.monitor != nil {
		s.monitor.StopOrder(order.ID)
	}

	ok, err := s.orders.Cancel(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("cancel order: %w", err)
	}
	if !ok {
		return nil, ErrNotCancellable
	}
	order.Status = models.OrderStatusCancelled

	s.log.Info("order cancelled", zap.String("order_id", order.ID.String()), zap.String("order_ref", order.OrderID))
	s.record(ctx, order, &userID, models.ActorUser, statusAction(models.OrderStatusPending, models.OrderStatusCancelled), nil)
	_ = s.publisher.Publish(ctx, events.StreamOrders, events.Event{
		Type:    events.EventOrderStatusChanged,
		Payload: orderPayload(order, models.OrderStatusPending, models.OrderStatusCancelled),
	})

	return order, nil
}

// CompleteOrder is invoked when the buyer confirms receipt by leaving a review.
func (s *OrderService) CompleteOrder(ctx context.Context, orderID, buyerID uuid.UUID) (*models.Order, error) {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != buyerID {
		return nil, ErrNotBuyer
	}
	if !models.IsValidTransition(order.Status, models.OrderStatusCompleted) {
		return nil, ErrNotCompletable
	}

	now := s.now()
	ok, err := s.orders.Complete(ctx, order.ID, now)
	if err != nil {
		return nil, fmt.Errorf("complete order: %w", err)
	}
	if !ok {
		return nil, ErrNotCompletable
	}
	from := order.Status
	order.Status = models.OrderStatusCompleted
	order.CompletedAt = &now

	s.record(ctx, order, &buyerID, models.ActorUser, statusAction(from, models.OrderStatusCompleted), nil)
	_ = s.publisher.Publish(ctx, events.StreamOrders, events.Event{
		Type:    events.EventOrderStatusChanged,
		Payload: orderPayload(order, from, models.OrderStatusCompleted),
	})
	return order, nil
}

// GetOrder always reads the persisted order.
func (s *OrderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return order, nil
}

func (s *OrderService) ListBuyerOrders(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]models.Order, error) {
	return s.orders.ListByBuyer(ctx, buyerID, limit, offset)
}

// claimedElsewhere reports transfers already bound to a different order,
// first by the Redis claim, then by the stored tx_hash.
func (s *OrderService) claimedElsewhere(ctx context.Context, order *models.Order) func(string) bool {
	return func(hash string) bool {
		if s.claims != nil {
			owner, err := s.claims.Owner(ctx, order.PaymentNetwork, hash)
			if err == nil && owner != "" {
				return owner != order.OrderID
			}
		}
		id, err := s.orders.TxHashOwner(ctx, order.PaymentNetwork, hash)
		if err == nil {
			return id != order.ID
		}
		return false
	}
}

func (s *OrderService) releaseClaim(ctx context.Context, order *models.Order, hash string) {
	if s.claims == nil {
		return
	}
	if err := s.claims.Release(ctx, order.PaymentNetwork, hash, order.OrderID); err != nil {
		s.log.Warn("release transfer claim failed", zap.String("tx_hash", hash), zap.Error(err))
	}
}

func (s *OrderService) record(ctx context.Context, order *models.Order, actor *uuid.UUID, actorType, action string, meta map[string]any) {
	if s.audit == nil {
		return
	}
	if meta == nil {
		meta = map[string]any{}
	}
	meta["order_ref"] = order.OrderID
	if err := s.audit.Log(ctx, models.AuditLog{
		ActorUserID: actor,
		ActorType:   actorType,
		Action:      action,
		EntityType:  models.EntityOrder,
		EntityID:    &order.ID,
		Meta:        meta,
	}); err != nil {
		s.log.Warn("audit log failed", zap.String("action", action), zap.Error(err))
	}
}

func statusAction(from, to string) string {
	return fmt.Sprintf("order_status_%s_to_%s", from, to)
}

func orderPayload(o *models.Order, oldStatus, newStatus string) map[string]any {
	p := map[string]any{
		"order_id":   o.ID.String(),
		"order_ref":  o.OrderID,
		"buyer_id":   o.BuyerID.String(),
		"seller_id":  o.SellerID.String(),
		"new_status": newStatus,
	}
	if oldStatus != "" {
		p["old_status"] = oldStatus
	}
	if o.TxHash != nil {
		p["tx_hash"] = *o.TxHash
	}
	return p
}
