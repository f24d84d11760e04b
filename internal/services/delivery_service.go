package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/usdt-market/backend/internal/events"
	"github.com/usdt-market/backend/internal/i18n"
	"github.com/usdt-market/backend/internal/models"
	"github.com/usdt-market/backend/internal/repositories"
)

// Delivery is what the buyer received for a paid order.
type Delivery struct {
	Order        *models.Order
	ProductTitle string
	FileType     string
	Payload      string // link or text; empty for file products
}

type DeliveryService struct {
	orders    OrderStore
	products  ProductStore
	users     UserStore
	audit     AuditLogger
	messenger Messenger
	publisher events.Publisher
	log       *zap.Logger
	now       func() time.Time
}

func NewDeliveryService(
	orders OrderStore,
	products ProductStore,
	users UserStore,
	audit AuditLogger,
	messenger Messenger,
	publisher events.Publisher,
	log *zap.Logger,
) *DeliveryService {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	return &DeliveryService{
		orders:    orders,
		products:  products,
		users:     users,
		audit:     audit,
		messenger: messenger,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

// Deliver finalizes a paid order and sends the goods. chatID 0 sends to the
// buyer's private chat. Bookkeeping happens at most once per order; message
// failures are logged and never undo it.
func (s *DeliveryService) Deliver(ctx context.Context, orderID uuid.UUID, chatID int64) (*Delivery, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order.Status != models.OrderStatusPaid {
		return nil, ErrNotPaid
	}

	product, err := s.products.GetByID(ctx, order.ProductID)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	// 1. Статус и счётчики одной транзакцией
	now := s.now()
	delivered, err := s.orders.MarkDelivered(ctx, order, now)
	if err != nil {
		return nil, fmt.Errorf("mark delivered: %w", err)
	}
	if !delivered {
		return nil, ErrNotPaid
	}
	order.Status = models.OrderStatusDelivered
	order.DeliveredAt = &now

	log := s.log.With(zap.String("order_id", order.ID.String()), zap.String("order_ref", order.OrderID))
	log.Info("order delivered")

	d := &Delivery{
		Order:        order,
		ProductTitle: product.Title,
		FileType:     product.FileType,
	}
	if product.FileURL != nil && (product.FileType == models.FileTypeLink || product.FileType == models.FileTypeText) {
		d.Payload = *product.FileURL
	}

	s.recordDelivery(ctx, order)
	_ = s.publisher.Publish(ctx, events.StreamOrders, events.Event{
		Type:    events.EventOrderStatusChanged,
		Payload: orderPayload(order, models.OrderStatusPaid, models.OrderStatusDelivered),
	})

	// 2. Уведомления, ошибки только логируем
	s.notifyBuyer(ctx, log, d, chatID)
	s.notifySeller(ctx, log, d)

	return d, nil
}

func (s *DeliveryService) notifyBuyer(ctx context.Context, log *zap.Logger, d *Delivery, chatID int64) {
	buyer, err := s.users.GetByID(ctx, d.Order.BuyerID)
	if err != nil {
		log.Warn("buyer lookup failed, delivery message not sent", zap.Error(err))
		return
	}
	if chatID == 0 {
		chatID = buyer.TelegramID
	}
	lang := buyer.Language

	kb := (&Keyboard{}).
		Row(Button{Text: i18n.T(lang, i18n.BtnReview), Data: "review_order_" + d.Order.ID.String()}).
		Row(Button{Text: i18n.T(lang, i18n.BtnMyOrders), Data: "my_orders"})

	if err := s.messenger.SendMessage(ctx, chatID, BuyerDeliveryText(d, lang), kb); err != nil {
		log.Warn("buyer delivery message failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (s *DeliveryService) notifySeller(ctx context.Context, log *zap.Logger, d *Delivery) {
	seller, err := s.users.GetByID(ctx, d.Order.SellerID)
	if err != nil {
		log.Warn("seller lookup failed, sale message not sent", zap.Error(err))
		return
	}
	if seller.TelegramID == 0 {
		return
	}
	if err := s.messenger.SendMessage(ctx, seller.TelegramID, SellerSaleText(d, seller.Language), nil); err != nil {
		log.Warn("seller sale message failed", zap.Int64("chat_id", seller.TelegramID), zap.Error(err))
	}
}

func (s *DeliveryService) recordDelivery(ctx context.Context, order *models.Order) {
	if s.audit == nil {
		return
	}
	err := s.audit.Log(ctx, models.AuditLog{
		ActorType:  models.ActorSystem,
		Action:     statusAction(models.OrderStatusPaid, models.OrderStatusDelivered),
		EntityType: models.EntityOrder,
		EntityID:   &order.ID,
		Meta:       map[string]any{"order_ref": order.OrderID},
	})
	if err != nil {
		s.log.Warn("audit log failed", zap.Error(err))
	}
}

func BuyerDeliveryText(d *Delivery, lang string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", i18n.T(lang, i18n.DeliveryTitle))
	fmt.Fprintf(&b, "*%s*\n\n", i18n.EscapeMarkdown(d.ProductTitle))
	fmt.Fprintf(&b, "%s\n", i18n.T(lang, i18n.DeliveryProduct))
	if d.Payload != "" {
		label := i18n.DeliveryFile
		if d.FileType == models.FileTypeText {
			label = i18n.DeliveryText
		}
		fmt.Fprintf(&b, "%s\n%s\n\n", i18n.T(lang, label), i18n.EscapeMarkdown(d.Payload))
	}
	fmt.Fprintf(&b, "\n%s\n%s", i18n.T(lang, i18n.DeliveryThanks), i18n.T(lang, i18n.DeliverySupport))
	return b.String()
}

// SellerSaleText reports gross price, commission and the net amount to receive.
func SellerSaleText(d *Delivery, lang string) string {
	o := d.Order
	return i18n.T(lang, i18n.SellerSale,
		i18n.EscapeMarkdown(d.ProductTitle),
		o.Price.String(),
		o.Commission.String(),
		o.NetPayable().StringFixed(2),
	)
}
