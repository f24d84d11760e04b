package bot

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/usdt-market/backend/internal/apperr"
	"github.com/usdt-market/backend/internal/i18n"
	"github.com/usdt-market/backend/internal/models"
	"github.com/usdt-market/backend/internal/repositories"
	"github.com/usdt-market/backend/internal/services"
)

type Orders interface {
	CreateOrder(ctx context.Context, buyerID, productID uuid.UUID, network models.Network) (*services.CreateOrderResult, error)
	GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	CheckPayment(ctx context.Context, orderID uuid.UUID) (*services.PaymentCheck, error)
	CancelOrder(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, error)
}

type Deliverer interface {
	Deliver(ctx context.Context, orderID uuid.UUID, chatID int64) (*services.Delivery, error)
}

type Users interface {
	UpsertByTelegramID(ctx context.Context, telegramID int64, username, firstName *string, language string) (*models.User, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error)
}

type Products interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type Monitor interface {
	Start(chatID int64, orderID uuid.UUID, lang string)
	StopOrder(orderID uuid.UUID)
}

// Sender is the Telegram account behind an update.
type Sender struct {
	TelegramID   int64
	Username     string
	FirstName    string
	LanguageCode string
}

// Handler implements the purchase flow of the bot independently of telebot.
type Handler struct {
	orders    Orders
	delivery  Deliverer
	users     Users
	products  Products
	monitor   Monitor
	messenger services.Messenger
	log       *zap.Logger
}

func NewHandler(
	orders Orders,
	delivery Deliverer,
	users Users,
	products Products,
	monitor Monitor,
	messenger services.Messenger,
	log *zap.Logger,
) *Handler {
	return &Handler{
		orders:    orders,
		delivery:  delivery,
		users:     users,
		products:  products,
		monitor:   monitor,
		messenger: messenger,
		log:       log,
	}
}

// Start registers the sender and greets them.
func (h *Handler) Start(ctx context.Context, chatID int64, from Sender) error {
	lang := i18n.Normalize(from.LanguageCode)
	user, err := h.users.UpsertByTelegramID(ctx, from.TelegramID, optional(from.Username), optional(from.FirstName), lang)
	if err != nil {
		h.log.Error("user upsert failed", zap.Int64("telegram_id", from.TelegramID), zap.Error(err))
		return h.reply(ctx, chatID, i18n.T(lang, i18n.ErrGeneric), nil)
	}
	return h.reply(ctx, chatID, i18n.T(user.Language, i18n.Welcome), nil)
}

// Callback routes inline button presses. Unknown data is ignored.
func (h *Handler) Callback(ctx context.Context, chatID int64, from Sender, data string) error {
	cb, err := ParseCallback(data)
	if err != nil {
		h.log.Debug("callback ignored", zap.String("data", data), zap.Error(err))
		return nil
	}

	user, err := h.users.GetByTelegramID(ctx, from.TelegramID)
	if err != nil {
		lang := i18n.Normalize(from.LanguageCode)
		if errors.Is(err, repositories.ErrNotFound) {
			return h.reply(ctx, chatID, i18n.T(lang, i18n.ErrUserNotFound), nil)
		}
		h.log.Error("user lookup failed", zap.Int64("telegram_id", from.TelegramID), zap.Error(err))
		return h.reply(ctx, chatID, i18n.T(lang, i18n.ErrGeneric), nil)
	}

	switch cb.Action {
	case ActionBuyProduct:
		return h.chooseNetwork(ctx, chatID, user, cb.ID)
	case ActionSelectNetwork:
		return h.selectNetwork(ctx, chatID, user, cb.Network, cb.ID)
	case ActionCheckPayment:
		return h.checkPayment(ctx, chatID, user, cb.ID)
	case ActionCancelOrder:
		return h.cancelOrder(ctx, chatID, user, cb.ID)
	default:
		// product cards belong to the catalog
		return nil
	}
}

func (h *Handler) chooseNetwork(ctx context.Context, chatID int64, user *models.User, productID uuid.UUID) error {
	lang := user.Language
	product, err := h.products.GetByID(ctx, productID)
	if err != nil || !product.IsPurchasable() {
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			h.log.Error("product lookup failed", zap.String("product_id", productID.String()), zap.Error(err))
			return h.reply(ctx, chatID, i18n.T(lang, i18n.ErrGeneric), nil)
		}
		return h.reply(ctx, chatID, i18n.T(lang, i18n.ErrProductNotFound), nil)
	}
	if product.SellerID == user.ID {
		return h.reply(ctx, chatID, i18n.T(lang, i18n.ErrOwnProduct), nil)
	}
	return h.reply(ctx, chatID, i18n.T(lang, i18n.ChooseNetwork), networkKeyboard(lang, productID))
}

func (h *Handler) selectNetwork(ctx context.Context, chatID int64, user *models.User, network models.Network, productID uuid.UUID) error {
	lang := user.Language
	res, err := h.orders.CreateOrder(ctx, user.ID, productID, network)
	if err != nil {
		h.logFailure("order creation failed", err, zap.String("product_id", productID.String()), zap.String("network", string(network)))
		return h.reply(ctx, chatID, errorText(lang, err, i18n.ErrCreateOrder, network), nil)
	}

	text := services.PaymentInstructions(res.PaymentInfo, lang)
	kb := paymentKeyboard(lang, res.Order.ID, productID)
	if len(res.QRCode) > 0 {
		err = h.messenger.SendPhoto(ctx, chatID, res.QRCode, text, kb)
	} else {
		err = h.messenger.SendMessage(ctx, chatID, text, kb)
	}
	if err != nil {
		h.log.Warn("payment instructions not sent", zap.String("order_ref", res.Order.OrderID), zap.Error(err))
	}

	h.monitor.Start(chatID, res.Order.ID, lang)
	return nil
}

func (h *Handler) checkPayment(ctx context.Context, chatID int64, user *models.User, orderID uuid.UUID) error {
	lang := user.Language
	order, err := h.orders.GetOrder(ctx, orderID)
	if err != nil {
		h.logFailure("order lookup failed", err, zap.String("order_id", orderID.String()))
		return h.reply(ctx, chatID, errorText(lang, err, i18n.ErrCheckPayment, ""), nil)
	}
	if order.BuyerID != user.ID {
		return h.reply(ctx, chatID, i18n.T(lang, i18n.ErrNotYourOrder), nil)
	}
	if order.Status != models.OrderStatusPending {
		return h.reply(ctx, chatID, statusText(lang, order.Status), nil)
	}

	if err := h.reply(ctx, chatID, i18n.T(lang, i18n.Checking), nil); err != nil {
		return err
	}

	res, err := h.orders.CheckPayment(ctx, orderID)
	if err != nil {
		h.logFailure("manual payment check failed", err, zap.String("order_id", orderID.String()))
		return h.reply(ctx, chatID, errorText(lang, err, i18n.ErrCheckPayment, ""), nil)
	}
	if !res.Found {
		if res.Reason == services.ReasonAlreadyProcessed && res.Order != nil {
			return h.reply(ctx, chatID, statusText(lang, res.Order.Status), nil)
		}
		return h.reply(ctx, chatID, i18n.T(lang, i18n.NotReceived), nil)
	}

	h.monitor.StopOrder(orderID)
	if _, err := h.delivery.Deliver(ctx, orderID, chatID); err != nil {
		if errors.Is(err, services.ErrNotPaid) {
			// delivered by a concurrent path
			return nil
		}
		h.log.Error("delivery after manual check failed", zap.String("order_id", orderID.String()), zap.Error(err))
		return h.reply(ctx, chatID, i18n.T(lang, i18n.ErrDelivery), nil)
	}
	return nil
}

func (h *Handler) cancelOrder(ctx context.Context, chatID int64, user *models.User, orderID uuid.UUID) error {
	lang := user.Language
	if _, err := h.orders.CancelOrder(ctx, orderID, user.ID); err != nil {
		h.logFailure("order cancel failed", err, zap.String("order_id", orderID.String()))
		return h.reply(ctx, chatID, errorText(lang, err, i18n.ErrGeneric, ""), nil)
	}
	return h.reply(ctx, chatID, i18n.T(lang, i18n.OrderCancelled), nil)
}

func (h *Handler) reply(ctx context.Context, chatID int64, text string, kb *services.Keyboard) error {
	if err := h.messenger.SendMessage(ctx, chatID, text, kb); err != nil {
		h.log.Warn("reply not sent", zap.Int64("chat_id", chatID), zap.Error(err))
	}
	return nil
}

// logFailure keeps expected user errors out of the error log.
func (h *Handler) logFailure(msg string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err))
	switch apperr.KindOf(err) {
	case apperr.Unknown, apperr.KindExternal:
		h.log.Error(msg, fields...)
	default:
		h.log.Debug(msg, fields...)
	}
}

// errorText picks the most specific message for err. fallback covers
// unclassified failures of the current step.
func errorText(lang string, err error, fallback i18n.Key, network models.Network) string {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		return i18n.T(lang, i18n.ErrUserNotFound)
	case errors.Is(err, services.ErrProductUnavailable):
		return i18n.T(lang, i18n.ErrProductNotFound)
	case errors.Is(err, services.ErrOwnProduct):
		return i18n.T(lang, i18n.ErrOwnProduct)
	case errors.Is(err, services.ErrOrderNotFound):
		return i18n.T(lang, i18n.ErrOrderNotFound)
	case errors.Is(err, services.ErrNotBuyer):
		return i18n.T(lang, i18n.ErrNotYourOrder)
	case errors.Is(err, services.ErrNotCancellable):
		return i18n.T(lang, i18n.ErrCannotCancel)
	}
	switch apperr.KindOf(err) {
	case apperr.KindConfiguration:
		if network != "" {
			return i18n.T(lang, i18n.ErrNetworkNamed, network)
		}
	case apperr.Unknown, apperr.KindExternal:
		return i18n.T(lang, fallback)
	}
	return i18n.ErrorText(lang, err)
}

func statusText(lang, status string) string {
	switch status {
	case models.OrderStatusPaid:
		return i18n.T(lang, i18n.StatusPaid)
	case models.OrderStatusDelivered:
		return i18n.T(lang, i18n.StatusDelivered)
	case models.OrderStatusCancelled:
		return i18n.T(lang, i18n.StatusCancelled)
	default:
		return i18n.T(lang, i18n.StatusCompleted)
	}
}

var networkLabels = map[models.Network]i18n.Key{
	models.NetworkTRC20: i18n.NetworkTRC20,
	models.NetworkERC20: i18n.NetworkERC20,
	models.NetworkBEP20: i18n.NetworkBEP20,
}

func networkKeyboard(lang string, productID uuid.UUID) *services.Keyboard {
	kb := &services.Keyboard{}
	for _, n := range models.Networks {
		kb.Row(services.Button{Text: i18n.T(lang, networkLabels[n]), Data: SelectNetworkData(n, productID)})
	}
	return kb.Row(services.Button{Text: i18n.T(lang, i18n.BtnBack), Data: ViewProductData(productID)})
}

func paymentKeyboard(lang string, orderID, productID uuid.UUID) *services.Keyboard {
	return (&services.Keyboard{}).
		Row(services.Button{Text: i18n.T(lang, i18n.BtnSentPayment), Data: CheckPaymentData(orderID)}).
		Row(services.Button{Text: i18n.T(lang, i18n.BtnCheckPayment), Data: CheckPaymentData(orderID)}).
		Row(services.Button{Text: i18n.T(lang, i18n.BtnCancelOrder), Data: CancelOrderData(orderID)}).
		Row(services.Button{Text: i18n.T(lang, i18n.BtnBackToProduct), Data: ViewProductData(productID)})
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
