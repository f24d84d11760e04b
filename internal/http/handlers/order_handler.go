package handlers

import (
	"context"
	"encoding/base64"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/usdt-market/backend/internal/http/dto"
	"github.com/usdt-market/backend/internal/middleware"
	"github.com/usdt-market/backend/internal/models"
	"github.com/usdt-market/backend/internal/services"
)

type OrderService interface {
	CreateOrder(ctx context.Context, buyerID, productID uuid.UUID, network models.Network) (*services.CreateOrderResult, error)
	GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	ListBuyerOrders(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]models.Order, error)
	CheckPayment(ctx context.Context, orderID uuid.UUID) (*services.PaymentCheck, error)
	CancelOrder(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, error)
	CompleteOrder(ctx context.Context, orderID, buyerID uuid.UUID) (*models.Order, error)
}

type Deliverer interface {
	Deliver(ctx context.Context, orderID uuid.UUID, chatID int64) (*services.Delivery, error)
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type OrderHandler struct {
	orders   OrderService
	delivery Deliverer
	log      *zap.Logger
}

func NewOrderHandler(orders OrderService, delivery Deliverer, log *zap.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, delivery: delivery, log: log}
}

func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	var req dto.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request")
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return badRequest(c, "invalid product_id")
	}
	if req.Network == "" {
		return badRequest(c, "network is required (TRC20, ERC20, BEP20)")
	}

	res, err := h.orders.CreateOrder(c.Context(), middleware.GetUserID(c), productID, models.Network(req.Network))
	if err != nil {
		return respondError(c, h.log, err)
	}

	resp := dto.CreateOrderResponse{
		Order:        res.Order,
		Payment:      res.PaymentInfo,
		Instructions: services.PaymentInstructions(res.PaymentInfo, middleware.GetLanguage(c)),
	}
	if len(res.QRCode) > 0 {
		resp.QRCode = "data:image/png;base64," + base64.StdEncoding.EncodeToString(res.QRCode)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: resp})
}

func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	limit := queryInt(c, "limit", defaultPageSize)
	if limit <= 0 || limit > maxPageSize {
		limit = defaultPageSize
	}
	offset := queryInt(c, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	orders, err := h.orders.ListBuyerOrders(c.Context(), middleware.GetUserID(c), limit, offset)
	if err != nil {
		return respondError(c, h.log, err)
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: orders})
}

func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	order, err := h.ownOrder(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: order})
}

// CheckPayment runs one payment check and delivers on a match. The buyer
// receives the goods in the bot chat.
func (h *OrderHandler) CheckPayment(c *fiber.Ctx) error {
	order, err := h.ownOrder(c)
	if err != nil {
		return respondError(c, h.log, err)
	}

	res, err := h.orders.CheckPayment(c.Context(), order.ID)
	if err != nil {
		return respondError(c, h.log, err)
	}

	resp := dto.CheckPaymentResponse{Found: res.Found, Reason: res.Reason, Order: res.Order}
	if res.Transaction != nil {
		resp.TxHash = res.Transaction.Hash
	}
	if res.Found {
		d, err := h.delivery.Deliver(c.Context(), order.ID, 0)
		switch {
		case err == nil:
			resp.Delivered = true
			resp.Order = d.Order
		case errors.Is(err, services.ErrNotPaid):
			// delivered by another path meanwhile
		default:
			h.log.Error("delivery after api check failed", zap.String("order_id", order.ID.String()), zap.Error(err))
		}
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: resp})
}

func (h *OrderHandler) CancelOrder(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid order id")
	}
	order, err := h.orders.CancelOrder(c.Context(), id, middleware.GetUserID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: order})
}

func (h *OrderHandler) CompleteOrder(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid order id")
	}
	order, err := h.orders.CompleteOrder(c.Context(), id, middleware.GetUserID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: order})
}

// ownOrder loads :id and requires the caller to be its buyer or seller.
func (h *OrderHandler) ownOrder(c *fiber.Ctx) (*models.Order, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, services.ErrOrderNotFound
	}
	order, err := h.orders.GetOrder(c.Context(), id)
	if err != nil {
		return nil, err
	}
	userID := middleware.GetUserID(c)
	if order.BuyerID != userID && order.SellerID != userID {
		return nil, services.ErrNotBuyer
	}
	return order, nil
}

func queryInt(c *fiber.Ctx, key string, fallback int) int {
	v := c.Query(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
