package handlers

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/usdt-market/backend/internal/auth"
	"github.com/usdt-market/backend/internal/events"
)

// WSHub streams order events to the buyer and seller of each order.
type WSHub struct {
	jwtSecret   string
	subscriber  events.Subscriber
	log         *zap.Logger
	mu          sync.RWMutex
	connections map[uuid.UUID][]*wsConn
}

// wsConn serializes writes; websocket connections allow one writer.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func NewWSHub(jwtSecret string, subscriber events.Subscriber, log *zap.Logger) *WSHub {
	return &WSHub{
		jwtSecret:   jwtSecret,
		subscriber:  subscriber,
		log:         log,
		connections: make(map[uuid.UUID][]*wsConn),
	}
}

func (h *WSHub) Start(ctx context.Context) error {
	return h.subscriber.Subscribe(ctx, events.StreamOrders, h.dispatch)
}

func (h *WSHub) dispatch(event events.Event) {
	recipients := Recipients(event)
	if len(recipients) == 0 {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	for _, userID := range recipients {
		h.sendRaw(userID, data)
	}
}

// Recipients are the participants named in an order event payload.
func Recipients(event events.Event) []uuid.UUID {
	var out []uuid.UUID
	for _, field := range []string{"buyer_id", "seller_id"} {
		raw, _ := event.Payload[field].(string)
		id, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		if len(out) == 0 || out[0] != id {
			out = append(out, id)
		}
	}
	return out
}

func (h *WSHub) SendToUser(userID uuid.UUID, event events.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	h.sendRaw(userID, data)
}

func (h *WSHub) sendRaw(userID uuid.UUID, data []byte) {
	h.mu.RLock()
	conns := append([]*wsConn(nil), h.connections[userID]...)
	h.mu.RUnlock()

	for _, c := range conns {
		if err := c.write(data); err != nil {
			h.log.Debug("websocket write failed", zap.String("user_id", userID.String()), zap.Error(err))
		}
	}
}

// Connections counts live sockets of userID.
func (h *WSHub) Connections(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections[userID])
}

func (h *WSHub) register(userID uuid.UUID, c *wsConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connections[userID] = append(h.connections[userID], c)
}

func (h *WSHub) unregister(userID uuid.UUID, c *wsConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns := h.connections[userID]
	for i, existing := range conns {
		if existing == c {
			h.connections[userID] = append(conns[:i], conns[i+1:]...)
			break
		}
	}
	if len(h.connections[userID]) == 0 {
		delete(h.connections, userID)
	}
}

// WSUpgradeMiddleware checks for websocket upgrade
func WSUpgradeMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}
}

func (h *WSHub) HandleWS(conn *websocket.Conn) {
	tokenStr := conn.Query("token")
	if tokenStr == "" {
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"missing token"}`))
		conn.Close()
		return
	}

	claims, err := auth.ParseJWT(h.jwtSecret, tokenStr)
	if err != nil {
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"invalid token"}`))
		conn.Close()
		return
	}

	c := &wsConn{conn: conn}
	h.register(claims.UserID, c)
	defer func() {
		h.unregister(claims.UserID, c)
		conn.Close()
	}()

	// read loop keeps the connection alive and detects close
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
