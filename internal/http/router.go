package http

import (
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/usdt-market/backend/internal/http/handlers"
	"github.com/usdt-market/backend/internal/middleware"
)

// Limits per caller and path.
const (
	publicRateLimit = 100
	orderRateLimit  = 30
	rateWindow      = time.Minute
)

type Handlers struct {
	Auth  *handlers.AuthHandler
	User  *handlers.UserHandler
	Meta  *handlers.MetaHandler
	Order *handlers.OrderHandler
	WSHub *handlers.WSHub
}

func SetupRouter(app *fiber.App, jwtSecret string, log *zap.Logger, rdb *redis.Client, h Handlers) {
	// Global middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware(log))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api/v1")

	// Auth (public)
	api.Post("/auth/telegram", h.Auth.TelegramAuth)

	api.Use(middleware.RateLimitMiddleware(rdb, publicRateLimit, rateWindow, log))

	// Meta (public)
	api.Get("/networks", h.Meta.GetNetworks)
	api.Get("/meta/languages", h.Meta.GetLanguages)

	protected := api.Group("", middleware.AuthMiddleware(jwtSecret, log))
	protected.Get("/me", h.User.GetMe)

	// Orders: checks hit the explorers, so callers get a tighter budget
	orders := protected.Group("/orders", middleware.RateLimitMiddleware(rdb, orderRateLimit, rateWindow, log))
	orders.Post("", h.Order.CreateOrder)
	orders.Get("", h.Order.ListOrders)
	orders.Get("/:id", h.Order.GetOrder)
	orders.Post("/:id/check", h.Order.CheckPayment)
	orders.Post("/:id/cancel", h.Order.CancelOrder)
	orders.Post("/:id/complete", h.Order.CompleteOrder)

	// WebSocket
	app.Use("/ws", handlers.WSUpgradeMiddleware())
	app.Get("/ws", websocket.New(h.WSHub.HandleWS))
}
