package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/usdt-market/backend/internal/auth"
)

const (
	CtxUserID     = "user_id"
	CtxTelegramID = "telegram_id"
	CtxLanguage   = "lang"
)

// AuthMiddleware accepts "Authorization: Bearer <jwt>" issued by /auth/telegram.
func AuthMiddleware(jwtSecret string, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return unauthorized(c, "missing authorization header")
		}

		tokenStr, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || tokenStr == "" {
			return unauthorized(c, "invalid authorization format")
		}

		claims, err := auth.ParseJWT(jwtSecret, tokenStr)
		if err != nil {
			log.Debug("jwt parse error", zap.String("request_id", GetRequestID(c)), zap.Error(err))
			return unauthorized(c, "invalid or expired token")
		}

		c.Locals(CtxUserID, claims.UserID)
		c.Locals(CtxTelegramID, claims.TelegramID)
		c.Locals(CtxLanguage, claims.Language)

		return c.Next()
	}
}

func GetUserID(c *fiber.Ctx) uuid.UUID {
	id, _ := c.Locals(CtxUserID).(uuid.UUID)
	return id
}

func GetTelegramID(c *fiber.Ctx) int64 {
	id, _ := c.Locals(CtxTelegramID).(int64)
	return id
}

func GetLanguage(c *fiber.Ctx) string {
	lang, _ := c.Locals(CtxLanguage).(string)
	return lang
}

func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error":      msg,
		"request_id": GetRequestID(c),
	})
}
