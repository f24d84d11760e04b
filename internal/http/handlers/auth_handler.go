package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/usdt-market/backend/internal/auth"
	"github.com/usdt-market/backend/internal/http/dto"
	"github.com/usdt-market/backend/internal/i18n"
	"github.com/usdt-market/backend/internal/middleware"
	"github.com/usdt-market/backend/internal/models"
)

type UserStore interface {
	UpsertByTelegramID(ctx context.Context, telegramID int64, username, firstName *string, language string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type AuthConfig struct {
	WebAppSecret   string
	JWTSecret      string
	JWTExpiration  time.Duration
	InitDataMaxAge time.Duration
}

type AuthHandler struct {
	users UserStore
	cfg   AuthConfig
	log   *zap.Logger
}

func NewAuthHandler(users UserStore, cfg AuthConfig, log *zap.Logger) *AuthHandler {
	return &AuthHandler{users: users, cfg: cfg, log: log}
}

// TelegramAuth exchanges mini-app initData for an API token.
func (h *AuthHandler) TelegramAuth(c *fiber.Ctx) error {
	var req dto.AuthTelegramRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.InitData == "" {
		return badRequest(c, "init_data is required")
	}

	vals, err := auth.ValidateTelegramWebAppData(req.InitData, h.cfg.WebAppSecret, h.cfg.InitDataMaxAge)
	if err != nil {
		h.log.Debug("telegram auth validation failed", zap.String("request_id", middleware.GetRequestID(c)), zap.Error(err))
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: err.Error(), RequestID: middleware.GetRequestID(c)})
	}

	tgUser, err := auth.ParseWebAppUser(vals)
	if err != nil {
		return badRequest(c, err.Error())
	}

	var lang string
	if tgUser.LanguageCode != "" {
		lang = i18n.Normalize(tgUser.LanguageCode)
	}
	user, err := h.users.UpsertByTelegramID(c.Context(), tgUser.ID, optional(tgUser.Username), optional(tgUser.FirstName), lang)
	if err != nil {
		return respondError(c, h.log, err)
	}

	token, err := auth.GenerateJWT(h.cfg.JWTSecret, user.ID, user.TelegramID, user.Language, h.cfg.JWTExpiration)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(dto.AuthResponse{
		Token: token,
		User:  user,
	})
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
