package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/usdt-market/backend/internal/http/dto"
	"github.com/usdt-market/backend/internal/middleware"
	"github.com/usdt-market/backend/internal/repositories"
	"github.com/usdt-market/backend/internal/services"
)

type UserHandler struct {
	users UserStore
	log   *zap.Logger
}

func NewUserHandler(users UserStore, log *zap.Logger) *UserHandler {
	return &UserHandler{users: users, log: log}
}

func (h *UserHandler) GetMe(c *fiber.Ctx) error {
	user, err := h.users.GetByID(c.Context(), middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			err = services.ErrUserNotFound
		}
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: user})
}
