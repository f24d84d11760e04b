package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/usdt-market/backend/internal/apperr"
	"github.com/usdt-market/backend/internal/http/dto"
	"github.com/usdt-market/backend/internal/middleware"
)

// StatusFor maps an error kind to the HTTP status the API answers with.
func StatusFor(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindConfiguration:
		return fiber.StatusServiceUnavailable
	case apperr.KindNotFound:
		return fiber.StatusNotFound
	case apperr.KindAuthorization:
		return fiber.StatusForbidden
	case apperr.KindInvalidState:
		return fiber.StatusConflict
	case apperr.KindExternal:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes err as dto.ErrorResponse. Unclassified errors are
// logged and hidden from the client.
func respondError(c *fiber.Ctx, log *zap.Logger, err error) error {
	status := StatusFor(err)
	reqID := middleware.GetRequestID(c)
	resp := dto.ErrorResponse{Error: err.Error(), RequestID: reqID}
	if kind := apperr.KindOf(err); kind != apperr.Unknown {
		resp.Kind = kind.String()
	}
	if status == fiber.StatusInternalServerError {
		log.Error("request failed", zap.String("request_id", reqID), zap.String("path", c.Path()), zap.Error(err))
		resp.Error = "internal server error"
	}
	return c.Status(status).JSON(resp)
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: msg, RequestID: middleware.GetRequestID(c)})
}
