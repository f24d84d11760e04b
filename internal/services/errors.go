package services

import "github.com/usdt-market/backend/internal/apperr"

var (
	ErrOrderNotFound      = apperr.NotFound("order not found")
	ErrUserNotFound       = apperr.NotFound("user not found")
	ErrProductUnavailable = apperr.NotFound("product not found or unavailable")
	ErrOwnProduct         = apperr.InvalidState("cannot buy own product")
	ErrNotBuyer           = apperr.Authorization("order belongs to another buyer")
	ErrNotCancellable     = apperr.InvalidState("only pending orders can be cancelled")
	ErrNotPaid            = apperr.InvalidState("order is not paid")
	ErrNotCompletable     = apperr.InvalidState("order is not delivered")
)
