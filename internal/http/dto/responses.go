package dto

import (
	"github.com/usdt-market/backend/internal/models"
	"github.com/usdt-market/backend/internal/services"
)

type AuthResponse struct {
	Token string `json:"token"`
	User  any    `json:"user"`
}

type ErrorResponse struct {
	Error     string `json:"error"`
	Kind      string `json:"kind,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type SuccessResponse struct {
	OK   bool `json:"ok"`
	Data any  `json:"data,omitempty"`
}

type NetworkResponse struct {
	Network models.Network `json:"network"`
	Label   string         `json:"label"`
	Address string         `json:"address"`
}

type CreateOrderResponse struct {
	Order        *models.Order        `json:"order"`
	Payment      services.PaymentInfo `json:"payment"`
	Instructions string               `json:"instructions"`
	QRCode       string               `json:"qr_code,omitempty"` // data URL, PNG
}

type CheckPaymentResponse struct {
	Found     bool          `json:"found"`
	Reason    string        `json:"reason,omitempty"`
	TxHash    string        `json:"tx_hash,omitempty"`
	Delivered bool          `json:"delivered"`
	Order     *models.Order `json:"order"`
}
