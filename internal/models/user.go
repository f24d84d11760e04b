package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type User struct {
	ID             uuid.UUID       `json:"id"`
	TelegramID     int64           `json:"telegram_id"`
	Username       *string         `json:"username,omitempty"`
	FirstName      *string         `json:"first_name,omitempty"`
	Language       string          `json:"language"` // ru / en / uk
	Balance        decimal.Decimal `json:"balance"`
	SalesCount     int             `json:"sales_count"`
	PurchasesCount int             `json:"purchases_count"`
	CreatedAt      time.Time       `json:"created_at"`
	LastActiveAt   time.Time       `json:"last_active_at"`
}
