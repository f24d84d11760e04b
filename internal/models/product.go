package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	ProductStatusActive     = "active"
	ProductStatusSold       = "sold"
	ProductStatusHidden     = "hidden"
	ProductStatusModeration = "moderation"
)

// Delivery payload kinds
const (
	FileTypeLink = "link"
	FileTypeFile = "file"
	FileTypeText = "text"
)

type Product struct {
	ID         uuid.UUID       `json:"id"`
	SellerID   uuid.UUID       `json:"seller_id"`
	Title      string          `json:"title"`
	Price      decimal.Decimal `json:"price"`
	FileURL    *string         `json:"-"` // delivered only after payment
	FileType   string          `json:"file_type"`
	Status     string          `json:"status"`
	SalesCount int             `json:"sales_count"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func (p *Product) IsPurchasable() bool {
	return p.Status == ProductStatusActive
}
