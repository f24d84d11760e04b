package models

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order statuses
const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusDelivered = "delivered"
	OrderStatusCompleted = "completed"
	OrderStatusDisputed  = "disputed"
	OrderStatusCancelled = "cancelled"
	OrderStatusRefunded  = "refunded"
)

// Valid state transitions: from -> []to.
// disputed/refunded exist as data only, nothing in the engine drives them.
var ValidOrderTransitions = map[string][]string{
	OrderStatusPending:   {OrderStatusPaid, OrderStatusCancelled},
	OrderStatusPaid:      {OrderStatusDelivered},
	OrderStatusDelivered: {OrderStatusCompleted, OrderStatusDisputed},
	OrderStatusDisputed:  {OrderStatusRefunded, OrderStatusCompleted},
	OrderStatusCompleted: {},
	OrderStatusCancelled: {},
	OrderStatusRefunded:  {},
}

func IsValidTransition(from, to string) bool {
	allowed, ok := ValidOrderTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

type Network string

const (
	NetworkTRC20 Network = "TRC20"
	NetworkERC20 Network = "ERC20"
	NetworkBEP20 Network = "BEP20"
)

// Networks lists supported networks in menu order.
var Networks = []Network{NetworkTRC20, NetworkERC20, NetworkBEP20}

func ParseNetwork(s string) (Network, bool) {
	n := Network(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Networks {
		if n == known {
			return n, true
		}
	}
	return "", false
}

type Order struct {
	ID             uuid.UUID       `json:"id"`
	OrderID        string          `json:"order_id"` // ORD-XXXX-XXXXX
	BuyerID        uuid.UUID       `json:"buyer_id"`
	SellerID       uuid.UUID       `json:"seller_id"`
	ProductID      uuid.UUID       `json:"product_id"`
	Price          decimal.Decimal `json:"price"`      // product price + commission
	Commission     decimal.Decimal `json:"commission"` // frozen at creation
	PaymentAddress string          `json:"payment_address"`
	PaymentNetwork Network         `json:"payment_network"`
	TxHash         *string         `json:"tx_hash,omitempty"`
	Status         string          `json:"status"`
	EscrowUntil    *time.Time      `json:"escrow_until,omitempty"`
	DisputeReason  *string         `json:"dispute_reason,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	PaidAt         *time.Time      `json:"paid_at,omitempty"`
	DeliveredAt    *time.Time      `json:"delivered_at,omitempty"`
	CompletedAt    *time.Time      `json:"completed_at,omitempty"`
}

// NetPayable is what the seller receives: price minus commission.
func (o *Order) NetPayable() decimal.Decimal {
	return o.Price.Sub(o.Commission)
}

func (o *Order) SetEscrow(from time.Time, hours int) {
	until := from.Add(time.Duration(hours) * time.Hour)
	o.EscrowUntil = &until
}

func (o *Order) IsEscrowExpired(now time.Time) bool {
	if o.EscrowUntil == nil {
		return false
	}
	return now.After(*o.EscrowUntil)
}

const orderIDRandomLen = 5

// GenerateOrderID builds a human-readable id: ORD-<base36 unix ms>-<5 random base36>.
func GenerateOrderID(now time.Time) string {
	ts := strconv.FormatInt(now.UnixMilli(), 36)
	return strings.ToUpper("ORD-" + ts + "-" + randomBase36(orderIDRandomLen))
}

func randomBase36(n int) string {
	const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	max := big.NewInt(int64(len(alphabet)))
	var b strings.Builder
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			b.WriteByte(alphabet[i%len(alphabet)])
			continue
		}
		b.WriteByte(alphabet[idx.Int64()])
	}
	return b.String()
}
