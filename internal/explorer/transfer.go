// Package explorer reads USDT transfer history from public block explorers.
// One HTTP Client serves every network; an Adapter supplies the endpoint,
// auth and response mapping of a particular explorer.
package explorer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/usdt-market/backend/internal/models"
)

// USDTDecimals is used when an explorer does not report token decimals.
const USDTDecimals int32 = 6

// USDT token contracts per network.
var USDTContracts = map[models.Network]string{
	models.NetworkTRC20: "TR7NHqjeKQxGTCi8q8ZY4pL8otSzgjLj6t",
	models.NetworkERC20: "0xdac17f958d2ee523a2206206994597c13d831ec7",
	models.NetworkBEP20: "0x55d398326f99059ff775485246999027b3197955",
}

// Transfer is one incoming token transfer as seen by an explorer.
type Transfer struct {
	Hash      string
	From      string
	To        string
	Symbol    string
	Amount    decimal.Decimal
	Timestamp time.Time
}

// Source lists recent transfers to an address on one network.
type Source interface {
	Network() models.Network
	Transfers(ctx context.Context, address string) ([]Transfer, error)
}

// amountFromBaseUnits converts an integer token amount using the reported
// decimals, falling back to USDTDecimals when the explorer leaves it out.
func amountFromBaseUnits(raw, decimals string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("amount %q: %w", raw, err)
	}
	exp := USDTDecimals
	if d, err := decimal.NewFromString(strings.TrimSpace(decimals)); err == nil && d.IsPositive() && d.IsInteger() {
		exp = int32(d.IntPart())
	}
	return v.Shift(-exp), nil
}
