// Package payments matches incoming USDT transfers to pending orders.
package payments

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/usdt-market/backend/internal/explorer"
	"github.com/usdt-market/backend/internal/models"
)

// Tolerance is the absolute difference under which an amount counts as paid.
var Tolerance = decimal.RequireFromString("0.01")

const usdtSymbol = "USDT"

// Transaction is a transfer accepted as payment for an order.
type Transaction struct {
	Hash      string          `json:"hash"`
	Amount    decimal.Decimal `json:"amount"`
	From      string          `json:"from"`
	Timestamp time.Time       `json:"timestamp"`
}

type Request struct {
	Address   string
	Expected  decimal.Decimal
	Network   models.Network
	NotBefore time.Time
	// Skip reports transfers that must not be considered, e.g. already claimed
	// by another order sharing the address.
	Skip func(hash string) bool
}

type Matcher struct {
	sources map[models.Network]explorer.Source
	log     *zap.Logger
}

func NewMatcher(sources []explorer.Source, log *zap.Logger) *Matcher {
	m := &Matcher{sources: make(map[models.Network]explorer.Source, len(sources)), log: log}
	for _, s := range sources {
		m.sources[s.Network()] = s
	}
	return m
}

func (m *Matcher) Supports(network models.Network) bool {
	_, ok := m.sources[network]
	return ok
}

// Match returns the first transfer, in explorer order, that pays req, or nil.
// Explorer failures are logged and reported as no match.
func (m *Matcher) Match(ctx context.Context, req Request) *Transaction {
	src, ok := m.sources[req.Network]
	if !ok {
		m.log.Warn("no explorer for network", zap.String("network", string(req.Network)))
		return nil
	}

	transfers, err := src.Transfers(ctx, req.Address)
	if err != nil {
		m.log.Warn("explorer check failed",
			zap.String("network", string(req.Network)),
			zap.Error(err),
		)
		return nil
	}

	for _, tr := range transfers {
		if !Accepts(tr, req) {
			continue
		}
		if req.Skip != nil && req.Skip(tr.Hash) {
			m.log.Debug("transfer skipped, claimed by another order", zap.String("tx_hash", tr.Hash))
			continue
		}
		return &Transaction{
			Hash:      tr.Hash,
			Amount:    tr.Amount,
			From:      tr.From,
			Timestamp: tr.Timestamp,
		}
	}
	return nil
}

// Accepts applies the matching rule: not older than the order, sent to the
// deposit address, USDT, and within Tolerance of the expected amount.
func Accepts(tr explorer.Transfer, req Request) bool {
	if tr.Timestamp.Before(req.NotBefore) {
		return false
	}
	if !strings.EqualFold(strings.TrimSpace(tr.To), strings.TrimSpace(req.Address)) {
		return false
	}
	if !strings.EqualFold(tr.Symbol, usdtSymbol) {
		return false
	}
	return tr.Amount.Sub(req.Expected).Abs().LessThan(Tolerance)
}
