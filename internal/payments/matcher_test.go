package payments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/usdt-market/backend/internal/apperr"
	"github.com/usdt-market/backend/internal/explorer"
	"github.com/usdt-market/backend/internal/models"
)

type fakeSource struct {
	network   models.Network
	transfers []explorer.Transfer
	err       error
	calls     int
}

func (f *fakeSource) Network() models.Network { return f.network }

func (f *fakeSource) Transfers(ctx context.Context, address string) ([]explorer.Transfer, error) {
	f.calls++
	return f.transfers, f.err
}

var (
	created = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	wallet  = "TWalletAddress"
)

func usdt(hash, amount string, at time.Time) explorer.Transfer {
	return explorer.Transfer{
		Hash:      hash,
		From:      "TPayer",
		To:        wallet,
		Symbol:    "USDT",
		Amount:    decimal.RequireFromString(amount),
		Timestamp: at,
	}
}

func request(expected string) Request {
	return Request{
		Address:   wallet,
		Expected:  decimal.RequireFromString(expected),
		Network:   models.NetworkTRC20,
		NotBefore: created,
	}
}

func TestMatch_Tolerance(t *testing.T) {
	tests := []struct {
		amount string
		want   bool
	}{
		{"10.5", true},
		{"10.509", true},
		{"10.491", true},
		{"10.52", false},
		{"10.48", false},
		{"10.51", false}, // exactly 0.01 away is outside
		{"105", false},
	}
	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			src := &fakeSource{network: models.NetworkTRC20, transfers: []explorer.Transfer{
				usdt("h1", tt.amount, created.Add(30*time.Second)),
			}}
			m := NewMatcher([]explorer.Source{src}, zap.NewNop())
			tx := m.Match(context.Background(), request("10.5"))
			assert.Equal(t, tt.want, tx != nil)
		})
	}
}

func TestMatch_TimeWindow(t *testing.T) {
	src := &fakeSource{network: models.NetworkTRC20, transfers: []explorer.Transfer{
		usdt("before", "10.5", created.Add(-time.Second)),
	}}
	m := NewMatcher([]explorer.Source{src}, zap.NewNop())
	assert.Nil(t, m.Match(context.Background(), request("10.5")))

	src.transfers = append(src.transfers, usdt("at", "10.5", created))
	tx := m.Match(context.Background(), request("10.5"))
	require.NotNil(t, tx)
	assert.Equal(t, "at", tx.Hash)
}

func TestMatch_Filters(t *testing.T) {
	wrongSymbol := usdt("sym", "10.5", created.Add(time.Minute))
	wrongSymbol.Symbol = "USDC"
	wrongRecipient := usdt("to", "10.5", created.Add(time.Minute))
	wrongRecipient.To = "TSomeoneElse"
	mixedCase := usdt("case", "10.5", created.Add(time.Minute))
	mixedCase.To = "twalletaddress"

	src := &fakeSource{network: models.NetworkTRC20, transfers: []explorer.Transfer{wrongSymbol, wrongRecipient, mixedCase}}
	m := NewMatcher([]explorer.Source{src}, zap.NewNop())

	tx := m.Match(context.Background(), request("10.5"))
	require.NotNil(t, tx)
	assert.Equal(t, "case", tx.Hash)
	assert.Equal(t, "TPayer", tx.From)
	assert.True(t, tx.Amount.Equal(decimal.RequireFromString("10.5")))
	assert.Equal(t, created.Add(time.Minute), tx.Timestamp)
}

func TestMatch_FirstInExplorerOrder(t *testing.T) {
	src := &fakeSource{network: models.NetworkTRC20, transfers: []explorer.Transfer{
		usdt("newest", "10.5", created.Add(2*time.Minute)),
		usdt("older", "10.5", created.Add(time.Minute)),
	}}
	m := NewMatcher([]explorer.Source{src}, zap.NewNop())
	tx := m.Match(context.Background(), request("10.5"))
	require.NotNil(t, tx)
	assert.Equal(t, "newest", tx.Hash)
}

func TestMatch_Skip(t *testing.T) {
	src := &fakeSource{network: models.NetworkTRC20, transfers: []explorer.Transfer{
		usdt("claimed", "10.5", created.Add(2*time.Minute)),
		usdt("free", "10.5", created.Add(time.Minute)),
	}}
	m := NewMatcher([]explorer.Source{src}, zap.NewNop())

	req := request("10.5")
	req.Skip = func(hash string) bool { return hash == "claimed" }
	tx := m.Match(context.Background(), req)
	require.NotNil(t, tx)
	assert.Equal(t, "free", tx.Hash)
}

func TestMatch_ExplorerErrorIsNoMatch(t *testing.T) {
	src := &fakeSource{network: models.NetworkTRC20, err: apperr.External(errors.New("timeout"), "TRC20 explorer")}
	m := NewMatcher([]explorer.Source{src}, zap.NewNop())
	assert.Nil(t, m.Match(context.Background(), request("10.5")))
	assert.Equal(t, 1, src.calls)
}

func TestMatch_UnsupportedNetwork(t *testing.T) {
	m := NewMatcher(nil, zap.NewNop())
	assert.False(t, m.Supports(models.NetworkERC20))
	req := request("10.5")
	req.Network = models.NetworkERC20
	assert.Nil(t, m.Match(context.Background(), req))
}
