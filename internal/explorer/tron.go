package explorer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/usdt-market/backend/internal/models"
)

// TronGrid reads TRC20 transfers from the TronGrid v1 API.
type TronGrid struct {
	BaseURL  string
	APIKey   string
	Contract string
	Limit    int
}

func NewTronGrid(baseURL, apiKey string, limit int) *TronGrid {
	return &TronGrid{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		APIKey:   apiKey,
		Contract: USDTContracts[models.NetworkTRC20],
		Limit:    limit,
	}
}

func (t *TronGrid) Network() models.Network { return models.NetworkTRC20 }

func (t *TronGrid) NewRequest(ctx context.Context, address string) (*http.Request, error) {
	limit := t.Limit
	if limit <= 0 {
		limit = 50
	}
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("contract_address", t.Contract)
	q.Set("only_confirmed", "true")

	u := fmt.Sprintf("%s/v1/accounts/%s/transactions/trc20?%s", t.BaseURL, url.PathEscape(address), q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if t.APIKey != "" {
		req.Header.Set("TRON-PRO-API-KEY", t.APIKey)
	}
	return req, nil
}

type tronResponse struct {
	Success *bool          `json:"success"`
	Error   string         `json:"error"`
	Data    []tronTransfer `json:"data"`
}

type tronTransfer struct {
	TransactionID  string `json:"transaction_id"`
	BlockTimestamp int64  `json:"block_timestamp"` // ms
	From           string `json:"from"`
	To             string `json:"to"`
	Value          string `json:"value"`
	TokenInfo      struct {
		Symbol   string `json:"symbol"`
		Decimals int    `json:"decimals"`
	} `json:"token_info"`
}

func (t *TronGrid) Decode(body []byte) ([]Transfer, error) {
	var resp tronResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}
	if resp.Success != nil && !*resp.Success {
		return nil, fmt.Errorf("trongrid error: %s", resp.Error)
	}

	out := make([]Transfer, 0, len(resp.Data))
	for _, tx := range resp.Data {
		decimals := ""
		if tx.TokenInfo.Decimals > 0 {
			decimals = strconv.Itoa(tx.TokenInfo.Decimals)
		}
		amount, err := amountFromBaseUnits(tx.Value, decimals)
		if err != nil {
			return nil, fmt.Errorf("tx %s: %w", tx.TransactionID, err)
		}
		out = append(out, Transfer{
			Hash:      tx.TransactionID,
			From:      tx.From,
			To:        tx.To,
			Symbol:    tx.TokenInfo.Symbol,
			Amount:    amount,
			Timestamp: time.UnixMilli(tx.BlockTimestamp),
		})
	}
	return out, nil
}
