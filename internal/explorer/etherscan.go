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

// Etherscan reads token transfers from an Etherscan-compatible API. The same
// adapter serves ERC20 (etherscan.io) and BEP20 (bscscan.com).
type Etherscan struct {
	network  models.Network
	BaseURL  string
	APIKey   string
	Contract string
	Limit    int
}

func NewEtherscan(network models.Network, baseURL, apiKey string, limit int) *Etherscan {
	return &Etherscan{
		network:  network,
		BaseURL:  baseURL,
		APIKey:   apiKey,
		Contract: USDTContracts[network],
		Limit:    limit,
	}
}

func (e *Etherscan) Network() models.Network { return e.network }

func (e *Etherscan) NewRequest(ctx context.Context, address string) (*http.Request, error) {
	q := url.Values{}
	q.Set("module", "account")
	q.Set("action", "tokentx")
	q.Set("contractaddress", e.Contract)
	q.Set("address", address)
	q.Set("startblock", "0")
	q.Set("endblock", "99999999")
	q.Set("sort", "desc")
	if e.Limit > 0 {
		q.Set("page", "1")
		q.Set("offset", strconv.Itoa(e.Limit))
	}
	if e.APIKey != "" {
		q.Set("apikey", e.APIKey)
	}

	sep := "?"
	if strings.Contains(e.BaseURL, "?") {
		sep = "&"
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.BaseURL+sep+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

type etherscanResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

type etherscanTransfer struct {
	Hash         string `json:"hash"`
	TimeStamp    string `json:"timeStamp"` // seconds
	From         string `json:"from"`
	To           string `json:"to"`
	Value        string `json:"value"`
	TokenSymbol  string `json:"tokenSymbol"`
	TokenDecimal string `json:"tokenDecimal"`
}

func (e *Etherscan) Decode(body []byte) ([]Transfer, error) {
	var resp etherscanResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}
	if resp.Status != "1" {
		// "No transactions found" comes back as status 0 with an empty list
		if strings.HasPrefix(strings.ToLower(resp.Message), "no transactions") {
			return nil, nil
		}
		var reason string
		if err := json.Unmarshal(resp.Result, &reason); err != nil {
			reason = string(resp.Result)
		}
		return nil, fmt.Errorf("%s api error: %s: %s", e.network, resp.Message, reason)
	}

	var txs []etherscanTransfer
	if err := json.Unmarshal(resp.Result, &txs); err != nil {
		return nil, err
	}

	out := make([]Transfer, 0, len(txs))
	for _, tx := range txs {
		ts, err := strconv.ParseInt(tx.TimeStamp, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("tx %s timestamp %q: %w", tx.Hash, tx.TimeStamp, err)
		}
		amount, err := amountFromBaseUnits(tx.Value, tx.TokenDecimal)
		if err != nil {
			return nil, fmt.Errorf("tx %s: %w", tx.Hash, err)
		}
		out = append(out, Transfer{
			Hash:      tx.Hash,
			From:      tx.From,
			To:        tx.To,
			Symbol:    tx.TokenSymbol,
			Amount:    amount,
			Timestamp: time.Unix(ts, 0),
		})
	}
	return out, nil
}
