package bot

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usdt-market/backend/internal/models"
)

func TestParseCallback(t *testing.T) {
	id := uuid.MustParse("8f14e45f-ceea-467f-a8c4-1b2e6d3f2a10")

	tests := []struct {
		data    string
		want    Callback
		wantErr bool
	}{
		{data: "buy_product_" + id.String(), want: Callback{Action: ActionBuyProduct, ID: id}},
		{data: "view_product_" + id.String(), want: Callback{Action: ActionViewProduct, ID: id}},
		{data: "select_network_TRC20_" + id.String(), want: Callback{Action: ActionSelectNetwork, Network: models.NetworkTRC20, ID: id}},
		{data: "select_network_bep20_" + id.String(), want: Callback{Action: ActionSelectNetwork, Network: models.NetworkBEP20, ID: id}},
		{data: "check_payment_" + id.String(), want: Callback{Action: ActionCheckPayment, ID: id}},
		{data: "cancel_order_" + id.String(), want: Callback{Action: ActionCancelOrder, ID: id}},
		{data: "select_network_TON_" + id.String(), wantErr: true},
		{data: "select_network_TRC20", wantErr: true},
		{data: "check_payment_not-a-uuid", wantErr: true},
		{data: "my_orders", wantErr: true},
		{data: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.data, func(t *testing.T) {
			got, err := ParseCallback(tt.data)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCallbackDataRoundTrip(t *testing.T) {
	id := uuid.New()
	for _, data := range []string{
		BuyProductData(id),
		ViewProductData(id),
		SelectNetworkData(models.NetworkERC20, id),
		CheckPaymentData(id),
		CancelOrderData(id),
	} {
		cb, err := ParseCallback(data)
		require.NoError(t, err, data)
		assert.Equal(t, id, cb.ID)
		// Telegram rejects callback data above 64 bytes
		assert.LessOrEqual(t, len(data), 64)
	}
}
