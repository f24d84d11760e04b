package services

import (
	"bytes"
	"context"
	"image/png"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usdt-market/backend/internal/events"
	"github.com/usdt-market/backend/internal/models"
)

func mustDec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestPaymentInstructions(t *testing.T) {
	info := PaymentInfo{
		OrderRef:     "ORD-LX1-ABCDE",
		Amount:       mustDec("10.5"),
		Commission:   mustDec("0.5"),
		ProductPrice: mustDec("10"),
		Network:      models.NetworkTRC20,
		Address:      "TWalletAddress",
	}

	text := PaymentInstructions(info, "en")
	assert.Contains(t, text, "💳 Payment Information")
	assert.Contains(t, text, "💵 Amount: 10 USDT")
	assert.Contains(t, text, "💼 Commission: 0.5 USDT")
	assert.Contains(t, text, "💰 Total to pay: *10.5 USDT*")
	assert.Contains(t, text, "🌐 Network: TRC20")
	assert.Contains(t, text, "`ORD-LX1-ABCDE`")
	assert.Contains(t, text, "`TWalletAddress`")
	assert.Contains(t, text, "• Send EXACTLY 10.5 USDT")

	ru := PaymentInstructions(info, "ru")
	assert.Contains(t, ru, "💳 Информация об оплате")
	uk := PaymentInstructions(info, "uk")
	assert.Contains(t, uk, "💰 Всього до сплати: *10.5 USDT*")
}

func TestQRCode(t *testing.T) {
	data, err := QRCode("TR7NHqjeKQxGTCi8q8ZY4pL8otSzgjLj6t")
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 400, img.Bounds().Dx())
	assert.Equal(t, 400, img.Bounds().Dy())
}

func TestEventMessenger(t *testing.T) {
	pub := &MockPublisher{}
	m := NewEventMessenger(pub)

	kb := (&Keyboard{}).Row(Button{Text: "ok", Data: "my_orders"})
	require.NoError(t, m.SendPhoto(context.Background(), 42, []byte{1, 2, 3}, "caption", kb))

	require.Len(t, pub.events, 1)
	e := pub.events[0]
	assert.Equal(t, events.EventBotNotification, e.Type)

	var n Notification
	require.NoError(t, e.Decode(&n))
	assert.Equal(t, int64(42), n.ChatID)
	assert.Equal(t, "caption", n.Text)
	assert.Equal(t, []byte{1, 2, 3}, n.Photo)
	assert.Equal(t, "my_orders", n.Keyboard.Rows[0][0].Data)
}
