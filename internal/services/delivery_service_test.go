package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usdt-market/backend/internal/apperr"
	"github.com/usdt-market/backend/internal/models"
)

func (f *fixture) paidOrder(t *testing.T) *models.Order {
	t.Helper()
	o := f.create(t)
	f.matcher.SetTx(transfer("tx-"+o.OrderID, "10.5", o.CreatedAt.Add(30*time.Second)))
	res, err := f.svc.CheckPayment(context.Background(), o.ID)
	require.NoError(t, err)
	require.True(t, res.Found)
	return res.Order
}

func TestHappyPath(t *testing.T) {
	f := newFixture(t)
	o := f.paidOrder(t)

	d, err := f.delivery.Deliver(context.Background(), o.ID, 555)
	require.NoError(t, err)

	stored := f.orders.Get(o.ID)
	assert.Equal(t, models.OrderStatusDelivered, stored.Status)
	require.NotNil(t, stored.DeliveredAt)
	assert.Equal(t, f.now.Add(time.Minute), *stored.DeliveredAt)

	assert.Equal(t, 1, f.users.Snapshot(f.seller.ID).SalesCount)
	assert.Equal(t, 1, f.users.Snapshot(f.buyer.ID).PurchasesCount)
	p, _ := f.products.GetByID(context.Background(), f.product.ID)
	assert.Equal(t, 1, p.SalesCount)

	assert.Equal(t, "https://files.example.com/ebook.pdf", d.Payload)
	assert.Equal(t, models.FileTypeLink, d.FileType)

	sent := f.messenger.Sent()
	require.Len(t, sent, 2)

	buyerMsg := sent[0]
	assert.Equal(t, int64(555), buyerMsg.ChatID)
	assert.Contains(t, buyerMsg.Text, "✅ Payment confirmed!")
	assert.Contains(t, buyerMsg.Text, `*Go\_patterns ebook*`)
	assert.Contains(t, buyerMsg.Text, "📎 File/link:\nhttps://files.example.com/ebook.pdf")
	require.NotNil(t, buyerMsg.KB)
	assert.Equal(t, "review_order_"+o.ID.String(), buyerMsg.KB.Rows[0][0].Data)
	assert.Equal(t, "my_orders", buyerMsg.KB.Rows[1][0].Data)

	sellerMsg := sent[1]
	assert.Equal(t, f.seller.TelegramID, sellerMsg.ChatID)
	assert.Contains(t, sellerMsg.Text, "10.5 USDT")
	assert.Contains(t, sellerMsg.Text, "Комиссия: 0.5 USDT")
	assert.Contains(t, sellerMsg.Text, "К получению: 10.00 USDT")

	assert.Contains(t, f.audit.Actions(), "order_status_paid_to_delivered")
}

func TestDeliver_ExactlyOnce(t *testing.T) {
	f := newFixture(t)
	o := f.paidOrder(t)

	var wg sync.WaitGroup
	errs := make(chan error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.delivery.Deliver(context.Background(), o.ID, 0)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	ok := 0
	for err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, ErrNotPaid)
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, f.users.Snapshot(f.seller.ID).SalesCount)
	assert.Equal(t, 1, f.users.Snapshot(f.buyer.ID).PurchasesCount)
}

func TestDeliver_RequiresPaid(t *testing.T) {
	f := newFixture(t)
	o := f.create(t)

	_, err := f.delivery.Deliver(context.Background(), o.ID, 0)
	assert.ErrorIs(t, err, ErrNotPaid)
	assert.True(t, apperr.Is(err, apperr.KindInvalidState))
	assert.Equal(t, models.OrderStatusPending, f.orders.Get(o.ID).Status)
	assert.Empty(t, f.messenger.Sent())

	_, err = f.delivery.Deliver(context.Background(), uuid.New(), 0)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestDeliver_NotificationFailureKeepsState(t *testing.T) {
	f := newFixture(t)
	o := f.paidOrder(t)
	f.messenger.err = errBoom

	_, err := f.delivery.Deliver(context.Background(), o.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, f.orders.Get(o.ID).Status)
	assert.Equal(t, 1, f.users.Snapshot(f.buyer.ID).PurchasesCount)
}

func TestDeliver_DefaultChatAndPayloadKinds(t *testing.T) {
	tests := []struct {
		fileType string
		payload  string
		label    string
	}{
		{models.FileTypeText, "LICENSE-KEY-123", "📝 Text/code:"},
		{models.FileTypeFile, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.fileType, func(t *testing.T) {
			f := newFixture(t)
			secret := "LICENSE-KEY-123"
			f.product.FileType = tt.fileType
			f.product.FileURL = &secret
			o := f.paidOrder(t)

			d, err := f.delivery.Deliver(context.Background(), o.ID, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.payload, d.Payload)

			buyerMsg := f.messenger.Sent()[0]
			assert.Equal(t, f.buyer.TelegramID, buyerMsg.ChatID)
			if tt.label != "" {
				assert.Contains(t, buyerMsg.Text, tt.label+"\n"+tt.payload)
			} else {
				assert.NotContains(t, buyerMsg.Text, secret)
			}
		})
	}
}

func TestSellerSaleText_NetRounding(t *testing.T) {
	o := &models.Order{}
	o.Price, o.Commission = mustDec("20.9895"), mustDec("0.9995")
	text := SellerSaleText(&Delivery{Order: o, ProductTitle: "x"}, "en")
	assert.True(t, strings.HasSuffix(text, "To receive: 19.99 USDT"), text)
}
