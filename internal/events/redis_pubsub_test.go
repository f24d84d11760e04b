package events

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRedisPubSub(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan Event, 1)
	sub := NewRedisSubscriber(client, zap.NewNop())
	require.NoError(t, sub.Subscribe(ctx, StreamOrders, func(e Event) { got <- e }))

	pub := NewRedisPublisher(client, zap.NewNop())
	require.NoError(t, pub.Publish(ctx, StreamOrders, Event{
		Type:    EventOrderStatusChanged,
		Payload: map[string]any{"order_ref": "ORD-1", "new_status": "paid"},
	}))

	select {
	case e := <-got:
		assert.Equal(t, EventOrderStatusChanged, e.Type)
		assert.Equal(t, "ORD-1", e.Payload["order_ref"])
		assert.Equal(t, "paid", e.Payload["new_status"])
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	type notification struct {
		ChatID int64  `json:"chat_id"`
		Text   string `json:"text"`
		Photo  []byte `json:"photo,omitempty"`
	}
	in := notification{ChatID: 987654321012, Text: "hi", Photo: []byte{0x89, 'P', 'N', 'G'}}

	payload, err := ToPayload(in)
	require.NoError(t, err)

	var out notification
	require.NoError(t, Event{Type: EventBotNotification, Payload: payload}.Decode(&out))
	assert.Equal(t, in, out)
}
