package services

import (
	"context"

	"github.com/usdt-market/backend/internal/events"
)

// Messenger delivers chat messages to Telegram users.
type Messenger interface {
	SendMessage(ctx context.Context, chatID int64, text string, kb *Keyboard) error
	SendPhoto(ctx context.Context, chatID int64, png []byte, caption string, kb *Keyboard) error
}

// Button is an inline button carrying callback data or a URL.
type Button struct {
	Text string `json:"text"`
	Data string `json:"data,omitempty"`
	URL  string `json:"url,omitempty"`
}

type Keyboard struct {
	Rows [][]Button `json:"rows"`
}

// Row appends a row of buttons and returns the keyboard.
func (k *Keyboard) Row(buttons ...Button) *Keyboard {
	k.Rows = append(k.Rows, buttons)
	return k
}

// Notification is the bot_notification event payload.
type Notification struct {
	ChatID   int64     `json:"chat_id"`
	Text     string    `json:"text"`
	Photo    []byte    `json:"photo,omitempty"`
	Keyboard *Keyboard `json:"keyboard,omitempty"`
}

// EventMessenger is a Messenger for processes without a bot session: messages
// are published on events.StreamBot and sent by the bot process.
type EventMessenger struct {
	publisher events.Publisher
}

func NewEventMessenger(publisher events.Publisher) *EventMessenger {
	return &EventMessenger{publisher: publisher}
}

func (m *EventMessenger) SendMessage(ctx context.Context, chatID int64, text string, kb *Keyboard) error {
	return m.publish(ctx, Notification{ChatID: chatID, Text: text, Keyboard: kb})
}

func (m *EventMessenger) SendPhoto(ctx context.Context, chatID int64, png []byte, caption string, kb *Keyboard) error {
	return m.publish(ctx, Notification{ChatID: chatID, Text: caption, Photo: png, Keyboard: kb})
}

func (m *EventMessenger) publish(ctx context.Context, n Notification) error {
	payload, err := events.ToPayload(n)
	if err != nil {
		return err
	}
	return m.publisher.Publish(ctx, events.StreamBot, events.Event{
		Type:    events.EventBotNotification,
		Payload: payload,
	})
}
