package bot

import (
	"bytes"
	"context"
	"fmt"

	tele "gopkg.in/telebot.v3"

	"github.com/usdt-market/backend/internal/services"
)

// sender is the part of *tele.Bot used for outgoing messages.
type sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// TeleMessenger sends Markdown messages through the bot API.
type TeleMessenger struct {
	api sender
}

func NewTeleMessenger(api sender) *TeleMessenger {
	return &TeleMessenger{api: api}
}

func (m *TeleMessenger) SendMessage(ctx context.Context, chatID int64, text string, kb *services.Keyboard) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := m.api.Send(tele.ChatID(chatID), text, options(kb)); err != nil {
		return fmt.Errorf("send message to %d: %w", chatID, err)
	}
	return nil
}

func (m *TeleMessenger) SendPhoto(ctx context.Context, chatID int64, png []byte, caption string, kb *services.Keyboard) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	photo := &tele.Photo{File: tele.FromReader(bytes.NewReader(png)), Caption: caption}
	if _, err := m.api.Send(tele.ChatID(chatID), photo, options(kb)); err != nil {
		return fmt.Errorf("send photo to %d: %w", chatID, err)
	}
	return nil
}

func options(kb *services.Keyboard) *tele.SendOptions {
	opts := &tele.SendOptions{ParseMode: tele.ModeMarkdown}
	if kb != nil && len(kb.Rows) > 0 {
		opts.ReplyMarkup = inlineMarkup(kb)
	}
	return opts
}

func inlineMarkup(kb *services.Keyboard) *tele.ReplyMarkup {
	rows := make([][]tele.InlineButton, 0, len(kb.Rows))
	for _, row := range kb.Rows {
		buttons := make([]tele.InlineButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tele.InlineButton{Text: b.Text, Data: b.Data, URL: b.URL})
		}
		rows = append(rows, buttons)
	}
	return &tele.ReplyMarkup{InlineKeyboard: rows}
}
