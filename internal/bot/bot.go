// Package bot is the Telegram front of the order flow.
package bot

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handlerTimeout bounds one update; a manual check may hit three explorers.
const handlerTimeout = 60 * time.Second

// Bot wraps the telebot instance.
type Bot struct {
	tb  *tele.Bot
	log *zap.Logger
}

func New(token string, log *zap.Logger) (*Bot, error) {
	tb, err := tele.NewBot(tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			log.Error("telebot error", zap.Error(err))
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create telebot: %w", err)
	}
	return &Bot{tb: tb, log: log}, nil
}

// Messenger sends through this bot session.
func (b *Bot) Messenger() *TeleMessenger {
	return NewTeleMessenger(b.tb)
}

func (b *Bot) Register(h *Handler) {
	b.tb.Handle("/start", func(c tele.Context) error {
		ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
		defer cancel()
		return h.Start(ctx, chatOf(c), senderOf(c.Sender()))
	})
	b.tb.Handle(tele.OnCallback, func(c tele.Context) error {
		_ = c.Respond()
		ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
		defer cancel()
		return h.Callback(ctx, chatOf(c), senderOf(c.Sender()), c.Callback().Data)
	})
}

// Run polls updates until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		b.tb.Stop()
	}()
	b.log.Info("telegram bot started", zap.String("username", b.tb.Me.Username))
	b.tb.Start()
	return nil
}

func chatOf(c tele.Context) int64 {
	if chat := c.Chat(); chat != nil {
		return chat.ID
	}
	return c.Sender().ID
}

func senderOf(u *tele.User) Sender {
	if u == nil {
		return Sender{}
	}
	return Sender{
		TelegramID:   u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LanguageCode: u.LanguageCode,
	}
}
