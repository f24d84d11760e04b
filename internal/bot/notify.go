package bot

import (
	"context"

	"go.uber.org/zap"

	"github.com/usdt-market/backend/internal/events"
	"github.com/usdt-market/backend/internal/services"
)

// Forward sends notifications published on events:bot by other processes
// until ctx is done.
func Forward(ctx context.Context, sub events.Subscriber, m services.Messenger, log *zap.Logger) error {
	err := sub.Subscribe(ctx, events.StreamBot, func(event events.Event) {
		if event.Type != events.EventBotNotification {
			return
		}
		var n services.Notification
		if err := event.Decode(&n); err != nil {
			log.Warn("bad bot notification", zap.Error(err))
			return
		}
		if n.ChatID == 0 {
			return
		}
		log.Debug("forwarding bot notification", zap.Int64("chat_id", n.ChatID))

		var err error
		if len(n.Photo) > 0 {
			err = m.SendPhoto(ctx, n.ChatID, n.Photo, n.Text, n.Keyboard)
		} else {
			err = m.SendMessage(ctx, n.ChatID, n.Text, n.Keyboard)
		}
		if err != nil {
			log.Warn("failed to forward notification", zap.Int64("chat_id", n.ChatID), zap.Error(err))
		}
	})
	if err != nil {
		return err
	}
	<-ctx.Done()
	return nil
}
