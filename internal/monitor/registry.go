// Package monitor runs automatic payment checks, at most one per chat.
package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/usdt-market/backend/internal/apperr"
	"github.com/usdt-market/backend/internal/i18n"
	"github.com/usdt-market/backend/internal/models"
	"github.com/usdt-market/backend/internal/services"
)

type OrderChecker interface {
	GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	CheckPayment(ctx context.Context, orderID uuid.UUID) (*services.PaymentCheck, error)
}

type Deliverer interface {
	Deliver(ctx context.Context, orderID uuid.UUID, chatID int64) (*services.Delivery, error)
}

type Options struct {
	Interval  time.Duration
	MaxChecks int
}

type watch struct {
	chatID  int64
	orderID uuid.UUID
	lang    string
	cancel  context.CancelFunc
}

// Registry owns the payment loops keyed by chat. Starting a loop for a chat
// retires the chat's previous loop.
type Registry struct {
	orders    OrderChecker
	deliverer Deliverer
	messenger services.Messenger
	opts      Options
	log       *zap.Logger

	root   context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	watches map[int64]*watch
}

func NewRegistry(orders OrderChecker, deliverer Deliverer, messenger services.Messenger, opts Options, log *zap.Logger) *Registry {
	if opts.Interval <= 0 {
		opts.Interval = 5 * time.Second
	}
	if opts.MaxChecks <= 0 {
		opts.MaxChecks = 120
	}
	root, cancel := context.WithCancel(context.Background())
	return &Registry{
		orders:    orders,
		deliverer: deliverer,
		messenger: messenger,
		opts:      opts,
		log:       log,
		root:      root,
		cancel:    cancel,
		watches:   make(map[int64]*watch),
	}
}

func (r *Registry) Start(chatID int64, orderID uuid.UUID, lang string) {
	ctx, cancel := context.WithCancel(r.root)
	w := &watch{chatID: chatID, orderID: orderID, lang: lang, cancel: cancel}

	r.mu.Lock()
	if prev, ok := r.watches[chatID]; ok {
		prev.cancel()
	}
	r.watches[chatID] = w
	r.mu.Unlock()

	r.log.Debug("payment monitor started",
		zap.Int64("chat_id", chatID),
		zap.String("order_id", orderID.String()),
	)

	r.wg.Add(1)
	go r.run(ctx, w)
}

func (r *Registry) Stop(chatID int64) {
	r.mu.Lock()
	w, ok := r.watches[chatID]
	if ok {
		delete(r.watches, chatID)
	}
	r.mu.Unlock()
	if ok {
		w.cancel()
	}
}

// StopOrder stops every loop watching orderID.
func (r *Registry) StopOrder(orderID uuid.UUID) {
	r.mu.Lock()
	var stopped []*watch
	for chatID, w := range r.watches {
		if w.orderID == orderID {
			stopped = append(stopped, w)
			delete(r.watches, chatID)
		}
	}
	r.mu.Unlock()
	for _, w := range stopped {
		w.cancel()
	}
}

// Active reports the order watched for chatID.
func (r *Registry) Active(chatID int64) (uuid.UUID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.watches[chatID]
	if !ok {
		return uuid.Nil, false
	}
	return w.orderID, true
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.watches)
}

// Shutdown stops all loops and waits for them until ctx is done.
func (r *Registry) Shutdown(ctx context.Context) error {
	r.cancel()
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Registry) run(ctx context.Context, w *watch) {
	defer r.wg.Done()
	defer r.release(w)

	log := r.log.With(zap.Int64("chat_id", w.chatID), zap.String("order_id", w.orderID.String()))

	ticker := time.NewTicker(r.opts.Interval)
	defer ticker.Stop()

	for checks := 1; ; checks++ {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if r.tick(ctx, log.With(zap.Int("tick", checks)), w) {
			return
		}

		if checks >= r.opts.MaxChecks {
			if ctx.Err() != nil {
				return
			}
			log.Info("payment monitor budget exhausted", zap.Int("checks", checks))
			if err := r.messenger.SendMessage(ctx, w.chatID, i18n.T(w.lang, i18n.MonitorStopped), nil); err != nil {
				log.Warn("monitor stop message failed", zap.Error(err))
			}
			return
		}
	}
}

// tick runs one check and reports whether the loop is finished.
// Panics and errors never end the loop.
func (r *Registry) tick(ctx context.Context, log *zap.Logger, w *watch) (stop bool) {
	defer func() {
		if p := recover(); p != nil {
			log.Error("payment monitor tick panicked", zap.Any("panic", p))
			stop = false
		}
	}()

	order, err := r.orders.GetOrder(ctx, w.orderID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			log.Info("order gone, monitor stopped")
			return true
		}
		log.Warn("monitor order read failed", zap.Error(err))
		return false
	}
	if order.Status != models.OrderStatusPending {
		log.Debug("order no longer pending, monitor stopped", zap.String("status", order.Status))
		return true
	}

	res, err := r.orders.CheckPayment(ctx, w.orderID)
	if err != nil {
		log.Warn("monitor payment check failed", zap.Error(err))
		return false
	}
	if !res.Found {
		if res.Reason == services.ReasonAlreadyProcessed {
			return true
		}
		return ctx.Err() != nil
	}

	// paid now; delivery must finish even if the loop was stopped meanwhile
	if _, err := r.deliverer.Deliver(context.WithoutCancel(ctx), w.orderID, w.chatID); err != nil {
		if apperr.Is(err, apperr.KindInvalidState) {
			log.Debug("order delivered elsewhere")
		} else {
			log.Error("delivery after automatic check failed", zap.Error(err))
		}
	}
	return true
}

func (r *Registry) release(w *watch) {
	w.cancel()
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.watches[w.chatID]; ok && cur == w {
		delete(r.watches, w.chatID)
	}
}
