package explorer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/usdt-market/backend/internal/apperr"
	"github.com/usdt-market/backend/internal/models"
)

// Adapter knows one explorer's request shape and response fields.
type Adapter interface {
	Network() models.Network
	NewRequest(ctx context.Context, address string) (*http.Request, error)
	Decode(body []byte) ([]Transfer, error)
}

type Options struct {
	Timeout         time.Duration
	BreakerFailures int           // consecutive failures that open the breaker
	BreakerCooldown time.Duration // time in open state before a probe
}

// Client implements Source over HTTP for any Adapter.
type Client struct {
	adapter    Adapter
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]Transfer]
	log        *zap.Logger
}

const maxBodySize = 4 << 20

func NewClient(adapter Adapter, opts Options, log *zap.Logger) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.BreakerFailures <= 0 {
		opts.BreakerFailures = 5
	}
	if opts.BreakerCooldown <= 0 {
		opts.BreakerCooldown = 30 * time.Second
	}

	network := adapter.Network()
	log = log.With(zap.String("network", string(network)))
	failures := uint32(opts.BreakerFailures)

	breaker := gobreaker.NewCircuitBreaker[[]Transfer](gobreaker.Settings{
		Name:        "explorer-" + string(network),
		MaxRequests: 1,
		Timeout:     opts.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		// caller going away is not the explorer's fault
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("explorer breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &Client{
		adapter:    adapter,
		httpClient: &http.Client{Timeout: opts.Timeout},
		breaker:    breaker,
		log:        log,
	}
}

func (c *Client) Network() models.Network {
	return c.adapter.Network()
}

// Transfers returns the explorer's recent USDT transfers for address in the
// explorer's own order. Every failure is an apperr.External.
func (c *Client) Transfers(ctx context.Context, address string) ([]Transfer, error) {
	transfers, err := c.breaker.Execute(func() ([]Transfer, error) {
		return c.fetch(ctx, address)
	})
	if err != nil {
		return nil, apperr.External(err, "%s explorer", c.adapter.Network())
	}
	return transfers, nil
}

func (c *Client) fetch(ctx context.Context, address string) ([]Transfer, error) {
	req, err := c.adapter.NewRequest(ctx, address)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("explorer unavailable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("explorer returned %d: %s", resp.StatusCode, truncate(body, 200))
	}

	transfers, err := c.adapter.Decode(body)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	c.log.Debug("explorer transfers fetched", zap.Int("count", len(transfers)))
	return transfers, nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
