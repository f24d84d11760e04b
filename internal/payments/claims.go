package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/usdt-market/backend/internal/models"
)

const claimTTL = 7 * 24 * time.Hour

// RedisClaims remembers which order a transfer paid, so one transfer to a
// shared deposit address never pays two orders.
type RedisClaims struct {
	rdb *redis.Client
}

func NewRedisClaims(rdb *redis.Client) *RedisClaims {
	return &RedisClaims{rdb: rdb}
}

func claimKey(network models.Network, txHash string) string {
	return fmt.Sprintf("usdt:claimed_tx:%s:%s", network, txHash)
}

// Claim binds txHash to orderRef. It reports true when the transfer is now
// owned by orderRef, including when it already was.
func (c *RedisClaims) Claim(ctx context.Context, network models.Network, txHash, orderRef string) (bool, error) {
	key := claimKey(network, txHash)
	ok, err := c.rdb.SetNX(ctx, key, orderRef, claimTTL).Result()
	if err != nil {
		return false, err
	}
	if ok {
		return true, nil
	}
	owner, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return owner == orderRef, nil
}

// Owner returns the order that claimed txHash, or "".
func (c *RedisClaims) Owner(ctx context.Context, network models.Network, txHash string) (string, error) {
	owner, err := c.rdb.Get(ctx, claimKey(network, txHash)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return owner, err
}

// Release drops a claim that did not end up paying its order.
func (c *RedisClaims) Release(ctx context.Context, network models.Network, txHash, orderRef string) error {
	key := claimKey(network, txHash)
	owner, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return err
	}
	if owner != orderRef {
		return nil
	}
	return c.rdb.Del(ctx, key).Err()
}
