package badge

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"openbadges/pkg/domain"
)

const balanceKeyPrefix = "badge:balance:"

// BalanceCache is a read-through cache for issuer balances. A nil cache is
// valid and means every read goes to the store.
type BalanceCache interface {
	Get(ctx context.Context, id domain.IssuerID, holder domain.Identity) (int64, bool, error)
	Set(ctx context.Context, id domain.IssuerID, holder domain.Identity, balance int64) error
	Invalidate(ctx context.Context, id domain.IssuerID, holder domain.Identity) error
}

// RedisBalanceCache backs the balance cache with Redis. Entries carry a TTL
// so a missed invalidation heals itself.
type RedisBalanceCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisBalanceCache(client *redis.Client, ttl time.Duration) *RedisBalanceCache {
	return &RedisBalanceCache{client: client, ttl: ttl}
}

func balanceKey(id domain.IssuerID, holder domain.Identity) string {
	return balanceKeyPrefix + id.String() + ":" + holder.String()
}

func (c *RedisBalanceCache) Get(ctx context.Context, id domain.IssuerID, holder domain.Identity) (int64, bool, error) {
	raw, err := c.client.Get(ctx, balanceKey(id, holder)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get balance cache: %w", err)
	}
	balance, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false, nil
	}
	return balance, true, nil
}

func (c *RedisBalanceCache) Set(ctx context.Context, id domain.IssuerID, holder domain.Identity, balance int64) error {
	return c.client.Set(ctx, balanceKey(id, holder), strconv.FormatInt(balance, 10), c.ttl).Err()
}

func (c *RedisBalanceCache) Invalidate(ctx context.Context, id domain.IssuerID, holder domain.Identity) error {
	return c.client.Del(ctx, balanceKey(id, holder)).Err()
}
