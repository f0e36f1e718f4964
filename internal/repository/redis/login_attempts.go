package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"linkbio/internal/client"
	"linkbio/internal/util"
)

const loginAttemptPrefix = "login:ip:"

// LoginAttemptCache tracks failed login attempts per source IP. The counter
// lives under "login:ip:<ip>" with a TTL fixed at the first failure; Redis
// INCR returning the post-increment value is what lets Increment detect a
// fresh window without a separate read.
type LoginAttemptCache struct {
	client kvClient
}

func NewLoginAttemptCache(client *client.RedisClient) *LoginAttemptCache {
	return &LoginAttemptCache{client: client}
}

// Get returns the current attempt count for ip, 0 when no counter exists.
func (c *LoginAttemptCache) Get(ctx context.Context, ip string) (int, error) {
	raw, err := c.client.Get(ctx, loginAttemptPrefix+ip)
	if err != nil {
		if errors.Is(err, client.ErrKeyNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read login attempt counter: %w", err)
	}

	count, err := strconv.Atoi(raw)
	if err != nil {
		util.Error("Invalid login attempt counter",
			zap.String("ip", ip),
			zap.String("value", raw))
		return 0, fmt.Errorf("invalid login attempt counter: %w", err)
	}
	return count, nil
}

// Increment bumps the counter and returns the new value. The TTL is set only
// when the counter transitions from absent to 1, so later failures inside
// the window cannot push the window's end out.
func (c *LoginAttemptCache) Increment(ctx context.Context, ip string, window time.Duration) (int, error) {
	key := loginAttemptPrefix + ip

	count, err := c.client.Incr(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("failed to increment login attempt counter: %w", err)
	}

	if count == 1 {
		if err := c.client.Expire(ctx, key, window); err != nil {
			return 0, fmt.Errorf("failed to set login attempt window: %w", err)
		}
	}

	util.Debug("Login attempt recorded",
		zap.String("ip", ip),
		zap.Int("count", int(count)))

	return int(count), nil
}

// Reset drops the counter for ip. Called on successful login.
func (c *LoginAttemptCache) Reset(ctx context.Context, ip string) error {
	if err := c.client.Del(ctx, loginAttemptPrefix+ip); err != nil {
		return fmt.Errorf("failed to reset login attempt counter: %w", err)
	}
	return nil
}
