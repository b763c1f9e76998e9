package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrUnavailable is returned by the strict operations of a client that was
// never connected.
var ErrUnavailable = errors.New("cache: redis not configured")

// Client is the gateway's Redis handle. Outside the Strict operations
// connectivity errors never reach the caller: reads behave as misses and
// writes are dropped. A nil *Client is valid and behaves as an always-empty
// cache.
type Client struct {
	rdb *redis.Client
}

// New connects to the Redis at addr.
func New(addr, password string, db int) *Client {
	return &Client{rdb: redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})}
}

func (c *Client) off() bool { return c == nil || c.rdb == nil }

// Ping reports whether redis is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if c.off() {
		return nil
	}
	return c.rdb.Ping(ctx).Err()
}

// Close releases the underlying connections.
func (c *Client) Close() error {
	if c.off() {
		return nil
	}
	return c.rdb.Close()
}

// Get returns the value under key and whether it was found. A positive slide
// pushes the key's expiry out by that much, so entries read regularly stay
// alive.
func (c *Client) Get(ctx context.Context, key string, slide time.Duration) ([]byte, bool) {
	if c.off() {
		return nil, false
	}
	var cmd *redis.StringCmd
	if slide > 0 {
		cmd = c.rdb.GetEx(ctx, key, slide)
	} else {
		cmd = c.rdb.Get(ctx, key)
	}
	val, err := cmd.Bytes()
	if err != nil {
		// redis.Nil and connectivity errors alike are a miss
		return nil, false
	}
	return val, true
}

// Set stores value under key. A zero ttl keeps the key until it is deleted.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c.off() {
		return nil
	}
	_ = c.rdb.Set(ctx, key, value, ttl).Err()
	return nil
}

// Delete removes keys.
func (c *Client) Delete(ctx context.Context, keys ...string) error {
	if c.off() || len(keys) == 0 {
		return nil
	}
	_ = c.rdb.Del(ctx, keys...).Err()
	return nil
}

// SetStrict stores value under key and reports Redis failures. Session
// records use it: a write that did not land must not look like one that did.
func (c *Client) SetStrict(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c.off() {
		return ErrUnavailable
	}
	if err := c.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("cache: set %s: %w", key, err)
	}
	return nil
}

// DeleteStrict removes keys and reports Redis failures.
func (c *Client) DeleteStrict(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if c.off() {
		return ErrUnavailable
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache: delete %v: %w", keys, err)
	}
	return nil
}

// GetJSON decodes the value under key into out. It reports false on a miss or
// when the stored bytes do not decode.
func (c *Client) GetJSON(ctx context.Context, key string, out any) bool {
	data, ok := c.Get(ctx, key, 0)
	if !ok {
		return false
	}
	return json.Unmarshal(data, out) == nil
}

// SetJSON encodes value and stores it under key. Only an encoding failure is
// reported.
func (c *Client) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", key, err)
	}
	return c.Set(ctx, key, data, ttl)
}
