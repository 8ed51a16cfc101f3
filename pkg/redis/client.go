package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pgkim42/book-bean-frontend-sub000/pkg/config"
	"github.com/pgkim42/book-bean-frontend-sub000/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const (
	keyNamespace      = "bb"
	idempotencyPrefix = "idempotency"
	guestPrefix       = "guest"
	wishlistPrefix    = "wishlist"
)

var errNotInitialized = errors.New("redis client not initialized")

type cmdable interface {
	Ping(context.Context) *redis.StatusCmd
	Get(context.Context, string) *redis.StringCmd
	SetNX(context.Context, string, any, time.Duration) *redis.BoolCmd
	Set(context.Context, string, any, time.Duration) *redis.StatusCmd
	Expire(context.Context, string, time.Duration) *redis.BoolCmd
	Del(context.Context, ...string) *redis.IntCmd
	ZAddNX(context.Context, string, ...redis.Z) *redis.IntCmd
	ZRange(context.Context, string, int64, int64) *redis.StringSliceCmd
	ZRem(context.Context, string, ...any) *redis.IntCmd
}

// Client wraps the redis helpers the storefront needs: guest state and idempotency records.
type Client struct {
	store cmdable
	raw   *redis.Client
}

// Pinger exposes the health-check surface.
type Pinger interface {
	Ping(context.Context) error
}

// IdempotencyStore exposes minimal operations used by idempotency helpers.
type IdempotencyStore interface {
	Get(context.Context, string) (string, error)
	SetNX(context.Context, string, any, time.Duration) (bool, error)
	Set(context.Context, string, any, time.Duration) error
	Del(context.Context, ...string) error
	IdempotencyKey(scope, id string) string
}

// New bootstraps a Redis client with pooling/timeouts and verifies connectivity.
func New(ctx context.Context, cfg config.RedisConfig, logg *logger.Logger) (*Client, error) {
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		_ = raw.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	logg.Debug(logg.WithField(ctx, "redis_addr", opts.Addr), "redis connection established")
	return &Client{store: raw, raw: raw}, nil
}

// newWithCmdable lets tests swap the redis backend.
func newWithCmdable(store cmdable) *Client {
	return &Client{store: store}
}

func optionsFromConfig(cfg config.RedisConfig) (*redis.Options, error) {
	if cfg.URL == "" && cfg.Address == "" {
		return nil, errors.New("redis url or address is required")
	}
	var opts *redis.Options
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     cfg.Address,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}
	if opts.PoolSize == 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if opts.MinIdleConns == 0 {
		opts.MinIdleConns = cfg.MinIdleConns
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}
	return opts, nil
}

// Get returns a string value stored at key.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	if c == nil || c.store == nil {
		return "", errNotInitialized
	}
	return c.store.Get(ctx, key).Result()
}

// SetNX sets a value only if the key does not exist yet.
func (c *Client) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if c == nil || c.store == nil {
		return false, errNotInitialized
	}
	return c.store.SetNX(ctx, key, value, ttl).Result()
}

// Set stores value at key, replacing whatever was there.
func (c *Client) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if c == nil || c.store == nil {
		return errNotInitialized
	}
	return c.store.Set(ctx, key, value, ttl).Err()
}

// AddOrdered appends member to the ordered set at key, keeping the first insertion
// position when the member is already present, and refreshes the key TTL.
func (c *Client) AddOrdered(ctx context.Context, key, member string, ttl time.Duration) error {
	if c == nil || c.store == nil {
		return errNotInitialized
	}
	score := float64(time.Now().UnixNano())
	if err := c.store.ZAddNX(ctx, key, redis.Z{Score: score, Member: member}).Err(); err != nil {
		return err
	}
	if ttl > 0 {
		return c.store.Expire(ctx, key, ttl).Err()
	}
	return nil
}

// Ordered returns every member of the ordered set in insertion order.
func (c *Client) Ordered(ctx context.Context, key string) ([]string, error) {
	if c == nil || c.store == nil {
		return nil, errNotInitialized
	}
	members, err := c.store.ZRange(ctx, key, 0, -1).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return members, err
}

// RemoveOrdered drops member from the ordered set at key.
func (c *Client) RemoveOrdered(ctx context.Context, key, member string) error {
	if c == nil || c.store == nil {
		return errNotInitialized
	}
	return c.store.ZRem(ctx, key, member).Err()
}

// Del removes the provided keys.
func (c *Client) Del(ctx context.Context, keys ...string) error {
	if c == nil || c.store == nil {
		return errNotInitialized
	}
	return c.store.Del(ctx, keys...).Err()
}

// Ping verifies the connection.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.store == nil {
		return errNotInitialized
	}
	return c.store.Ping(ctx).Err()
}

// Close shuts down the underlying client if available.
func (c *Client) Close() error {
	if c == nil || c.raw == nil {
		return nil
	}
	return c.raw.Close()
}

// IdempotencyKey returns a namespaced key for idempotency storage.
func (c *Client) IdempotencyKey(scope, id string) string {
	return buildKey(idempotencyPrefix, scope, id)
}

// GuestWishlistKey returns the key holding a guest session's wishlisted book ids.
func (c *Client) GuestWishlistKey(guestID string) string {
	return buildKey(guestPrefix, guestID, wishlistPrefix)
}

func buildKey(parts ...string) string {
	clean := []string{keyNamespace}
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		clean = append(clean, part)
	}
	return strings.Join(clean, ":")
}
