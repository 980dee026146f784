package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/accountd/accountd/internal/domain/user"
	"github.com/redis/go-redis/v9"
)

const userListKey = "accountd:users:active"

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Redis is the shared-cache implementation for multi-instance deployments.
// Cache errors are logged at debug level and treated as misses.
type Redis struct {
	rdb *redis.Client
	ttl time.Duration
	log *slog.Logger
}

func NewRedis(cfg RedisConfig, ttl time.Duration, log *slog.Logger) *Redis {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	if ttl <= 0 {
		ttl = 5 * time.Second
	}

	return &Redis{rdb: rdb, ttl: ttl, log: log}
}

func (c *Redis) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Redis) Close() error {
	return c.rdb.Close()
}

func (c *Redis) Get(ctx context.Context) ([]user.User, bool) {
	raw, err := c.rdb.Get(ctx, userListKey).Bytes()

	if err != nil {
		if err != redis.Nil {
			c.log.DebugContext(ctx, "user list cache read failed", "err", err)
		}
		return nil, false
	}

	var users []user.User

	if err := json.Unmarshal(raw, &users); err != nil {
		c.log.DebugContext(ctx, "user list cache entry corrupt", "err", err)
		return nil, false
	}

	return users, true
}

func (c *Redis) Set(ctx context.Context, users []user.User) {
	if users == nil {
		users = []user.User{}
	}

	raw, err := json.Marshal(users)

	if err != nil {
		c.log.DebugContext(ctx, "user list cache encode failed", "err", err)
		return
	}

	if err := c.rdb.Set(ctx, userListKey, raw, c.ttl).Err(); err != nil {
		c.log.DebugContext(ctx, "user list cache write failed", "err", err)
	}
}

func (c *Redis) Invalidate(ctx context.Context) {
	if err := c.rdb.Del(ctx, userListKey).Err(); err != nil {
		c.log.DebugContext(ctx, "user list cache invalidate failed", "err", err)
	}
}
