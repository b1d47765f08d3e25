package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type Redis struct {
	redisdb *redis.Client
	ttl     time.Duration
	log     *slog.Logger
}

func NewRedis(cfg RedisConfig, log *slog.Logger) *Redis {
	redisdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	return newRedis(redisdb, cfg.TTL, log)
}

func newRedis(redisdb *redis.Client, ttl time.Duration, log *slog.Logger) *Redis {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if log == nil {
		log = slog.Default()
	}

	return &Redis{redisdb: redisdb, ttl: ttl, log: log}
}

func (c *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	b, err := c.redisdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.WarnContext(ctx, "cache get failed", "key", key, "err", err)
		}
		return nil, false
	}

	return b, true
}

func (c *Redis) Set(ctx context.Context, key string, val []byte) {
	if err := c.redisdb.Set(ctx, key, val, c.ttl).Err(); err != nil {
		c.log.WarnContext(ctx, "cache set failed", "key", key, "err", err)
	}
}

func (c *Redis) Delete(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}

	if err := c.redisdb.Del(ctx, keys...).Err(); err != nil {
		c.log.WarnContext(ctx, "cache delete failed", "keys", keys, "err", err)
	}
}

// this ping function checks redis connectivity
func (c *Redis) Ping(ctx context.Context) error {
	return c.redisdb.Ping(ctx).Err()
}

func (c *Redis) Close() error {
	return c.redisdb.Close()
}
