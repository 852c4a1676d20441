package adapters

import (
	"context"
	"errors"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/redis/go-redis/v9"
)

// CacheRedisAdapter is a redis-backed badge cache so multiple badge
// server replicas share rendered responses.
type CacheRedisAdapter struct {
	client *redis.Client
}

func NewCacheRedisAdapter(ctx context.Context, addr string, password string, db int) (*CacheRedisAdapter, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to connect to redis").
			WithCause(err)
	}
	return &CacheRedisAdapter{client: client}, nil
}

func (c *CacheRedisAdapter) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("redis get failed").
			WithCause(err)
	}
	return value, true, nil
}

func (c *CacheRedisAdapter) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("redis set failed").
			WithCause(err)
	}
	return nil
}

func (c *CacheRedisAdapter) Close() error {
	return c.client.Close()
}
