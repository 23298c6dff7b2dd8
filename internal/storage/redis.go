package storage

import (
	"context"
	"fmt"

	"github.com/mkravets/transitpass/config"
	"github.com/redis/go-redis/v9"
)

// RedisKV keeps the record sets in Redis, one string value per record set.
type RedisKV struct {
	client *redis.Client
}

func NewRedisKV(cfg config.RedisConfig) *RedisKV {
	return &RedisKV{
		client: redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
	}
}

func (r *RedisKV) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, recordKey(key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

func (r *RedisKV) Set(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, recordKey(key), value, 0).Err()
}

func (r *RedisKV) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, recordKey(key)).Err()
}

func (r *RedisKV) Close() error {
	return r.client.Close()
}

func recordKey(key string) string {
	return fmt.Sprintf("records:%s", key)
}

var _ KV = (*RedisKV)(nil)
