package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(addr, password string, db int) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisCache{client: client}
}

// Ping verifies the connection so startup can fail fast.
func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCache) Set(key string, value interface{}, expiration time.Duration) error {
	err := r.client.Set(context.Background(), key, value, expiration).Err()
	if err != nil {
		return fmt.Errorf("failed to set key %s in cache: %v", key, err)
	}
	return nil
}

// Get returns (nil, nil) on a cache miss.
func (r *RedisCache) Get(key string) (interface{}, error) {
	val, err := r.client.Get(context.Background(), key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get key %s from cache: %v", key, err)
	}
	return val, nil
}

func (r *RedisCache) Delete(key string) error {
	err := r.client.Del(context.Background(), key).Err()
	if err != nil {
		return fmt.Errorf("failed to delete key %s from cache: %v", key, err)
	}
	return nil
}

func (r *RedisCache) Exists(key string) (bool, error) {
	result, err := r.client.Exists(context.Background(), key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check existence of key %s in cache: %v", key, err)
	}
	return result > 0, nil
}
