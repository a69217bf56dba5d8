package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	pkgcache "realty-backend/pkg/cache"
	"realty-backend/pkg/logger"
)

// redisCache implements pkg/cache.Cache on go-redis.
//
// Tagged invalidation: every cached key can be registered under one or
// more entity tags (a redis set per tag). A write to an entity
// invalidates the tag, which deletes exactly the keys derived from
// that entity instead of flushing the whole cache.
type redisCache struct {
	client *redis.Client
}

func NewRedisCache(host, password string, db int) (pkgcache.Cache, *redis.Client) {
	client := redis.NewClient(&redis.Options{
		Addr:         host,
		Password:     password,
		DB:           db,
		PoolSize:     10,
		MinIdleConns: 5,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	return &redisCache{client: client}, client
}

const tagPrefix = "tag:"

func (r *redisCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache unmarshal %s: %w", key, err)
	}
	return true, nil
}

func (r *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration, tags ...string) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal %s: %w", key, err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, key, data, ttl)
	for _, tag := range tags {
		tagKey := tagPrefix + tag
		pipe.SAdd(ctx, tagKey, key)
		// Keep the tag index alive at least as long as its newest member.
		pipe.ExpireGT(ctx, tagKey, ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

func (r *redisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

func (r *redisCache) InvalidateTags(ctx context.Context, tags ...string) error {
	for _, tag := range tags {
		tagKey := tagPrefix + tag

		members, err := r.client.SMembers(ctx, tagKey).Result()
		if err != nil && err != redis.Nil {
			return fmt.Errorf("cache tag members %s: %w", tag, err)
		}

		toDelete := append(members, tagKey)
		if err := r.client.Del(ctx, toDelete...).Err(); err != nil {
			return fmt.Errorf("cache tag invalidate %s: %w", tag, err)
		}

		logger.Debug("cache tag invalidated: " + tag)
	}
	return nil
}

func (r *redisCache) Increment(ctx context.Context, key string) (int64, error) {
	return r.client.Incr(ctx, key).Result()
}

func (r *redisCache) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return r.client.Expire(ctx, key, ttl).Err()
}

func (r *redisCache) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}
