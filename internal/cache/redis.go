package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/GoArmGo/PhotoShare/internal/config"
	"github.com/GoArmGo/PhotoShare/internal/domain"
)

const hashtagsKey = "hashtags:all"

// RedisCache реализует ports.HashtagCache
type RedisCache struct {
	Client *redis.Client
	ttl    time.Duration
}

// NewRedisCache создает клиента Redis по конфигурации.
// Обязателен только Addr, Password/DB опциональны.
func NewRedisCache(cfg *config.Config) *RedisCache {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	return NewRedisCacheWithClient(redis.NewClient(opts), cfg.Redis.HashtagTTL)
}

func NewRedisCacheWithClient(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{Client: client, ttl: ttl}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func (c *RedisCache) GetHashtags(ctx context.Context) ([]domain.Hashtag, bool, error) {
	raw, err := c.Client.Get(ctx, hashtagsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil // cache miss
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", hashtagsKey, err)
	}

	var tags []domain.Hashtag
	if err := json.Unmarshal(raw, &tags); err != nil {
		// битое значение считаем промахом
		_ = c.Client.Del(ctx, hashtagsKey).Err()
		return nil, false, nil
	}
	return tags, true, nil
}

func (c *RedisCache) SetHashtags(ctx context.Context, tags []domain.Hashtag) error {
	raw, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("marshal hashtags: %w", err)
	}
	return c.Client.Set(ctx, hashtagsKey, raw, c.ttl).Err()
}

func (c *RedisCache) InvalidateHashtags(ctx context.Context) error {
	return c.Client.Del(ctx, hashtagsKey).Err()
}

func (c *RedisCache) Close() error {
	return c.Client.Close()
}
