package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/linesmith/linesmith/internal/pkg/config"
)

var _ IDCache = (*RedisIDCache)(nil)

// RedisIDCache remembers which canonical match a source-native event id
// resolved to, so live updates skip name scoring. Entries expire on their
// own; a miss just means the resolver falls back to fuzzy matching.
type RedisIDCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisIDCache(cfg *config.RedisConfig) (*RedisIDCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisIDCache{client: client, ttl: cfg.IDTTL}, nil
}

func liveIDKey(source, sourceID string) string {
	return fmt.Sprintf("liveid:%s:%s", source, sourceID)
}

func (r *RedisIDCache) GetMatchID(ctx context.Context, source, sourceID string) (string, bool) {
	val, err := r.client.Get(ctx, liveIDKey(source, sourceID)).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (r *RedisIDCache) SetMatchID(ctx context.Context, source, sourceID, matchID string) error {
	return r.client.Set(ctx, liveIDKey(source, sourceID), matchID, r.ttl).Err()
}

func (r *RedisIDCache) Close() error {
	return r.client.Close()
}
