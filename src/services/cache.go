package services

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/apimgr/community/src/config"
)

// CacheManager handles optional Redis/Valkey caching for session-level
// data shared across instances (rate-limit state, presence hints).
// Caching is best-effort: if the connection fails, it disables itself.
type CacheManager struct {
	client  *redis.Client
	enabled bool
	ctx     context.Context
}

// NewCacheManager connects to the configured cache, or returns a
// disabled manager when caching is off or unreachable.
func NewCacheManager(cfg config.CacheConfig) *CacheManager {
	ctx := context.Background()

	if !cfg.Enabled {
		return &CacheManager{enabled: false, ctx: ctx}
	}

	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return &CacheManager{enabled: false, ctx: ctx}
	}

	return &CacheManager{client: client, enabled: true, ctx: ctx}
}

// IsEnabled returns whether caching is active
func (cm *CacheManager) IsEnabled() bool {
	return cm.enabled
}

// Get retrieves a value from cache
func (cm *CacheManager) Get(key string) (string, error) {
	if !cm.enabled {
		return "", fmt.Errorf("cache not enabled")
	}

	ctx, cancel := context.WithTimeout(cm.ctx, 1*time.Second)
	defer cancel()

	return cm.client.Get(ctx, key).Result()
}

// Set stores a value in cache with TTL
func (cm *CacheManager) Set(key, value string, ttl time.Duration) error {
	if !cm.enabled {
		return nil
	}

	ctx, cancel := context.WithTimeout(cm.ctx, 1*time.Second)
	defer cancel()

	return cm.client.Set(ctx, key, value, ttl).Err()
}

// Delete removes a key from cache
func (cm *CacheManager) Delete(key string) error {
	if !cm.enabled {
		return nil
	}

	ctx, cancel := context.WithTimeout(cm.ctx, 1*time.Second)
	defer cancel()

	return cm.client.Del(ctx, key).Err()
}

// Close shuts down the cache connection
func (cm *CacheManager) Close() error {
	if cm.client != nil {
		return cm.client.Close()
	}
	return nil
}
