package cache

import (
	"context"
	"fmt"
	"sync"

	"recipe-globe/internal/infrastructure/config"
	"recipe-globe/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisStore Redis 後端緩存；統計計數器被所有請求共用，需上鎖
type RedisStore struct {
	client *redis.Client
	config *config.Config
	mu     sync.Mutex
	stats  cacheStats
}

// NewRedisStore 創建 Redis 緩存
func NewRedisStore(cfg *config.Config) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Cache.RedisAddr,
	})

	// 測試連接
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	common.LogInfo("Redis 快取已初始化",
		zap.String("addr", cfg.Cache.RedisAddr),
		zap.Duration("存活時間", cfg.Cache.TTL),
	)

	return &RedisStore{
		client: client,
		config: cfg,
	}, nil
}

// Get 獲取緩存值
func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			s.countMiss()
			return "", common.ErrCacheMiss
		}
		s.countError()
		return "", fmt.Errorf("failed to get cache: %w", err)
	}

	s.countHit()
	common.LogDebug("快取命中", zap.String("鍵", key))
	return value, nil
}

// Set 設置緩存值
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, key, value, s.config.Cache.TTL).Err(); err != nil {
		s.countError()
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

func (s *RedisStore) countHit() {
	s.mu.Lock()
	s.stats.hits++
	s.mu.Unlock()
}

func (s *RedisStore) countMiss() {
	s.mu.Lock()
	s.stats.misses++
	s.mu.Unlock()
}

func (s *RedisStore) countError() {
	s.mu.Lock()
	s.stats.errors++
	s.mu.Unlock()
}

// Stats 獲取緩存統計信息
func (s *RedisStore) Stats() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := s.stats.hits + s.stats.misses
	ratio := 0.0
	if total > 0 {
		ratio = float64(s.stats.hits) / float64(total)
	}

	return map[string]interface{}{
		"backend":   "redis",
		"addr":      s.config.Cache.RedisAddr,
		"hits":      s.stats.hits,
		"misses":    s.stats.misses,
		"errors":    s.stats.errors,
		"hit_ratio": ratio,
	}
}

// Close 關閉 Redis 連接
func (s *RedisStore) Close() error {
	return s.client.Close()
}
