package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"recipe-globe/internal/infrastructure/config"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
)

// newUnreachableRedisStore 指向無人監聽的位址，每次操作都計入 errors
func newUnreachableRedisStore() *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr:        "127.0.0.1:1",
			DialTimeout: 50 * time.Millisecond,
			MaxRetries:  -1,
		}),
		config: &config.Config{Cache: config.CacheConfig{
			RedisAddr: "127.0.0.1:1",
			TTL:       time.Minute,
		}},
	}
}

func TestRedisStoreStats(t *testing.T) {
	t.Run("counters survive concurrent access", func(t *testing.T) {
		store := newUnreachableRedisStore()
		defer store.Close()

		const workers = 4
		const callsPerWorker = 8

		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < callsPerWorker; j++ {
					_, err := store.Get(context.Background(), "k")
					assert.Error(t, err)
					// 讀取與遞增交錯進行
					_ = store.Stats()
				}
			}()
		}
		wg.Wait()

		stats := store.Stats()
		assert.Equal(t, int64(workers*callsPerWorker), stats["errors"])
		assert.Equal(t, int64(0), stats["hits"])
		assert.Equal(t, int64(0), stats["misses"])
	})

	t.Run("reports backend and address", func(t *testing.T) {
		store := newUnreachableRedisStore()
		defer store.Close()

		stats := store.Stats()
		assert.Equal(t, "redis", stats["backend"])
		assert.Equal(t, "127.0.0.1:1", stats["addr"])
		assert.InDelta(t, 0.0, stats["hit_ratio"], 0.001)
	})
}
