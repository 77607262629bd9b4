package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestDefaultCacheConfig(t *testing.T) {
	config := DefaultCacheConfig()

	if config.Addr != "localhost:6379" {
		t.Errorf("Expected Addr to be localhost:6379, got %s", config.Addr)
	}

	if config.PoolSize != 10 {
		t.Errorf("Expected PoolSize to be 10, got %d", config.PoolSize)
	}

	if config.DialTimeout != 5*time.Second {
		t.Errorf("Expected DialTimeout to be 5s, got %v", config.DialTimeout)
	}
}

func setupTestRedis(t *testing.T) *RedisCache {
	mr := miniredis.RunT(t)

	config := DefaultCacheConfig()
	config.Addr = mr.Addr()

	return NewRedisCache(config)
}

func TestRedisCache_SetGet(t *testing.T) {
	cache := setupTestRedis(t)
	defer cache.Close()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	if err := cache.Set("test:key", payload{Name: "tasks", Count: 3}, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var got payload
	if err := cache.Get("test:key", &got); err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if got.Name != "tasks" || got.Count != 3 {
		t.Errorf("Expected {tasks 3}, got %+v", got)
	}
}

func TestRedisCache_GetMiss(t *testing.T) {
	cache := setupTestRedis(t)
	defer cache.Close()

	var dest string
	err := cache.Get("missing", &dest)
	if !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Expected ErrCacheMiss, got: %v", err)
	}
}

func TestRedisCache_Delete(t *testing.T) {
	cache := setupTestRedis(t)
	defer cache.Close()

	if err := cache.Set("a", "1", time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := cache.Set("b", "2", time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if err := cache.Delete("a", "b"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	var dest string
	if err := cache.Get("a", &dest); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Expected ErrCacheMiss after delete, got: %v", err)
	}
}

func TestRedisCache_DeleteNoKeys(t *testing.T) {
	cache := setupTestRedis(t)
	defer cache.Close()

	if err := cache.Delete(); err != nil {
		t.Errorf("Expected no error deleting zero keys, got: %v", err)
	}
}

func TestRedisCache_Ping(t *testing.T) {
	cache := setupTestRedis(t)
	defer cache.Close()

	if err := cache.Ping(); err != nil {
		t.Errorf("Expected ping to succeed, got: %v", err)
	}
}
