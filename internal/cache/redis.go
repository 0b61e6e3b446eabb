package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// AMC cache keys
const (
	CustomerListKey    = "amc:customers:list"
	NavSessionKeyFmt   = "amc:nav:%s"
	customerKeyPattern = "amc:customers:*"
)

var client *redis.Client

// Init connects to Redis. On failure the client stays nil and every helper below
// degrades to a no-op, so the service runs without a cache.
func Init(addr, password string, db int) error {
	c := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.Ping(ctx).Err(); err != nil {
		c.Close()
		client = nil
		return err
	}
	client = c
	return nil
}

// Close releases the connection, if any.
func Close() error {
	if client == nil {
		return nil
	}
	err := client.Close()
	client = nil
	return err
}

// GetClient returns the Redis client
func GetClient() *redis.Client {
	return client
}

func NavSessionKey(email string) string {
	return fmt.Sprintf(NavSessionKeyFmt, email)
}

// ============================================
// Generic Cache Functions
// ============================================

// GetCached returns cached data for a key
func GetCached(ctx context.Context, key string) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// SetCached stores data with a TTL
func SetCached(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if client == nil {
		return
	}
	client.Set(ctx, key, data, ttl)
}

// GetJSON decodes the cached value at key into dst.
func GetJSON(ctx context.Context, key string, dst any) bool {
	data, ok := GetCached(ctx, key)
	if !ok {
		return false
	}
	return json.Unmarshal(data, dst) == nil
}

// SetJSON caches v encoded as JSON.
func SetJSON(ctx context.Context, key string, v any, ttl time.Duration) {
	if client == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	SetCached(ctx, key, data, ttl)
}

// ============================================
// Cache Invalidation Functions
// ============================================

// InvalidatePattern removes all keys matching a glob pattern
func InvalidatePattern(ctx context.Context, pattern string) {
	if client == nil {
		return
	}
	keys, err := client.Keys(ctx, pattern).Result()
	if err == nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

// InvalidateKeys removes specific cache keys
func InvalidateKeys(ctx context.Context, keys ...string) {
	if client == nil || len(keys) == 0 {
		return
	}
	client.Del(ctx, keys...)
}

// InvalidateCustomerCaches clears every cached customer listing.
// Called after any customer, branch, quarter or breakdown mutation.
func InvalidateCustomerCaches(ctx context.Context) {
	InvalidatePattern(ctx, customerKeyPattern)
}

// IsHealthy returns true if Redis connection is working
func IsHealthy() bool {
	if client == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return client.Ping(ctx).Err() == nil
}
