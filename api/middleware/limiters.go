package middleware

import (
	"context"
	"sync"
	"time"

	pkgredis "github.com/agrofix/agrofix-backend/pkg/redis"
	"golang.org/x/time/rate"
)

// RedisLimiter counts hits in Redis fixed windows so limits hold across
// processes.
type RedisLimiter struct {
	client *pkgredis.Client
}

func NewRedisLimiter(client *pkgredis.Client) *RedisLimiter {
	return &RedisLimiter{client: client}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string, limit int64, window time.Duration) (bool, int64, error) {
	return l.client.FixedWindowAllow(ctx, key, limit, window)
}

// maxBuckets bounds the in-process limiter's memory; the map is dropped
// wholesale once it grows past this.
const maxBuckets = 10000

// BucketLimiter is the single-process fallback used when Redis is not
// configured. Each key gets a token bucket refilling limit tokens per window
// with a burst of limit.
type BucketLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
}

func NewBucketLimiter() *BucketLimiter {
	return &BucketLimiter{buckets: make(map[string]*rate.Limiter)}
}

// Allow never reports a count; the bucket has no notion of one.
func (l *BucketLimiter) Allow(_ context.Context, key string, limit int64, window time.Duration) (bool, int64, error) {
	if limit <= 0 || window <= 0 {
		return true, 0, nil
	}
	l.mu.Lock()
	bucket, ok := l.buckets[key]
	if !ok {
		if len(l.buckets) >= maxBuckets {
			l.buckets = make(map[string]*rate.Limiter)
		}
		bucket = rate.NewLimiter(rate.Every(window/time.Duration(limit)), int(limit))
		l.buckets[key] = bucket
	}
	l.mu.Unlock()
	return bucket.Allow(), 0, nil
}
