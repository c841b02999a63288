package redis

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type localEntry struct {
	value     string
	expiresAt time.Time
}

// localStore implements the cmdable subset in memory with lazy expiry.
type localStore struct {
	mu   sync.Mutex
	now  func() time.Time
	data map[string]localEntry
}

func newLocalStore(now func() time.Time) *localStore {
	return &localStore{now: now, data: map[string]localEntry{}}
}

func (s *localStore) lookup(key string) (localEntry, bool) {
	entry, ok := s.data[key]
	if !ok {
		return localEntry{}, false
	}
	if !entry.expiresAt.IsZero() && !s.now().Before(entry.expiresAt) {
		delete(s.data, key)
		return localEntry{}, false
	}
	return entry, true
}

func (s *localStore) expiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return s.now().Add(ttl)
}

func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

func (s *localStore) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (s *localStore) Set(_ context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = localEntry{value: stringify(value), expiresAt: s.expiry(ttl)}
	return redis.NewStatusResult("OK", nil)
}

func (s *localStore) Get(_ context.Context, key string) *redis.StringCmd {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.lookup(key)
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(entry.value, nil)
}

func (s *localStore) SetNX(_ context.Context, key string, value any, ttl time.Duration) *redis.BoolCmd {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lookup(key); ok {
		return redis.NewBoolResult(false, nil)
	}
	s.data[key] = localEntry{value: stringify(value), expiresAt: s.expiry(ttl)}
	return redis.NewBoolResult(true, nil)
}

func (s *localStore) Incr(_ context.Context, key string) *redis.IntCmd {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, _ := s.lookup(key)
	current := int64(0)
	if entry.value != "" {
		parsed, err := strconv.ParseInt(entry.value, 10, 64)
		if err != nil {
			return redis.NewIntResult(0, fmt.Errorf("value at %s is not an integer", key))
		}
		current = parsed
	}
	current++
	entry.value = strconv.FormatInt(current, 10)
	s.data[key] = entry
	return redis.NewIntResult(current, nil)
}

func (s *localStore) Expire(_ context.Context, key string, ttl time.Duration) *redis.BoolCmd {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.lookup(key)
	if !ok {
		return redis.NewBoolResult(false, nil)
	}
	entry.expiresAt = s.expiry(ttl)
	s.data[key] = entry
	return redis.NewBoolResult(true, nil)
}

func (s *localStore) Del(_ context.Context, keys ...string) *redis.IntCmd {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := int64(0)
	for _, key := range keys {
		if _, ok := s.lookup(key); ok {
			delete(s.data, key)
			removed++
		}
	}
	return redis.NewIntResult(removed, nil)
}
