package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/agrofix/agrofix-backend/pkg/config"
	redisclient "github.com/agrofix/agrofix-backend/pkg/redis"
	redislib "github.com/redis/go-redis/v9"
)

type mockStore struct {
	mu   sync.Mutex
	data map[string]string
	ttls map[string]time.Duration
	err  error
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (m *mockStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.data[key] = fmt.Sprint(value)
	m.ttls[key] = ttl
	return nil
}

func (m *mockStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	val, ok := m.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return val, nil
}

func (m *mockStore) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *mockStore) SessionKey(id string) string     { return "sess:" + id }
func (m *mockStore) RevokedTokenKey(j string) string { return "revoked:" + j }

func newTestManager(store *mockStore) *Manager {
	return &Manager{store: store, keyer: store, ttl: 24 * time.Hour, now: time.Now}
}

func TestManagerCreateLookupDestroy(t *testing.T) {
	store := newMockStore()
	manager := newTestManager(store)
	ctx := context.Background()

	id, err := manager.Create(ctx, 7)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if len(id) < 40 {
		t.Fatalf("session id looks too short: %q", id)
	}
	if store.ttls["sess:"+id] != 24*time.Hour {
		t.Fatalf("expected 24h ttl, got %v", store.ttls["sess:"+id])
	}

	sess, err := manager.Lookup(ctx, id)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if sess.UserID != 7 {
		t.Fatalf("expected user 7, got %d", sess.UserID)
	}

	if err := manager.Destroy(ctx, id); err != nil {
		t.Fatalf("Destroy failed: %v", err)
	}
	if _, err := manager.Lookup(ctx, id); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after destroy, got %v", err)
	}
}

func TestManagerLookupEdgeCases(t *testing.T) {
	store := newMockStore()
	manager := newTestManager(store)
	ctx := context.Background()

	if _, err := manager.Lookup(ctx, ""); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("empty id should be not found, got %v", err)
	}

	store.data["sess:garbage"] = "not-json"
	if _, err := manager.Lookup(ctx, "garbage"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("corrupt payload should be not found, got %v", err)
	}

	store.err = errors.New("connection refused")
	if _, err := manager.Lookup(ctx, "any"); err == nil || errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("backend errors must surface, got %v", err)
	}
}

func TestManagerCreateRejectsInvalidUser(t *testing.T) {
	manager := newTestManager(newMockStore())
	if _, err := manager.Create(context.Background(), 0); err == nil {
		t.Fatal("expected error for user id 0")
	}
}

func TestNewManagerValidation(t *testing.T) {
	if _, err := NewManager(nil, config.SessionConfig{TTL: time.Hour}); err == nil {
		t.Fatal("expected error for nil client")
	}
	if _, err := NewManager(redisclient.NewLocal(), config.SessionConfig{}); err == nil {
		t.Fatal("expected error for zero ttl")
	}
	m, err := NewManager(redisclient.NewLocal(), config.SessionConfig{TTL: time.Hour})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	id, err := m.Create(context.Background(), 3)
	if err != nil {
		t.Fatalf("Create on local client failed: %v", err)
	}
	if sess, err := m.Lookup(context.Background(), id); err != nil || sess.UserID != 3 {
		t.Fatalf("Lookup on local client failed: sess=%v err=%v", sess, err)
	}
}

func TestTokenDenylist(t *testing.T) {
	store := newMockStore()
	now := time.Now()
	denylist := &TokenDenylist{store: store, keyer: store, now: func() time.Time { return now }}
	ctx := context.Background()

	revoked, err := denylist.IsRevoked(ctx, "jti-1")
	if err != nil || revoked {
		t.Fatalf("fresh token should not be revoked, revoked=%v err=%v", revoked, err)
	}

	if err := denylist.Revoke(ctx, "jti-1", now.Add(time.Hour)); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}
	if store.ttls["revoked:jti-1"] != time.Hour {
		t.Fatalf("expected ttl to match remaining lifetime, got %v", store.ttls["revoked:jti-1"])
	}
	revoked, err = denylist.IsRevoked(ctx, "jti-1")
	if err != nil || !revoked {
		t.Fatalf("expected revoked, revoked=%v err=%v", revoked, err)
	}

	if err := denylist.Revoke(ctx, "jti-2", now.Add(-time.Minute)); err != nil {
		t.Fatalf("Revoke of expired token failed: %v", err)
	}
	if _, ok := store.data["revoked:jti-2"]; ok {
		t.Fatal("expired tokens should not be stored")
	}

	if err := denylist.Revoke(ctx, "", now.Add(time.Hour)); err == nil {
		t.Fatal("expected error for empty jti")
	}
}
