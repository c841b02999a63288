package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/agrofix/agrofix-backend/pkg/config"
	redisclient "github.com/agrofix/agrofix-backend/pkg/redis"
	redislib "github.com/redis/go-redis/v9"
)

const sessionIDBytes = 32

var ErrSessionNotFound = errors.New("session not found")

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type sessionKeyer interface {
	SessionKey(sessionID string) string
	RevokedTokenKey(jti string) string
}

// Session is the server-side record behind a session cookie.
type Session struct {
	UserID    int64     `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Manager creates, resolves and destroys cookie sessions.
type Manager struct {
	store sessionStore
	keyer sessionKeyer
	ttl   time.Duration
	now   func() time.Time
}

// Resolver exposes the read-only surface needed by middleware.
type Resolver interface {
	Lookup(ctx context.Context, sessionID string) (*Session, error)
}

// NewManager constructs a session manager on top of the key/value client,
// which may be networked Redis or the in-process fallback.
func NewManager(client *redisclient.Client, cfg config.SessionConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &Manager{
		store: client,
		keyer: client,
		ttl:   cfg.TTL,
		now:   time.Now,
	}, nil
}

// TTL is the lifetime applied to new sessions and their cookies.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Create stores a new session for userID and returns its opaque id.
func (m *Manager) Create(ctx context.Context, userID int64) (string, error) {
	if userID <= 0 {
		return "", fmt.Errorf("user id must be positive")
	}
	id, err := generateSessionID()
	if err != nil {
		return "", err
	}
	payload, err := json.Marshal(Session{UserID: userID, CreatedAt: m.now().UTC()})
	if err != nil {
		return "", fmt.Errorf("encoding session: %w", err)
	}
	if err := m.store.Set(ctx, m.keyer.SessionKey(id), string(payload), m.ttl); err != nil {
		return "", err
	}
	return id, nil
}

// Lookup resolves a session id. Unknown or expired ids yield ErrSessionNotFound.
func (m *Manager) Lookup(ctx context.Context, sessionID string) (*Session, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrSessionNotFound
	}
	raw, err := m.store.Get(ctx, m.keyer.SessionKey(sessionID))
	if err != nil {
		return nil, wrapNotFound(err)
	}
	var sess Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil || sess.UserID <= 0 {
		return nil, ErrSessionNotFound
	}
	return &sess, nil
}

// Destroy removes the session; destroying an unknown id is not an error.
func (m *Manager) Destroy(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return nil
	}
	return m.store.Del(ctx, m.keyer.SessionKey(sessionID))
}

func generateSessionID() (string, error) {
	bytes := make([]byte, sessionIDBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("generating session id: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

func wrapNotFound(err error) error {
	if errors.Is(err, redislib.Nil) {
		return ErrSessionNotFound
	}
	return err
}
