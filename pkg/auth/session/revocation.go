package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	redisclient "github.com/agrofix/agrofix-backend/pkg/redis"
	redislib "github.com/redis/go-redis/v9"
)

// TokenDenylist remembers bearer token ids that were logged out until the
// token would have expired anyway.
type TokenDenylist struct {
	store sessionStore
	keyer sessionKeyer
	now   func() time.Time
}

// RevocationChecker is the read side used by middleware.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

func NewTokenDenylist(client *redisclient.Client) (*TokenDenylist, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	return &TokenDenylist{store: client, keyer: client, now: time.Now}, nil
}

// Revoke marks jti as unusable until expiresAt. Tokens already past expiry are
// ignored.
func (d *TokenDenylist) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	if strings.TrimSpace(jti) == "" {
		return fmt.Errorf("token id is required")
	}
	ttl := expiresAt.Sub(d.now())
	if ttl <= 0 {
		return nil
	}
	return d.store.Set(ctx, d.keyer.RevokedTokenKey(jti), "1", ttl)
}

func (d *TokenDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if strings.TrimSpace(jti) == "" {
		return false, nil
	}
	if _, err := d.store.Get(ctx, d.keyer.RevokedTokenKey(jti)); err != nil {
		if errors.Is(err, redislib.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
