package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// SessionDenylist implements ports.SessionDenylist using Redis keys with
// TTL. A revoked token ID stays listed until the token would have expired
// anyway, so the set never grows past the live session horizon.
type SessionDenylist struct {
	client *goredis.Client
	prefix string
}

// NewSessionDenylist creates a new Redis-backed session deny-list.
func NewSessionDenylist(client *goredis.Client) *SessionDenylist {
	return &SessionDenylist{
		client: client,
		prefix: "denylist:",
	}
}

// Revoke marks a token ID as invalid for the remainder of its lifetime.
func (s *SessionDenylist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, s.prefix+tokenID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("redis denylist set: %w", err)
	}
	return nil
}

// IsRevoked reports whether a token ID has been deny-listed.
func (s *SessionDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	err := s.client.Get(ctx, s.prefix+tokenID).Err()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis denylist get: %w", err)
	}
	return true, nil
}
