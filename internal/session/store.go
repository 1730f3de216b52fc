package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/tuiter-labs/tuiter/internal/models"
)

// Store 会话存储 (Redis)
//
// One session record associates an opaque session id with the
// authenticated user's profile. Redis gives per-key atomic read/write,
// which is the only concurrency guarantee this layer relies on.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewStore 创建会话存储实例
func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

func sessionKey(sid string) string {
	return fmt.Sprintf("session:%s", sid)
}

// Set marks the session active for the given user profile.
func (s *Store) Set(ctx context.Context, sid string, user *models.User) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshaling session profile: %w", err)
	}
	if err := s.rdb.Set(ctx, sessionKey(sid), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("storing session %s: %w", sid, err)
	}
	return nil
}

// Get returns the session's profile, or nil (no error) when the session
// is absent or expired.
func (s *Store) Get(ctx context.Context, sid string) (*models.User, error) {
	payload, err := s.rdb.Get(ctx, sessionKey(sid)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading session %s: %w", sid, err)
	}

	var user models.User
	if err := json.Unmarshal(payload, &user); err != nil {
		return nil, fmt.Errorf("unmarshaling session profile: %w", err)
	}
	return &user, nil
}

// Destroy removes the session record. Destroying a missing session is a
// no-op, which makes logout idempotent.
func (s *Store) Destroy(ctx context.Context, sid string) error {
	if err := s.rdb.Del(ctx, sessionKey(sid)).Err(); err != nil {
		return fmt.Errorf("destroying session %s: %w", sid, err)
	}
	return nil
}
