package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "session:"
	sessionTTL       = 24 * time.Hour
)

// Store maps browser session IDs to signed-in account IDs in Redis.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewStore returns a new session store.
func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = sessionTTL
	}
	return &Store{rdb: rdb, ttl: ttl}
}

// TTL is how long a sign-in lasts without activity.
func (s *Store) TTL() time.Duration { return s.ttl }

// Bind records that session id is signed in as userID.
func (s *Store) Bind(ctx context.Context, id, userID string) error {
	return s.rdb.Set(ctx, sessionKeyPrefix+id, userID, s.ttl).Err()
}

// UserID returns the account bound to session id and refreshes its TTL.
// ok is false when the session is not signed in.
func (s *Store) UserID(ctx context.Context, id string) (userID string, ok bool, err error) {
	userID, err = s.rdb.GetEx(ctx, sessionKeyPrefix+id, s.ttl).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return userID, true, nil
}

// Delete removes a session by ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, sessionKeyPrefix+id).Err()
}

// NewSessionID returns a random browser session ID.
func NewSessionID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("rand: %w", err)
	}
	return hex.EncodeToString(b), nil
}
