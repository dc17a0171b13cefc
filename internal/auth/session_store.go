package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrSessionNotFound indicates an unknown or expired session token.
var ErrSessionNotFound = errors.New("auth: session not found")

// Session is the server-side record behind an opaque token. Keeping it
// server-side means approval or role changes take effect on the next request.
type Session struct {
	EmployeeID string `json:"employee_id"`
	Role       string `json:"role"`
	Approved   bool   `json:"approved"`
}

// SessionStore persists sessions keyed by opaque token.
type SessionStore interface {
	Save(ctx context.Context, token string, session Session) error
	Get(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
}

// RedisSessionStore keeps sessions in redis with a TTL.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessionStore returns redis-backed store.
func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

func (s *RedisSessionStore) key(token string) string {
	return fmt.Sprintf("auth:session:%s", token)
}

// Save stores the session under the token.
func (s *RedisSessionStore) Save(ctx context.Context, token string, session Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(token), data, s.ttl).Err()
}

// Get returns the session for a token.
func (s *RedisSessionStore) Get(ctx context.Context, token string) (*Session, error) {
	result, err := s.client.Get(ctx, s.key(token)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	var session Session
	if err := json.Unmarshal([]byte(result), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Delete removes the session.
func (s *RedisSessionStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, s.key(token)).Err()
}
