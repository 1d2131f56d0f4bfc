// Package session keeps the mapping from a client's session key to the token
// that was issued with it.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrNotFound = errors.New("session not found")

type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

// Save stores token under sessionKey. The entry expires with the token; a
// zero ttl keeps it until revoked.
func (s *RedisStore) Save(ctx context.Context, sessionKey string, token string, ttl time.Duration) error {
	if sessionKey == "" {
		return errors.New("empty session key")
	}
	if err := s.client.Set(ctx, s.prefix+sessionKey, token, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *RedisStore) Lookup(ctx context.Context, sessionKey string) (string, error) {
	if sessionKey == "" {
		return "", ErrNotFound
	}
	token, err := s.client.Get(ctx, s.prefix+sessionKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("lookup session: %w", err)
	}
	return token, nil
}

func (s *RedisStore) Revoke(ctx context.Context, sessionKey string) error {
	if err := s.client.Del(ctx, s.prefix+sessionKey).Err(); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}
