// Package service holds the request workflows. Each returns a Reply that the
// HTTP layer renders once.
package service

import (
	"context"
	"time"

	"github.com/shrestaRongali/wexa-wexa-backend/internal/storage"
)

type Reply struct {
	Message string
	Data    any
}

type SessionStore interface {
	Save(ctx context.Context, sessionKey string, token string, ttl time.Duration) error
	Revoke(ctx context.Context, sessionKey string) error
}

type ObjectStore interface {
	Put(ctx context.Context, obj storage.Object) error
	Remove(ctx context.Context, key string) error
}

type TaskQueue interface {
	Enqueue(ctx context.Context, taskType string, payload any) (string, error)
}
