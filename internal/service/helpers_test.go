package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrestaRongali/wexa-wexa-backend/internal/storage"
)

var (
	t0       = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	userCols = []string{"id", "name", "email", "phone", "password_hash", "created_at", "updated_at", "last_log_in"}
	reqCols  = []string{"id", "from_user_id", "to_user_id", "status", "created_at", "updated_at"}
	otpCols  = []string{"id", "phone", "otp", "created_at", "updated_at"}
	avCols   = []string{"id", "user_id", "image_url", "created_at", "updated_at"}
	chatCols = []string{"id", "from_user", "to_user", "message", "created_at"}
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func userRow(id int64, name, email, phone string, hash *string) *pgxmock.Rows {
	return pgxmock.NewRows(userCols).AddRow(id, name, email, phone, hash, t0, t0, nil)
}

type fakeSessions struct {
	mu      sync.Mutex
	saved   map[string]string
	ttl     time.Duration
	revoked []string
	err     error
}

func (f *fakeSessions) Save(_ context.Context, key string, token string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if f.saved == nil {
		f.saved = map[string]string{}
	}
	f.saved[key] = token
	f.ttl = ttl
	return nil
}

func (f *fakeSessions) Revoke(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked = append(f.revoked, key)
	return f.err
}

type fakeObjects struct {
	put     []storage.Object
	bodies  []string
	removed []string
	putErr  error
}

func (f *fakeObjects) Put(_ context.Context, obj storage.Object) error {
	if f.putErr != nil {
		return f.putErr
	}
	b, err := io.ReadAll(obj.Body)
	if err != nil {
		return err
	}
	f.put = append(f.put, obj)
	f.bodies = append(f.bodies, string(b))
	return nil
}

func (f *fakeObjects) Remove(_ context.Context, key string) error {
	f.removed = append(f.removed, key)
	return nil
}

type fakeQueue struct {
	types    []string
	payloads []any
}

func (f *fakeQueue) Enqueue(_ context.Context, taskType string, payload any) (string, error) {
	f.types = append(f.types, taskType)
	f.payloads = append(f.payloads, payload)
	return "task", nil
}

var errStorage = errors.New("storage unavailable")
