package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	mu    sync.Mutex
	tasks []Task
	fail  error
}

func (h *recordingHandler) Handle(_ context.Context, task Task) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.tasks = append(h.tasks, task)
	return h.fail
}

func setup(t *testing.T, handler Handler) (*Producer, *Consumer, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cfg := ConsumerConfig{Stream: "wexa:tasks", Group: "workers", Consumer: "w1", ClaimInterval: time.Minute}
	c := NewConsumer(client, cfg, zerolog.Nop(), handler)
	c.block = 10 * time.Millisecond
	require.NoError(t, c.EnsureGroup(context.Background()))
	return NewProducer(client, cfg.Stream), c, client
}

func TestProduceAndConsume(t *testing.T) {
	ctx := context.Background()
	h := &recordingHandler{}
	p, c, client := setup(t, h)

	id, err := p.Enqueue(ctx, TaskOTPDispatch, OTPDispatch{Phone: "9000000001", Code: "9876"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	require.NoError(t, c.read(ctx))

	require.Len(t, h.tasks, 1)
	task := h.tasks[0]
	assert.Equal(t, id, task.ID)
	assert.Equal(t, TaskOTPDispatch, task.Type)
	assert.False(t, task.EnqueuedAt.IsZero())

	var payload OTPDispatch
	require.NoError(t, task.Decode(&payload))
	assert.Equal(t, "9876", payload.Code)

	pending, err := client.XPending(ctx, "wexa:tasks", "workers").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), pending.Count)
}

func TestFailedTaskStaysPending(t *testing.T) {
	ctx := context.Background()
	h := &recordingHandler{fail: errors.New("sns down")}
	p, c, client := setup(t, h)

	_, err := p.Enqueue(ctx, TaskAvatarCleanup, AvatarCleanup{Key: "wexa/1/dp/a.png"})
	require.NoError(t, err)
	require.NoError(t, c.read(ctx))

	pending, err := client.XPending(ctx, "wexa:tasks", "workers").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending.Count)
}

func TestEnsureGroupIsIdempotent(t *testing.T) {
	_, c, _ := setup(t, &recordingHandler{})
	assert.NoError(t, c.EnsureGroup(context.Background()))
}

func TestMalformedMessageIsDropped(t *testing.T) {
	ctx := context.Background()
	h := &recordingHandler{}
	_, c, client := setup(t, h)

	require.NoError(t, client.XAdd(ctx, &redis.XAddArgs{
		Stream: "wexa:tasks",
		Values: map[string]any{"junk": "1"},
	}).Err())
	require.NoError(t, c.read(ctx))

	assert.Empty(t, h.tasks)
	pending, err := client.XPending(ctx, "wexa:tasks", "workers").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), pending.Count)
}
