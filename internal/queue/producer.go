package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shrestaRongali/wexa-wexa-backend/internal/ids"
)

type Producer struct {
	client redis.UniversalClient
	stream string
}

func NewProducer(client redis.UniversalClient, stream string) *Producer {
	return &Producer{client: client, stream: stream}
}

// Enqueue appends a task of taskType with payload encoded as JSON and returns
// the task id.
func (p *Producer) Enqueue(ctx context.Context, taskType string, payload any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode %s payload: %w", taskType, err)
	}

	task := Task{ID: ids.New(), Type: taskType, Payload: body, EnqueuedAt: time.Now()}
	if err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: task.values(),
	}).Err(); err != nil {
		return "", fmt.Errorf("enqueue %s: %w", taskType, err)
	}
	return task.ID, nil
}
