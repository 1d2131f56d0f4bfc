package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	TaskOTPDispatch   = "otp.dispatch"
	TaskAvatarCleanup = "avatar.cleanup"
	TaskOTPPurge      = "otp.purge"
)

// Task is one unit of background work carried on the stream.
type Task struct {
	ID         string
	Type       string
	Payload    json.RawMessage
	EnqueuedAt time.Time
}

type OTPDispatch struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

type AvatarCleanup struct {
	Key string `json:"key"`
}

type OTPPurge struct {
	Before time.Time `json:"before"`
}

func (t Task) values() map[string]any {
	return map[string]any{
		"id":          t.ID,
		"type":        t.Type,
		"payload":     string(t.Payload),
		"enqueued_at": t.EnqueuedAt.UTC().Format(time.RFC3339Nano),
	}
}

func (t Task) Decode(out any) error {
	if err := json.Unmarshal(t.Payload, out); err != nil {
		return fmt.Errorf("decode %s payload: %w", t.Type, err)
	}
	return nil
}

func taskFromValues(values map[string]any) (Task, error) {
	str := func(key string) string {
		s, _ := values[key].(string)
		return s
	}

	t := Task{ID: str("id"), Type: str("type"), Payload: json.RawMessage(str("payload"))}
	if t.Type == "" {
		return Task{}, fmt.Errorf("message has no task type")
	}
	if raw := str("enqueued_at"); raw != "" {
		at, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return Task{}, fmt.Errorf("parse enqueued_at: %w", err)
		}
		t.EnqueuedAt = at
	}
	return t, nil
}
