package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrestaRongali/wexa-wexa-backend/internal/queue"
)

type sentSMS struct{ phone, message string }

type fakeSender struct {
	sent []sentSMS
	err  error
}

func (f *fakeSender) Send(_ context.Context, phone string, message string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentSMS{phone, message})
	return nil
}

type fakeObjects struct{ removed []string }

func (f *fakeObjects) Remove(_ context.Context, key string) error {
	f.removed = append(f.removed, key)
	return nil
}

type fakePurger struct {
	cutoff time.Time
	before []time.Time
}

func (f *fakePurger) PurgeExpired(_ context.Context, before time.Time) (int64, error) {
	f.before = append(f.before, before)
	return 3, nil
}

func (f *fakePurger) ExpiryCutoff() time.Time { return f.cutoff }

func newProcessor() (*Processor, *fakeSender, *fakeObjects, *fakePurger) {
	sms := &fakeSender{}
	objects := &fakeObjects{}
	purger := &fakePurger{cutoff: time.Date(2024, 6, 1, 9, 55, 0, 0, time.UTC)}
	p := NewProcessor(sms, objects, purger, Options{
		SMSTemplate: "Your code is %s, valid for %d minutes.",
		OTPValidity: 5 * time.Minute,
	}, zerolog.Nop())
	return p, sms, objects, purger
}

func task(t *testing.T, typ string, payload any) queue.Task {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return queue.Task{ID: "t1", Type: typ, Payload: raw}
}

func TestHandleOTPDispatch(t *testing.T) {
	p, sms, _, _ := newProcessor()

	err := p.Handle(context.Background(), task(t, queue.TaskOTPDispatch, queue.OTPDispatch{Phone: "+919000000001", Code: "4821"}))

	require.NoError(t, err)
	assert.Equal(t, []sentSMS{{"+919000000001", "Your code is 4821, valid for 5 minutes."}}, sms.sent)
}

func TestHandleOTPDispatchRetriesOnSendFailure(t *testing.T) {
	p, sms, _, _ := newProcessor()
	sms.err = errors.New("throttled")

	err := p.Handle(context.Background(), task(t, queue.TaskOTPDispatch, queue.OTPDispatch{Phone: "9000000001", Code: "4821"}))

	assert.ErrorContains(t, err, "throttled")
}

func TestHandleAvatarCleanup(t *testing.T) {
	p, _, objects, _ := newProcessor()

	require.NoError(t, p.Handle(context.Background(), task(t, queue.TaskAvatarCleanup, queue.AvatarCleanup{Key: "wexa/avatars/1/a.png"})))

	assert.Equal(t, []string{"wexa/avatars/1/a.png"}, objects.removed)
}

func TestHandleOTPPurge(t *testing.T) {
	p, _, _, purger := newProcessor()
	explicit := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, p.Handle(context.Background(), queue.Task{ID: "t1", Type: queue.TaskOTPPurge}))
	require.NoError(t, p.Handle(context.Background(), task(t, queue.TaskOTPPurge, queue.OTPPurge{Before: explicit})))

	assert.Equal(t, []time.Time{purger.cutoff, explicit}, purger.before)
}

func TestHandleDropsMalformedAndUnknown(t *testing.T) {
	p, sms, _, _ := newProcessor()

	assert.NoError(t, p.Handle(context.Background(), queue.Task{ID: "t1", Type: queue.TaskOTPDispatch, Payload: json.RawMessage(`{`)}))
	assert.NoError(t, p.Handle(context.Background(), queue.Task{ID: "t2", Type: "image.resize"}))
	assert.Empty(t, sms.sent)
}

func TestMaskPhone(t *testing.T) {
	assert.Equal(t, "******0001", maskPhone("+919000000001"))
	assert.Equal(t, "****", maskPhone("123"))
}
