// Package tasks executes the background work queued by the API.
package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/shrestaRongali/wexa-wexa-backend/internal/notify"
	"github.com/shrestaRongali/wexa-wexa-backend/internal/queue"
)

type ObjectRemover interface {
	Remove(ctx context.Context, key string) error
}

type OTPPurger interface {
	PurgeExpired(ctx context.Context, before time.Time) (int64, error)
	ExpiryCutoff() time.Time
}

type Options struct {
	SMSTemplate string
	OTPValidity time.Duration
}

type Processor struct {
	sms     notify.Sender
	objects ObjectRemover
	otps    OTPPurger
	opts    Options
	logger  zerolog.Logger
}

func NewProcessor(sms notify.Sender, objects ObjectRemover, otps OTPPurger, opts Options, logger zerolog.Logger) *Processor {
	return &Processor{
		sms:     sms,
		objects: objects,
		otps:    otps,
		opts:    opts,
		logger:  logger,
	}
}

// Handle runs one task. Payloads that cannot be decoded are logged and acked.
func (p *Processor) Handle(ctx context.Context, task queue.Task) error {
	switch task.Type {
	case queue.TaskOTPDispatch:
		var payload queue.OTPDispatch
		if err := task.Decode(&payload); err != nil {
			return p.drop(task, err)
		}
		return p.handleOTPDispatch(ctx, payload)
	case queue.TaskAvatarCleanup:
		var payload queue.AvatarCleanup
		if err := task.Decode(&payload); err != nil {
			return p.drop(task, err)
		}
		return p.handleAvatarCleanup(ctx, payload)
	case queue.TaskOTPPurge:
		var payload queue.OTPPurge
		if len(task.Payload) > 0 {
			if err := task.Decode(&payload); err != nil {
				return p.drop(task, err)
			}
		}
		return p.handleOTPPurge(ctx, payload)
	default:
		p.logger.Warn().Str("task_id", task.ID).Str("type", task.Type).Msg("unknown task type")
		return nil
	}
}

func (p *Processor) drop(task queue.Task, err error) error {
	p.logger.Error().Err(err).Str("task_id", task.ID).Str("type", task.Type).Msg("dropping malformed task")
	return nil
}

func (p *Processor) handleOTPDispatch(ctx context.Context, payload queue.OTPDispatch) error {
	if payload.Phone == "" || payload.Code == "" {
		p.logger.Warn().Msg("otp dispatch without phone or code")
		return nil
	}
	msg := notify.OTPMessage(p.opts.SMSTemplate, payload.Code, p.opts.OTPValidity)
	if err := p.sms.Send(ctx, payload.Phone, msg); err != nil {
		return fmt.Errorf("send otp sms: %w", err)
	}
	p.logger.Info().Str("phone", maskPhone(payload.Phone)).Msg("otp dispatched")
	return nil
}

func (p *Processor) handleAvatarCleanup(ctx context.Context, payload queue.AvatarCleanup) error {
	if payload.Key == "" {
		return nil
	}
	if err := p.objects.Remove(ctx, payload.Key); err != nil {
		return fmt.Errorf("remove avatar %s: %w", payload.Key, err)
	}
	p.logger.Info().Str("key", payload.Key).Msg("avatar object removed")
	return nil
}

func (p *Processor) handleOTPPurge(ctx context.Context, payload queue.OTPPurge) error {
	before := payload.Before
	if before.IsZero() {
		before = p.otps.ExpiryCutoff()
	}
	n, err := p.otps.PurgeExpired(ctx, before)
	if err != nil {
		return err
	}
	p.logger.Info().Int64("deleted", n).Time("before", before).Msg("expired otps purged")
	return nil
}

func maskPhone(phone string) string {
	if len(phone) <= 4 {
		return "****"
	}
	return "******" + phone[len(phone)-4:]
}
