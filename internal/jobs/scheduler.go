package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/shrestaRongali/wexa-wexa-backend/internal/queue"
)

const otpPurgeSpec = "0 30 3 * * *"

type TaskQueue interface {
	Enqueue(ctx context.Context, taskType string, payload any) (string, error)
}

type Scheduler struct {
	cron  *cron.Cron
	queue TaskQueue
	log   zerolog.Logger
}

func NewScheduler(queue TaskQueue, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:  cron.New(cron.WithSeconds()),
		queue: queue,
		log:   log,
	}
}

func (s *Scheduler) Start() error {
	if s.queue == nil {
		return nil
	}

	if _, err := s.cron.AddFunc(otpPurgeSpec, s.enqueueOTPPurge); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop waits up to five seconds for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		s.log.Warn().Msg("scheduler stop timed out")
	}
}

func (s *Scheduler) enqueueOTPPurge() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	id, err := s.queue.Enqueue(ctx, queue.TaskOTPPurge, queue.OTPPurge{})
	if err != nil {
		s.log.Error().Err(err).Msg("enqueue otp purge failed")
		return
	}
	s.log.Info().Str("task_id", id).Msg("otp purge queued")
}
