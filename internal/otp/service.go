// Package otp issues and checks the one-time codes that gate signup.
package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/rs/zerolog"

	"github.com/shrestaRongali/wexa-wexa-backend/internal/apperr"
	"github.com/shrestaRongali/wexa-wexa-backend/internal/config"
	"github.com/shrestaRongali/wexa-wexa-backend/internal/dal"
	"github.com/shrestaRongali/wexa-wexa-backend/internal/models"
	"github.com/shrestaRongali/wexa-wexa-backend/internal/queue"
	"github.com/shrestaRongali/wexa-wexa-backend/internal/repository"
)

const (
	MsgInUse      = "Email/Mobile number already in use"
	MsgInvalidOTP = "Invalid OTP"
)

type TaskQueue interface {
	Enqueue(ctx context.Context, taskType string, payload any) (string, error)
}

type Service struct {
	users      *repository.UserRepository
	otps       *repository.OtpRepository
	tasks      TaskQueue
	cfg        config.OTPConfig
	production bool
	logger     zerolog.Logger
	now        func() time.Time
}

func NewService(users *repository.UserRepository, otps *repository.OtpRepository, tasks TaskQueue, cfg config.OTPConfig, production bool, logger zerolog.Logger) *Service {
	return &Service{
		users:      users,
		otps:       otps,
		tasks:      tasks,
		cfg:        cfg,
		production: production,
		logger:     logger,
		now:        time.Now,
	}
}

// Request stores a fresh code for phone and queues it for SMS delivery. It
// refuses identifiers that already belong to an account.
func (s *Service) Request(ctx context.Context, email string, phone string) error {
	_, err := s.users.FindByEmailOrPhone(ctx, email, phone)
	if err == nil {
		return apperr.BadRequest(MsgInUse)
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return fmt.Errorf("check existing user: %w", err)
	}

	code, err := s.generate()
	if err != nil {
		return err
	}
	if _, err := s.otps.Create(ctx, phone, code); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}

	taskID, err := s.tasks.Enqueue(ctx, queue.TaskOTPDispatch, queue.OTPDispatch{Phone: phone, Code: code})
	if err != nil {
		return fmt.Errorf("queue otp dispatch: %w", err)
	}
	s.logger.Debug().Str("phone", phone).Str("task_id", taskID).Msg("otp queued")
	return nil
}

// Verify finds a stored code matching phone. A nil q runs on the pool.
func (s *Service) Verify(ctx context.Context, q dal.Querier, phone string, code string) (models.SignupOtp, error) {
	var notBefore time.Time
	if s.cfg.EnforceExpiry {
		notBefore = s.now().Add(-s.cfg.Expiry)
	}

	otp, err := s.repo(q).FindMatch(ctx, phone, code, notBefore)
	if errors.Is(err, repository.ErrOtpNotFound) {
		return models.SignupOtp{}, apperr.BadRequest(MsgInvalidOTP)
	}
	if err != nil {
		return models.SignupOtp{}, fmt.Errorf("verify otp: %w", err)
	}
	return otp, nil
}

// Consume deletes every code issued to phone.
func (s *Service) Consume(ctx context.Context, q dal.Querier, phone string) error {
	if _, err := s.repo(q).DeleteByPhone(ctx, phone); err != nil {
		return fmt.Errorf("consume otp: %w", err)
	}
	return nil
}

// PurgeExpired deletes codes created before the cutoff. Nothing is deleted
// while expiry is not enforced.
func (s *Service) PurgeExpired(ctx context.Context, before time.Time) (int64, error) {
	if !s.cfg.EnforceExpiry {
		s.logger.Debug().Msg("otp expiry not enforced, purge skipped")
		return 0, nil
	}
	n, err := s.otps.DeleteCreatedBefore(ctx, before)
	if err != nil {
		return 0, fmt.Errorf("purge otps: %w", err)
	}
	return n, nil
}

// ExpiryCutoff is the creation time before which codes are no longer valid.
func (s *Service) ExpiryCutoff() time.Time {
	return s.now().Add(-s.cfg.Expiry)
}

func (s *Service) repo(q dal.Querier) *repository.OtpRepository {
	if q == nil {
		return s.otps
	}
	return s.otps.WithTx(q)
}

func (s *Service) generate() (string, error) {
	if !s.production && s.cfg.TestCode != "" {
		return s.cfg.TestCode, nil
	}
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+1000), nil
}
