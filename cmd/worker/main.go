package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/shrestaRongali/wexa-wexa-backend/internal/cache"
	"github.com/shrestaRongali/wexa-wexa-backend/internal/config"
	"github.com/shrestaRongali/wexa-wexa-backend/internal/database"
	"github.com/shrestaRongali/wexa-wexa-backend/internal/jobs"
	"github.com/shrestaRongali/wexa-wexa-backend/internal/log"
	"github.com/shrestaRongali/wexa-wexa-backend/internal/notify"
	"github.com/shrestaRongali/wexa-wexa-backend/internal/otp"
	"github.com/shrestaRongali/wexa-wexa-backend/internal/queue"
	"github.com/shrestaRongali/wexa-wexa-backend/internal/repository"
	"github.com/shrestaRongali/wexa-wexa-backend/internal/storage"
	"github.com/shrestaRongali/wexa-wexa-backend/internal/tasks"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment, cfg.Logging.Level).With().Str("component", "worker").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}
	defer dbPool.Close()

	redisClient, err := cache.Connect(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connection failed")
	}
	defer redisClient.Close()

	objectStore, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init object store")
	}

	var sms notify.Sender = notify.NewLogSender(logger)
	if cfg.SMS.Enabled {
		sns, err := notify.NewSNSSender(ctx, cfg.SMS)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to init sms sender")
		}
		sms = sns
	}

	producer := queue.NewProducer(redisClient, cfg.Queue.Stream)
	otpService := otp.NewService(
		repository.NewUserRepository(dbPool, cfg.Storage.CDNURL),
		repository.NewOtpRepository(dbPool),
		producer,
		cfg.OTP,
		cfg.IsProduction(),
		logger,
	)

	processor := tasks.NewProcessor(sms, objectStore, otpService, tasks.Options{
		SMSTemplate: cfg.SMS.Template,
		OTPValidity: cfg.OTP.Expiry,
	}, logger)
	consumer := queue.NewConsumer(redisClient, queue.ConsumerConfig{
		Stream:        cfg.Queue.Stream,
		Group:         cfg.Queue.Group,
		Consumer:      cfg.Queue.Consumer,
		ClaimInterval: cfg.Queue.ClaimInterval,
	}, logger, processor)

	scheduler := jobs.NewScheduler(producer, logger)
	if err := scheduler.Start(); err != nil {
		logger.Error().Err(err).Msg("scheduler start failed")
	}

	go func() {
		if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("consumer stopped unexpectedly")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")
	scheduler.Stop()
	time.Sleep(500 * time.Millisecond)
}
