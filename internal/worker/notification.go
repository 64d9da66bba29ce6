package worker

import (
	"context"
	"encoding/json"
	"time"

	"school-management-api/internal/config"
	"school-management-api/internal/logger"
	"school-management-api/internal/model"
	"school-management-api/internal/notification"
	"school-management-api/internal/queue"
	"school-management-api/pkg/errors"

	"github.com/rs/zerolog"
)

const defaultPushTimeout = 5 * time.Second

type jobSource interface {
	ConsumeEmailQueue(ctx context.Context, handler queue.MessageHandler) error
}

type jobSink interface {
	EnqueueEmail(ctx context.Context, job model.EmailJob) error
	DeadLetter(ctx context.Context, job model.EmailJob) error
}

// NotificationWorker delivers queued emails. Transient failures are retried
// with exponential backoff until max attempts, then dead-lettered.
type NotificationWorker struct {
	source      jobSource
	sink        jobSink
	sender      notification.Sender
	workerPool  *WorkerPool
	maxAttempts int
	backoffBase time.Duration
	pushTimeout time.Duration
	sleep       func(ctx context.Context, d time.Duration) error
	log         zerolog.Logger
}

func NewNotificationWorker(cfg *config.Config, redisClient *queue.RedisClient, sender notification.Sender) *NotificationWorker {
	return &NotificationWorker{
		source:      queue.NewConsumer(redisClient, cfg),
		sink:        queue.NewProducer(redisClient, cfg),
		sender:      sender,
		workerPool:  NewWorkerPool(cfg.Workers.Email.Count),
		maxAttempts: cfg.Email.MaxAttempts,
		backoffBase: cfg.Email.BackoffBase,
		pushTimeout: defaultPushTimeout,
		sleep:       sleepContext,
		log:         logger.Get(),
	}
}

func (w *NotificationWorker) Start(ctx context.Context) error {
	w.log.Info().Int("max_attempts", w.maxAttempts).Msg("Starting notification worker")

	w.workerPool.Start(ctx)

	return w.source.ConsumeEmailQueue(ctx, w.handleMessage)
}

func (w *NotificationWorker) Stop() {
	w.log.Info().Msg("Stopping notification worker")
	w.workerPool.Stop()
}

func (w *NotificationWorker) handleMessage(ctx context.Context, data []byte) error {
	var job model.EmailJob
	if err := json.Unmarshal(data, &job); err != nil {
		w.log.Error().Err(err).Msg("Failed to unmarshal email job")
		return err
	}

	err := w.workerPool.Submit(ctx, func(ctx context.Context) error {
		return w.deliver(ctx, job)
	})
	if err != nil && ctx.Err() != nil {
		w.log.Warn().Str("job_id", job.ID).Msg("Shutting down, returning job to queue")
		return w.requeue(job)
	}
	return err
}

func (w *NotificationWorker) deliver(ctx context.Context, job model.EmailJob) error {
	log := w.log.With().Str("job_id", job.ID).Int("attempt", job.Attempts+1).Logger()

	if ctx.Err() != nil {
		log.Warn().Msg("Shutting down, returning job to queue")
		return w.requeue(job)
	}

	err := w.sender.Send(ctx, job)
	if err == nil {
		log.Info().Str("to", job.To).Msg("Email delivered")
		return nil
	}

	// Interrupted sends keep their attempt count.
	if ctx.Err() != nil {
		log.Warn().Err(err).Msg("Email interrupted, returning job to queue")
		return w.requeue(job)
	}

	job.Attempts++
	if !errors.IsRetryable(err) || job.Attempts >= w.maxAttempts {
		log.Error().Err(err).Msg("Email failed, moving to DLQ")
		return w.deadLetter(job)
	}

	delay := w.backoff(job.Attempts)
	log.Warn().Err(err).Dur("retry_in", delay).Msg("Email failed, retrying")
	if err := w.sleep(ctx, delay); err != nil {
		log.Warn().Msg("Shutting down before retry, returning job to queue")
	}
	return w.requeue(job)
}

// requeue and deadLetter run on their own deadline so a job in hand survives
// the worker's context being cancelled.
func (w *NotificationWorker) requeue(job model.EmailJob) error {
	ctx, cancel := context.WithTimeout(context.Background(), w.pushTimeout)
	defer cancel()
	return w.sink.EnqueueEmail(ctx, job)
}

func (w *NotificationWorker) deadLetter(job model.EmailJob) error {
	ctx, cancel := context.WithTimeout(context.Background(), w.pushTimeout)
	defer cancel()
	return w.sink.DeadLetter(ctx, job)
}

// backoff returns base, 2*base, 4*base, ... for attempts 1, 2, 3, ...
func (w *NotificationWorker) backoff(attempts int) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	return w.backoffBase << (attempts - 1)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
