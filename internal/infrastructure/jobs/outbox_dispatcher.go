package jobs

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"kemea.backend/internal/domain/entities"
	"kemea.backend/pkg/logger"
	"kemea.backend/pkg/metrics"
)

// MaxDeliveryAttempts is how many times an email is tried before it is marked failed.
const MaxDeliveryAttempts = 5

type outboxStore interface {
	ListDue(ctx context.Context, now time.Time, limit int) ([]*entities.OutboxEmail, error)
	MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error
	MarkRetry(ctx context.Context, id uuid.UUID, attempts int, lastError string, nextAttemptAt time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID, attempts int, lastError string) error
}

type emailSender interface {
	Send(ctx context.Context, msg entities.EmailMessage) error
}

type transactor interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// OutboxDispatcher delivers pending outbox emails on a fixed interval.
type OutboxDispatcher struct {
	repo      outboxStore
	sender    emailSender
	uow       transactor
	interval  time.Duration
	batchSize int
	now       func() time.Time
	stop      chan struct{}
}

func NewOutboxDispatcher(repo outboxStore, sender emailSender, uow transactor, interval time.Duration, batchSize int) *OutboxDispatcher {
	return &OutboxDispatcher{
		repo:      repo,
		sender:    sender,
		uow:       uow,
		interval:  interval,
		batchSize: batchSize,
		now:       time.Now,
		stop:      make(chan struct{}),
	}
}

func (j *OutboxDispatcher) Start(ctx context.Context) {
	logger.Info(ctx, "Starting outbox dispatcher", zap.Duration("interval", j.interval))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Outbox dispatcher stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "Outbox dispatcher stopped")
			return
		case <-ticker.C:
			j.dispatch(ctx)
		}
	}
}

func (j *OutboxDispatcher) Stop() {
	close(j.stop)
}

// dispatch sends one batch. The batch is claimed and settled in one
// transaction so a second dispatcher skips the same rows.
func (j *OutboxDispatcher) dispatch(ctx context.Context) {
	err := j.uow.Do(ctx, func(txCtx context.Context) error {
		due, err := j.repo.ListDue(txCtx, j.now(), j.batchSize)
		if err != nil {
			return err
		}
		for _, email := range due {
			j.deliver(txCtx, email)
		}
		return nil
	})
	if err != nil {
		logger.Error(ctx, "Outbox dispatch failed", zap.Error(err))
	}
}

func (j *OutboxDispatcher) deliver(ctx context.Context, email *entities.OutboxEmail) {
	sendErr := j.sender.Send(ctx, email.Message)
	if sendErr == nil {
		if err := j.repo.MarkSent(ctx, email.ID, j.now()); err != nil {
			logger.Error(ctx, "Failed to mark email sent", zap.String("outbox_id", email.ID.String()), zap.Error(err))
		}
		metrics.OutboxDispatched.WithLabelValues("sent").Inc()
		return
	}

	attempts := email.Attempts + 1
	if attempts >= MaxDeliveryAttempts {
		logger.Error(ctx, "Giving up on email",
			zap.String("outbox_id", email.ID.String()),
			zap.Int("attempts", attempts),
			zap.Error(sendErr))
		if err := j.repo.MarkFailed(ctx, email.ID, attempts, sendErr.Error()); err != nil {
			logger.Error(ctx, "Failed to mark email failed", zap.String("outbox_id", email.ID.String()), zap.Error(err))
		}
		metrics.OutboxDispatched.WithLabelValues("failed").Inc()
		return
	}

	next := j.now().Add(backoff(attempts))
	logger.Warn(ctx, "Email delivery failed, will retry",
		zap.String("outbox_id", email.ID.String()),
		zap.Int("attempts", attempts),
		zap.Time("next_attempt_at", next),
		zap.Error(sendErr))
	if err := j.repo.MarkRetry(ctx, email.ID, attempts, sendErr.Error(), next); err != nil {
		logger.Error(ctx, "Failed to reschedule email", zap.String("outbox_id", email.ID.String()), zap.Error(err))
	}
	metrics.OutboxDispatched.WithLabelValues("retry").Inc()
}

func backoff(attempts int) time.Duration {
	return time.Duration(attempts) * 30 * time.Second
}
