package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
	"kemea.backend/pkg/logger"
)

type otpPurger interface {
	DeleteCreatedBefore(ctx context.Context, before time.Time) (int64, error)
}

type sentEmailPurger interface {
	DeleteSentBefore(ctx context.Context, before time.Time) (int64, error)
}

// Maintenance runs periodic cleanup: expired OTPs and delivered outbox rows.
type Maintenance struct {
	scheduler gocron.Scheduler
	otps      otpPurger
	outbox    sentEmailPurger
	otpTTL    time.Duration
	retention time.Duration
	now       func() time.Time
}

func NewMaintenance(otps otpPurger, outbox sentEmailPurger, otpTTL, retention time.Duration) (*Maintenance, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	return &Maintenance{
		scheduler: s,
		otps:      otps,
		outbox:    outbox,
		otpTTL:    otpTTL,
		retention: retention,
		now:       time.Now,
	}, nil
}

// Start registers the cleanup tasks to run every interval and starts the scheduler.
func (m *Maintenance) Start(ctx context.Context, interval time.Duration) error {
	if _, err := m.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() { m.purgeExpiredOTPs(ctx) }),
		gocron.WithName("purge-expired-otps"),
	); err != nil {
		return fmt.Errorf("failed to schedule otp purge: %w", err)
	}
	if _, err := m.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() { m.purgeSentEmails(ctx) }),
		gocron.WithName("purge-sent-emails"),
	); err != nil {
		return fmt.Errorf("failed to schedule outbox purge: %w", err)
	}

	m.scheduler.Start()
	logger.Info(ctx, "Maintenance scheduler started", zap.Duration("interval", interval))
	return nil
}

func (m *Maintenance) Stop() error {
	return m.scheduler.Shutdown()
}

func (m *Maintenance) purgeExpiredOTPs(ctx context.Context) {
	n, err := m.otps.DeleteCreatedBefore(ctx, m.now().Add(-m.otpTTL))
	if err != nil {
		logger.Error(ctx, "Failed to purge expired OTPs", zap.Error(err))
		return
	}
	if n > 0 {
		logger.Info(ctx, "Purged expired OTPs", zap.Int64("count", n))
	}
}

func (m *Maintenance) purgeSentEmails(ctx context.Context) {
	n, err := m.outbox.DeleteSentBefore(ctx, m.now().Add(-m.retention))
	if err != nil {
		logger.Error(ctx, "Failed to purge sent emails", zap.Error(err))
		return
	}
	if n > 0 {
		logger.Info(ctx, "Purged sent emails", zap.Int64("count", n))
	}
}
