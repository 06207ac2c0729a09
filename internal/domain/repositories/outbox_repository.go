package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"kemea.backend/internal/domain/entities"
)

// OutboxRepository stores emails awaiting delivery.
type OutboxRepository interface {
	Enqueue(ctx context.Context, email *entities.OutboxEmail) error
	ListDue(ctx context.Context, now time.Time, limit int) ([]*entities.OutboxEmail, error)
	MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error
	MarkRetry(ctx context.Context, id uuid.UUID, attempts int, lastError string, nextAttemptAt time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID, attempts int, lastError string) error
	DeleteSentBefore(ctx context.Context, before time.Time) (int64, error)
}
