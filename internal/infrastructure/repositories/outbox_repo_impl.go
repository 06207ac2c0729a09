package repositories

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"kemea.backend/internal/domain/entities"
	domainerrors "kemea.backend/internal/domain/errors"
	"kemea.backend/internal/infrastructure/models"
)

// OutboxRepository stores emails awaiting delivery
type OutboxRepository struct {
	db *gorm.DB
}

// NewOutboxRepository creates a new outbox repository
func NewOutboxRepository(db *gorm.DB) *OutboxRepository {
	return &OutboxRepository{db: db}
}

func (r *OutboxRepository) Enqueue(ctx context.Context, email *entities.OutboxEmail) error {
	recipients, err := json.Marshal(email.Message.Recipients)
	if err != nil {
		return err
	}
	var emailCtx []byte
	if len(email.Message.Context) > 0 {
		if emailCtx, err = json.Marshal(email.Message.Context); err != nil {
			return err
		}
	}
	if email.Status == "" {
		email.Status = entities.OutboxStatusPending
	}
	if email.NextAttemptAt.IsZero() {
		email.NextAttemptAt = time.Now()
	}

	m := &models.EmailOutbox{
		ID:            email.ID,
		Recipients:    string(recipients),
		Subject:       email.Message.Subject,
		Template:      email.Message.Template,
		Body:          email.Message.Body,
		Context:       string(emailCtx),
		Status:        string(email.Status),
		Attempts:      email.Attempts,
		NextAttemptAt: email.NextAttemptAt,
		CreatedAt:     email.CreatedAt,
	}
	return GetDB(ctx, r.db).WithContext(ctx).Create(m).Error
}

// ListDue returns pending emails whose next attempt is due, oldest first. On
// PostgreSQL the rows are locked so concurrent dispatchers skip each other's batch.
func (r *OutboxRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]*entities.OutboxEmail, error) {
	q := GetDB(ctx, r.db).WithContext(ctx).
		Where("status = ? AND next_attempt_at <= ?", string(entities.OutboxStatusPending), now).
		Order("created_at ASC").
		Limit(limit)
	if q.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"})
	}

	var rows []models.EmailOutbox
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]*entities.OutboxEmail, 0, len(rows))
	for i := range rows {
		e, err := outboxToEntity(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *OutboxRepository) MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error {
	return r.update(ctx, id, map[string]interface{}{
		"status":     string(entities.OutboxStatusSent),
		"sent_at":    sentAt,
		"last_error": "",
		"updated_at": time.Now(),
	})
}

func (r *OutboxRepository) MarkRetry(ctx context.Context, id uuid.UUID, attempts int, lastError string, nextAttemptAt time.Time) error {
	return r.update(ctx, id, map[string]interface{}{
		"attempts":        attempts,
		"last_error":      lastError,
		"next_attempt_at": nextAttemptAt,
		"updated_at":      time.Now(),
	})
}

func (r *OutboxRepository) MarkFailed(ctx context.Context, id uuid.UUID, attempts int, lastError string) error {
	return r.update(ctx, id, map[string]interface{}{
		"status":     string(entities.OutboxStatusFailed),
		"attempts":   attempts,
		"last_error": lastError,
		"updated_at": time.Now(),
	})
}

func (r *OutboxRepository) DeleteSentBefore(ctx context.Context, before time.Time) (int64, error) {
	result := GetDB(ctx, r.db).WithContext(ctx).
		Where("status = ? AND sent_at < ?", string(entities.OutboxStatusSent), before).
		Delete(&models.EmailOutbox{})
	return result.RowsAffected, result.Error
}

func (r *OutboxRepository) update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	result := GetDB(ctx, r.db).WithContext(ctx).Model(&models.EmailOutbox{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func outboxToEntity(m *models.EmailOutbox) (*entities.OutboxEmail, error) {
	var recipients []string
	if err := json.Unmarshal([]byte(m.Recipients), &recipients); err != nil {
		return nil, err
	}
	var emailCtx map[string]interface{}
	if m.Context != "" {
		if err := json.Unmarshal([]byte(m.Context), &emailCtx); err != nil {
			return nil, err
		}
	}
	return &entities.OutboxEmail{
		ID: m.ID,
		Message: entities.EmailMessage{
			Subject:    m.Subject,
			Recipients: recipients,
			Body:       m.Body,
			Template:   m.Template,
			Context:    emailCtx,
		},
		Status:        entities.OutboxStatus(m.Status),
		Attempts:      m.Attempts,
		LastError:     m.LastError,
		NextAttemptAt: m.NextAttemptAt,
		SentAt:        m.SentAt,
		CreatedAt:     m.CreatedAt,
	}, nil
}
