package usecases

import (
	"context"
	"fmt"
	"time"

	"kemea.backend/internal/domain/entities"
	"kemea.backend/internal/domain/repositories"
	"kemea.backend/pkg/utils"
)

// mailQueue renders an email and stores it in the outbox. Callers run it
// inside the transaction of the change that caused the email.
type mailQueue struct {
	outbox   repositories.OutboxRepository
	renderer EmailRenderer
	now      func() time.Time
}

func (q *mailQueue) enqueue(ctx context.Context, template, subject string, to []string, data map[string]interface{}) error {
	body, err := q.renderer.Render(template, data)
	if err != nil {
		return fmt.Errorf("failed to render %s email: %w", template, err)
	}

	now := q.now()
	return q.outbox.Enqueue(ctx, &entities.OutboxEmail{
		ID: utils.GenerateUUIDv7(),
		Message: entities.EmailMessage{
			Subject:    subject,
			Recipients: to,
			Body:       body,
			Template:   template,
			Context:    data,
		},
		Status:        entities.OutboxStatusPending,
		NextAttemptAt: now,
		CreatedAt:     now,
	})
}
