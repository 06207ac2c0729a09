package repositories

import (
	"context"

	"kemea.backend/internal/domain/entities"
)

// PolicyRepository stores legal texts per language.
type PolicyRepository interface {
	Get(ctx context.Context, title, language string) (*entities.Policy, error)
	ListByLanguage(ctx context.Context, language string) ([]entities.Policy, error)
	Upsert(ctx context.Context, policy *entities.Policy) error
}
