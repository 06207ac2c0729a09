package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"kemea.backend/internal/domain/entities"
	domainerrors "kemea.backend/internal/domain/errors"
	"kemea.backend/internal/infrastructure/models"
)

// PolicyRepository stores legal texts
type PolicyRepository struct {
	db *gorm.DB
}

// NewPolicyRepository creates a new policy repository
func NewPolicyRepository(db *gorm.DB) *PolicyRepository {
	return &PolicyRepository{db: db}
}

func (r *PolicyRepository) Get(ctx context.Context, title, language string) (*entities.Policy, error) {
	var m models.Policy
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("title = ? AND language = ?", title, language).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return policyToEntity(&m), nil
}

func (r *PolicyRepository) ListByLanguage(ctx context.Context, language string) ([]entities.Policy, error) {
	var rows []models.Policy
	if err := GetDB(ctx, r.db).WithContext(ctx).
		Where("language = ?", language).
		Order("title ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entities.Policy, 0, len(rows))
	for i := range rows {
		out = append(out, *policyToEntity(&rows[i]))
	}
	return out, nil
}

// Upsert creates the (title, language) translation or replaces its content.
func (r *PolicyRepository) Upsert(ctx context.Context, p *entities.Policy) error {
	now := time.Now()
	m := &models.Policy{
		ID:        p.ID,
		Title:     p.Title,
		Language:  p.Language,
		Content:   p.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return GetDB(ctx, r.db).WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "title"}, {Name: "language"}},
		DoUpdates: clause.AssignmentColumns([]string{"content", "updated_at"}),
	}).Create(m).Error
}

func policyToEntity(m *models.Policy) *entities.Policy {
	return &entities.Policy{
		ID:        m.ID,
		Title:     m.Title,
		Language:  m.Language,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
