package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"kemea.backend/internal/domain/entities"
	domainerrors "kemea.backend/internal/domain/errors"
	"kemea.backend/internal/infrastructure/models"
	"kemea.backend/pkg/utils"
)

// FavoriteRepository stores saved ads
type FavoriteRepository struct {
	db *gorm.DB
}

// NewFavoriteRepository creates a new favorite repository
func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

func (r *FavoriteRepository) Add(ctx context.Context, f *entities.FavoriteProperty) error {
	m := &models.FavoriteProperty{
		ID:         f.ID,
		PropertyID: f.PropertyID,
		UserID:     f.UserID,
		CreatedAt:  f.CreatedAt,
	}
	if err := GetDB(ctx, r.db).WithContext(ctx).Omit("Property", "User").Create(m).Error; err != nil {
		if isDuplicateKey(err) {
			return domainerrors.ErrAlreadyExists
		}
		return err
	}
	f.CreatedAt = m.CreatedAt
	return nil
}

func (r *FavoriteRepository) Remove(ctx context.Context, userID, propertyID uuid.UUID) error {
	result := GetDB(ctx, r.db).WithContext(ctx).
		Where("user_id = ? AND property_id = ?", userID, propertyID).
		Delete(&models.FavoriteProperty{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *FavoriteRepository) ListByUser(ctx context.Context, userID uuid.UUID, page utils.PaginationParams) ([]*entities.FavoriteProperty, int64, error) {
	db := GetDB(ctx, r.db).WithContext(ctx)

	var total int64
	if err := db.Model(&models.FavoriteProperty{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := db.
		Preload("Property").
		Preload("Property.PropertyType").
		Preload("Property.PropertyState").
		Preload("Property.AdCategory").
		Preload("Property.Features").
		Preload("Property.Media").
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if page.Limit > 0 {
		q = q.Offset(page.CalculateOffset()).Limit(page.Limit)
	}

	var rows []models.FavoriteProperty
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]*entities.FavoriteProperty, 0, len(rows))
	for i := range rows {
		f := &entities.FavoriteProperty{
			ID:         rows[i].ID,
			PropertyID: rows[i].PropertyID,
			UserID:     rows[i].UserID,
			CreatedAt:  rows[i].CreatedAt,
		}
		if rows[i].Property != nil {
			f.Property = propertyToEntity(rows[i].Property)
		}
		out = append(out, f)
	}
	return out, total, nil
}
