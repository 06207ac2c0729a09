package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"kemea.backend/internal/domain/entities"
	domainerrors "kemea.backend/internal/domain/errors"
	"kemea.backend/internal/domain/repositories"
	"kemea.backend/pkg/utils"
)

// FavoriteUsecase manages a user's saved ads.
type FavoriteUsecase struct {
	favoriteRepo repositories.FavoriteRepository
	propertyRepo repositories.PropertyRepository
	now          func() time.Time
}

// NewFavoriteUsecase creates a new favorite usecase
func NewFavoriteUsecase(favoriteRepo repositories.FavoriteRepository, propertyRepo repositories.PropertyRepository) *FavoriteUsecase {
	return &FavoriteUsecase{favoriteRepo: favoriteRepo, propertyRepo: propertyRepo, now: time.Now}
}

// Add saves a public ad for userID.
func (u *FavoriteUsecase) Add(ctx context.Context, userID, propertyID uuid.UUID) (*entities.FavoriteProperty, error) {
	p, err := u.propertyRepo.GetByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NonExistent("Property not found")
		}
		return nil, err
	}
	if !p.IsPublic() && p.ListerID != userID {
		return nil, domainerrors.NonExistent("Property not found")
	}

	fav := &entities.FavoriteProperty{
		ID:         utils.GenerateUUIDv7(),
		PropertyID: propertyID,
		UserID:     userID,
		Property:   p,
		CreatedAt:  u.now(),
	}
	if err := u.favoriteRepo.Add(ctx, fav); err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("Property is already in your favorites")
		}
		return nil, err
	}
	return fav, nil
}

// Remove unsaves an ad.
func (u *FavoriteUsecase) Remove(ctx context.Context, userID, propertyID uuid.UUID) error {
	if err := u.favoriteRepo.Remove(ctx, userID, propertyID); err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return domainerrors.NonExistent("Property is not in your favorites")
		}
		return err
	}
	return nil
}

// List returns one page of saved ads, newest first.
func (u *FavoriteUsecase) List(ctx context.Context, userID uuid.UUID, page utils.PaginationParams) ([]*entities.FavoriteProperty, int64, error) {
	return u.favoriteRepo.ListByUser(ctx, userID, page)
}
