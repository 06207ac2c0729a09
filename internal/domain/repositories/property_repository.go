package repositories

import (
	"context"

	"github.com/google/uuid"
	"kemea.backend/internal/domain/entities"
	"kemea.backend/pkg/utils"
)

// LookupRepository reads the property lookup tables.
type LookupRepository interface {
	List(ctx context.Context, kind entities.LookupKind) ([]entities.Lookup, error)
	Get(ctx context.Context, kind entities.LookupKind, id uuid.UUID) (*entities.Lookup, error)
	GetMany(ctx context.Context, kind entities.LookupKind, ids []uuid.UUID) ([]entities.Lookup, error)
	Create(ctx context.Context, kind entities.LookupKind, name string) (*entities.Lookup, error)
}

// PropertyRepository stores ads with their features and media.
type PropertyRepository interface {
	Create(ctx context.Context, property *entities.Property) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Property, error)
	Update(ctx context.Context, property *entities.Property) error
	Delete(ctx context.Context, id uuid.UUID) error
	// SetFeatures makes the ad's features exactly featureIDs, touching only the difference.
	SetFeatures(ctx context.Context, propertyID uuid.UUID, featureIDs []uuid.UUID) error
	ReplaceMedia(ctx context.Context, propertyID uuid.UUID, urls []string) error
	List(ctx context.Context, filter entities.PropertyFilter, page utils.PaginationParams) ([]*entities.Property, int64, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
}

// FavoriteRepository stores saved ads.
type FavoriteRepository interface {
	Add(ctx context.Context, favorite *entities.FavoriteProperty) error
	Remove(ctx context.Context, userID, propertyID uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID, page utils.PaginationParams) ([]*entities.FavoriteProperty, int64, error)
}
