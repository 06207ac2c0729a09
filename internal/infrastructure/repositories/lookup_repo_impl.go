package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"kemea.backend/internal/domain/entities"
	domainerrors "kemea.backend/internal/domain/errors"
)

var lookupTables = map[entities.LookupKind]string{
	entities.LookupAdCategory:      "ad_categories",
	entities.LookupPropertyType:    "property_types",
	entities.LookupPropertyState:   "property_states",
	entities.LookupPropertyFeature: "property_features",
}

type lookupRow struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
}

// LookupRepository reads and seeds the property lookup tables
type LookupRepository struct {
	db *gorm.DB
}

// NewLookupRepository creates a new lookup repository
func NewLookupRepository(db *gorm.DB) *LookupRepository {
	return &LookupRepository{db: db}
}

func (r *LookupRepository) table(ctx context.Context, kind entities.LookupKind) (*gorm.DB, error) {
	name, ok := lookupTables[kind]
	if !ok {
		return nil, fmt.Errorf("%w: unknown lookup %q", domainerrors.ErrInvalidInput, kind)
	}
	return GetDB(ctx, r.db).WithContext(ctx).Table(name), nil
}

func (r *LookupRepository) List(ctx context.Context, kind entities.LookupKind) ([]entities.Lookup, error) {
	q, err := r.table(ctx, kind)
	if err != nil {
		return nil, err
	}
	var rows []lookupRow
	if err := q.Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return lookupsToEntities(rows), nil
}

func (r *LookupRepository) Get(ctx context.Context, kind entities.LookupKind, id uuid.UUID) (*entities.Lookup, error) {
	q, err := r.table(ctx, kind)
	if err != nil {
		return nil, err
	}
	var row lookupRow
	if err := q.Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return &entities.Lookup{ID: row.ID, Name: row.Name}, nil
}

// GetMany returns the rows matching ids. Unknown ids are silently skipped.
func (r *LookupRepository) GetMany(ctx context.Context, kind entities.LookupKind, ids []uuid.UUID) ([]entities.Lookup, error) {
	if len(ids) == 0 {
		return []entities.Lookup{}, nil
	}
	q, err := r.table(ctx, kind)
	if err != nil {
		return nil, err
	}
	var rows []lookupRow
	if err := q.Where("id IN ?", ids).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return lookupsToEntities(rows), nil
}

func (r *LookupRepository) Create(ctx context.Context, kind entities.LookupKind, name string) (*entities.Lookup, error) {
	q, err := r.table(ctx, kind)
	if err != nil {
		return nil, err
	}
	row := lookupRow{ID: uuid.New(), Name: name, CreatedAt: time.Now()}
	if err := q.Create(&row).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, domainerrors.ErrAlreadyExists
		}
		return nil, err
	}
	return &entities.Lookup{ID: row.ID, Name: row.Name}, nil
}

func lookupsToEntities(rows []lookupRow) []entities.Lookup {
	out := make([]entities.Lookup, 0, len(rows))
	for _, row := range rows {
		out = append(out, entities.Lookup{ID: row.ID, Name: row.Name})
	}
	return out
}
