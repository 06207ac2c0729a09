package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"kemea.backend/internal/domain/entities"
	domainerrors "kemea.backend/internal/domain/errors"
	"kemea.backend/internal/infrastructure/models"
	"kemea.backend/pkg/utils"
)

const propertyFeatureLinkTable = "property_features_link"

type propertyFeatureLink struct {
	PropertyID        uuid.UUID
	PropertyFeatureID uuid.UUID
}

func (propertyFeatureLink) TableName() string { return propertyFeatureLinkTable }

// PropertyRepository stores ads
type PropertyRepository struct {
	db *gorm.DB
}

// NewPropertyRepository creates a new property repository
func NewPropertyRepository(db *gorm.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

func (r *PropertyRepository) Create(ctx context.Context, p *entities.Property) error {
	m := propertyToModel(p)
	if err := GetDB(ctx, r.db).WithContext(ctx).Omit("Features", "Media").Create(m).Error; err != nil {
		if isDuplicateKey(err) {
			return domainerrors.ErrAlreadyExists
		}
		return err
	}
	p.CreatedAt = m.CreatedAt
	p.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *PropertyRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Property, error) {
	var m models.Property
	if err := preloadProperty(GetDB(ctx, r.db).WithContext(ctx)).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return propertyToEntity(&m), nil
}

// Update writes every scalar column of p. Features and media have their own methods.
func (r *PropertyRepository) Update(ctx context.Context, p *entities.Property) error {
	updates := map[string]interface{}{
		"property_type_id":       lookupID(p.PropertyType),
		"property_state_id":      lookupID(p.PropertyState),
		"ad_category_id":         lookupID(p.AdCategory),
		"name":                   p.Name,
		"slug":                   p.Slug,
		"city":                   p.City,
		"floors":                 p.Floors,
		"ground_level":           p.GroundLevel,
		"street":                 p.Street,
		"street_number":          p.StreetNumber,
		"area":                   p.Area,
		"number_of_rooms":        p.NumberOfRooms,
		"surface_build":          p.SurfaceBuild,
		"total_surface":          p.TotalSurface,
		"price":                  p.Price,
		"discount":               p.Discount,
		"entry_date":             p.EntryDate.Ptr(),
		"number_of_balcony":      p.NumberOfBalcony,
		"car_parking":            p.CarParking,
		"description":            p.Description,
		"matterport_view_link":   p.MatterportViewLink.Ptr(),
		"name_of_lister":         p.NameOfLister.Ptr(),
		"reachable_phone_number": p.ReachablePhoneNumber.Ptr(),
		"latitude":               p.Latitude.Ptr(),
		"longitude":              p.Longitude.Ptr(),
		"geohash":                p.Geohash,
		"ad_status":              string(p.AdStatus),
		"terminated":             p.Terminated,
		"updated_at":             time.Now(),
	}
	result := GetDB(ctx, r.db).WithContext(ctx).Model(&models.Property{}).Where("id = ?", p.ID).Updates(updates)
	if result.Error != nil {
		if isDuplicateKey(result.Error) {
			return domainerrors.ErrAlreadyExists
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// Delete removes the ad together with its feature links, media and favorites.
func (r *PropertyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := GetDB(ctx, r.db).WithContext(ctx)
	if err := db.Where("property_id = ?", id).Delete(&propertyFeatureLink{}).Error; err != nil {
		return err
	}
	if err := db.Where("property_id = ?", id).Delete(&models.PropertyMedia{}).Error; err != nil {
		return err
	}
	if err := db.Where("property_id = ?", id).Delete(&models.FavoriteProperty{}).Error; err != nil {
		return err
	}
	result := db.Where("id = ?", id).Delete(&models.Property{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *PropertyRepository) SetFeatures(ctx context.Context, propertyID uuid.UUID, featureIDs []uuid.UUID) error {
	db := GetDB(ctx, r.db).WithContext(ctx)

	var current []uuid.UUID
	if err := db.Model(&propertyFeatureLink{}).Where("property_id = ?", propertyID).
		Pluck("property_feature_id", &current).Error; err != nil {
		return err
	}

	want := make(map[uuid.UUID]struct{}, len(featureIDs))
	for _, id := range featureIDs {
		want[id] = struct{}{}
	}
	have := make(map[uuid.UUID]struct{}, len(current))
	var remove []uuid.UUID
	for _, id := range current {
		have[id] = struct{}{}
		if _, ok := want[id]; !ok {
			remove = append(remove, id)
		}
	}
	var add []propertyFeatureLink
	for id := range want {
		if _, ok := have[id]; !ok {
			add = append(add, propertyFeatureLink{PropertyID: propertyID, PropertyFeatureID: id})
		}
	}

	if len(remove) > 0 {
		if err := db.Where("property_id = ? AND property_feature_id IN ?", propertyID, remove).
			Delete(&propertyFeatureLink{}).Error; err != nil {
			return err
		}
	}
	if len(add) > 0 {
		if err := db.Create(&add).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *PropertyRepository) ReplaceMedia(ctx context.Context, propertyID uuid.UUID, urls []string) error {
	db := GetDB(ctx, r.db).WithContext(ctx)
	if err := db.Where("property_id = ?", propertyID).Delete(&models.PropertyMedia{}).Error; err != nil {
		return err
	}
	if len(urls) == 0 {
		return nil
	}
	now := time.Now()
	rows := make([]models.PropertyMedia, 0, len(urls))
	for _, u := range urls {
		rows = append(rows, models.PropertyMedia{ID: uuid.New(), PropertyID: propertyID, URL: u, CreatedAt: now})
	}
	return db.Create(&rows).Error
}

// List returns one page of ads matching filter, newest first, and the total match count.
func (r *PropertyRepository) List(ctx context.Context, filter entities.PropertyFilter, page utils.PaginationParams) ([]*entities.Property, int64, error) {
	db := GetDB(ctx, r.db).WithContext(ctx)

	var total int64
	if err := applyPropertyFilter(db.Model(&models.Property{}), filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := applyPropertyFilter(preloadProperty(db), filter).Order("properties.created_at DESC")
	if page.Limit > 0 {
		q = q.Offset(page.CalculateOffset()).Limit(page.Limit)
	}
	var rows []models.Property
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]*entities.Property, 0, len(rows))
	for i := range rows {
		out = append(out, propertyToEntity(&rows[i]))
	}
	return out, total, nil
}

func (r *PropertyRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := GetDB(ctx, r.db).WithContext(ctx).Model(&models.Property{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func applyPropertyFilter(q *gorm.DB, f entities.PropertyFilter) *gorm.DB {
	if f.ListerID != nil {
		q = q.Where("properties.lister_id = ?", *f.ListerID)
	}
	if f.OnlyPublic {
		q = q.Where("properties.ad_status = ? AND properties.terminated = ?", string(entities.AdStatusApproved), false)
	}
	if s := strings.TrimSpace(f.Query); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where(
			"LOWER(properties.name) LIKE ? OR LOWER(properties.description) LIKE ? OR "+
				"properties.property_type_id IN (SELECT id FROM property_types WHERE LOWER(name) LIKE ?) OR "+
				"properties.ad_category_id IN (SELECT id FROM ad_categories WHERE LOWER(name) LIKE ?)",
			like, like, like, like,
		)
	}
	if f.City != "" {
		q = q.Where("LOWER(properties.city) = ?", strings.ToLower(f.City))
	}
	if f.PropertyTypeID != nil {
		q = q.Where("properties.property_type_id = ?", *f.PropertyTypeID)
	}
	if f.AdCategoryID != nil {
		q = q.Where("properties.ad_category_id = ?", *f.AdCategoryID)
	}
	if f.PriceMin != nil {
		q = q.Where("properties.price >= ?", *f.PriceMin)
	}
	if f.PriceMax != nil {
		q = q.Where("properties.price <= ?", *f.PriceMax)
	}
	if f.SurfaceMin != nil {
		q = q.Where("properties.surface_build >= ?", *f.SurfaceMin)
	}
	if f.SurfaceMax != nil {
		q = q.Where("properties.surface_build <= ?", *f.SurfaceMax)
	}
	if f.Rooms != nil {
		q = q.Where("properties.number_of_rooms = ?", *f.Rooms)
	}
	if f.Floors != nil {
		q = q.Where("properties.floors = ?", *f.Floors)
	}
	if len(f.FeatureIDs) > 0 {
		q = q.Where("properties.id IN (SELECT property_id FROM "+propertyFeatureLinkTable+" WHERE property_feature_id IN ?)", f.FeatureIDs)
	}
	if f.CreatedSince != nil {
		q = q.Where("properties.created_at >= ?", *f.CreatedSince)
	}
	if len(f.GeohashCells) > 0 {
		conds := make([]string, 0, len(f.GeohashCells))
		args := make([]interface{}, 0, len(f.GeohashCells))
		for _, cell := range f.GeohashCells {
			conds = append(conds, "properties.geohash LIKE ?")
			args = append(args, cell+"%")
		}
		q = q.Where(strings.Join(conds, " OR "), args...)
	}
	return q
}

func preloadProperty(db *gorm.DB) *gorm.DB {
	return db.
		Preload("PropertyType").
		Preload("PropertyState").
		Preload("AdCategory").
		Preload("Features", func(tx *gorm.DB) *gorm.DB { return tx.Order("name ASC") }).
		Preload("Media", func(tx *gorm.DB) *gorm.DB { return tx.Order("created_at ASC") })
}

func lookupID(l *entities.Lookup) *uuid.UUID {
	if l == nil {
		return nil
	}
	id := l.ID
	return &id
}

func propertyToModel(p *entities.Property) *models.Property {
	return &models.Property{
		ID:                   p.ID,
		ListerID:             p.ListerID,
		PropertyTypeID:       lookupID(p.PropertyType),
		PropertyStateID:      lookupID(p.PropertyState),
		AdCategoryID:         lookupID(p.AdCategory),
		Name:                 p.Name,
		Slug:                 p.Slug,
		City:                 p.City,
		Floors:               p.Floors,
		GroundLevel:          p.GroundLevel,
		Street:               p.Street,
		StreetNumber:         p.StreetNumber,
		Area:                 p.Area,
		NumberOfRooms:        p.NumberOfRooms,
		SurfaceBuild:         p.SurfaceBuild,
		TotalSurface:         p.TotalSurface,
		Price:                p.Price,
		Discount:             p.Discount,
		EntryDate:            p.EntryDate.Ptr(),
		NumberOfBalcony:      p.NumberOfBalcony,
		CarParking:           p.CarParking,
		Description:          p.Description,
		MatterportViewLink:   p.MatterportViewLink.Ptr(),
		NameOfLister:         p.NameOfLister.Ptr(),
		ReachablePhoneNumber: p.ReachablePhoneNumber.Ptr(),
		Latitude:             p.Latitude.Ptr(),
		Longitude:            p.Longitude.Ptr(),
		Geohash:              p.Geohash,
		AdStatus:             string(p.AdStatus),
		Terminated:           p.Terminated,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
}

func propertyToEntity(m *models.Property) *entities.Property {
	p := &entities.Property{
		ID:                   m.ID,
		ListerID:             m.ListerID,
		Name:                 m.Name,
		Slug:                 m.Slug,
		City:                 m.City,
		Floors:               m.Floors,
		GroundLevel:          m.GroundLevel,
		Street:               m.Street,
		StreetNumber:         m.StreetNumber,
		Area:                 m.Area,
		NumberOfRooms:        m.NumberOfRooms,
		SurfaceBuild:         m.SurfaceBuild,
		TotalSurface:         m.TotalSurface,
		Price:                m.Price,
		Discount:             m.Discount,
		EntryDate:            null.TimeFromPtr(m.EntryDate),
		NumberOfBalcony:      m.NumberOfBalcony,
		CarParking:           m.CarParking,
		Features:             make([]entities.Lookup, 0, len(m.Features)),
		Media:                make([]entities.PropertyMedia, 0, len(m.Media)),
		Description:          m.Description,
		MatterportViewLink:   null.StringFromPtr(m.MatterportViewLink),
		NameOfLister:         null.StringFromPtr(m.NameOfLister),
		ReachablePhoneNumber: null.StringFromPtr(m.ReachablePhoneNumber),
		Latitude:             null.Float64FromPtr(m.Latitude),
		Longitude:            null.Float64FromPtr(m.Longitude),
		Geohash:              m.Geohash,
		AdStatus:             entities.AdStatus(m.AdStatus),
		Terminated:           m.Terminated,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
	if m.PropertyType != nil {
		p.PropertyType = &entities.Lookup{ID: m.PropertyType.ID, Name: m.PropertyType.Name}
	}
	if m.PropertyState != nil {
		p.PropertyState = &entities.Lookup{ID: m.PropertyState.ID, Name: m.PropertyState.Name}
	}
	if m.AdCategory != nil {
		p.AdCategory = &entities.Lookup{ID: m.AdCategory.ID, Name: m.AdCategory.Name}
	}
	for _, f := range m.Features {
		p.Features = append(p.Features, entities.Lookup{ID: f.ID, Name: f.Name})
	}
	for _, media := range m.Media {
		p.Media = append(p.Media, entities.PropertyMedia{
			ID:         media.ID,
			PropertyID: media.PropertyID,
			URL:        media.URL,
			CreatedAt:  media.CreatedAt,
		})
	}
	return p
}
