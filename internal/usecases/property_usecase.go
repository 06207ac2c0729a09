package usecases

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"kemea.backend/internal/domain/entities"
	domainerrors "kemea.backend/internal/domain/errors"
	"kemea.backend/internal/domain/repositories"
	"kemea.backend/pkg/logger"
	"kemea.backend/pkg/utils"
)

// Defaults applied when an ad leaves these fields out.
const (
	DefaultFloors          = 20
	DefaultNumberOfBalcony = 1
	DefaultCarParking      = 1

	DefaultNearbyRadiusKm = 5.0
	maxSlugAttempts       = 20
)

// PropertyUsecase manages ads: the lister's side, public browsing and moderation.
type PropertyUsecase struct {
	propertyRepo repositories.PropertyRepository
	lookupRepo   repositories.LookupRepository
	userRepo     repositories.UserRepository
	uow          repositories.UnitOfWork
	now          func() time.Time
}

// NewPropertyUsecase creates a new property usecase
func NewPropertyUsecase(
	propertyRepo repositories.PropertyRepository,
	lookupRepo repositories.LookupRepository,
	userRepo repositories.UserRepository,
	uow repositories.UnitOfWork,
) *PropertyUsecase {
	return &PropertyUsecase{
		propertyRepo: propertyRepo,
		lookupRepo:   lookupRepo,
		userRepo:     userRepo,
		uow:          uow,
		now:          time.Now,
	}
}

// SetClock replaces the time source.
func (u *PropertyUsecase) SetClock(now func() time.Time) {
	u.now = now
}

// Lookups returns every lookup table keyed by kind.
func (u *PropertyUsecase) Lookups(ctx context.Context) (map[entities.LookupKind][]entities.Lookup, error) {
	out := make(map[entities.LookupKind][]entities.Lookup, len(entities.LookupKinds))
	for _, kind := range entities.LookupKinds {
		rows, err := u.lookupRepo.List(ctx, kind)
		if err != nil {
			return nil, err
		}
		out[kind] = rows
	}
	return out, nil
}

// CreateLookup adds a row to one lookup table.
func (u *PropertyUsecase) CreateLookup(ctx context.Context, kind entities.LookupKind, name string) (*entities.Lookup, error) {
	row, err := u.lookupRepo.Create(ctx, kind, strings.TrimSpace(name))
	if err != nil {
		switch {
		case errors.Is(err, domainerrors.ErrAlreadyExists):
			return nil, domainerrors.AlreadyExists(fmt.Sprintf("%s %q already exists", kind, name))
		case errors.Is(err, domainerrors.ErrInvalidInput):
			return nil, domainerrors.BadRequest(fmt.Sprintf("unknown lookup %q", kind))
		}
		return nil, err
	}
	return row, nil
}

// Create lists a new ad for listerID. New ads wait for moderation.
func (u *PropertyUsecase) Create(ctx context.Context, listerID uuid.UUID, input *entities.PropertyInput) (*entities.Property, error) {
	p := &entities.Property{
		ID:              utils.GenerateUUIDv7(),
		ListerID:        listerID,
		AdStatus:        entities.AdStatusPending,
		Floors:          DefaultFloors,
		NumberOfBalcony: DefaultNumberOfBalcony,
		CarParking:      DefaultCarParking,
		CreatedAt:       u.now(),
	}
	p.UpdatedAt = p.CreatedAt

	if err := u.applyLookups(ctx, p, input); err != nil {
		return nil, err
	}
	features, err := u.features(ctx, input.FeatureIDs)
	if err != nil {
		return nil, err
	}
	applyPropertyInput(p, input)

	p.Slug, err = u.uniqueSlug(ctx, input.Name)
	if err != nil {
		return nil, err
	}

	err = u.uow.Do(ctx, func(ctx context.Context) error {
		if err := u.propertyRepo.Create(ctx, p); err != nil {
			if errors.Is(err, domainerrors.ErrAlreadyExists) {
				return domainerrors.AlreadyExists("An ad with this slug already exists")
			}
			return err
		}
		if len(features) > 0 {
			if err := u.propertyRepo.SetFeatures(ctx, p.ID, lookupIDs(features)); err != nil {
				return err
			}
		}
		if len(input.Media) > 0 {
			return u.propertyRepo.ReplaceMedia(ctx, p.ID, input.Media)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "Property created",
		zap.String("property_id", p.ID.String()),
		zap.String("lister_id", listerID.String()),
	)
	return u.propertyRepo.GetByID(ctx, p.ID)
}

// Update patches an ad owned by listerID. Features and media are only
// touched when the input carries them.
func (u *PropertyUsecase) Update(ctx context.Context, listerID, id uuid.UUID, input *entities.PropertyInput) (*entities.Property, error) {
	p, err := u.owned(ctx, listerID, id)
	if err != nil {
		return nil, err
	}

	if err := u.applyLookups(ctx, p, input); err != nil {
		return nil, err
	}
	var features []entities.Lookup
	if input.FeatureIDs != nil {
		if features, err = u.features(ctx, input.FeatureIDs); err != nil {
			return nil, err
		}
	}
	applyPropertyInput(p, input)

	err = u.uow.Do(ctx, func(ctx context.Context) error {
		if err := u.propertyRepo.Update(ctx, p); err != nil {
			return err
		}
		if input.FeatureIDs != nil {
			if err := u.propertyRepo.SetFeatures(ctx, p.ID, lookupIDs(features)); err != nil {
				return err
			}
		}
		if input.Media != nil {
			return u.propertyRepo.ReplaceMedia(ctx, p.ID, input.Media)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u.propertyRepo.GetByID(ctx, p.ID)
}

// Delete removes an ad owned by listerID.
func (u *PropertyUsecase) Delete(ctx context.Context, listerID, id uuid.UUID) error {
	if _, err := u.owned(ctx, listerID, id); err != nil {
		return err
	}
	if err := u.propertyRepo.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info(ctx, "Property deleted", zap.String("property_id", id.String()))
	return nil
}

// Terminate takes an ad off the market. It cannot be undone.
func (u *PropertyUsecase) Terminate(ctx context.Context, listerID, id uuid.UUID) error {
	p, err := u.owned(ctx, listerID, id)
	if err != nil {
		return err
	}
	if p.Terminated {
		return domainerrors.NotAllowed("Ad is already terminated")
	}

	p.Terminated = true
	return u.propertyRepo.Update(ctx, p)
}

// Dashboard lists every ad of the lister regardless of status.
func (u *PropertyUsecase) Dashboard(ctx context.Context, listerID uuid.UUID, page utils.PaginationParams) (*entities.Dashboard, error) {
	user, err := u.userRepo.GetByID(ctx, listerID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NonExistent("User not found")
		}
		return nil, err
	}

	ads, total, err := u.propertyRepo.List(ctx, entities.PropertyFilter{ListerID: &listerID}, page)
	if err != nil {
		return nil, err
	}

	out := &entities.Dashboard{FullName: user.FullName, Total: total, Ads: make([]entities.DashboardEntry, 0, len(ads))}
	for _, ad := range ads {
		entry := entities.DashboardEntry{
			ID:         ad.ID,
			Name:       ad.Name,
			AdStatus:   ad.AdStatus,
			Terminated: ad.Terminated,
			CreatedAt:  ad.CreatedAt,
		}
		if ad.PropertyType != nil {
			entry.PropertyType = ad.PropertyType.Name
		}
		if ad.AdCategory != nil {
			entry.AdCategory = ad.AdCategory.Name
		}
		out.Ads = append(out.Ads, entry)
	}
	return out, nil
}

// SearchOwn filters the lister's own ads.
func (u *PropertyUsecase) SearchOwn(ctx context.Context, listerID uuid.UUID, query *entities.ListingQuery, page utils.PaginationParams) ([]*entities.Property, int64, error) {
	filter, err := u.filter(query)
	if err != nil {
		return nil, 0, err
	}
	filter.ListerID = &listerID
	return u.propertyRepo.List(ctx, filter, page)
}

// List is the public listing: approved, live ads only.
func (u *PropertyUsecase) List(ctx context.Context, query *entities.ListingQuery, page utils.PaginationParams) ([]*entities.Property, int64, error) {
	filter, err := u.filter(query)
	if err != nil {
		return nil, 0, err
	}
	filter.OnlyPublic = true
	return u.propertyRepo.List(ctx, filter, page)
}

// ByCity lists public ads in one city.
func (u *PropertyUsecase) ByCity(ctx context.Context, city string, page utils.PaginationParams) ([]*entities.Property, int64, error) {
	return u.propertyRepo.List(ctx, entities.PropertyFilter{OnlyPublic: true, City: city}, page)
}

// Nearby lists public ads in the geohash cells around a point, closest first
// within the page.
func (u *PropertyUsecase) Nearby(ctx context.Context, query *entities.NearbyQuery, page utils.PaginationParams) ([]*entities.Property, int64, error) {
	radius := query.RadiusKm
	if radius <= 0 {
		radius = DefaultNearbyRadiusKm
	}
	center := utils.GeoPoint{Latitude: query.Latitude, Longitude: query.Longitude}
	cells := utils.NearbyCells(center, utils.PrecisionForRadius(radius))

	ads, total, err := u.propertyRepo.List(ctx, entities.PropertyFilter{OnlyPublic: true, GeohashCells: cells}, page)
	if err != nil {
		return nil, 0, err
	}
	sort.SliceStable(ads, func(i, j int) bool {
		return distanceTo(center, ads[i]) < distanceTo(center, ads[j])
	})
	return ads, total, nil
}

// Details returns one ad. Unpublished ads are only visible to their lister.
func (u *PropertyUsecase) Details(ctx context.Context, id, viewerID uuid.UUID) (*entities.Property, error) {
	p, err := u.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsPublic() && p.ListerID != viewerID {
		return nil, domainerrors.NonExistent("Property not found")
	}
	return p, nil
}

// SetStatus moderates an ad.
func (u *PropertyUsecase) SetStatus(ctx context.Context, id uuid.UUID, status entities.AdStatus) (*entities.Property, error) {
	if !status.Valid() {
		return nil, domainerrors.BadRequest(fmt.Sprintf("unknown ad status %q", status))
	}
	p, err := u.get(ctx, id)
	if err != nil {
		return nil, err
	}

	p.AdStatus = status
	if err := u.propertyRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	logger.Info(ctx, "Property moderated",
		zap.String("property_id", id.String()),
		zap.String("status", string(status)),
	)
	return p, nil
}

func (u *PropertyUsecase) get(ctx context.Context, id uuid.UUID) (*entities.Property, error) {
	p, err := u.propertyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NonExistent("Property not found")
		}
		return nil, err
	}
	return p, nil
}

// owned hides other listers' ads behind the same error as a missing one.
func (u *PropertyUsecase) owned(ctx context.Context, listerID, id uuid.UUID) (*entities.Property, error) {
	p, err := u.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.ListerID != listerID {
		return nil, domainerrors.NonExistent("Property not found")
	}
	return p, nil
}

func (u *PropertyUsecase) applyLookups(ctx context.Context, p *entities.Property, input *entities.PropertyInput) error {
	refs := []struct {
		kind   entities.LookupKind
		id     *uuid.UUID
		target **entities.Lookup
		label  string
	}{
		{entities.LookupPropertyType, input.PropertyTypeID, &p.PropertyType, "Property type"},
		{entities.LookupPropertyState, input.PropertyStateID, &p.PropertyState, "Property state"},
		{entities.LookupAdCategory, input.AdCategoryID, &p.AdCategory, "Ad category"},
	}
	for _, ref := range refs {
		if ref.id == nil {
			continue
		}
		row, err := u.lookupRepo.Get(ctx, ref.kind, *ref.id)
		if err != nil {
			if errors.Is(err, domainerrors.ErrNotFound) {
				return domainerrors.NonExistent(ref.label + " not found")
			}
			return err
		}
		*ref.target = row
	}
	return nil
}

func (u *PropertyUsecase) features(ctx context.Context, ids []uuid.UUID) ([]entities.Lookup, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := u.lookupRepo.GetMany(ctx, entities.LookupPropertyFeature, ids)
	if err != nil {
		return nil, err
	}
	if len(rows) != len(ids) {
		return nil, domainerrors.NonExistent("Property feature not found")
	}
	return rows, nil
}

func (u *PropertyUsecase) uniqueSlug(ctx context.Context, name string) (string, error) {
	base := slug.Make(name)
	if base == "" {
		base = "property"
	}

	candidate := base
	for i := 2; i <= maxSlugAttempts+1; i++ {
		taken, err := u.propertyRepo.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return base + "-" + strings.SplitN(uuid.NewString(), "-", 2)[0], nil
}

func (u *PropertyUsecase) filter(q *entities.ListingQuery) (entities.PropertyFilter, error) {
	f := entities.PropertyFilter{
		Query:      strings.TrimSpace(q.Q),
		City:       strings.TrimSpace(q.City),
		PriceMin:   q.PriceMin,
		PriceMax:   q.PriceMax,
		SurfaceMin: q.SurfaceMin,
		SurfaceMax: q.SurfaceMax,
		Rooms:      q.Rooms,
		Floors:     q.Floors,
	}

	var err error
	if f.PropertyTypeID, err = optionalID(q.PropertyType, "property_type"); err != nil {
		return f, err
	}
	if f.AdCategoryID, err = optionalID(q.AdCategory, "ad_category"); err != nil {
		return f, err
	}
	if q.Features != "" {
		ids, err := utils.ParseUUIDs(splitTrim(q.Features))
		if err != nil {
			return f, domainerrors.BadRequest("features must be a comma separated list of ids")
		}
		f.FeatureIDs = ids
	}

	// the narrowest recency window wins
	now := u.now()
	switch {
	case q.Last24Hours == "true":
		since := now.Add(-24 * time.Hour)
		f.CreatedSince = &since
	case q.LastWeek == "true":
		since := now.AddDate(0, 0, -7)
		f.CreatedSince = &since
	case q.LastMonth == "true":
		since := now.AddDate(0, -1, 0)
		f.CreatedSince = &since
	}
	return f, nil
}

func applyPropertyInput(p *entities.Property, in *entities.PropertyInput) {
	p.Name = strings.TrimSpace(in.Name)
	p.City = strings.TrimSpace(in.City)
	p.GroundLevel = in.GroundLevel
	p.Street = in.Street
	p.StreetNumber = in.StreetNumber
	p.Area = in.Area
	p.NumberOfRooms = in.NumberOfRooms
	p.SurfaceBuild = in.SurfaceBuild
	p.TotalSurface = in.TotalSurface
	p.Price = in.Price
	p.Discount = in.Discount
	p.Description = in.Description

	if in.Floors != nil {
		p.Floors = *in.Floors
	}
	if in.NumberOfBalcony != nil {
		p.NumberOfBalcony = *in.NumberOfBalcony
	}
	if in.CarParking != nil {
		p.CarParking = *in.CarParking
	}
	if in.EntryDate != nil {
		p.EntryDate = null.TimeFrom(*in.EntryDate)
	}
	if in.MatterportViewLink != nil {
		p.MatterportViewLink = null.StringFrom(*in.MatterportViewLink)
	}
	if in.NameOfLister != nil {
		p.NameOfLister = null.StringFrom(*in.NameOfLister)
	}
	if in.ReachablePhoneNumber != nil {
		p.ReachablePhoneNumber = null.StringFrom(*in.ReachablePhoneNumber)
	}

	if in.Latitude != nil && in.Longitude != nil {
		p.Latitude = null.Float64From(*in.Latitude)
		p.Longitude = null.Float64From(*in.Longitude)
		p.Geohash = utils.EncodeGeohash(utils.GeoPoint{Latitude: *in.Latitude, Longitude: *in.Longitude}, utils.GeohashPrecision)
	}
}

func distanceTo(center utils.GeoPoint, p *entities.Property) float64 {
	if !p.Latitude.Valid || !p.Longitude.Valid {
		return 1 << 30
	}
	return utils.DistanceKm(center, utils.GeoPoint{Latitude: p.Latitude.Float64, Longitude: p.Longitude.Float64})
}

func optionalID(raw, field string) (*uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, domainerrors.BadRequest(field + " must be a valid id")
	}
	return &id, nil
}

func splitTrim(s string) []string {
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func lookupIDs(rows []entities.Lookup) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ID)
	}
	return out
}
