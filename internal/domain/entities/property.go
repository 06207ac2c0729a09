package entities

import (
	"encoding/json"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// AdStatus is the moderation state of an ad.
type AdStatus string

const (
	AdStatusPending  AdStatus = "pending"
	AdStatusApproved AdStatus = "approved"
	AdStatusRejected AdStatus = "rejected"
)

// Valid reports whether s is a known status.
func (s AdStatus) Valid() bool {
	switch s {
	case AdStatusPending, AdStatusApproved, AdStatusRejected:
		return true
	}
	return false
}

// LookupKind names one of the property lookup tables.
type LookupKind string

const (
	LookupAdCategory      LookupKind = "ad_category"
	LookupPropertyType    LookupKind = "property_type"
	LookupPropertyState   LookupKind = "property_state"
	LookupPropertyFeature LookupKind = "property_feature"
)

// LookupKinds lists every lookup table.
var LookupKinds = []LookupKind{LookupAdCategory, LookupPropertyType, LookupPropertyState, LookupPropertyFeature}

// Lookup is a row of a lookup table such as "Apartment" or "For rent".
type Lookup struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Property is a listed ad.
type Property struct {
	ID                   uuid.UUID       `json:"id"`
	ListerID             uuid.UUID       `json:"lister_id"`
	PropertyType         *Lookup         `json:"property_type"`
	PropertyState        *Lookup         `json:"property_state"`
	AdCategory           *Lookup         `json:"ad_category"`
	Name                 string          `json:"name"`
	Slug                 string          `json:"slug"`
	City                 string          `json:"city"`
	Floors               int             `json:"floors"`
	GroundLevel          bool            `json:"ground_level"`
	Street               string          `json:"street"`
	StreetNumber         int             `json:"street_number"`
	Area                 string          `json:"area"`
	NumberOfRooms        int             `json:"number_of_rooms"`
	SurfaceBuild         int             `json:"surface_build"`
	TotalSurface         int             `json:"total_surface"`
	Price                float64         `json:"price"`
	Discount             int             `json:"discount"`
	EntryDate            null.Time       `json:"entry_date"`
	NumberOfBalcony      int             `json:"number_of_balcony"`
	CarParking           int             `json:"car_parking"`
	Features             []Lookup        `json:"features"`
	Media                []PropertyMedia `json:"media"`
	Description          string          `json:"description"`
	MatterportViewLink   null.String     `json:"matterport_view_link"`
	NameOfLister         null.String     `json:"name_of_lister"`
	ReachablePhoneNumber null.String     `json:"reachable_phone_number"`
	Latitude             null.Float64    `json:"latitude"`
	Longitude            null.Float64    `json:"longitude"`
	Geohash              string          `json:"geohash,omitempty"`
	AdStatus             AdStatus        `json:"ad_status"`
	Terminated           bool            `json:"terminated"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// DiscountedPrice returns the price after the percentage discount, rounded to
// cents. The second result is false when no discount applies.
func (p *Property) DiscountedPrice() (float64, bool) {
	if p.Discount <= 0 {
		return 0, false
	}
	v := p.Price - p.Price*float64(p.Discount)/100
	return math.Round(v*100) / 100, true
}

// MarshalJSON adds the derived discounted_price, null when no discount applies.
func (p Property) MarshalJSON() ([]byte, error) {
	type plain Property
	var discounted *float64
	if v, ok := p.DiscountedPrice(); ok {
		discounted = &v
	}
	return json.Marshal(struct {
		plain
		DiscountedPrice *float64 `json:"discounted_price"`
	}{plain: plain(p), DiscountedPrice: discounted})
}

// IsPublic reports whether the ad may appear in public listings.
func (p *Property) IsPublic() bool {
	return p.AdStatus == AdStatusApproved && !p.Terminated
}

// PropertyMedia is a media URL attached to an ad.
type PropertyMedia struct {
	ID         uuid.UUID `json:"id"`
	PropertyID uuid.UUID `json:"property_id"`
	URL        string    `json:"url"`
	CreatedAt  time.Time `json:"created_at"`
}

// FavoriteProperty links a user to an ad they saved.
type FavoriteProperty struct {
	ID         uuid.UUID `json:"id"`
	PropertyID uuid.UUID `json:"property_id"`
	UserID     uuid.UUID `json:"user_id"`
	Property   *Property `json:"property,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// PropertyFilter narrows property queries. Zero values do not filter.
type PropertyFilter struct {
	ListerID       *uuid.UUID
	OnlyPublic     bool
	Query          string
	City           string
	PropertyTypeID *uuid.UUID
	AdCategoryID   *uuid.UUID
	PriceMin       *float64
	PriceMax       *float64
	SurfaceMin     *int
	SurfaceMax     *int
	Rooms          *int
	Floors         *int
	FeatureIDs     []uuid.UUID
	CreatedSince   *time.Time
	GeohashCells   []string
}

// PropertyInput is the create/update payload for an ad. On update, nil
// FeatureIDs and Media leave the existing values untouched.
type PropertyInput struct {
	PropertyTypeID       *uuid.UUID  `json:"property_type"`
	PropertyStateID      *uuid.UUID  `json:"property_state"`
	AdCategoryID         *uuid.UUID  `json:"ad_category"`
	Name                 string      `json:"name" binding:"required,max=255"`
	City                 string      `json:"city" binding:"required,max=255"`
	Floors               *int        `json:"floors" binding:"omitempty,min=0"`
	GroundLevel          bool        `json:"ground_level"`
	Street               string      `json:"street" binding:"required,max=255"`
	StreetNumber         int         `json:"street_number" binding:"min=0"`
	Area                 string      `json:"area" binding:"required,max=255"`
	NumberOfRooms        int         `json:"number_of_rooms" binding:"min=0"`
	SurfaceBuild         int         `json:"surface_build" binding:"min=0"`
	TotalSurface         int         `json:"total_surface" binding:"min=0"`
	Price                float64     `json:"price" binding:"required,gt=0"`
	Discount             int         `json:"discount" binding:"min=0,max=100"`
	EntryDate            *time.Time  `json:"entry_date"`
	NumberOfBalcony      *int        `json:"number_of_balcony" binding:"omitempty,min=0"`
	CarParking           *int        `json:"car_parking" binding:"omitempty,min=0"`
	FeatureIDs           []uuid.UUID `json:"features"`
	Media                []string    `json:"media" binding:"omitempty,dive,url"`
	Description          string      `json:"description" binding:"required"`
	MatterportViewLink   *string     `json:"matterport_view_link" binding:"omitempty,max=255"`
	NameOfLister         *string     `json:"name_of_lister" binding:"omitempty,max=255"`
	ReachablePhoneNumber *string     `json:"reachable_phone_number" binding:"omitempty,max=30"`
	Latitude             *float64    `json:"latitude" binding:"omitempty,latitude"`
	Longitude            *float64    `json:"longitude" binding:"omitempty,longitude"`
}

// DashboardEntry is a row of the agent's ad dashboard.
type DashboardEntry struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	PropertyType string    `json:"property_type"`
	AdCategory   string    `json:"ad_category"`
	AdStatus     AdStatus  `json:"ad_status"`
	Terminated   bool      `json:"terminated"`
	CreatedAt    time.Time `json:"created_at"`
}

// Dashboard summarizes an agent's ads.
type Dashboard struct {
	FullName string           `json:"full_name"`
	Total    int64            `json:"total"`
	Ads      []DashboardEntry `json:"ads"`
}

// UpdateAdStatusInput is used by staff to moderate an ad.
type UpdateAdStatusInput struct {
	Status AdStatus `json:"status" binding:"required"`
}

// ListingQuery holds the raw listing filters from a query string. Recency
// flags only apply when their value is exactly "true".
type ListingQuery struct {
	Q            string   `form:"q"`
	City         string   `form:"city"`
	PropertyType string   `form:"property_type"`
	AdCategory   string   `form:"ad_category"`
	PriceMin     *float64 `form:"price_min"`
	PriceMax     *float64 `form:"price_max"`
	SurfaceMin   *int     `form:"surface_build_min"`
	SurfaceMax   *int     `form:"surface_build_max"`
	Rooms        *int     `form:"rooms"`
	Floors       *int     `form:"floors"`
	Features     string   `form:"features"`
	Last24Hours  string   `form:"last_24_hours"`
	LastWeek     string   `form:"last_week"`
	LastMonth    string   `form:"last_month"`
}

// NearbyQuery searches around a point.
type NearbyQuery struct {
	Latitude  float64 `form:"lat" binding:"required,latitude"`
	Longitude float64 `form:"lng" binding:"required,longitude"`
	RadiusKm  float64 `form:"radius" binding:"omitempty,gt=0,max=100"`
}

// LookupInput creates a lookup row.
type LookupInput struct {
	Name string `json:"name" binding:"required,max=255"`
}
