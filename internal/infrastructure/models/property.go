package models

import (
	"time"

	"github.com/google/uuid"
)

type AdCategory struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	CreatedAt time.Time
}

func (AdCategory) TableName() string { return "ad_categories" }

type PropertyType struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	CreatedAt time.Time
}

type PropertyState struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	CreatedAt time.Time
}

type PropertyFeature struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	CreatedAt time.Time
}

type Property struct {
	ID                   uuid.UUID         `gorm:"type:uuid;primaryKey"`
	ListerID             uuid.UUID         `gorm:"type:uuid;not null;index"`
	Lister               *User             `gorm:"foreignKey:ListerID;constraint:OnDelete:CASCADE"`
	PropertyTypeID       *uuid.UUID        `gorm:"type:uuid;index"`
	PropertyType         *PropertyType     `gorm:"foreignKey:PropertyTypeID"`
	PropertyStateID      *uuid.UUID        `gorm:"type:uuid"`
	PropertyState        *PropertyState    `gorm:"foreignKey:PropertyStateID"`
	AdCategoryID         *uuid.UUID        `gorm:"type:uuid;index"`
	AdCategory           *AdCategory       `gorm:"foreignKey:AdCategoryID"`
	Name                 string            `gorm:"type:varchar(255);not null"`
	Slug                 string            `gorm:"type:varchar(300);uniqueIndex;not null"`
	City                 string            `gorm:"type:varchar(255);not null;index"`
	Floors               int               `gorm:"not null"`
	GroundLevel          bool              `gorm:"not null;default:false"`
	Street               string            `gorm:"type:varchar(255)"`
	StreetNumber         int               `gorm:"not null;default:0"`
	Area                 string            `gorm:"type:varchar(255)"`
	NumberOfRooms        int               `gorm:"not null;default:0"`
	SurfaceBuild         int               `gorm:"not null;default:0"`
	TotalSurface         int               `gorm:"not null;default:0"`
	Price                float64           `gorm:"type:numeric(12,2);not null"`
	Discount             int               `gorm:"not null;default:0"`
	EntryDate            *time.Time        `gorm:"type:date"`
	NumberOfBalcony      int               `gorm:"not null"`
	CarParking           int               `gorm:"not null"`
	Features             []PropertyFeature `gorm:"many2many:property_features_link;constraint:OnDelete:CASCADE"`
	Media                []PropertyMedia   `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
	Description          string            `gorm:"type:text"`
	MatterportViewLink   *string           `gorm:"type:varchar(255)"`
	NameOfLister         *string           `gorm:"type:varchar(255)"`
	ReachablePhoneNumber *string           `gorm:"type:varchar(255)"`
	Latitude             *float64
	Longitude            *float64
	Geohash              string    `gorm:"type:varchar(12);index"`
	AdStatus             string    `gorm:"type:varchar(20);not null;default:'pending';index"`
	Terminated           bool      `gorm:"not null;default:false"`
	CreatedAt            time.Time `gorm:"index"`
	UpdatedAt            time.Time
}

func (Property) TableName() string { return "properties" }

type PropertyMedia struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	PropertyID uuid.UUID `gorm:"type:uuid;not null;index"`
	URL        string    `gorm:"type:varchar(500);not null"`
	CreatedAt  time.Time
}

type FavoriteProperty struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	PropertyID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_property_user"`
	Property   *Property `gorm:"constraint:OnDelete:CASCADE"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_property_user;index"`
	User       *User     `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time
}

func (FavoriteProperty) TableName() string { return "favorite_properties" }
