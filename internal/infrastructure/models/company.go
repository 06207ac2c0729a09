package models

import (
	"time"

	"github.com/google/uuid"
)

type CompanyAgent struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CompanyID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	Company           *CompanyProfile `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE"`
	FullName          string          `gorm:"type:varchar(255)"`
	PhoneNumber       *string         `gorm:"type:varchar(100)"`
	ProfilePictureURL *string         `gorm:"type:varchar(500)"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type CompanyAvailability struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CompanyID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Company   *CompanyProfile `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE"`
	StartDay  string          `gorm:"type:varchar(20)"`
	LastDay   string          `gorm:"type:varchar(20)"`
	StartTime string          `gorm:"type:varchar(5)"`
	EndTime   string          `gorm:"type:varchar(5)"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (CompanyAvailability) TableName() string { return "company_availabilities" }

type ContactCompany struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	PropertyID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Property     *Property `gorm:"constraint:OnDelete:CASCADE"`
	CompanyID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Name         string    `gorm:"type:varchar(255)"`
	EmailAddress string    `gorm:"type:varchar(255)"`
	PhoneNumber  string    `gorm:"type:varchar(30)"`
	Message      string    `gorm:"type:text"`
	CreatedAt    time.Time
}

func (ContactCompany) TableName() string { return "contact_companies" }

type PromoteAdRequest struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID       *uuid.UUID `gorm:"type:uuid;index"`
	Location     string     `gorm:"type:varchar(255)"`
	PropertyType string     `gorm:"type:varchar(255)"`
	Surface      int
	Rooms        int
	DesiredPrice float64 `gorm:"type:numeric(12,2)"`
	FirstName    string  `gorm:"type:varchar(255)"`
	LastName     string  `gorm:"type:varchar(255)"`
	EmailAddress string  `gorm:"type:varchar(255)"`
	PhoneNumber  string  `gorm:"type:varchar(30)"`
	BuyOrRent    bool
	Sell         bool
	CreatedAt    time.Time
}

type Policy struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title     string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_policy_title_language"`
	Language  string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_policy_title_language"`
	Content   string    `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Policy) TableName() string { return "policies" }
