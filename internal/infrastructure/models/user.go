package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email          string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	FullName       string    `gorm:"type:varchar(255)"`
	PhoneNumber    *string   `gorm:"type:varchar(100)"`
	PasswordHash   string    `gorm:"type:varchar(255);not null"`
	EmailVerified  bool      `gorm:"not null;default:false"`
	GoogleProvider bool      `gorm:"not null;default:false"`
	IsAgent        bool      `gorm:"not null;default:false"`
	IsStaff        bool      `gorm:"not null;default:false"`
	IsActive       bool      `gorm:"not null;default:true"`
	ReferralCode   string    `gorm:"type:varchar(20);uniqueIndex;not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type NormalProfile struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null"`
	User        *User      `gorm:"constraint:OnDelete:CASCADE"`
	ImageURL    *string    `gorm:"type:varchar(500)"`
	DateOfBirth *time.Time `gorm:"type:date"`
	Tokens      int64      `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type CompanyProfile struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID             uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	User               *User     `gorm:"constraint:OnDelete:CASCADE"`
	CompanyName        string    `gorm:"type:varchar(255)"`
	LicenseNumber      string    `gorm:"type:varchar(255)"`
	ImageURL           *string   `gorm:"type:varchar(500)"`
	BackgroundImageURL *string   `gorm:"type:varchar(500)"`
	Location           string    `gorm:"type:varchar(255)"`
	Website            *string   `gorm:"type:varchar(255)"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
