package models

import (
	"time"

	"github.com/google/uuid"
)

type OTPSecret struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_otp_user_purpose"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE"`
	Purpose   string    `gorm:"type:varchar(32);not null;uniqueIndex:idx_otp_user_purpose"`
	Email     string    `gorm:"type:varchar(255);not null"`
	Code      string    `gorm:"type:varchar(12);not null"`
	Attempts  int       `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"index"`
}

func (OTPSecret) TableName() string {
	return "otp_secrets"
}

type Referral struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	User           *User     `gorm:"constraint:OnDelete:CASCADE"`
	Earnings       int64     `gorm:"not null;default:0"`
	NumOfReferrals int64     `gorm:"not null;default:0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
