package models

import (
	"time"

	"github.com/google/uuid"
)

type EmailOutbox struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Recipients    string    `gorm:"type:text;not null"`
	Subject       string    `gorm:"type:varchar(255);not null"`
	Template      string    `gorm:"type:varchar(64);not null"`
	Body          string    `gorm:"type:text;not null"`
	Context       string    `gorm:"type:text"`
	Status        string    `gorm:"type:varchar(16);not null;index:idx_outbox_due,priority:1"`
	Attempts      int       `gorm:"not null;default:0"`
	LastError     string    `gorm:"type:text"`
	NextAttemptAt time.Time `gorm:"index:idx_outbox_due,priority:2"`
	SentAt        *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (EmailOutbox) TableName() string {
	return "email_outbox"
}
