package entities

import (
	"time"

	"github.com/google/uuid"
)

// DefaultPolicyLanguage is served when a policy has no translation in the requested language.
const DefaultPolicyLanguage = "en"

// Policy is a legal text (terms, privacy) in one language.
type Policy struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Language  string    `json:"language"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PolicyInput creates or replaces a policy translation.
type PolicyInput struct {
	Title    string `json:"title" binding:"required,max=255"`
	Language string `json:"language" binding:"required,max=10"`
	Content  string `json:"content" binding:"required"`
}
