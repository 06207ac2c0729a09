package entities

import (
	"time"

	"github.com/google/uuid"
)

// Email template identifiers.
const (
	TemplateEmailVerification = "email_verification"
	TemplateEmailChange       = "email_change"
	TemplateForgotPassword    = "forgot_password"
	TemplateContactCompany    = "contact_company"
)

// EmailMessage is a rendered email ready for delivery.
type EmailMessage struct {
	Subject    string                 `json:"subject"`
	Recipients []string               `json:"recipients"`
	Body       string                 `json:"body"`
	Template   string                 `json:"template"`
	Context    map[string]interface{} `json:"context,omitempty"`
}

// OutboxStatus tracks delivery of an outbox row.
type OutboxStatus string

const (
	OutboxStatusPending OutboxStatus = "pending"
	OutboxStatusSent    OutboxStatus = "sent"
	OutboxStatusFailed  OutboxStatus = "failed"
)

// OutboxEmail is an email persisted in the same transaction as the state
// change that caused it, delivered later by the dispatcher.
type OutboxEmail struct {
	ID            uuid.UUID
	Message       EmailMessage
	Status        OutboxStatus
	Attempts      int
	LastError     string
	NextAttemptAt time.Time
	SentAt        *time.Time
	CreatedAt     time.Time
}
