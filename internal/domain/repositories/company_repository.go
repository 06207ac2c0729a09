package repositories

import (
	"context"

	"github.com/google/uuid"
	"kemea.backend/internal/domain/entities"
)

// CompanyRepository stores company agents and opening hours.
type CompanyRepository interface {
	CreateAgent(ctx context.Context, agent *entities.CompanyAgent) error
	GetAgent(ctx context.Context, companyID, agentID uuid.UUID) (*entities.CompanyAgent, error)
	UpdateAgent(ctx context.Context, agent *entities.CompanyAgent) error
	ListAgents(ctx context.Context, companyID uuid.UUID) ([]entities.CompanyAgent, error)

	CreateAvailability(ctx context.Context, entries []*entities.CompanyAvailability) error
	GetAvailabilityByDays(ctx context.Context, companyID uuid.UUID, startDay, lastDay string) (*entities.CompanyAvailability, error)
	UpdateAvailability(ctx context.Context, entry *entities.CompanyAvailability) error
	ListAvailability(ctx context.Context, companyID uuid.UUID) ([]entities.CompanyAvailability, error)
}

// InquiryRepository stores inbound requests from prospects.
type InquiryRepository interface {
	CreateContact(ctx context.Context, contact *entities.ContactCompany) error
	CreatePromoteRequest(ctx context.Context, req *entities.PromoteAdRequest) error
}
