package repositories

import (
	"context"

	"gorm.io/gorm"
	"kemea.backend/internal/domain/entities"
	"kemea.backend/internal/infrastructure/models"
)

// InquiryRepository stores contact messages and promote requests
type InquiryRepository struct {
	db *gorm.DB
}

// NewInquiryRepository creates a new inquiry repository
func NewInquiryRepository(db *gorm.DB) *InquiryRepository {
	return &InquiryRepository{db: db}
}

func (r *InquiryRepository) CreateContact(ctx context.Context, c *entities.ContactCompany) error {
	m := &models.ContactCompany{
		ID:           c.ID,
		PropertyID:   c.PropertyID,
		CompanyID:    c.CompanyID,
		Name:         c.Name,
		EmailAddress: c.EmailAddress,
		PhoneNumber:  c.PhoneNumber,
		Message:      c.Message,
		CreatedAt:    c.CreatedAt,
	}
	if err := GetDB(ctx, r.db).WithContext(ctx).Omit("Property").Create(m).Error; err != nil {
		return err
	}
	c.CreatedAt = m.CreatedAt
	return nil
}

func (r *InquiryRepository) CreatePromoteRequest(ctx context.Context, p *entities.PromoteAdRequest) error {
	m := &models.PromoteAdRequest{
		ID:           p.ID,
		UserID:       p.UserID,
		Location:     p.Location,
		PropertyType: p.PropertyType,
		Surface:      p.Surface,
		Rooms:        p.Rooms,
		DesiredPrice: p.DesiredPrice,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		EmailAddress: p.EmailAddress,
		PhoneNumber:  p.PhoneNumber,
		BuyOrRent:    p.BuyOrRent,
		Sell:         p.Sell,
		CreatedAt:    p.CreatedAt,
	}
	if err := GetDB(ctx, r.db).WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	p.CreatedAt = m.CreatedAt
	return nil
}
