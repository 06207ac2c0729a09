package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"kemea.backend/internal/domain/entities"
	domainerrors "kemea.backend/internal/domain/errors"
	"kemea.backend/internal/domain/repositories"
	"kemea.backend/pkg/logger"
	"kemea.backend/pkg/utils"
)

const contactCompanySubject = "New message about your ad"

// InquiryUsecase records prospect messages and promotion requests.
type InquiryUsecase struct {
	inquiryRepo  repositories.InquiryRepository
	propertyRepo repositories.PropertyRepository
	userRepo     repositories.UserRepository
	profileRepo  repositories.ProfileRepository
	uow          repositories.UnitOfWork
	mail         *mailQueue
	now          func() time.Time
}

// NewInquiryUsecase creates a new inquiry usecase
func NewInquiryUsecase(
	inquiryRepo repositories.InquiryRepository,
	propertyRepo repositories.PropertyRepository,
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	outboxRepo repositories.OutboxRepository,
	uow repositories.UnitOfWork,
	renderer EmailRenderer,
) *InquiryUsecase {
	u := &InquiryUsecase{
		inquiryRepo:  inquiryRepo,
		propertyRepo: propertyRepo,
		userRepo:     userRepo,
		profileRepo:  profileRepo,
		uow:          uow,
		now:          time.Now,
	}
	u.mail = &mailQueue{outbox: outboxRepo, renderer: renderer, now: func() time.Time { return u.now() }}
	return u
}

// SetClock replaces the time source.
func (u *InquiryUsecase) SetClock(now func() time.Time) {
	u.now = now
}

// ContactCompany stores a message about a public ad and emails it to the lister.
func (u *InquiryUsecase) ContactCompany(ctx context.Context, propertyID uuid.UUID, input *entities.ContactCompanyInput) (*entities.ContactCompany, error) {
	p, err := u.propertyRepo.GetByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NonExistent("Property not found")
		}
		return nil, err
	}
	if !p.IsPublic() {
		return nil, domainerrors.NonExistent("Property not found")
	}

	lister, err := u.userRepo.GetByID(ctx, p.ListerID)
	if err != nil {
		return nil, err
	}
	companyName := lister.FullName
	if lister.IsAgent {
		profile, err := u.profileRepo.GetCompanyByUserID(ctx, lister.ID)
		if err != nil && !errors.Is(err, domainerrors.ErrNotFound) {
			return nil, err
		}
		if profile != nil && profile.CompanyName != "" {
			companyName = profile.CompanyName
		}
	}

	contact := &entities.ContactCompany{
		ID:           utils.GenerateUUIDv7(),
		PropertyID:   p.ID,
		CompanyID:    lister.ID,
		Name:         input.Name,
		EmailAddress: normalizeEmail(input.EmailAddress),
		PhoneNumber:  input.PhoneNumber,
		Message:      input.Message,
		CreatedAt:    u.now(),
	}

	err = u.uow.Do(ctx, func(ctx context.Context) error {
		if err := u.inquiryRepo.CreateContact(ctx, contact); err != nil {
			return err
		}
		return u.mail.enqueue(ctx, entities.TemplateContactCompany, contactCompanySubject, []string{lister.Email}, map[string]interface{}{
			"company_name":  companyName,
			"name":          contact.Name,
			"property_name": p.Name,
			"message":       contact.Message,
			"email_address": contact.EmailAddress,
			"phone_number":  contact.PhoneNumber,
		})
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "Company contacted",
		zap.String("property_id", p.ID.String()),
		zap.String("company_id", lister.ID.String()),
	)
	return contact, nil
}

// PromoteRequest records a request for help buying, renting or selling.
func (u *InquiryUsecase) PromoteRequest(ctx context.Context, userID uuid.UUID, input *entities.PromoteAdRequestInput) (*entities.PromoteAdRequest, error) {
	if !input.BuyOrRent && !input.Sell {
		return nil, domainerrors.BadRequest("choose buy_or_rent or sell")
	}

	req := &entities.PromoteAdRequest{
		ID:           utils.GenerateUUIDv7(),
		Location:     input.Location,
		PropertyType: input.PropertyType,
		Surface:      input.Surface,
		Rooms:        input.Rooms,
		DesiredPrice: input.DesiredPrice,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		EmailAddress: normalizeEmail(input.EmailAddress),
		PhoneNumber:  input.PhoneNumber,
		BuyOrRent:    input.BuyOrRent,
		Sell:         input.Sell,
		CreatedAt:    u.now(),
	}
	if userID != uuid.Nil {
		req.UserID = &userID
	}

	if err := u.inquiryRepo.CreatePromoteRequest(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}
