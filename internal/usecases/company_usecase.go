package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"kemea.backend/internal/domain/entities"
	domainerrors "kemea.backend/internal/domain/errors"
	"kemea.backend/internal/domain/repositories"
	"kemea.backend/pkg/utils"
)

// companyPageAds is how many live ads the public company page shows.
const companyPageAds = 20

// CompanyUsecase manages company profiles, agents and opening hours.
type CompanyUsecase struct {
	userRepo     repositories.UserRepository
	profileRepo  repositories.ProfileRepository
	companyRepo  repositories.CompanyRepository
	propertyRepo repositories.PropertyRepository
	uow          repositories.UnitOfWork
	now          func() time.Time
}

// NewCompanyUsecase creates a new company usecase
func NewCompanyUsecase(
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	companyRepo repositories.CompanyRepository,
	propertyRepo repositories.PropertyRepository,
	uow repositories.UnitOfWork,
) *CompanyUsecase {
	return &CompanyUsecase{
		userRepo:     userRepo,
		profileRepo:  profileRepo,
		companyRepo:  companyRepo,
		propertyRepo: propertyRepo,
		uow:          uow,
		now:          time.Now,
	}
}

// GetProfile returns the company account with its profile.
func (u *CompanyUsecase) GetProfile(ctx context.Context, companyID uuid.UUID) (*entities.UserProfile, error) {
	user, profile, err := u.company(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return &entities.UserProfile{User: user, CompanyProfile: profile}, nil
}

// UpdateProfile patches the account and company profile together.
func (u *CompanyUsecase) UpdateProfile(ctx context.Context, companyID uuid.UUID, input *entities.UpdateCompanyProfileInput) (*entities.UserProfile, error) {
	user, profile, err := u.company(ctx, companyID)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		user.FullName = *input.FullName
	}
	if input.PhoneNumber != nil {
		user.PhoneNumber = null.NewString(*input.PhoneNumber, *input.PhoneNumber != "")
	}
	if input.CompanyName != nil {
		profile.CompanyName = *input.CompanyName
	}
	if input.LicenseNumber != nil {
		profile.LicenseNumber = *input.LicenseNumber
	}
	if input.Location != nil {
		profile.Location = *input.Location
	}
	if input.ImageURL != nil {
		profile.ImageURL = null.NewString(*input.ImageURL, *input.ImageURL != "")
	}
	if input.BackgroundImageURL != nil {
		profile.BackgroundImageURL = null.NewString(*input.BackgroundImageURL, *input.BackgroundImageURL != "")
	}
	if input.Website != nil {
		profile.Website = null.NewString(*input.Website, *input.Website != "")
	}

	err = u.uow.Do(ctx, func(ctx context.Context) error {
		if err := u.userRepo.Update(ctx, user); err != nil {
			return err
		}
		return u.profileRepo.UpdateCompany(ctx, profile)
	})
	if err != nil {
		return nil, err
	}
	return &entities.UserProfile{User: user, CompanyProfile: profile}, nil
}

// Details is the public company page.
func (u *CompanyUsecase) Details(ctx context.Context, companyID uuid.UUID) (*entities.CompanyDetails, error) {
	user, profile, err := u.company(ctx, companyID)
	if err != nil {
		return nil, err
	}
	agents, err := u.companyRepo.ListAgents(ctx, companyID)
	if err != nil {
		return nil, err
	}
	availability, err := u.companyRepo.ListAvailability(ctx, companyID)
	if err != nil {
		return nil, err
	}
	ads, _, err := u.propertyRepo.List(ctx,
		entities.PropertyFilter{ListerID: &companyID, OnlyPublic: true},
		utils.GetPaginationParams(1, companyPageAds),
	)
	if err != nil {
		return nil, err
	}

	out := &entities.CompanyDetails{
		User:         user,
		Profile:      profile,
		Agents:       agents,
		Availability: availability,
		Ads:          make([]entities.Property, 0, len(ads)),
	}
	for _, ad := range ads {
		out.Ads = append(out.Ads, *ad)
	}
	return out, nil
}

// ListAgents returns the company's agents.
func (u *CompanyUsecase) ListAgents(ctx context.Context, companyID uuid.UUID) ([]entities.CompanyAgent, error) {
	return u.companyRepo.ListAgents(ctx, companyID)
}

// CreateAgent adds an agent to the company.
func (u *CompanyUsecase) CreateAgent(ctx context.Context, companyID uuid.UUID, input *entities.CompanyAgentInput) (*entities.CompanyAgent, error) {
	if input.FullName == nil || *input.FullName == "" {
		return nil, domainerrors.BadRequest("full_name is required")
	}

	now := u.now()
	agent := &entities.CompanyAgent{
		ID:        utils.GenerateUUIDv7(),
		CompanyID: companyID,
		FullName:  *input.FullName,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyAgentInput(agent, input)

	if err := u.companyRepo.CreateAgent(ctx, agent); err != nil {
		return nil, err
	}
	return agent, nil
}

// UpdateAgent patches one of the company's agents.
func (u *CompanyUsecase) UpdateAgent(ctx context.Context, companyID, agentID uuid.UUID, input *entities.CompanyAgentInput) (*entities.CompanyAgent, error) {
	agent, err := u.companyRepo.GetAgent(ctx, companyID, agentID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NonExistent("Agent not found")
		}
		return nil, err
	}

	if input.FullName != nil {
		agent.FullName = *input.FullName
	}
	applyAgentInput(agent, input)

	if err := u.companyRepo.UpdateAgent(ctx, agent); err != nil {
		return nil, err
	}
	return agent, nil
}

// CreateAvailability stores up to MaxAvailabilityEntries opening-hours windows at once.
func (u *CompanyUsecase) CreateAvailability(ctx context.Context, companyID uuid.UUID, input []entities.AvailabilityInput) ([]*entities.CompanyAvailability, error) {
	if len(input) > entities.MaxAvailabilityEntries {
		return nil, domainerrors.NotAllowed(fmt.Sprintf("At most %d availability entries can be created", entities.MaxAvailabilityEntries))
	}
	if len(input) == 0 {
		return nil, domainerrors.BadRequest("at least one availability entry is required")
	}

	now := u.now()
	entries := make([]*entities.CompanyAvailability, 0, len(input))
	for _, in := range input {
		if err := validateHours(in); err != nil {
			return nil, err
		}
		entries = append(entries, &entities.CompanyAvailability{
			ID:        utils.GenerateUUIDv7(),
			CompanyID: companyID,
			StartDay:  in.StartDay,
			LastDay:   in.LastDay,
			StartTime: in.StartTime,
			EndTime:   in.EndTime,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	if err := u.companyRepo.CreateAvailability(ctx, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// UpdateAvailability changes the hours of the window addressed by its days.
func (u *CompanyUsecase) UpdateAvailability(ctx context.Context, companyID uuid.UUID, input *entities.AvailabilityInput) (*entities.CompanyAvailability, error) {
	if err := validateHours(*input); err != nil {
		return nil, err
	}

	entry, err := u.companyRepo.GetAvailabilityByDays(ctx, companyID, input.StartDay, input.LastDay)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NonExistent("No availability for these days")
		}
		return nil, err
	}

	entry.StartTime = input.StartTime
	entry.EndTime = input.EndTime
	if err := u.companyRepo.UpdateAvailability(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// ListAvailability returns the company's opening hours.
func (u *CompanyUsecase) ListAvailability(ctx context.Context, companyID uuid.UUID) ([]entities.CompanyAvailability, error) {
	return u.companyRepo.ListAvailability(ctx, companyID)
}

func (u *CompanyUsecase) company(ctx context.Context, companyID uuid.UUID) (*entities.User, *entities.CompanyProfile, error) {
	user, err := u.userRepo.GetByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, nil, domainerrors.NonExistent("Company not found")
		}
		return nil, nil, err
	}
	if !user.IsAgent {
		return nil, nil, domainerrors.NonExistent("Company not found")
	}

	profile, err := u.profileRepo.GetCompanyByUserID(ctx, companyID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, nil, domainerrors.NonExistent("Company profile not found")
		}
		return nil, nil, err
	}
	return user, profile, nil
}

func applyAgentInput(agent *entities.CompanyAgent, input *entities.CompanyAgentInput) {
	if input.PhoneNumber != nil {
		agent.PhoneNumber = null.NewString(*input.PhoneNumber, *input.PhoneNumber != "")
	}
	if input.ProfilePictureURL != nil {
		agent.ProfilePictureURL = null.NewString(*input.ProfilePictureURL, *input.ProfilePictureURL != "")
	}
}

// validateHours relies on HH:MM strings ordering lexically.
func validateHours(in entities.AvailabilityInput) error {
	if in.EndTime <= in.StartTime {
		return domainerrors.BadRequest("end_time must be after start_time")
	}
	return nil
}
