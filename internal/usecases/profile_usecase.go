package usecases

import (
	"context"
	"errors"
	"net/url"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"kemea.backend/internal/domain/entities"
	domainerrors "kemea.backend/internal/domain/errors"
	"kemea.backend/internal/domain/repositories"
	"kemea.backend/pkg/logger"
)

// ProfileUsecase manages a normal user's account and profile.
type ProfileUsecase struct {
	userRepo     repositories.UserRepository
	profileRepo  repositories.ProfileRepository
	referralRepo repositories.ReferralRepository
	uow          repositories.UnitOfWork
	referralBase string
}

// NewProfileUsecase creates a new profile usecase
func NewProfileUsecase(
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	referralRepo repositories.ReferralRepository,
	uow repositories.UnitOfWork,
	referralBase string,
) *ProfileUsecase {
	return &ProfileUsecase{
		userRepo:     userRepo,
		profileRepo:  profileRepo,
		referralRepo: referralRepo,
		uow:          uow,
		referralBase: referralBase,
	}
}

// GetProfile returns the user with their profile.
func (u *ProfileUsecase) GetProfile(ctx context.Context, userID uuid.UUID) (*entities.UserProfile, error) {
	user, err := u.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	return loadUserProfile(ctx, u.profileRepo, user)
}

// UpdateProfile patches the account and the normal profile together.
func (u *ProfileUsecase) UpdateProfile(ctx context.Context, userID uuid.UUID, input *entities.UpdateProfileInput) (*entities.UserProfile, error) {
	user, err := u.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.IsAgent {
		return nil, domainerrors.NotAllowed("Company accounts update the company profile instead")
	}

	profile, err := u.profileRepo.GetNormalByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NonExistent("Profile not found")
		}
		return nil, err
	}

	if input.FullName != nil {
		user.FullName = *input.FullName
	}
	if input.PhoneNumber != nil {
		user.PhoneNumber = null.NewString(*input.PhoneNumber, *input.PhoneNumber != "")
	}
	if input.ImageURL != nil {
		profile.ImageURL = null.NewString(*input.ImageURL, *input.ImageURL != "")
	}
	if input.DateOfBirth != nil {
		profile.DateOfBirth = null.TimeFrom(*input.DateOfBirth)
	}

	err = u.uow.Do(ctx, func(ctx context.Context) error {
		if err := u.userRepo.Update(ctx, user); err != nil {
			return err
		}
		return u.profileRepo.UpdateNormal(ctx, profile)
	})
	if err != nil {
		return nil, err
	}
	return &entities.UserProfile{User: user, NormalProfile: profile}, nil
}

// Deactivate disables the account. Deactivated users cannot log in.
func (u *ProfileUsecase) Deactivate(ctx context.Context, userID uuid.UUID) error {
	user, err := u.user(ctx, userID)
	if err != nil {
		return err
	}
	if !user.IsActive {
		return nil
	}

	user.IsActive = false
	if err := u.userRepo.Update(ctx, user); err != nil {
		return err
	}
	logger.Info(ctx, "Account deactivated", zap.String("user_id", userID.String()))
	return nil
}

// ReferralInfo summarizes what the user earned from referrals.
func (u *ProfileUsecase) ReferralInfo(ctx context.Context, userID uuid.UUID) (*entities.ReferralInfo, error) {
	user, err := u.user(ctx, userID)
	if err != nil {
		return nil, err
	}

	info := &entities.ReferralInfo{
		ReferralCode: user.ReferralCode,
		ReferralLink: u.referralBase + "?ref=" + url.QueryEscape(user.ReferralCode),
	}

	ref, err := u.referralRepo.GetByUserID(ctx, userID)
	switch {
	case err == nil:
		info.TotalEarnings = ref.Earnings
		info.TotalReferrals = ref.NumOfReferrals
	case errors.Is(err, domainerrors.ErrNotFound):
		// no referrals yet
	default:
		return nil, err
	}
	return info, nil
}

func (u *ProfileUsecase) user(ctx context.Context, userID uuid.UUID) (*entities.User, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NonExistent("User not found")
		}
		return nil, err
	}
	return user, nil
}
