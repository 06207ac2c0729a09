package usecases

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"kemea.backend/internal/domain/entities"
	domainerrors "kemea.backend/internal/domain/errors"
	"kemea.backend/internal/domain/repositories"
	"kemea.backend/pkg/crypto"
	"kemea.backend/pkg/jwt"
	"kemea.backend/pkg/logger"
	"kemea.backend/pkg/metrics"
	"kemea.backend/pkg/utils"
)

const (
	referralCodeLength   = 8
	referralCodeAttempts = 5
)

var (
	generateReferralCode = crypto.GenerateReferralCode
	generateRandomSecret = crypto.GenerateRandomToken
)

// ReferralBonus is what a successful referral is worth to each side.
type ReferralBonus struct {
	Referrer int64
	Referee  int64
}

// AuthUsecase handles authentication business logic
type AuthUsecase struct {
	userRepo     repositories.UserRepository
	profileRepo  repositories.ProfileRepository
	referralRepo repositories.ReferralRepository
	uow          repositories.UnitOfWork
	verification *VerificationUsecase
	jwtService   *jwt.JWTService
	revoker      TokenRevoker
	google       IdentityVerifier
	bonus        ReferralBonus
	now          func() time.Time
}

// NewAuthUsecase creates a new auth usecase
func NewAuthUsecase(
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	referralRepo repositories.ReferralRepository,
	uow repositories.UnitOfWork,
	verification *VerificationUsecase,
	jwtService *jwt.JWTService,
	revoker TokenRevoker,
	google IdentityVerifier,
	bonus ReferralBonus,
) *AuthUsecase {
	return &AuthUsecase{
		userRepo:     userRepo,
		profileRepo:  profileRepo,
		referralRepo: referralRepo,
		uow:          uow,
		verification: verification,
		jwtService:   jwtService,
		revoker:      revoker,
		google:       google,
		bonus:        bonus,
		now:          time.Now,
	}
}

// SetClock replaces the time source.
func (u *AuthUsecase) SetClock(now func() time.Time) {
	u.now = now
}

// Register creates a normal user with its profile, applies the referral code
// if one was given and sends the verification code. All of it commits or
// none of it does.
func (u *AuthUsecase) Register(ctx context.Context, input *entities.RegisterInput) (*entities.UserProfile, error) {
	email := normalizeEmail(input.Email)
	if err := u.verification.ensureEmailFree(ctx, email); err != nil {
		return nil, err
	}

	var referrer *entities.User
	if code := strings.TrimSpace(input.ReferralCode); code != "" {
		found, err := u.userRepo.GetByReferralCode(ctx, code)
		if err != nil {
			if errors.Is(err, domainerrors.ErrNotFound) {
				return nil, domainerrors.InvalidReferralCode("Invalid referral code")
			}
			return nil, err
		}
		referrer = found
	}

	user, err := u.newUser(ctx, email, input.FullName, input.Password, input.PhoneNumber)
	if err != nil {
		return nil, err
	}
	profile := &entities.NormalProfile{
		ID:        utils.GenerateUUIDv7(),
		UserID:    user.ID,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.CreatedAt,
	}

	err = u.uow.Do(ctx, func(ctx context.Context) error {
		if err := u.createUser(ctx, user); err != nil {
			return err
		}
		if err := u.profileRepo.CreateNormal(ctx, profile); err != nil {
			return err
		}
		if referrer != nil {
			if err := u.referralRepo.Award(ctx, referrer.ID, u.bonus.Referrer); err != nil {
				return err
			}
			if err := u.profileRepo.AddTokens(ctx, user.ID, u.bonus.Referee); err != nil {
				return err
			}
			profile.Tokens += u.bonus.Referee
		}
		return u.verification.IssueOTP(ctx, user, entities.RegisteredRecipient{User: user}, entities.OTPPurposeEmailVerification)
	})
	if err != nil {
		return nil, err
	}

	metrics.Registrations.WithLabelValues("normal", strconv.FormatBool(referrer != nil)).Inc()
	logger.Info(ctx, "User registered",
		zap.String("user_id", user.ID.String()),
		zap.Bool("referred", referrer != nil),
	)
	return &entities.UserProfile{User: user, NormalProfile: profile}, nil
}

// RegisterCompany creates an agent account with its company profile.
func (u *AuthUsecase) RegisterCompany(ctx context.Context, input *entities.RegisterCompanyInput) (*entities.UserProfile, error) {
	email := normalizeEmail(input.Email)
	if err := u.verification.ensureEmailFree(ctx, email); err != nil {
		return nil, err
	}

	user, err := u.newUser(ctx, email, input.FullName, input.Password, input.PhoneNumber)
	if err != nil {
		return nil, err
	}
	user.IsAgent = true

	profile := &entities.CompanyProfile{
		ID:            utils.GenerateUUIDv7(),
		UserID:        user.ID,
		CompanyName:   input.CompanyName,
		LicenseNumber: input.LicenseNumber,
		Location:      input.Location,
		Website:       null.NewString(input.Website, input.Website != ""),
		CreatedAt:     user.CreatedAt,
		UpdatedAt:     user.CreatedAt,
	}

	err = u.uow.Do(ctx, func(ctx context.Context) error {
		if err := u.createUser(ctx, user); err != nil {
			return err
		}
		if err := u.profileRepo.CreateCompany(ctx, profile); err != nil {
			return err
		}
		return u.verification.IssueOTP(ctx, user, entities.RegisteredRecipient{User: user}, entities.OTPPurposeEmailVerification)
	})
	if err != nil {
		return nil, err
	}

	metrics.Registrations.WithLabelValues("company", "false").Inc()
	logger.Info(ctx, "Company registered", zap.String("user_id", user.ID.String()))
	return &entities.UserProfile{User: user, CompanyProfile: profile}, nil
}

// Login authenticates a user and returns tokens
func (u *AuthUsecase) Login(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error) {
	user, err := u.userRepo.GetByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.InvalidCredentials("Invalid credentials")
		}
		return nil, err
	}

	if !crypto.CheckPassword(input.Password, user.PasswordHash) || !user.IsActive {
		return nil, domainerrors.InvalidCredentials("Invalid credentials")
	}
	if input.IsAgent != nil && *input.IsAgent != user.IsAgent {
		return nil, domainerrors.InvalidCredentials("Invalid credentials")
	}
	if !user.EmailVerified {
		return nil, domainerrors.UnverifiedUser("Verify your email first")
	}

	return u.authResponse(ctx, user)
}

// Logout blacklists a refresh token until it would have expired anyway.
func (u *AuthUsecase) Logout(ctx context.Context, refreshToken string) error {
	claims, err := u.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return domainerrors.InvalidEntry("Token is invalid or expired")
	}

	ttl := time.Minute
	if claims.ExpiresAt != nil {
		if left := claims.ExpiresAt.Time.Sub(u.now()); left > 0 {
			ttl = left
		}
	}

	revoked, err := u.revoker.Revoke(ctx, claims.ID, ttl)
	if err != nil {
		return err
	}
	if !revoked {
		return domainerrors.InvalidEntry("Token is blacklisted")
	}
	return nil
}

// RefreshToken issues a new access token for a live refresh token.
func (u *AuthUsecase) RefreshToken(ctx context.Context, refreshToken string) (*jwt.TokenPair, error) {
	claims, err := u.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, domainerrors.InvalidEntry("Token is invalid or expired")
	}

	revoked, err := u.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, domainerrors.InvalidEntry("Token is blacklisted")
	}

	// Get current user to ensure still valid
	user, err := u.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.InvalidCredentials("Invalid credentials")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, domainerrors.InvalidCredentials("Invalid credentials")
	}

	access, err := u.jwtService.GenerateAccessToken(&jwt.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role()),
	})
	if err != nil {
		return nil, err
	}
	return &jwt.TokenPair{AccessToken: access, RefreshToken: refreshToken}, nil
}

// Me returns the caller with their profile.
func (u *AuthUsecase) Me(ctx context.Context, userID uuid.UUID) (*entities.UserProfile, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NonExistent("User not found")
		}
		return nil, err
	}
	return loadUserProfile(ctx, u.profileRepo, user)
}

// AccountActive reports whether userID still exists and is active.
func (u *AuthUsecase) AccountActive(ctx context.Context, userID uuid.UUID) (bool, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return user.IsActive, nil
}

// ChangePassword replaces the password after checking the current one.
func (u *AuthUsecase) ChangePassword(ctx context.Context, userID uuid.UUID, input *entities.ChangePasswordInput) error {
	user, err := u.verification.userByID(ctx, userID)
	if err != nil {
		return err
	}
	if !crypto.CheckPassword(input.OldPassword, user.PasswordHash) {
		return domainerrors.InvalidCredentials("Old password is incorrect")
	}

	hash, err := crypto.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}
	return u.userRepo.UpdatePassword(ctx, user.ID, hash)
}

// GoogleLogin signs in with a Google ID token, creating a verified normal
// account on first use.
func (u *AuthUsecase) GoogleLogin(ctx context.Context, idToken string) (*entities.AuthResponse, error) {
	identity, err := u.google.Verify(ctx, idToken)
	if err != nil {
		logger.Warn(ctx, "Google token rejected", zap.Error(err))
		return nil, domainerrors.InvalidCredentials("The token is invalid or expired, please login again")
	}

	user, err := u.userRepo.GetByEmail(ctx, identity.Email)
	switch {
	case err == nil:
		if !user.IsActive {
			return nil, domainerrors.InvalidCredentials("Invalid credentials")
		}
		if !user.EmailVerified && identity.EmailVerified {
			if err := u.userRepo.MarkEmailVerified(ctx, user.ID); err != nil {
				return nil, err
			}
			user.EmailVerified = true
		}
	case errors.Is(err, domainerrors.ErrNotFound):
		if !identity.EmailVerified {
			return nil, domainerrors.UnverifiedUser("Google has not verified this email address")
		}
		if user, err = u.registerSocialUser(ctx, identity.Email, identity.Name); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	return u.authResponse(ctx, user)
}

func (u *AuthUsecase) registerSocialUser(ctx context.Context, email, name string) (*entities.User, error) {
	password, err := generateRandomSecret(16)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = strings.Split(email, "@")[0]
	}

	user, err := u.newUser(ctx, email, name, password, "")
	if err != nil {
		return nil, err
	}
	user.EmailVerified = true
	user.GoogleProvider = true

	err = u.uow.Do(ctx, func(ctx context.Context) error {
		if err := u.createUser(ctx, user); err != nil {
			return err
		}
		return u.profileRepo.CreateNormal(ctx, &entities.NormalProfile{
			ID:        utils.GenerateUUIDv7(),
			UserID:    user.ID,
			CreatedAt: user.CreatedAt,
			UpdatedAt: user.CreatedAt,
		})
	})
	if err != nil {
		return nil, err
	}

	metrics.Registrations.WithLabelValues("google", "false").Inc()
	logger.Info(ctx, "Social user registered", zap.String("user_id", user.ID.String()))
	return user, nil
}

// CreateStaff creates a verified staff account without a profile.
func (u *AuthUsecase) CreateStaff(ctx context.Context, email, fullName, password string) (*entities.User, error) {
	email = normalizeEmail(email)
	if err := u.verification.ensureEmailFree(ctx, email); err != nil {
		return nil, err
	}

	user, err := u.newUser(ctx, email, fullName, password, "")
	if err != nil {
		return nil, err
	}
	user.IsStaff = true
	user.EmailVerified = true

	if err := u.createUser(ctx, user); err != nil {
		return nil, err
	}
	logger.Info(ctx, "Staff user created", zap.String("user_id", user.ID.String()))
	return user, nil
}

func (u *AuthUsecase) newUser(ctx context.Context, email, fullName, password, phone string) (*entities.User, error) {
	hash, err := crypto.HashPassword(password)
	if err != nil {
		return nil, err
	}
	code, err := u.newReferralCode(ctx)
	if err != nil {
		return nil, err
	}

	now := u.now()
	return &entities.User{
		ID:           utils.GenerateUUIDv7(),
		Email:        email,
		FullName:     strings.TrimSpace(fullName),
		PhoneNumber:  null.NewString(phone, phone != ""),
		PasswordHash: hash,
		IsActive:     true,
		ReferralCode: code,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// newReferralCode draws codes until one is unused.
func (u *AuthUsecase) newReferralCode(ctx context.Context) (string, error) {
	for i := 0; i < referralCodeAttempts; i++ {
		code, err := generateReferralCode(referralCodeLength)
		if err != nil {
			return "", err
		}
		_, err = u.userRepo.GetByReferralCode(ctx, code)
		if errors.Is(err, domainerrors.ErrNotFound) {
			return code, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", errors.New("failed to allocate a unique referral code")
}

func (u *AuthUsecase) createUser(ctx context.Context, user *entities.User) error {
	if err := u.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyExists) {
			return domainerrors.AlreadyExists("Account already exists")
		}
		return err
	}
	return nil
}

func (u *AuthUsecase) authResponse(ctx context.Context, user *entities.User) (*entities.AuthResponse, error) {
	pair, err := u.jwtService.GenerateTokenPair(user.ID, user.Email, string(user.Role()))
	if err != nil {
		return nil, err
	}
	profile, err := loadUserProfile(ctx, u.profileRepo, user)
	if err != nil {
		return nil, err
	}
	return &entities.AuthResponse{
		Access:  pair.AccessToken,
		Refresh: pair.RefreshToken,
		User:    user,
		Profile: profile.Profile(),
	}, nil
}

// loadUserProfile attaches the role's profile. Staff accounts may have none.
func loadUserProfile(ctx context.Context, profiles repositories.ProfileRepository, user *entities.User) (*entities.UserProfile, error) {
	out := &entities.UserProfile{User: user}
	if user.IsAgent {
		p, err := profiles.GetCompanyByUserID(ctx, user.ID)
		if err != nil && !errors.Is(err, domainerrors.ErrNotFound) {
			return nil, err
		}
		out.CompanyProfile = p
		return out, nil
	}

	p, err := profiles.GetNormalByUserID(ctx, user.ID)
	if err != nil && !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}
	out.NormalProfile = p
	return out, nil
}
