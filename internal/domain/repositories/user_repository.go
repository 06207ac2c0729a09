package repositories

import (
	"context"

	"github.com/google/uuid"
	"kemea.backend/internal/domain/entities"
)

// UserRepository is the credential store.
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	GetByReferralCode(ctx context.Context, code string) (*entities.User, error)
	Update(ctx context.Context, user *entities.User) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	MarkEmailVerified(ctx context.Context, id uuid.UUID) error
}

// ProfileRepository stores normal and company profiles.
type ProfileRepository interface {
	CreateNormal(ctx context.Context, profile *entities.NormalProfile) error
	GetNormalByUserID(ctx context.Context, userID uuid.UUID) (*entities.NormalProfile, error)
	UpdateNormal(ctx context.Context, profile *entities.NormalProfile) error
	// AddTokens atomically increments a normal profile's bonus balance.
	AddTokens(ctx context.Context, userID uuid.UUID, amount int64) error

	CreateCompany(ctx context.Context, profile *entities.CompanyProfile) error
	GetCompanyByUserID(ctx context.Context, userID uuid.UUID) (*entities.CompanyProfile, error)
	UpdateCompany(ctx context.Context, profile *entities.CompanyProfile) error
}
