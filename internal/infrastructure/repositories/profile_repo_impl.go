package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"kemea.backend/internal/domain/entities"
	domainerrors "kemea.backend/internal/domain/errors"
	"kemea.backend/internal/infrastructure/models"
)

// ProfileRepository stores normal and company profiles
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) CreateNormal(ctx context.Context, p *entities.NormalProfile) error {
	m := &models.NormalProfile{
		ID:          p.ID,
		UserID:      p.UserID,
		ImageURL:    p.ImageURL.Ptr(),
		DateOfBirth: p.DateOfBirth.Ptr(),
		Tokens:      p.Tokens,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if err := GetDB(ctx, r.db).WithContext(ctx).Create(m).Error; err != nil {
		if isDuplicateKey(err) {
			return domainerrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *ProfileRepository) GetNormalByUserID(ctx context.Context, userID uuid.UUID) (*entities.NormalProfile, error) {
	var m models.NormalProfile
	if err := GetDB(ctx, r.db).WithContext(ctx).Where("user_id = ?", userID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return &entities.NormalProfile{
		ID:          m.ID,
		UserID:      m.UserID,
		ImageURL:    null.StringFromPtr(m.ImageURL),
		DateOfBirth: null.TimeFromPtr(m.DateOfBirth),
		Tokens:      m.Tokens,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}, nil
}

// UpdateNormal writes the editable fields. The token balance only moves through AddTokens.
func (r *ProfileRepository) UpdateNormal(ctx context.Context, p *entities.NormalProfile) error {
	result := GetDB(ctx, r.db).WithContext(ctx).Model(&models.NormalProfile{}).
		Where("user_id = ?", p.UserID).
		Updates(map[string]interface{}{
			"image_url":     p.ImageURL.Ptr(),
			"date_of_birth": p.DateOfBirth.Ptr(),
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *ProfileRepository) AddTokens(ctx context.Context, userID uuid.UUID, amount int64) error {
	result := GetDB(ctx, r.db).WithContext(ctx).Model(&models.NormalProfile{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"tokens":     gorm.Expr("tokens + ?", amount),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *ProfileRepository) CreateCompany(ctx context.Context, p *entities.CompanyProfile) error {
	m := &models.CompanyProfile{
		ID:                 p.ID,
		UserID:             p.UserID,
		CompanyName:        p.CompanyName,
		LicenseNumber:      p.LicenseNumber,
		ImageURL:           p.ImageURL.Ptr(),
		BackgroundImageURL: p.BackgroundImageURL.Ptr(),
		Location:           p.Location,
		Website:            p.Website.Ptr(),
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
	if err := GetDB(ctx, r.db).WithContext(ctx).Create(m).Error; err != nil {
		if isDuplicateKey(err) {
			return domainerrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *ProfileRepository) GetCompanyByUserID(ctx context.Context, userID uuid.UUID) (*entities.CompanyProfile, error) {
	var m models.CompanyProfile
	if err := GetDB(ctx, r.db).WithContext(ctx).Where("user_id = ?", userID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return companyToEntity(&m), nil
}

func (r *ProfileRepository) UpdateCompany(ctx context.Context, p *entities.CompanyProfile) error {
	result := GetDB(ctx, r.db).WithContext(ctx).Model(&models.CompanyProfile{}).
		Where("user_id = ?", p.UserID).
		Updates(map[string]interface{}{
			"company_name":         p.CompanyName,
			"license_number":       p.LicenseNumber,
			"image_url":            p.ImageURL.Ptr(),
			"background_image_url": p.BackgroundImageURL.Ptr(),
			"location":             p.Location,
			"website":              p.Website.Ptr(),
			"updated_at":           time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func companyToEntity(m *models.CompanyProfile) *entities.CompanyProfile {
	return &entities.CompanyProfile{
		ID:                 m.ID,
		UserID:             m.UserID,
		CompanyName:        m.CompanyName,
		LicenseNumber:      m.LicenseNumber,
		ImageURL:           null.StringFromPtr(m.ImageURL),
		BackgroundImageURL: null.StringFromPtr(m.BackgroundImageURL),
		Location:           m.Location,
		Website:            null.StringFromPtr(m.Website),
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}
