package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"kemea.backend/internal/domain/entities"
	domainerrors "kemea.backend/internal/domain/errors"
	"kemea.backend/internal/infrastructure/models"
)

// OTPRepository stores one-time passcodes
type OTPRepository struct {
	db *gorm.DB
}

// NewOTPRepository creates a new OTP repository
func NewOTPRepository(db *gorm.DB) *OTPRepository {
	return &OTPRepository{db: db}
}

// Replace drops the live secret for the same user and purpose and stores otp.
func (r *OTPRepository) Replace(ctx context.Context, otp *entities.OTPSecret) error {
	db := GetDB(ctx, r.db).WithContext(ctx)
	if err := db.Where("user_id = ? AND purpose = ?", otp.UserID, string(otp.Purpose)).
		Delete(&models.OTPSecret{}).Error; err != nil {
		return err
	}

	m := &models.OTPSecret{
		ID:        otp.ID,
		UserID:    otp.UserID,
		Purpose:   string(otp.Purpose),
		Email:     otp.Email,
		Code:      otp.Code,
		CreatedAt: otp.CreatedAt,
	}
	if err := db.Create(m).Error; err != nil {
		if isDuplicateKey(err) {
			return domainerrors.ErrAlreadyExists
		}
		return err
	}
	otp.CreatedAt = m.CreatedAt
	return nil
}

func (r *OTPRepository) Get(ctx context.Context, userID uuid.UUID, purpose entities.OTPPurpose) (*entities.OTPSecret, error) {
	var m models.OTPSecret
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("user_id = ? AND purpose = ?", userID, string(purpose)).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return &entities.OTPSecret{
		ID:        m.ID,
		UserID:    m.UserID,
		Purpose:   entities.OTPPurpose(m.Purpose),
		Email:     m.Email,
		Code:      m.Code,
		Attempts:  m.Attempts,
		CreatedAt: m.CreatedAt,
	}, nil
}

// Delete consumes a secret. A second delete of the same id reports ErrNotFound.
func (r *OTPRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := GetDB(ctx, r.db).WithContext(ctx).Where("id = ?", id).Delete(&models.OTPSecret{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *OTPRepository) RecordMiss(ctx context.Context, id uuid.UUID, maxAttempts int) (bool, error) {
	db := GetDB(ctx, r.db).WithContext(ctx)
	result := db.Model(&models.OTPSecret{}).Where("id = ?", id).
		UpdateColumn("attempts", gorm.Expr("attempts + 1"))
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, domainerrors.ErrNotFound
	}

	result = db.Where("id = ? AND attempts >= ?", id, maxAttempts).Delete(&models.OTPSecret{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *OTPRepository) DeleteCreatedBefore(ctx context.Context, before time.Time) (int64, error) {
	result := GetDB(ctx, r.db).WithContext(ctx).Where("created_at < ?", before).Delete(&models.OTPSecret{})
	return result.RowsAffected, result.Error
}
