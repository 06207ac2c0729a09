package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"kemea.backend/internal/domain/entities"
	domainerrors "kemea.backend/internal/domain/errors"
	"kemea.backend/internal/infrastructure/models"
)

// ReferralRepository is the referral ledger
type ReferralRepository struct {
	db *gorm.DB
}

// NewReferralRepository creates a new referral repository
func NewReferralRepository(db *gorm.DB) *ReferralRepository {
	return &ReferralRepository{db: db}
}

// Award upserts the referrer's aggregate, incrementing in SQL so concurrent
// registrations never lose an update.
func (r *ReferralRepository) Award(ctx context.Context, referrerID uuid.UUID, amount int64) error {
	now := time.Now()
	m := &models.Referral{
		ID:             uuid.New(),
		UserID:         referrerID,
		Earnings:       amount,
		NumOfReferrals: 1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	return GetDB(ctx, r.db).WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"earnings":         gorm.Expr("referrals.earnings + ?", amount),
			"num_of_referrals": gorm.Expr("referrals.num_of_referrals + 1"),
			"updated_at":       now,
		}),
	}).Create(m).Error
}

func (r *ReferralRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.Referral, error) {
	var m models.Referral
	if err := GetDB(ctx, r.db).WithContext(ctx).Where("user_id = ?", userID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return &entities.Referral{
		ID:             m.ID,
		UserID:         m.UserID,
		Earnings:       m.Earnings,
		NumOfReferrals: m.NumOfReferrals,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}, nil
}
