package repositories

import (
	"context"

	"github.com/google/uuid"
	"kemea.backend/internal/domain/entities"
)

// ReferralRepository is the referral ledger.
type ReferralRepository interface {
	// Award adds amount to the referrer's earnings and bumps the referral count,
	// creating the aggregate on first use. Safe under concurrent calls.
	Award(ctx context.Context, referrerID uuid.UUID, amount int64) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.Referral, error)
}
