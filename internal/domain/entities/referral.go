package entities

import (
	"time"

	"github.com/google/uuid"
)

// Referral aggregates the rewards a user earned by referring others.
type Referral struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	Earnings       int64     `json:"earnings"`
	NumOfReferrals int64     `json:"num_of_referrals"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ReferralInfo is the referral summary shown to a user.
type ReferralInfo struct {
	TotalEarnings  int64  `json:"total_earnings"`
	TotalReferrals int64  `json:"total_referrals"`
	ReferralCode   string `json:"referral_code"`
	ReferralLink   string `json:"referral_link"`
}
