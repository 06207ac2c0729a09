package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"kemea.backend/internal/domain/entities"
)

// OTPRepository is the OTP ledger: at most one live secret per (user, purpose).
type OTPRepository interface {
	// Replace removes any live secret for the same user and purpose, then stores otp.
	Replace(ctx context.Context, otp *entities.OTPSecret) error
	Get(ctx context.Context, userID uuid.UUID, purpose entities.OTPPurpose) (*entities.OTPSecret, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// RecordMiss counts a wrong guess against the secret and deletes it once
	// maxAttempts misses are reached. exhausted reports that deletion.
	RecordMiss(ctx context.Context, id uuid.UUID, maxAttempts int) (exhausted bool, err error)
	DeleteCreatedBefore(ctx context.Context, before time.Time) (int64, error)
}
