package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"kemea.backend/internal/domain/entities"
	domainerrors "kemea.backend/internal/domain/errors"
)

func TestOTPRepository_ReplaceKeepsOneLiveSecret(t *testing.T) {
	db := newTestDB(t)
	repo := NewOTPRepository(db)
	ctx := context.Background()
	u := seedUser(t, db, "otp@example.com")

	first := &entities.OTPSecret{ID: uuid.New(), UserID: u.ID, Purpose: entities.OTPPurposeEmailVerification, Email: u.Email, Code: "1111"}
	second := &entities.OTPSecret{ID: uuid.New(), UserID: u.ID, Purpose: entities.OTPPurposeEmailVerification, Email: u.Email, Code: "2222"}
	reset := &entities.OTPSecret{ID: uuid.New(), UserID: u.ID, Purpose: entities.OTPPurposePasswordReset, Email: u.Email, Code: "3333"}
	require.NoError(t, repo.Replace(ctx, first))
	require.NoError(t, repo.Replace(ctx, second))
	require.NoError(t, repo.Replace(ctx, reset))
	require.False(t, second.CreatedAt.IsZero())

	got, err := repo.Get(ctx, u.ID, entities.OTPPurposeEmailVerification)
	require.NoError(t, err)
	require.Equal(t, "2222", got.Code)
	require.Equal(t, second.ID, got.ID)

	got, err = repo.Get(ctx, u.ID, entities.OTPPurposePasswordReset)
	require.NoError(t, err)
	require.Equal(t, "3333", got.Code)

	var count int64
	require.NoError(t, db.Table("otp_secrets").Count(&count).Error)
	require.Equal(t, int64(2), count)
}

func TestOTPRepository_DeleteIsSingleUse(t *testing.T) {
	db := newTestDB(t)
	repo := NewOTPRepository(db)
	ctx := context.Background()
	u := seedUser(t, db, "once@example.com")

	otp := &entities.OTPSecret{ID: uuid.New(), UserID: u.ID, Purpose: entities.OTPPurposeEmailChange, Email: "new@example.com", Code: "4321"}
	require.NoError(t, repo.Replace(ctx, otp))

	require.NoError(t, repo.Delete(ctx, otp.ID))
	require.ErrorIs(t, repo.Delete(ctx, otp.ID), domainerrors.ErrNotFound)

	_, err := repo.Get(ctx, u.ID, entities.OTPPurposeEmailChange)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestOTPRepository_DeleteCreatedBefore(t *testing.T) {
	db := newTestDB(t)
	repo := NewOTPRepository(db)
	ctx := context.Background()
	a := seedUser(t, db, "old@example.com")
	b := seedUser(t, db, "fresh@example.com")

	now := time.Now().UTC()
	require.NoError(t, repo.Replace(ctx, &entities.OTPSecret{ID: uuid.New(), UserID: a.ID, Purpose: entities.OTPPurposeEmailVerification, Email: a.Email, Code: "1", CreatedAt: now.Add(-time.Hour)}))
	require.NoError(t, repo.Replace(ctx, &entities.OTPSecret{ID: uuid.New(), UserID: b.ID, Purpose: entities.OTPPurposeEmailVerification, Email: b.Email, Code: "2", CreatedAt: now}))

	n, err := repo.DeleteCreatedBefore(ctx, now.Add(-10*time.Minute))
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	_, err = repo.Get(ctx, a.ID, entities.OTPPurposeEmailVerification)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
	_, err = repo.Get(ctx, b.ID, entities.OTPPurposeEmailVerification)
	require.NoError(t, err)
}

func TestReferralRepository_AwardAccumulates(t *testing.T) {
	db := newTestDB(t)
	repo := NewReferralRepository(db)
	ctx := context.Background()
	u := seedUser(t, db, "ref@example.com")

	_, err := repo.GetByUserID(ctx, u.ID)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)

	require.NoError(t, repo.Award(ctx, u.ID, 1000))
	require.NoError(t, repo.Award(ctx, u.ID, 1000))
	require.NoError(t, repo.Award(ctx, u.ID, 1000))

	got, err := repo.GetByUserID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, int64(3000), got.Earnings)
	require.Equal(t, int64(3), got.NumOfReferrals)

	var count int64
	require.NoError(t, db.Table("referrals").Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestOTPRepository_RecordMissDeletesAfterLimit(t *testing.T) {
	db := newTestDB(t)
	repo := NewOTPRepository(db)
	ctx := context.Background()
	u := seedUser(t, db, "miss@example.com")

	otp := &entities.OTPSecret{ID: uuid.New(), UserID: u.ID, Purpose: entities.OTPPurposePasswordReset, Email: u.Email, Code: "1234"}
	require.NoError(t, repo.Replace(ctx, otp))

	for i := 1; i < 3; i++ {
		exhausted, err := repo.RecordMiss(ctx, otp.ID, 3)
		require.NoError(t, err)
		require.False(t, exhausted)

		got, err := repo.Get(ctx, u.ID, entities.OTPPurposePasswordReset)
		require.NoError(t, err)
		require.Equal(t, i, got.Attempts)
	}

	exhausted, err := repo.RecordMiss(ctx, otp.ID, 3)
	require.NoError(t, err)
	require.True(t, exhausted)

	_, err = repo.Get(ctx, u.ID, entities.OTPPurposePasswordReset)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)

	_, err = repo.RecordMiss(ctx, otp.ID, 3)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}
