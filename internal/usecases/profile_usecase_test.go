package usecases_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"kemea.backend/internal/domain/entities"
	domainerrors "kemea.backend/internal/domain/errors"
)

func TestProfileUsecase_Update(t *testing.T) {
	h := newHarness(t)
	user := h.register("a@x.com", "").User

	dob := time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC)
	out, err := h.profile.UpdateProfile(h.ctx, user.ID, &entities.UpdateProfileInput{
		FullName:    strPtr("Ada Lovelace"),
		ImageURL:    strPtr("https://cdn.test/ada.png"),
		DateOfBirth: &dob,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", out.User.FullName)

	got, err := h.profile.GetProfile(h.ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", got.User.FullName)
	assert.Equal(t, "https://cdn.test/ada.png", got.NormalProfile.ImageURL.String)
	assert.True(t, got.NormalProfile.DateOfBirth.Valid)

	company := h.registerCompany("agent@x.com").User
	_, err = h.profile.UpdateProfile(h.ctx, company.ID, &entities.UpdateProfileInput{FullName: strPtr("Nope")})
	requireAppError(t, err, domainerrors.CodeNotAllowed)
}

func TestProfileUsecase_Deactivate(t *testing.T) {
	h := newHarness(t)
	user := h.register("a@x.com", "").User

	require.NoError(t, h.profile.Deactivate(h.ctx, user.ID))
	require.NoError(t, h.profile.Deactivate(h.ctx, user.ID))

	stored, err := h.users.GetByID(h.ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
}

func TestProfileUsecase_ReferralInfo(t *testing.T) {
	h := newHarness(t)
	referrer := h.register("ref@x.com", "").User

	info, err := h.profile.ReferralInfo(h.ctx, referrer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), info.TotalEarnings)
	assert.Equal(t, int64(0), info.TotalReferrals)
	assert.Equal(t, "https://kemea.test/register?ref="+referrer.ReferralCode, info.ReferralLink)

	h.register("b@x.com", referrer.ReferralCode)

	info, err = h.profile.ReferralInfo(h.ctx, referrer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), info.TotalEarnings)
	assert.Equal(t, int64(1), info.TotalReferrals)
	assert.Equal(t, referrer.ReferralCode, info.ReferralCode)
}
