package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"kemea.backend/internal/domain/entities"
	domainerrors "kemea.backend/internal/domain/errors"
	"kemea.backend/internal/infrastructure/repositories"
	"kemea.backend/internal/usecases"
)

func TestVerificationUsecase_WrongCodesBurnTheOTP(t *testing.T) {
	h := newHarness(t)
	out := h.register("a@x.com", "")
	h.verify(out.User)
	require.NoError(t, h.verification.ForgotPassword(h.ctx, "a@x.com"))
	code := h.otpCode(out.User.ID, entities.OTPPurposePasswordReset)
	input := &entities.VerifyEmailInput{Email: "a@x.com", OTP: wrongCode(code)}

	for i := 1; i < usecases.DefaultMaxOTPAttempts; i++ {
		_, err := h.verification.VerifyResetCode(h.ctx, input)
		appErr := requireAppError(t, err, domainerrors.CodeIncorrectOTP)
		assert.Equal(t, "Invalid OTP", appErr.Message)

		// the miss is committed even though the call failed
		otp, err := h.otps.Get(h.ctx, out.User.ID, entities.OTPPurposePasswordReset)
		require.NoError(t, err)
		assert.Equal(t, i, otp.Attempts)
	}

	_, err := h.verification.VerifyResetCode(h.ctx, input)
	appErr := requireAppError(t, err, domainerrors.CodeIncorrectOTP)
	assert.Contains(t, appErr.Message, "Too many incorrect attempts")

	// the right code no longer helps
	_, err = h.verification.VerifyResetCode(h.ctx, &entities.VerifyEmailInput{Email: "a@x.com", OTP: code})
	requireAppError(t, err, domainerrors.CodeNonExistent)

	// a fresh code starts a fresh count
	require.NoError(t, h.verification.ForgotPassword(h.ctx, "a@x.com"))
	fresh := h.otpCode(out.User.ID, entities.OTPPurposePasswordReset)
	token, err := h.verification.VerifyResetCode(h.ctx, &entities.VerifyEmailInput{Email: "a@x.com", OTP: fresh})
	require.NoError(t, err)
	assert.NotEmpty(t, token.Token)
}

func TestVerificationUsecase_MaxAttemptsIsConfigurable(t *testing.T) {
	h := newHarness(t)
	h.verification.SetMaxAttempts(2)
	out := h.register("a@x.com", "")
	code := h.otpCode(out.User.ID, entities.OTPPurposeEmailVerification)
	input := &entities.VerifyEmailInput{Email: "a@x.com", OTP: wrongCode(code)}

	requireAppError(t, h.verification.VerifyEmail(h.ctx, input), domainerrors.CodeIncorrectOTP)
	requireAppError(t, h.verification.VerifyEmail(h.ctx, input), domainerrors.CodeIncorrectOTP)

	_, err := h.otps.Get(h.ctx, out.User.ID, entities.OTPPurposeEmailVerification)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestVerificationUsecase_UnknownUserIDIsNonExistent(t *testing.T) {
	h := newHarness(t)
	ghost := uuid.New()

	err := h.verification.RequestEmailChange(h.ctx, ghost, "new@x.com")
	requireAppError(t, err, domainerrors.CodeNonExistent)

	err = h.verification.ConfirmEmailChange(h.ctx, ghost, &entities.ChangeEmailInput{Email: "new@x.com", OTP: "1234"})
	requireAppError(t, err, domainerrors.CodeNonExistent)

	err = h.auth.ChangePassword(h.ctx, ghost, &entities.ChangePasswordInput{OldPassword: testPassword, NewPassword: "another1"})
	requireAppError(t, err, domainerrors.CodeNonExistent)
}

// lostDeleteOTPs behaves as if a concurrent request consumed the OTP first.
type lostDeleteOTPs struct {
	*repositories.OTPRepository
}

func (r lostDeleteOTPs) Delete(context.Context, uuid.UUID) error {
	return domainerrors.ErrNotFound
}

func TestVerificationUsecase_LosingTheConsumeRaceIsNonExistent(t *testing.T) {
	h := newHarness(t)
	out := h.register("a@x.com", "")
	code := h.otpCode(out.User.ID, entities.OTPPurposeEmailVerification)
	v := h.verificationWith(h.users, lostDeleteOTPs{h.otps})

	err := v.VerifyEmail(h.ctx, &entities.VerifyEmailInput{Email: "a@x.com", OTP: code})
	requireAppError(t, err, domainerrors.CodeNonExistent)

	// the winner's change is the only one; ours rolled back
	stored, err := h.users.GetByID(h.ctx, out.User.ID)
	require.NoError(t, err)
	assert.False(t, stored.EmailVerified)
}

// flakyPasswordUsers fails the first password update.
type flakyPasswordUsers struct {
	*repositories.UserRepository
	failures int
}

func (r *flakyPasswordUsers) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	if r.failures > 0 {
		r.failures--
		return errors.New("connection reset")
	}
	return r.UserRepository.UpdatePassword(ctx, id, hash)
}

func TestVerificationUsecase_ResetTokenSurvivesFailedUpdate(t *testing.T) {
	h := newHarness(t)
	out := h.register("a@x.com", "")
	h.verify(out.User)
	users := &flakyPasswordUsers{UserRepository: h.users, failures: 1}
	v := h.verificationWith(users, h.otps)

	require.NoError(t, v.ForgotPassword(h.ctx, "a@x.com"))
	token, err := v.VerifyResetCode(h.ctx, &entities.VerifyEmailInput{
		Email: "a@x.com",
		OTP:   h.otpCode(out.User.ID, entities.OTPPurposePasswordReset),
	})
	require.NoError(t, err)

	err = v.ResetPassword(h.ctx, token.Token, "brandnew1")
	require.EqualError(t, err, "connection reset")

	require.NoError(t, v.ResetPassword(h.ctx, token.Token, "brandnew1"))
	requireAppError(t, v.ResetPassword(h.ctx, token.Token, "brandnew2"), domainerrors.CodeInvalidEntry)

	_, err = h.auth.Login(h.ctx, &entities.LoginInput{Email: "a@x.com", Password: "brandnew1"})
	require.NoError(t, err)
}
