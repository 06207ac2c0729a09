package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Constructors(t *testing.T) {
	cases := []struct {
		err    *AppError
		status int
		code   string
		is     error
	}{
		{NonExistent("missing"), http.StatusNotFound, CodeNonExistent, ErrNotFound},
		{AlreadyExists("dup"), http.StatusConflict, CodeAlreadyExists, ErrAlreadyExists},
		{IncorrectOTP("bad otp"), http.StatusBadRequest, CodeIncorrectOTP, ErrIncorrectOTP},
		{ExpiredOTP("late"), http.StatusBadRequest, CodeExpiredOTP, ErrExpiredOTP},
		{VerifiedUser("done"), http.StatusOK, CodeVerifiedUser, ErrEmailVerified},
		{InvalidCredentials("nope"), http.StatusUnauthorized, CodeInvalidCredentials, ErrInvalidCredentials},
		{UnverifiedUser("verify"), http.StatusBadRequest, CodeUnverifiedUser, ErrEmailNotVerified},
		{InvalidReferralCode("ref"), http.StatusBadRequest, CodeInvalidReferralCode, ErrInvalidReferralCode},
		{OldEmail("same"), http.StatusForbidden, CodeOldEmail, ErrSameEmail},
		{NotAllowed("again"), http.StatusBadRequest, CodeNotAllowed, ErrNotAllowed},
		{InvalidEntry("revoked"), http.StatusBadRequest, CodeInvalidEntry, ErrTokenRevoked},
		{BadRequest("bad"), http.StatusBadRequest, CodeValidationError, ErrInvalidInput},
		{Unauthorized("who"), http.StatusUnauthorized, CodeUnauthorized, ErrUnauthorized},
		{Forbidden("no"), http.StatusForbidden, CodeForbidden, ErrForbidden},
		{TooManyRequests("slow"), http.StatusTooManyRequests, CodeTooManyRequests, ErrRateLimited},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.status, tc.err.Status, tc.code)
		assert.Equal(t, tc.code, tc.err.Code)
		assert.ErrorIs(t, tc.err, tc.is)
	}
}

func TestAppError_ErrorAndUnwrap(t *testing.T) {
	cause := stderrors.New("db down")

	internal := InternalError(cause)
	assert.Equal(t, http.StatusInternalServerError, internal.Status)
	assert.Equal(t, CodeServerError, internal.Code)
	assert.Equal(t, "db down", internal.Error())
	assert.ErrorIs(t, internal, cause)

	other := OtherError("could not create account", cause)
	assert.Equal(t, CodeOtherError, other.Code)
	assert.ErrorIs(t, other, cause)

	bare := NewAppError(http.StatusTeapot, "teapot", "short and stout", nil)
	assert.Equal(t, "short and stout", bare.Error())
}

func TestAs(t *testing.T) {
	wrapped := fmt.Errorf("register: %w", AlreadyExists("taken"))
	appErr, ok := As(wrapped)
	assert.True(t, ok)
	assert.Equal(t, CodeAlreadyExists, appErr.Code)

	_, ok = As(stderrors.New("plain"))
	assert.False(t, ok)
}
