package errors

import (
	"errors"
	"net/http"
)

// Domain errors
var (
	ErrNotFound            = errors.New("resource not found")
	ErrAlreadyExists       = errors.New("resource already exists")
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrEmailNotVerified    = errors.New("email not verified")
	ErrEmailVerified       = errors.New("email already verified")
	ErrIncorrectOTP        = errors.New("incorrect otp")
	ErrExpiredOTP          = errors.New("expired otp")
	ErrInvalidReferralCode = errors.New("invalid referral code")
	ErrSameEmail           = errors.New("email unchanged")
	ErrNotAllowed          = errors.New("operation not allowed")
	ErrTokenRevoked        = errors.New("token revoked")
	ErrRateLimited         = errors.New("rate limited")
)

// Error codes rendered in the response envelope.
const (
	CodeNonExistent         = "non_existent"
	CodeAlreadyExists       = "already_exists"
	CodeIncorrectOTP        = "incorrect_otp"
	CodeExpiredOTP          = "expired_otp"
	CodeVerifiedUser        = "verified_user"
	CodeInvalidCredentials  = "invalid_credentials"
	CodeUnverifiedUser      = "unverified_user"
	CodeInvalidReferralCode = "invalid_referral_code"
	CodeOldEmail            = "old_email"
	CodeNotAllowed          = "not_allowed"
	CodeOtherError          = "other_error"
	CodeServerError         = "server_error"
	CodeInvalidEntry        = "invalid_entry"
	CodeValidationError     = "validation_error"
	CodeUnauthorized        = "unauthorized"
	CodeForbidden           = "forbidden"
	CodeTooManyRequests     = "too_many_requests"
)

// AppError is the single error type surfaced to HTTP clients.
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// As extracts an *AppError from err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func NonExistent(message string) *AppError {
	return NewAppError(http.StatusNotFound, CodeNonExistent, message, ErrNotFound)
}

func AlreadyExists(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeAlreadyExists, message, ErrAlreadyExists)
}

func IncorrectOTP(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeIncorrectOTP, message, ErrIncorrectOTP)
}

func ExpiredOTP(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeExpiredOTP, message, ErrExpiredOTP)
}

// VerifiedUser is a success-shaped signal: the account needs no further verification.
func VerifiedUser(message string) *AppError {
	return NewAppError(http.StatusOK, CodeVerifiedUser, message, ErrEmailVerified)
}

func InvalidCredentials(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeInvalidCredentials, message, ErrInvalidCredentials)
}

func UnverifiedUser(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeUnverifiedUser, message, ErrEmailNotVerified)
}

func InvalidReferralCode(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeInvalidReferralCode, message, ErrInvalidReferralCode)
}

func OldEmail(message string) *AppError {
	return NewAppError(http.StatusForbidden, CodeOldEmail, message, ErrSameEmail)
}

func NotAllowed(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeNotAllowed, message, ErrNotAllowed)
}

// OtherError wraps an unexpected persistence failure.
func OtherError(message string, err error) *AppError {
	return NewAppError(http.StatusBadRequest, CodeOtherError, message, err)
}

func InvalidEntry(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeInvalidEntry, message, ErrTokenRevoked)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeValidationError, message, ErrInvalidInput)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeUnauthorized, message, ErrUnauthorized)
}

func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, CodeForbidden, message, ErrForbidden)
}

func TooManyRequests(message string) *AppError {
	return NewAppError(http.StatusTooManyRequests, CodeTooManyRequests, message, ErrRateLimited)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeServerError, "Something went wrong", err)
}
