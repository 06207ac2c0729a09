package entities

import (
	"crypto/subtle"
	"time"

	"github.com/google/uuid"
)

// OTPPurpose is the verification intent an OTP was issued for.
type OTPPurpose string

const (
	OTPPurposeEmailVerification OTPPurpose = "email_verification"
	OTPPurposeEmailChange       OTPPurpose = "email_change"
	OTPPurposePasswordReset     OTPPurpose = "password_reset"
)

// Template returns the email template used to deliver codes for p.
func (p OTPPurpose) Template() string {
	switch p {
	case OTPPurposeEmailChange:
		return TemplateEmailChange
	case OTPPurposePasswordReset:
		return TemplateForgotPassword
	default:
		return TemplateEmailVerification
	}
}

// Subject returns the email subject used to deliver codes for p.
func (p OTPPurpose) Subject() string {
	switch p {
	case OTPPurposeEmailChange:
		return "Confirm your new email address"
	case OTPPurposePasswordReset:
		return "Reset your password"
	default:
		return "Verify your email"
	}
}

// OTPSecret is the single live passcode for a (user, purpose) pair. Email is
// the address the code was delivered to.
type OTPSecret struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	Purpose   OTPPurpose `json:"purpose"`
	Email     string     `json:"email"`
	Code      string     `json:"-"`
	Attempts  int        `json:"-"`
	CreatedAt time.Time  `json:"created_at"`
}

// Expired reports whether more than ttl has passed since issuance.
func (o *OTPSecret) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(o.CreatedAt) > ttl
}

// Matches compares code in constant time.
func (o *OTPSecret) Matches(code string) bool {
	return subtle.ConstantTimeCompare([]byte(o.Code), []byte(code)) == 1
}

// Recipient is where a verification email goes: either a registered user's
// address or a raw address that does not belong to an account yet.
type Recipient interface {
	EmailAddress() string
	isRecipient()
}

// RegisteredRecipient delivers to the user's current email.
type RegisteredRecipient struct {
	User *User
}

func (r RegisteredRecipient) EmailAddress() string { return r.User.Email }
func (RegisteredRecipient) isRecipient()           {}

// RawEmailRecipient delivers to an arbitrary address.
type RawEmailRecipient struct {
	Address string
}

func (r RawEmailRecipient) EmailAddress() string { return r.Address }
func (RawEmailRecipient) isRecipient()           {}

// VerifyEmailInput confirms an email with a code.
type VerifyEmailInput struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required,numeric"`
}

// EmailInput carries a bare email address.
type EmailInput struct {
	Email string `json:"email" binding:"required,email"`
}

// ChangeEmailInput confirms a pending email change.
type ChangeEmailInput struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required,numeric"`
}

// ResetToken is the capability returned after a password reset code is accepted.
type ResetToken struct {
	Token string `json:"token"`
}
