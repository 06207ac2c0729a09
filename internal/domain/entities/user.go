package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// Role is derived from the user's flags and carried in access tokens.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
	RoleStaff Role = "staff"
)

// User is an account in the credential store.
type User struct {
	ID             uuid.UUID   `json:"id"`
	Email          string      `json:"email"`
	FullName       string      `json:"full_name"`
	PhoneNumber    null.String `json:"phone_number"`
	PasswordHash   string      `json:"-"`
	EmailVerified  bool        `json:"email_verified"`
	GoogleProvider bool        `json:"google_provider"`
	IsAgent        bool        `json:"is_agent"`
	IsStaff        bool        `json:"is_staff"`
	IsActive       bool        `json:"is_active"`
	ReferralCode   string      `json:"referral_code"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// Role returns the most privileged role the user holds.
func (u *User) Role() Role {
	switch {
	case u.IsStaff:
		return RoleStaff
	case u.IsAgent:
		return RoleAgent
	default:
		return RoleUser
	}
}

// NormalProfile belongs to every non-agent user.
type NormalProfile struct {
	ID          uuid.UUID   `json:"id"`
	UserID      uuid.UUID   `json:"user_id"`
	ImageURL    null.String `json:"image"`
	DateOfBirth null.Time   `json:"date_of_birth"`
	Tokens      int64       `json:"tokens"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// CompanyProfile belongs to every agent user.
type CompanyProfile struct {
	ID                 uuid.UUID   `json:"id"`
	UserID             uuid.UUID   `json:"user_id"`
	CompanyName        string      `json:"company_name"`
	LicenseNumber      string      `json:"license_number"`
	ImageURL           null.String `json:"image"`
	BackgroundImageURL null.String `json:"background_image"`
	Location           string      `json:"location"`
	Website            null.String `json:"website"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

// RegisterInput is the normal-user registration payload.
type RegisterInput struct {
	Email        string `json:"email" binding:"required,email"`
	FullName     string `json:"full_name" binding:"required,min=2,max=255"`
	Password     string `json:"password" binding:"required,min=6,max=50"`
	PhoneNumber  string `json:"phone_number" binding:"omitempty,max=30"`
	ReferralCode string `json:"referral_code"`
}

// RegisterCompanyInput is the agent/company registration payload.
type RegisterCompanyInput struct {
	Email         string `json:"email" binding:"required,email"`
	FullName      string `json:"full_name" binding:"required,min=2,max=255"`
	Password      string `json:"password" binding:"required,min=6,max=50"`
	PhoneNumber   string `json:"phone_number" binding:"omitempty,max=30"`
	CompanyName   string `json:"company_name" binding:"required,max=255"`
	LicenseNumber string `json:"license_number" binding:"required,max=255"`
	Location      string `json:"location" binding:"required,max=255"`
	Website       string `json:"website" binding:"omitempty,max=255"`
}

// LoginInput carries credentials. IsAgent, when set, must match the account kind.
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	IsAgent  *bool  `json:"is_agent"`
}

// AuthResponse is returned on login and social login.
type AuthResponse struct {
	Access  string      `json:"access"`
	Refresh string      `json:"refresh"`
	User    *User       `json:"user"`
	Profile interface{} `json:"profile"`
}

// TokenInput carries a refresh token for logout and refresh.
type TokenInput struct {
	Refresh string `json:"refresh" binding:"required"`
}

// ChangePasswordInput is used by an authenticated user.
type ChangePasswordInput struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=50"`
}

// ResetPasswordInput sets a new password with a reset token.
type ResetPasswordInput struct {
	Password string `json:"password" binding:"required,min=6,max=50"`
}

// UpdateProfileInput patches a normal user's profile. Nil fields are left unchanged.
type UpdateProfileInput struct {
	FullName    *string    `json:"full_name" binding:"omitempty,min=2,max=255"`
	PhoneNumber *string    `json:"phone_number" binding:"omitempty,max=30"`
	ImageURL    *string    `json:"image" binding:"omitempty,url"`
	DateOfBirth *time.Time `json:"date_of_birth"`
}

// UpdateCompanyProfileInput patches a company profile. Nil fields are left unchanged.
type UpdateCompanyProfileInput struct {
	FullName           *string `json:"full_name" binding:"omitempty,min=2,max=255"`
	PhoneNumber        *string `json:"phone_number" binding:"omitempty,max=30"`
	CompanyName        *string `json:"company_name" binding:"omitempty,max=255"`
	LicenseNumber      *string `json:"license_number" binding:"omitempty,max=255"`
	ImageURL           *string `json:"image" binding:"omitempty,url"`
	BackgroundImageURL *string `json:"background_image" binding:"omitempty,url"`
	Location           *string `json:"location" binding:"omitempty,max=255"`
	Website            *string `json:"website" binding:"omitempty,max=255"`
}

// UserProfile is a user with its role-appropriate profile.
type UserProfile struct {
	User           *User           `json:"user"`
	NormalProfile  *NormalProfile  `json:"profile,omitempty"`
	CompanyProfile *CompanyProfile `json:"company_profile,omitempty"`
}

// Profile returns whichever profile is present.
func (p *UserProfile) Profile() interface{} {
	if p.CompanyProfile != nil {
		return p.CompanyProfile
	}
	if p.NormalProfile != nil {
		return p.NormalProfile
	}
	return nil
}
