package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// MaxAvailabilityEntries bounds how many availability windows a company may create at once.
const MaxAvailabilityEntries = 4

// CompanyAgent is a person working for a company.
type CompanyAgent struct {
	ID                uuid.UUID   `json:"id"`
	CompanyID         uuid.UUID   `json:"company_id"`
	FullName          string      `json:"full_name"`
	PhoneNumber       null.String `json:"phone_number"`
	ProfilePictureURL null.String `json:"profile_picture"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

// CompanyAvailability is an opening-hours window such as Mon-Fri 09:00-17:00.
type CompanyAvailability struct {
	ID        uuid.UUID `json:"id"`
	CompanyID uuid.UUID `json:"company_id"`
	StartDay  string    `json:"start_day"`
	LastDay   string    `json:"last_day"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CompanyDetails is the company page: profile, agents, availability and live ads.
type CompanyDetails struct {
	User         *User                 `json:"user"`
	Profile      *CompanyProfile       `json:"profile"`
	Agents       []CompanyAgent        `json:"agents"`
	Availability []CompanyAvailability `json:"availability"`
	Ads          []Property            `json:"ads"`
}

// CompanyAgentInput creates or patches an agent.
type CompanyAgentInput struct {
	FullName          *string `json:"full_name" binding:"omitempty,min=2,max=255"`
	PhoneNumber       *string `json:"phone_number" binding:"omitempty,max=30"`
	ProfilePictureURL *string `json:"profile_picture" binding:"omitempty,url"`
}

// AvailabilityInput is one opening-hours window.
type AvailabilityInput struct {
	StartDay  string `json:"start_day" binding:"required,max=20"`
	LastDay   string `json:"last_day" binding:"required,max=20"`
	StartTime string `json:"start_time" binding:"required,datetime=15:04"`
	EndTime   string `json:"end_time" binding:"required,datetime=15:04"`
}

// ContactCompany is a message from a prospect about an ad.
type ContactCompany struct {
	ID           uuid.UUID `json:"id"`
	PropertyID   uuid.UUID `json:"property_id"`
	CompanyID    uuid.UUID `json:"company_id"`
	Name         string    `json:"name"`
	EmailAddress string    `json:"email_address"`
	PhoneNumber  string    `json:"phone_number"`
	Message      string    `json:"message"`
	CreatedAt    time.Time `json:"created_at"`
}

// ContactCompanyInput is the public contact form.
type ContactCompanyInput struct {
	Name         string `json:"name" binding:"required,max=255"`
	EmailAddress string `json:"email_address" binding:"required,email"`
	PhoneNumber  string `json:"phone_number" binding:"required,max=30"`
	Message      string `json:"message" binding:"required"`
}

// PromoteAdRequest asks the marketplace to help buy, rent or sell a property.
type PromoteAdRequest struct {
	ID           uuid.UUID  `json:"id"`
	UserID       *uuid.UUID `json:"user_id,omitempty"`
	Location     string     `json:"location"`
	PropertyType string     `json:"property_type"`
	Surface      int        `json:"surface"`
	Rooms        int        `json:"rooms"`
	DesiredPrice float64    `json:"desired_price"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	EmailAddress string     `json:"email_address"`
	PhoneNumber  string     `json:"phone_number"`
	BuyOrRent    bool       `json:"buy_or_rent"`
	Sell         bool       `json:"sell"`
	CreatedAt    time.Time  `json:"created_at"`
}

// PromoteAdRequestInput is the promote request payload.
type PromoteAdRequestInput struct {
	Location     string  `json:"location" binding:"required,max=255"`
	PropertyType string  `json:"property_type" binding:"required,max=255"`
	Surface      int     `json:"surface" binding:"min=0"`
	Rooms        int     `json:"rooms" binding:"min=0"`
	DesiredPrice float64 `json:"desired_price" binding:"required,gt=0"`
	FirstName    string  `json:"first_name" binding:"required,max=255"`
	LastName     string  `json:"last_name" binding:"required,max=255"`
	EmailAddress string  `json:"email_address" binding:"required,email"`
	PhoneNumber  string  `json:"phone_number" binding:"required,max=30"`
	BuyOrRent    bool    `json:"buy_or_rent"`
	Sell         bool    `json:"sell"`
}
