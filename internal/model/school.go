package model

import "time"

// Branding holds the per-school color scheme shown on login and invitation
// pages.
type Branding struct {
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
	AccentColor    string `json:"accent_color"`
}

// DefaultBranding is used for schools that never customized their colors.
var DefaultBranding = Branding{
	PrimaryColor:   "#3B82F6",
	SecondaryColor: "#10B981",
	AccentColor:    "#8b5cf6",
}

// School represents a registered tenant school.
type School struct {
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Subdomain string    `json:"subdomain"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	Branding  Branding  `json:"branding"`
	CreatedAt time.Time `json:"created_at"`
}

// SchoolRegistrationData is the payload for registering a new school along
// with its proprietor account.
type SchoolRegistrationData struct {
	// Proprietor
	FirstName string `json:"first_name" binding:"required,min=1,max=100"`
	LastName  string `json:"last_name" binding:"required,min=1,max=100"`
	Email     string `json:"email" binding:"required,email,max=255"`
	Phone     string `json:"phone" binding:"omitempty,max=30"`
	Password  string `json:"password" binding:"required,min=8,max=128"`

	// School
	SchoolName    string `json:"school_name" binding:"required,min=2,max=200"`
	SchoolAddress string `json:"school_address" binding:"required,max=300"`
	SchoolPhone   string `json:"school_phone" binding:"required,max=30"`
	SchoolEmail   string `json:"school_email" binding:"required,email,max=255"`
	Subdomain     string `json:"subdomain" binding:"required,min=2,max=63,lowercase"`

	// Branding (optional, defaults applied when empty)
	PrimaryColor   string `json:"primary_color" binding:"omitempty,hexcolor"`
	SecondaryColor string `json:"secondary_color" binding:"omitempty,hexcolor"`
	AccentColor    string `json:"accent_color" binding:"omitempty,hexcolor"`
}
