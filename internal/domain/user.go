package domain

import "time"

// User represents an account in the system
type User struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `gorm:"uniqueIndex" json:"email"`
	Password     string    `gorm:"-" json:"-"` // input only, not stored in db
	PasswordHash string    `json:"-"`
	TokenVersion uint64    `gorm:"default:0" json:"-"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Profile holds the company profile of a user. Every PDF and email path
// reads it through the CompanyInfo projection.
type Profile struct {
	ID              uint64    `json:"id"`
	UserID          uint64    `gorm:"uniqueIndex;not null" json:"user_id"`
	CompanyName     string    `gorm:"size:255" json:"company_name"`
	Address         string    `json:"address"`
	Email           string    `gorm:"size:255" json:"email"`
	Phone           string    `gorm:"size:50" json:"phone"`
	TaxID           string    `gorm:"size:100" json:"tax_id"`
	LogoURL         string    `json:"logo_url"`
	StripeAccountID string    `gorm:"size:100" json:"-"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CompanyInfo is the denormalized slice of Profile handed to render paths.
type CompanyInfo struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	TaxID   string `json:"tax_id"`
	LogoURL string `json:"logo_url"`
}

func (p *Profile) CompanyInfo() CompanyInfo {
	return CompanyInfo{
		Name:    p.CompanyName,
		Address: p.Address,
		Email:   p.Email,
		Phone:   p.Phone,
		TaxID:   p.TaxID,
		LogoURL: p.LogoURL,
	}
}
