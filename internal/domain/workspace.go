package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Expense struct {
	ID          uint64          `gorm:"primaryKey" json:"id"`
	UserID      uint64          `gorm:"not null;index" json:"user_id"`
	Description string          `gorm:"not null" json:"description"`
	Category    string          `gorm:"size:100" json:"category"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2)" json:"amount"`
	Date        time.Time       `json:"date"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type CalendarEvent struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	UserID    uint64    `gorm:"not null;index" json:"user_id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	AllDay    bool      `gorm:"default:false" json:"all_day"`
	Color     string    `gorm:"size:20" json:"color"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Page is a free-form notes page in the productivity hub. Content is a JSON
// blob owned by the editor; the server stores it opaquely.
type Page struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	UserID    uint64    `gorm:"not null;index" json:"user_id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Icon      string    `gorm:"size:50" json:"icon"`
	Content   string    `gorm:"type:text" json:"content"`
	Pinned    bool      `gorm:"default:false" json:"pinned"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
