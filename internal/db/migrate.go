package db

import (
	"invoicing-crm/internal/domain"

	"gorm.io/gorm"
)

// Migrate runs database migrations
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Profile{},
		&domain.Customer{},
		&domain.Document{},
		&domain.DocumentItem{},
		&domain.Recurrence{},
		&domain.ActivityLog{},
		&domain.Expense{},
		&domain.CalendarEvent{},
		&domain.Page{},
	)
}
