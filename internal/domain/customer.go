package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Customer struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uint64    `gorm:"not null;index" json:"user_id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Company   string    `gorm:"size:255" json:"company"`
	Email     string    `gorm:"size:255" json:"email"`
	Phone     string    `gorm:"size:50" json:"phone"`
	Address   string    `json:"address"`
	Tags      []string  `gorm:"serializer:json" json:"tags"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Activity is assembled from activity_logs at read time, never persisted.
	Activity []ActivityLog `gorm:"-" json:"activity,omitempty"`
}

func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// ActivityLog is an append-only trail of things that happened to a customer
// (documents created, sent, paid).
type ActivityLog struct {
	ID         uint64    `gorm:"primaryKey" json:"id"`
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index" json:"customer_id"`
	Kind       string    `gorm:"size:50;not null" json:"kind"`
	Summary    string    `gorm:"not null" json:"summary"`
	CreatedAt  time.Time `json:"created_at"`
}
