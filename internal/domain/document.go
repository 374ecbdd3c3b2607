package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DocumentType string

const (
	DocumentTypeInvoice DocumentType = "invoice"
	DocumentTypeQuote   DocumentType = "quote"
)

type DocumentStatus string

const (
	DocumentStatusDraft   DocumentStatus = "draft"
	DocumentStatusSent    DocumentStatus = "sent"
	DocumentStatusPaid    DocumentStatus = "paid"
	DocumentStatusOverdue DocumentStatus = "overdue"
)

type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

// Document is an invoice or a quote. Totals are derived from the items and
// tax rate, never written directly by handlers.
type Document struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uint64          `gorm:"not null;index" json:"user_id"`
	Number     string          `gorm:"uniqueIndex;size:100;not null" json:"number"`
	CustomerID *uuid.UUID      `gorm:"type:uuid;index" json:"customer_id"`
	Customer   *Customer       `gorm:"constraint:OnDelete:CASCADE" json:"customer,omitempty"`
	Items      []DocumentItem  `gorm:"foreignKey:DocumentID;constraint:OnDelete:CASCADE" json:"items"`
	IssueDate  time.Time       `json:"issue_date"`
	DueDate    time.Time       `json:"due_date"`
	Type       DocumentType    `gorm:"size:20;not null" json:"type"`
	Status     DocumentStatus  `gorm:"size:20;not null" json:"status"`
	Notes      string          `json:"notes"`
	TemplateID string          `gorm:"size:50" json:"template_id"`
	Subtotal   decimal.Decimal `gorm:"type:decimal(12,2)" json:"subtotal"`
	TaxRate    decimal.Decimal `gorm:"type:decimal(5,2)" json:"tax_rate"`
	Total      decimal.Decimal `gorm:"type:decimal(12,2)" json:"total"`
	Recurrence *Recurrence     `gorm:"foreignKey:DocumentID;constraint:OnDelete:CASCADE" json:"recurrence,omitempty"`
	Archived   bool            `gorm:"default:false" json:"archived"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

type DocumentItem struct {
	ID          uint64          `gorm:"primaryKey" json:"id"`
	DocumentID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"-"`
	Description string          `gorm:"not null" json:"description"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2)" json:"unit_price"`
}

// Recurrence marks a document as a recurring template. Absence means the
// document is not recurring.
type Recurrence struct {
	ID         uint64     `gorm:"primaryKey" json:"-"`
	DocumentID uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"-"`
	Frequency  Frequency  `gorm:"size:20;not null" json:"frequency"`
	EndDate    *time.Time `json:"end_date,omitempty"`
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// Amount is the line total (quantity * unit price).
func (i DocumentItem) Amount() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// RecomputeTotals rederives subtotal and total from the items and tax rate:
// total = subtotal + subtotal*tax/100.
func (d *Document) RecomputeTotals() {
	subtotal := decimal.Zero
	for _, item := range d.Items {
		subtotal = subtotal.Add(item.Amount())
	}
	d.Subtotal = subtotal.Round(2)
	tax := subtotal.Mul(d.TaxRate).Div(decimal.NewFromInt(100))
	d.Total = subtotal.Add(tax).Round(2)
}

// IsRecurring reports whether the document carries a recurrence descriptor
// that has not passed its end date.
func (d *Document) IsRecurring(today time.Time) bool {
	if d.Recurrence == nil {
		return false
	}
	if d.Recurrence.EndDate != nil && d.Recurrence.EndDate.Before(today) {
		return false
	}
	return true
}
