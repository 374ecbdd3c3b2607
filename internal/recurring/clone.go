package recurring

import (
	"fmt"
	"time"

	"invoicing-crm/internal/domain"
)

// cloneForRecurrence builds a fresh draft from a recurring template. The
// source is never mutated. The clone gets new identity, today's issue date,
// a net-30 due date and a timestamp-derived number; customer, items, tax,
// template and notes carry over verbatim. The recurrence descriptor stays
// on the source so only the template keeps firing.
func cloneForRecurrence(src *domain.Document, today time.Time, now time.Time) *domain.Document {
	clone := &domain.Document{
		UserID:     src.UserID,
		Number:     fmt.Sprintf("INV-%06d", now.UnixMilli()%1_000_000),
		CustomerID: src.CustomerID,
		IssueDate:  today,
		DueDate:    today.AddDate(0, 0, 30),
		Type:       src.Type,
		Status:     domain.DocumentStatusDraft,
		Notes:      src.Notes,
		TemplateID: src.TemplateID,
		TaxRate:    src.TaxRate,
	}

	clone.Items = make([]domain.DocumentItem, 0, len(src.Items))
	for _, item := range src.Items {
		clone.Items = append(clone.Items, domain.DocumentItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}
	clone.RecomputeTotals()

	return clone
}
