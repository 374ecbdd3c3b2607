package recurring

import (
	"time"

	"invoicing-crm/internal/domain"
)

// qualifiesToday reports whether a recurring document is due for cloning on
// the given day.
//
// Only the monthly frequency fires: the issue date's day-of-month must match
// today's, and the issue date must not be today itself (a document must not
// regenerate on its own creation day). Daily, weekly and yearly descriptors
// are accepted by validation and persisted, but never selected here.
// TODO: implement the remaining frequencies or reject them at write time.
func qualifiesToday(doc *domain.Document, today time.Time) bool {
	if !doc.IsRecurring(today) {
		return false
	}

	switch doc.Recurrence.Frequency {
	case domain.FrequencyMonthly:
		return doc.IssueDate.Day() == today.Day() && !sameDay(doc.IssueDate, today)
	default:
		return false
	}
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
