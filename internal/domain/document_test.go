package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRecomputeTotals(t *testing.T) {
	doc := Document{
		Items: []DocumentItem{
			{Description: "Design", Quantity: 2, UnitPrice: decimal.NewFromInt(40)},
			{Description: "Hosting", Quantity: 1, UnitPrice: decimal.NewFromInt(20)},
		},
		TaxRate: decimal.NewFromInt(10),
	}

	doc.RecomputeTotals()

	assert.Equal(t, "100.00", doc.Subtotal.StringFixed(2))
	assert.Equal(t, "110.00", doc.Total.StringFixed(2))
}

func TestRecomputeTotals_ZeroTax(t *testing.T) {
	doc := Document{
		Items: []DocumentItem{
			{Description: "Design", Quantity: 3, UnitPrice: decimal.RequireFromString("19.99")},
		},
	}

	doc.RecomputeTotals()

	assert.Equal(t, "59.97", doc.Subtotal.StringFixed(2))
	assert.Equal(t, "59.97", doc.Total.StringFixed(2))
}

func TestRecomputeTotals_NoItems(t *testing.T) {
	doc := Document{TaxRate: decimal.NewFromInt(19)}

	doc.RecomputeTotals()

	assert.True(t, doc.Subtotal.IsZero())
	assert.True(t, doc.Total.IsZero())
}

func TestIsRecurring(t *testing.T) {
	today := time.Date(2026, time.August, 15, 0, 0, 0, 0, time.UTC)
	past := today.AddDate(0, -1, 0)
	future := today.AddDate(0, 1, 0)

	assert.False(t, (&Document{}).IsRecurring(today))

	active := &Document{Recurrence: &Recurrence{Frequency: FrequencyMonthly}}
	assert.True(t, active.IsRecurring(today))

	ending := &Document{Recurrence: &Recurrence{Frequency: FrequencyMonthly, EndDate: &future}}
	assert.True(t, ending.IsRecurring(today))

	ended := &Document{Recurrence: &Recurrence{Frequency: FrequencyMonthly, EndDate: &past}}
	assert.False(t, ended.IsRecurring(today))
}
