package schedule

import (
	"math"
	"time"
)

// deliveryLagDays implements the "delivery within 60 days of the physical
// flow period" rule.
const deliveryLagDays = 60

// nominalMonthDays sizes the month count for a flow window.
const nominalMonthDays = 30

// Delivery is one monthly delivery of a forward transaction.
type Delivery struct {
	// Index is the zero-based month ordinal within the flow window.
	Index int `json:"index"`
	// PeriodStart is the first day of this delivery's flow period.
	PeriodStart time.Time `json:"periodStart"`
	// PeriodEnd is the last day of this delivery's flow period, never past
	// the window end.
	PeriodEnd time.Time `json:"periodEnd"`
	// DeliveryDate is PeriodEnd plus the 60-day delivery lag.
	DeliveryDate time.Time `json:"deliveryDate"`
}

// MonthsBetween returns ceil((end-start)/30d), floored at 1.
func MonthsBetween(start, end time.Time) int {
	days := end.Sub(start).Hours() / 24

	months := int(math.Ceil(days / nominalMonthDays))
	if months < 1 {
		return 1
	}

	return months
}

// Forward derives the monthly delivery schedule for a forward transaction
// flowing from start to end. Pure function of the date pair; volume plays no
// part.
func Forward(start, end time.Time) []Delivery {
	months := MonthsBetween(start, end)

	deliveries := make([]Delivery, 0, months)

	for i := 0; i < months; i++ {
		periodStart := start.AddDate(0, i, 0)

		periodEnd := start.AddDate(0, i+1, 0)
		if periodEnd.After(end) {
			periodEnd = end
		}

		deliveries = append(deliveries, Delivery{
			Index:        i,
			PeriodStart:  periodStart,
			PeriodEnd:    periodEnd,
			DeliveryDate: periodEnd.AddDate(0, 0, deliveryLagDays),
		})
	}

	return deliveries
}
