package booking

import (
	"fmt"
	"math"
	"time"
)

const day = 24 * time.Hour

// PriceBreakdown is derived from the dates and the per-day rate. It is never
// stored on the draft.
type PriceBreakdown struct {
	Days       int    `json:"days"`
	RatePerDay int64  `json:"ratePerDay"`
	Subtotal   int64  `json:"subtotal"`
	Total      int64  `json:"total"`
	Currency   string `json:"currency,omitempty"`
}

// RentalDays counts started 24h periods between start and end, minimum 1.
func RentalDays(start, end time.Time) int {
	d := end.Sub(start)
	if d <= 0 {
		return 1
	}
	days := int(d / day)
	if d%day != 0 {
		days++
	}
	if days < 1 {
		days = 1
	}
	return days
}

// ComputePrice prices a rental linearly: days × rate.
func ComputePrice(d Dates, ratePerDay int64) (PriceBreakdown, error) {
	if !d.EndDate.After(d.StartDate) {
		return PriceBreakdown{}, fmt.Errorf("end date %s is not after start date %s", FormatDate(d.EndDate), FormatDate(d.StartDate))
	}
	if ratePerDay <= 0 {
		return PriceBreakdown{}, fmt.Errorf("rate per day must be positive, got %d", ratePerDay)
	}
	days := RentalDays(d.StartDate, d.EndDate)
	if ratePerDay > math.MaxInt64/int64(days) {
		return PriceBreakdown{}, fmt.Errorf("price of %d days at %d overflows", days, ratePerDay)
	}
	subtotal := int64(days) * ratePerDay
	return PriceBreakdown{
		Days:       days,
		RatePerDay: ratePerDay,
		Subtotal:   subtotal,
		Total:      subtotal,
	}, nil
}
