package core

import (
	"math"
	"time"
)

const day = 24 * time.Hour

// UpcomingWindowDays is the widest due window, in days, that still counts
// as an upcoming payment.
const UpcomingWindowDays = 5

// DaysUntilDue returns the signed day offset between today and the payment
// day within today's calendar month.
//
// The candidate date is built from today's year and month with paymentDate
// as the day, at midnight in today's location, and the difference is rounded
// up to whole days. A paymentDate past the end of the month rolls into the
// following month (31 in a 30-day month becomes the 1st). The next month's
// occurrence is never considered, so a day that already passed this month
// yields a negative offset.
func DaysUntilDue(today time.Time, paymentDate int) int {
	candidate := time.Date(today.Year(), today.Month(), paymentDate, 0, 0, 0, 0, today.Location())
	days := math.Ceil(float64(candidate.Sub(today)) / float64(day))
	return int(days)
}
