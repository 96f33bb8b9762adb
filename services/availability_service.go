package services

import (
	"time"

	"booking-backend/models"
)

// DateRange is one occupied stay, start and end taken as calendar days.
// The stored checkout date counts as the stay's last occupied day.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// HasOverlap reports whether the candidate stay shares at least one calendar
// day with any of the existing ranges. Every range, candidate included, is
// widened to [startOfDay(start), endOfDay(end)] before comparing, so a
// checkout on day D conflicts with a new check-in on day D.
//
// Callers must pre-filter existing to the target room and to paid bookings;
// the check itself is room- and status-agnostic.
func HasOverlap(candidateStart, candidateEnd time.Time, existing []DateRange) bool {
	cs := startOfDay(candidateStart)
	ce := endOfDay(candidateEnd)

	for _, r := range existing {
		rs := startOfDay(r.Start)
		re := endOfDay(r.End)
		if !ce.Before(rs) && !cs.After(re) {
			return true
		}
	}
	return false
}

// PaidRanges extracts the date ranges of the given bookings, skipping rows
// with missing dates. Bookings are expected to be paid already; unpaid drafts
// never reach the checker.
func PaidRanges(bookings []models.Booking) []DateRange {
	ranges := make([]DateRange, 0, len(bookings))
	for _, b := range bookings {
		if b.StartDate == nil || b.EndDate == nil {
			continue
		}
		ranges = append(ranges, DateRange{Start: *b.StartDate, End: *b.EndDate})
	}
	return ranges
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 999999999, time.UTC)
}
