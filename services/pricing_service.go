package services

import (
	"time"
)

// Quote is the result of pricing a stay: the number of nights between
// check-in and checkout, and the total in currency minor units.
type Quote struct {
	Nights int   `json:"nights"`
	Total  int64 `json:"total"`
}

// ComputePrice prices a stay of [start, end) at nightlyRate per night, plus
// breakfastRate per night when breakfastIncluded is set. Rates and the total
// are integer minor units; no floating point is involved. Pure.
func ComputePrice(nightlyRate, breakfastRate int64, start, end time.Time, breakfastIncluded bool) (Quote, error) {
	if start.IsZero() || end.IsZero() {
		return Quote{}, ErrInvalidRange
	}

	nights := calendarDays(start, end)
	if nights <= 0 {
		return Quote{}, ErrInvalidRange
	}

	total := int64(nights) * nightlyRate
	if breakfastIncluded {
		total += int64(nights) * breakfastRate
	}

	return Quote{Nights: nights, Total: total}, nil
}

// calendarDays counts whole calendar days from a to b, ignoring clock time.
func calendarDays(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	au := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	bu := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(bu.Sub(au) / (24 * time.Hour))
}
