package services

import (
	"time"
)

// BookingDraft is the session-scoped, in-flight reservation a guest is still
// editing. It is never persisted as-is: a pending Booking row materializes
// from it when a payment intent is first created. A draft belongs to exactly
// one session and is passed explicitly to handlers, never held in globals.
type BookingDraft struct {
	RoomID            uint      `json:"roomId"`
	StartDate         time.Time `json:"startDate"`
	EndDate           time.Time `json:"endDate"`
	BreakfastIncluded bool      `json:"breakfastIncluded"`

	// Computed from the room's rates at merge time, minor units.
	Nights int   `json:"nights"`
	Total  int64 `json:"total"`
}

// DraftPatch is a partial update to a draft. Nil fields are left untouched.
type DraftPatch struct {
	StartDate         *time.Time `json:"startDate,omitempty"`
	EndDate           *time.Time `json:"endDate,omitempty"`
	BreakfastIncluded *bool      `json:"breakfastIncluded,omitempty"`
}

// IsZero reports whether the patch changes nothing.
func (p DraftPatch) IsZero() bool {
	return p.StartDate == nil && p.EndDate == nil && p.BreakfastIncluded == nil
}

// Apply merges the patch field-by-field over the draft and reprices the
// result against the given rates. The receiver is not mutated; a fresh draft
// value is returned so a superseded draft can never leak stale totals.
func (d BookingDraft) Apply(patch DraftPatch, nightlyRate, breakfastRate int64) (BookingDraft, error) {
	next := d
	if patch.StartDate != nil {
		next.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		next.EndDate = *patch.EndDate
	}
	if patch.BreakfastIncluded != nil {
		next.BreakfastIncluded = *patch.BreakfastIncluded
	}

	quote, err := ComputePrice(nightlyRate, breakfastRate, next.StartDate, next.EndDate, next.BreakfastIncluded)
	if err != nil {
		return BookingDraft{}, err
	}
	next.Nights = quote.Nights
	next.Total = quote.Total
	return next, nil
}
