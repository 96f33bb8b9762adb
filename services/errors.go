package services

import (
	"errors"
	"fmt"
)

// Domain errors. Controllers map these onto HTTP statuses.
var (
	ErrInvalidRange     = errors.New("invalid_date_range")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrDatesUnavailable = errors.New("dates_unavailable")
	ErrBookingNotFound  = errors.New("booking_not_found")
	ErrRoomNotFound     = errors.New("room_not_found")
)

// ReconciliationError reports a transient processor/store failure during
// create-or-update of a payment intent. When IntentID is non-empty the
// processor side of the write survived: the caller must retry against that
// same intent id instead of creating a second intent for the same draft.
type ReconciliationError struct {
	IntentID string
	Err      error
}

func (e *ReconciliationError) Error() string {
	if e.IntentID == "" {
		return fmt.Sprintf("payment reconciliation failed: %v", e.Err)
	}
	return fmt.Sprintf("payment reconciliation failed for intent %s: %v", e.IntentID, e.Err)
}

func (e *ReconciliationError) Unwrap() error {
	return e.Err
}
