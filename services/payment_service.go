package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"booking-backend/models"
	"booking-backend/payments"

	"gorm.io/datatypes"
)

// Guest is the identity snapshot supplied by the upstream identity provider.
// The id is opaque; an empty id fails closed.
type Guest struct {
	ID    string
	Name  string
	Email string
}

// ReconcileResult is what the client needs to continue the payment flow.
type ReconcileResult struct {
	IntentID     string          `json:"paymentIntentId"`
	ClientSecret string          `json:"clientSecret"`
	Booking      *models.Booking `json:"booking,omitempty"`
}

// PaymentService keeps one processor payment intent synchronized with one
// pending booking row while the guest edits price-affecting choices, and
// finalizes the booking once the processor confirms.
type PaymentService struct {
	Bookings  *BookingService
	Rooms     *RoomService
	Processor payments.Processor
	Currency  string
}

func NewPaymentService(bookings *BookingService, rooms *RoomService, processor payments.Processor, currency string) *PaymentService {
	return &PaymentService{
		Bookings:  bookings,
		Rooms:     rooms,
		Processor: processor,
		Currency:  currency,
	}
}

// Reconcile creates or updates the processor intent for the draft and upserts
// the matching pending booking row.
//
// With no usable prior intent, a fresh intent and a fresh row are created.
// With a live prior intent owned by the same guest, the intent amount and the
// row are updated in place. A prior intent that is gone, finalized, or has no
// matching row is treated as if it never existed.
//
// If the processor write lands but the row write fails, the returned
// ReconciliationError carries the intent id: callers retry with that same id
// and never mint a second intent for the draft.
func (s *PaymentService) Reconcile(ctx context.Context, guest Guest, draft BookingDraft, existingIntentID string) (*ReconcileResult, error) {
	if guest.ID == "" {
		return nil, ErrUnauthorized
	}

	room, err := s.Rooms.GetRoomByID(ctx, draft.RoomID)
	if err != nil {
		return nil, err
	}

	// Reprice server-side; the client-held total is display-only.
	var breakfastRate int64
	if room.BreakfastPrice != nil {
		breakfastRate = *room.BreakfastPrice
	}
	quote, err := ComputePrice(room.RoomPrice, breakfastRate, draft.StartDate, draft.EndDate, draft.BreakfastIncluded)
	if err != nil {
		return nil, err
	}
	draft.Nights = quote.Nights
	draft.Total = quote.Total

	if existingIntentID != "" {
		result, stale, err := s.reconcileExisting(ctx, guest, draft, existingIntentID)
		if err != nil {
			return nil, err
		}
		if !stale {
			return result, nil
		}
		log.Printf("payment intent %s is stale or missing, creating a fresh one", existingIntentID)
	}

	return s.reconcileNew(ctx, guest, draft, room)
}

// reconcileExisting handles the update path. stale=true means the caller
// should fall back to creating a fresh intent.
func (s *PaymentService) reconcileExisting(ctx context.Context, guest Guest, draft BookingDraft, intentID string) (*ReconcileResult, bool, error) {
	booking, err := s.Bookings.FindBookingByIntentIDForGuest(ctx, intentID, guest.ID)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			return nil, true, nil
		}
		return nil, false, &ReconciliationError{IntentID: intentID, Err: err}
	}

	intent, err := s.Processor.RetrieveIntent(ctx, intentID)
	if err != nil {
		if errors.Is(err, payments.ErrIntentNotFound) {
			return nil, true, nil
		}
		log.Printf("failed to retrieve payment intent %s: %v", intentID, err)
		return nil, false, &ReconciliationError{IntentID: intentID, Err: err}
	}
	if intent.Finalized() {
		return nil, true, nil
	}

	intent, err = s.Processor.UpdateIntentAmount(ctx, intentID, draft.Total)
	if err != nil {
		if errors.Is(err, payments.ErrIntentNotFound) {
			return nil, true, nil
		}
		log.Printf("failed to update payment intent %s: %v", intentID, err)
		return nil, false, &ReconciliationError{IntentID: intentID, Err: err}
	}

	// Conditional single-row write scoped to (intent id, guest id); a stale
	// client can never overwrite another guest's row.
	err = s.Bookings.UpdateBookingByIntentID(ctx, intentID, guest.ID, map[string]interface{}{
		"start_date":         draft.StartDate,
		"end_date":           draft.EndDate,
		"breakfast_included": draft.BreakfastIncluded,
		"total_price":        draft.Total,
	})
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			return nil, true, nil
		}
		// Processor side already updated: retry on this same intent id.
		log.Printf("booking row update failed after intent %s was amended: %v", intentID, err)
		return nil, false, &ReconciliationError{IntentID: intentID, Err: err}
	}

	booking, err = s.Bookings.FindBookingByIntentID(ctx, intentID)
	if err != nil {
		return nil, false, &ReconciliationError{IntentID: intentID, Err: err}
	}
	return &ReconcileResult{
		IntentID:     intent.ID,
		ClientSecret: intent.ClientSecret,
		Booking:      booking,
	}, false, nil
}

func (s *PaymentService) reconcileNew(ctx context.Context, guest Guest, draft BookingDraft, room *models.Room) (*ReconcileResult, error) {
	intent, err := s.Processor.CreateIntent(ctx, draft.Total, s.Currency)
	if err != nil {
		log.Printf("failed to create payment intent: %v", err)
		return nil, &ReconciliationError{Err: err}
	}

	snapshot, err := json.Marshal(room)
	if err != nil {
		snapshot = nil
	}

	intentID := intent.ID
	booking := &models.Booking{
		RoomID:            room.ID,
		HotelID:           room.HotelID,
		HotelOwnerID:      room.Hotel.OwnerID,
		GuestID:           guest.ID,
		GuestName:         guest.Name,
		GuestEmail:        guest.Email,
		StartDate:         &draft.StartDate,
		EndDate:           &draft.EndDate,
		BreakfastIncluded: draft.BreakfastIncluded,
		TotalPrice:        draft.Total,
		Currency:          s.Currency,
		PaymentIntentID:   &intentID,
		PaymentStatus:     false,
		RoomSnapshot:      datatypes.JSON(snapshot),
	}
	if err := s.Bookings.CreateBooking(ctx, booking); err != nil {
		var recErr *ReconciliationError
		if errors.As(err, &recErr) {
			return nil, err
		}
		// Intent exists on the processor but the row write failed: the caller
		// retries with this intent id, which reconciles in place next time.
		log.Printf("booking row create failed after intent %s was created: %v", intentID, err)
		return nil, &ReconciliationError{IntentID: intentID, Err: err}
	}

	return &ReconcileResult{
		IntentID:     intent.ID,
		ClientSecret: intent.ClientSecret,
		Booking:      booking,
	}, nil
}

// Confirm finalizes the booking behind a client-confirmed payment intent.
// Availability is re-checked against the other paid bookings for the room
// because time has passed since the intent was created; on a conflict the row
// stays an unpaid draft and the guest is told to pick new dates.
func (s *PaymentService) Confirm(ctx context.Context, intentID string) (*models.Booking, error) {
	booking, err := s.Bookings.FindBookingByIntentID(ctx, intentID)
	if err != nil {
		return nil, err
	}
	if booking.PaymentStatus {
		return booking, nil
	}
	if booking.StartDate == nil || booking.EndDate == nil {
		return nil, ErrInvalidRange
	}

	others, err := s.Bookings.FindPaidBookingsByRoom(ctx, booking.RoomID, booking.ID)
	if err != nil {
		return nil, fmt.Errorf("availability re-check failed for intent %s: %w", intentID, err)
	}
	if HasOverlap(*booking.StartDate, *booking.EndDate, PaidRanges(others)) {
		log.Printf("confirmation rejected for intent %s: room %d no longer free", intentID, booking.RoomID)
		return nil, ErrDatesUnavailable
	}

	confirmed, err := s.Bookings.MarkBookingPaid(ctx, intentID)
	if err != nil {
		return nil, err
	}
	return confirmed, nil
}
