package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"booking-backend/models"

	mysql "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BookingService wraps *gorm.DB with the booking-row operations the payment
// flow relies on. All writes are single-row and atomic; the unique index on
// payment_intent_id is the backstop against two rows sharing one intent.
type BookingService struct {
	DB *gorm.DB
}

func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{DB: db}
}

// isDuplicateKey detects a unique-constraint violation from MySQL (1062) or
// from the sqlite driver used in tests.
func isDuplicateKey(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1062 {
		return true
	}
	return strings.Contains(err.Error(), "Duplicate entry") ||
		strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// CreateBooking inserts a new pending booking row. A duplicate intent id is a
// reconciliation fault (somebody already persisted a row for that intent), so
// it surfaces as a ReconciliationError carrying the id for an idempotent retry.
func (s *BookingService) CreateBooking(ctx context.Context, booking *models.Booking) error {
	if booking.ReferenceCode == "" {
		booking.ReferenceCode = uuid.NewString()
	}
	if err := s.DB.WithContext(ctx).Create(booking).Error; err != nil {
		if isDuplicateKey(err) && booking.PaymentIntentID != nil {
			return &ReconciliationError{IntentID: *booking.PaymentIntentID, Err: err}
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

// FindBookingByIntentID loads the single booking carrying the intent id.
func (s *BookingService) FindBookingByIntentID(ctx context.Context, intentID string) (*models.Booking, error) {
	var booking models.Booking
	err := s.DB.WithContext(ctx).
		Where("payment_intent_id = ?", intentID).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to find booking by intent id: %w", err)
	}
	return &booking, nil
}

// FindBookingByIntentIDForGuest is the guest-scoped variant used by the
// reconciler so a stale client can never pick up another guest's row.
func (s *BookingService) FindBookingByIntentIDForGuest(ctx context.Context, intentID, guestID string) (*models.Booking, error) {
	var booking models.Booking
	err := s.DB.WithContext(ctx).
		Where("payment_intent_id = ? AND guest_id = ?", intentID, guestID).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to find booking by intent id: %w", err)
	}
	return &booking, nil
}

// FindPaidBookingsByRoom returns confirmed bookings for a room, excluding the
// given booking id when excludeID > 0. Pending drafts never block a room, so
// they are filtered out here, not in the availability check.
func (s *BookingService) FindPaidBookingsByRoom(ctx context.Context, roomID, excludeID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	q := s.DB.WithContext(ctx).
		Where("room_id = ? AND payment_status = ?", roomID, true)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("failed to list paid bookings for room %d: %w", roomID, err)
	}
	return bookings, nil
}

// FindBookingsByGuest lists a guest's bookings, newest first, with the room
// and hotel preloaded for display.
func (s *BookingService) FindBookingsByGuest(ctx context.Context, guestID string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.DB.WithContext(ctx).
		Preload("Room").
		Preload("Hotel").
		Where("guest_id = ?", guestID).
		Order("id DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings for guest: %w", err)
	}
	return bookings, nil
}

// UpdateBookingByIntentID applies the given column updates to the one row
// matching both the intent id and the guest id, as a single conditional
// UPDATE. Zero affected rows means the row vanished or belongs to someone
// else; the caller treats that as a stale intent.
func (s *BookingService) UpdateBookingByIntentID(ctx context.Context, intentID, guestID string, updates map[string]interface{}) error {
	res := s.DB.WithContext(ctx).
		Model(&models.Booking{}).
		Where("payment_intent_id = ? AND guest_id = ?", intentID, guestID).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to update booking for intent %s: %w", intentID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// MarkBookingPaid flips payment_status in one atomic update keyed by intent id
// and returns the fresh row. Readers never observe a partially confirmed row:
// the paid flag is the only column touched.
func (s *BookingService) MarkBookingPaid(ctx context.Context, intentID string) (*models.Booking, error) {
	res := s.DB.WithContext(ctx).
		Model(&models.Booking{}).
		Where("payment_intent_id = ?", intentID).
		Update("payment_status", true)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to mark booking paid for intent %s: %w", intentID, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrBookingNotFound
	}
	return s.FindBookingByIntentID(ctx, intentID)
}

// DeleteBooking removes a booking on behalf of requesterID, who must be the
// guest who made it or the owner of the hotel it belongs to. The processor
// intent, if any, is left alone; abandoned intents are external housekeeping.
func (s *BookingService) DeleteBooking(ctx context.Context, id uint, requesterID string) error {
	var booking models.Booking
	if err := s.DB.WithContext(ctx).First(&booking, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookingNotFound
		}
		return fmt.Errorf("failed to find booking %d: %w", id, err)
	}
	if booking.GuestID != requesterID && booking.HotelOwnerID != requesterID {
		return ErrUnauthorized
	}
	if err := s.DB.WithContext(ctx).Delete(&booking).Error; err != nil {
		return fmt.Errorf("failed to delete booking %d: %w", id, err)
	}
	return nil
}
