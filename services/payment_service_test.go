package services_test

import (
	"context"
	"errors"
	"testing"

	"booking-backend/models"
	"booking-backend/payments"
	"booking-backend/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newPaymentService(t *testing.T) (*services.PaymentService, *payments.FakeProcessor, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	processor := payments.NewFakeProcessor()
	bookings := services.NewBookingService(db)
	rooms := services.NewRoomService(db)
	return services.NewPaymentService(bookings, rooms, processor, "usd"), processor, db
}

func testDraft(roomID uint) services.BookingDraft {
	return services.BookingDraft{
		RoomID:    roomID,
		StartDate: day(2024, 3, 1),
		EndDate:   day(2024, 3, 4),
	}
}

var testGuest = services.Guest{ID: "guest-1", Name: "Ada", Email: "ada@example.com"}

func TestReconcile_RequiresIdentity(t *testing.T) {
	svc, _, db := newPaymentService(t)
	room := seedRoom(t, db, 10000, nil)

	_, err := svc.Reconcile(context.Background(), services.Guest{}, testDraft(room.ID), "")

	assert.ErrorIs(t, err, services.ErrUnauthorized)
}

func TestReconcile_UnknownRoom(t *testing.T) {
	svc, _, _ := newPaymentService(t)

	_, err := svc.Reconcile(context.Background(), testGuest, testDraft(42), "")

	assert.ErrorIs(t, err, services.ErrRoomNotFound)
}

func TestReconcile_CreatesIntentAndPendingBooking(t *testing.T) {
	svc, processor, db := newPaymentService(t)
	room := seedRoom(t, db, 10000, nil)

	result, err := svc.Reconcile(context.Background(), testGuest, testDraft(room.ID), "")

	require.NoError(t, err)
	assert.NotEmpty(t, result.IntentID)
	assert.NotEmpty(t, result.ClientSecret)
	assert.Equal(t, 1, processor.CreateCalls)

	// Stored total and processor amount agree bit-for-bit.
	assert.Equal(t, int64(30000), result.Booking.TotalPrice)
	assert.Equal(t, int64(30000), processor.Amount(result.IntentID))

	var booking models.Booking
	require.NoError(t, db.Where("payment_intent_id = ?", result.IntentID).First(&booking).Error)
	assert.False(t, booking.PaymentStatus)
	assert.Equal(t, testGuest.ID, booking.GuestID)
	assert.Equal(t, "Ada", booking.GuestName)
	assert.Equal(t, "usd", booking.Currency)
	assert.Equal(t, room.Hotel.OwnerID, booking.HotelOwnerID)
	assert.NotEmpty(t, booking.ReferenceCode)
	assert.NotEmpty(t, booking.RoomSnapshot)
}

func TestReconcile_ServerSideRepricing(t *testing.T) {
	svc, processor, db := newPaymentService(t)
	breakfast := int64(1500)
	room := seedRoom(t, db, 10000, &breakfast)

	draft := testDraft(room.ID)
	draft.BreakfastIncluded = true
	draft.Total = 1 // client-held total is display-only and must be ignored

	result, err := svc.Reconcile(context.Background(), testGuest, draft, "")

	require.NoError(t, err)
	assert.Equal(t, int64(34500), result.Booking.TotalPrice)
	assert.Equal(t, int64(34500), processor.Amount(result.IntentID))
}

func TestReconcile_UpdatesInPlaceOnDateChange(t *testing.T) {
	svc, processor, db := newPaymentService(t)
	room := seedRoom(t, db, 10000, nil)
	ctx := context.Background()

	first, err := svc.Reconcile(ctx, testGuest, testDraft(room.ID), "")
	require.NoError(t, err)

	// Guest extends the stay from 3 to 5 nights before paying.
	longer := testDraft(room.ID)
	longer.EndDate = day(2024, 3, 6)
	second, err := svc.Reconcile(ctx, testGuest, longer, first.IntentID)
	require.NoError(t, err)

	assert.Equal(t, first.IntentID, second.IntentID, "no second intent for the same draft")
	assert.Equal(t, 1, processor.CreateCalls)
	assert.Equal(t, int64(50000), second.Booking.TotalPrice)
	assert.Equal(t, int64(50000), processor.Amount(first.IntentID))

	var count int64
	db.Model(&models.Booking{}).Where("guest_id = ?", testGuest.ID).Count(&count)
	assert.Equal(t, int64(1), count, "exactly one booking row per intent lineage")
}

func TestReconcile_IdempotentOnUnchangedDraft(t *testing.T) {
	svc, processor, db := newPaymentService(t)
	room := seedRoom(t, db, 10000, nil)
	ctx := context.Background()

	first, err := svc.Reconcile(ctx, testGuest, testDraft(room.ID), "")
	require.NoError(t, err)

	second, err := svc.Reconcile(ctx, testGuest, testDraft(room.ID), first.IntentID)
	require.NoError(t, err)

	assert.Equal(t, first.IntentID, second.IntentID)
	assert.Equal(t, first.Booking.TotalPrice, second.Booking.TotalPrice)
	assert.Equal(t, 1, processor.CreateCalls)
	assert.Equal(t, 1, processor.UpdateCalls)
}

func TestReconcile_MissingIntentFallsBackToFresh(t *testing.T) {
	svc, processor, db := newPaymentService(t)
	room := seedRoom(t, db, 10000, nil)
	ctx := context.Background()

	first, err := svc.Reconcile(ctx, testGuest, testDraft(room.ID), "")
	require.NoError(t, err)

	// Processor loses the intent (e.g. it was canceled out of band).
	processor.Forget(first.IntentID)

	second, err := svc.Reconcile(ctx, testGuest, testDraft(room.ID), first.IntentID)
	require.NoError(t, err)
	assert.NotEqual(t, first.IntentID, second.IntentID)
	assert.Equal(t, 2, processor.CreateCalls)
}

func TestReconcile_FinalizedIntentFallsBackToFresh(t *testing.T) {
	svc, processor, db := newPaymentService(t)
	room := seedRoom(t, db, 10000, nil)
	ctx := context.Background()

	first, err := svc.Reconcile(ctx, testGuest, testDraft(room.ID), "")
	require.NoError(t, err)
	processor.SetStatus(first.IntentID, "succeeded")

	second, err := svc.Reconcile(ctx, testGuest, testDraft(room.ID), first.IntentID)
	require.NoError(t, err)
	assert.NotEqual(t, first.IntentID, second.IntentID)
}

func TestReconcile_UnknownIntentIDCreatesFresh(t *testing.T) {
	svc, processor, db := newPaymentService(t)
	room := seedRoom(t, db, 10000, nil)

	result, err := svc.Reconcile(context.Background(), testGuest, testDraft(room.ID), "pi_never_existed")

	require.NoError(t, err)
	assert.NotEmpty(t, result.IntentID)
	assert.Equal(t, 1, processor.CreateCalls)
}

func TestReconcile_AnotherGuestsIntentNotTouched(t *testing.T) {
	svc, processor, db := newPaymentService(t)
	room := seedRoom(t, db, 10000, nil)
	ctx := context.Background()

	first, err := svc.Reconcile(ctx, testGuest, testDraft(room.ID), "")
	require.NoError(t, err)

	// A different guest presenting the first guest's intent id gets a fresh
	// intent; the original row is left alone.
	other := services.Guest{ID: "guest-2", Name: "Bob", Email: "bob@example.com"}
	result, err := svc.Reconcile(ctx, other, testDraft(room.ID), first.IntentID)
	require.NoError(t, err)
	assert.NotEqual(t, first.IntentID, result.IntentID)

	assert.Equal(t, 2, processor.CreateCalls)

	original, err := services.NewBookingService(db).FindBookingByIntentID(ctx, first.IntentID)
	require.NoError(t, err)
	assert.Equal(t, testGuest.ID, original.GuestID)
	assert.Equal(t, int64(30000), original.TotalPrice)
}

func TestReconcile_RetrieveFailureIsRetrySafe(t *testing.T) {
	svc, processor, db := newPaymentService(t)
	room := seedRoom(t, db, 10000, nil)
	ctx := context.Background()

	first, err := svc.Reconcile(ctx, testGuest, testDraft(room.ID), "")
	require.NoError(t, err)

	processor.FailRetrieve = errors.New("processor timeout")
	_, err = svc.Reconcile(ctx, testGuest, testDraft(room.ID), first.IntentID)

	var recErr *services.ReconciliationError
	require.ErrorAs(t, err, &recErr)
	assert.Equal(t, first.IntentID, recErr.IntentID, "retry must target the existing intent")
	assert.Equal(t, 1, processor.CreateCalls, "no second intent on transient failure")
}

func TestReconcile_UpdateFailureIsRetrySafe(t *testing.T) {
	svc, processor, db := newPaymentService(t)
	room := seedRoom(t, db, 10000, nil)
	ctx := context.Background()

	first, err := svc.Reconcile(ctx, testGuest, testDraft(room.ID), "")
	require.NoError(t, err)

	processor.FailUpdate = errors.New("processor timeout")
	longer := testDraft(room.ID)
	longer.EndDate = day(2024, 3, 6)
	_, err = svc.Reconcile(ctx, testGuest, longer, first.IntentID)

	var recErr *services.ReconciliationError
	require.ErrorAs(t, err, &recErr)
	assert.Equal(t, first.IntentID, recErr.IntentID)

	// Local row untouched: amounts still agree across both sides.
	booking, err := services.NewBookingService(db).FindBookingByIntentID(ctx, first.IntentID)
	require.NoError(t, err)
	assert.Equal(t, int64(30000), booking.TotalPrice)
	assert.Equal(t, int64(30000), processor.Amount(first.IntentID))
}

func TestReconcile_CreateFailure(t *testing.T) {
	svc, processor, db := newPaymentService(t)
	room := seedRoom(t, db, 10000, nil)

	processor.FailCreate = errors.New("processor unavailable")
	_, err := svc.Reconcile(context.Background(), testGuest, testDraft(room.ID), "")

	var recErr *services.ReconciliationError
	require.ErrorAs(t, err, &recErr)
	assert.Empty(t, recErr.IntentID, "nothing was written on either side")

	var count int64
	db.Model(&models.Booking{}).Count(&count)
	assert.Zero(t, count)
}

func TestConfirm_MarksBookingPaid(t *testing.T) {
	svc, _, db := newPaymentService(t)
	room := seedRoom(t, db, 10000, nil)
	ctx := context.Background()

	result, err := svc.Reconcile(ctx, testGuest, testDraft(room.ID), "")
	require.NoError(t, err)

	booking, err := svc.Confirm(ctx, result.IntentID)
	require.NoError(t, err)
	assert.True(t, booking.PaymentStatus)

	// Confirming again is a no-op returning the same record.
	again, err := svc.Confirm(ctx, result.IntentID)
	require.NoError(t, err)
	assert.Equal(t, booking.ID, again.ID)
}

func TestConfirm_UnknownIntent(t *testing.T) {
	svc, _, _ := newPaymentService(t)

	_, err := svc.Confirm(context.Background(), "pi_missing")

	assert.ErrorIs(t, err, services.ErrBookingNotFound)
}

// Full race scenario: an unpaid draft never blocks a room, but once the
// contending booking is confirmed first, the loser's confirmation is rejected
// and their row stays an unpaid draft.
func TestConfirm_LosesRaceToOtherGuest(t *testing.T) {
	svc, _, db := newPaymentService(t)
	room := seedRoom(t, db, 10000, nil)
	ctx := context.Background()

	// Guest one drafts 2024-03-01 -> 2024-03-04 for $100/night.
	first, err := svc.Reconcile(ctx, testGuest, testDraft(room.ID), "")
	require.NoError(t, err)
	assert.Equal(t, int64(30000), first.Booking.TotalPrice)

	// Guest two drafts 2024-03-03 -> 2024-03-05 while the first booking is
	// still unpaid; reconcile succeeds because drafts reserve nothing.
	other := services.Guest{ID: "guest-2", Name: "Bob", Email: "bob@example.com"}
	overlapping := services.BookingDraft{
		RoomID:    room.ID,
		StartDate: day(2024, 3, 3),
		EndDate:   day(2024, 3, 5),
	}
	second, err := svc.Reconcile(ctx, other, overlapping, "")
	require.NoError(t, err)

	// Guest one pays first.
	_, err = svc.Confirm(ctx, first.IntentID)
	require.NoError(t, err)

	// Guest two's confirmation now finds 2024-03-03 occupied.
	_, err = svc.Confirm(ctx, second.IntentID)
	assert.ErrorIs(t, err, services.ErrDatesUnavailable)

	// The loser's row is left as an unpaid draft for retry or cleanup.
	loser, findErr := services.NewBookingService(db).FindBookingByIntentID(ctx, second.IntentID)
	require.NoError(t, findErr)
	assert.False(t, loser.PaymentStatus)
}

func TestConfirm_DisjointBookingsBothSucceed(t *testing.T) {
	svc, _, db := newPaymentService(t)
	room := seedRoom(t, db, 10000, nil)
	ctx := context.Background()

	first, err := svc.Reconcile(ctx, testGuest, testDraft(room.ID), "")
	require.NoError(t, err)
	_, err = svc.Confirm(ctx, first.IntentID)
	require.NoError(t, err)

	other := services.Guest{ID: "guest-2"}
	later := services.BookingDraft{
		RoomID:    room.ID,
		StartDate: day(2024, 3, 5),
		EndDate:   day(2024, 3, 8),
	}
	second, err := svc.Reconcile(ctx, other, later, "")
	require.NoError(t, err)

	confirmed, err := svc.Confirm(ctx, second.IntentID)
	require.NoError(t, err)
	assert.True(t, confirmed.PaymentStatus)
}
