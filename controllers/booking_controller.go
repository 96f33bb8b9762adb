package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"booking-backend/middleware"
	"booking-backend/services"
	"booking-backend/utils"

	"github.com/gin-gonic/gin"
)

// ---------------------------
// Payload / DTOs
// ---------------------------

// BookingPayload carries a new draft or a partial update to the pending one.
// When payment_intent_id refers to a live pending booking, nil fields fall
// back to the stored values; for a first reconcile all fields are required.
type BookingPayload struct {
	RoomID            uint       `json:"roomId"`
	StartDate         *time.Time `json:"startDate"`
	EndDate           *time.Time `json:"endDate"`
	BreakfastIncluded *bool      `json:"breakfastIncluded"`
}

type CreatePaymentIntentRequest struct {
	Booking         BookingPayload `json:"booking" binding:"required"`
	PaymentIntentID string         `json:"payment_intent_id"`
}

type QuoteRequest struct {
	RoomID            uint       `json:"roomId" binding:"required"`
	StartDate         *time.Time `json:"startDate" binding:"required"`
	EndDate           *time.Time `json:"endDate" binding:"required"`
	BreakfastIncluded bool       `json:"breakfastIncluded"`
}

// ---------------------------
// Controller
// ---------------------------

type BookingController struct {
	PaymentSvc *services.PaymentService
	BookingSvc *services.BookingService
	RoomSvc    *services.RoomService
}

func NewBookingController(paymentSvc *services.PaymentService, bookingSvc *services.BookingService, roomSvc *services.RoomService) *BookingController {
	return &BookingController{
		PaymentSvc: paymentSvc,
		BookingSvc: bookingSvc,
		RoomSvc:    roomSvc,
	}
}

// respondServiceError maps the service error taxonomy onto HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	var recErr *services.ReconciliationError
	switch {
	case errors.Is(err, services.ErrInvalidRange):
		utils.JSONError(c, http.StatusBadRequest, "invalid date range")
	case errors.Is(err, services.ErrUnauthorized):
		utils.JSONError(c, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, services.ErrDatesUnavailable):
		utils.JSONError(c, http.StatusConflict, "dates no longer available, please choose different dates")
	case errors.Is(err, services.ErrBookingNotFound):
		utils.JSONError(c, http.StatusNotFound, "booking not found")
	case errors.Is(err, services.ErrRoomNotFound):
		utils.JSONError(c, http.StatusNotFound, "room not found")
	case errors.As(err, &recErr):
		// Retry-safe: the client retries with the same intent id.
		c.JSON(http.StatusBadGateway, gin.H{
			"success":         false,
			"error":           "payment reconciliation failed, please retry",
			"paymentIntentId": recErr.IntentID,
		})
	default:
		log.Printf("unexpected booking error: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "internal server error")
	}
}

func guestFromContext(c *gin.Context) services.Guest {
	return services.Guest{
		ID:    middleware.UserID(c),
		Name:  middleware.UserName(c),
		Email: middleware.UserEmail(c),
	}
}

// CreatePaymentIntent (POST /api/payment-intent) reconciles the guest's draft
// with the processor: first call creates an intent and a pending booking,
// later calls with payment_intent_id update both in place.
func (bc *BookingController) CreatePaymentIntent(c *gin.Context) {
	var req CreatePaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	guest := guestFromContext(c)
	ctx := c.Request.Context()

	draft, err := bc.buildDraft(c, guest, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	result, err := bc.PaymentSvc.Reconcile(ctx, guest, draft, req.PaymentIntentID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, result)
}

// buildDraft assembles the draft for this reconcile call. With a prior
// pending booking the payload acts as a patch over the stored fields;
// otherwise all fields must be present.
func (bc *BookingController) buildDraft(c *gin.Context, guest services.Guest, req CreatePaymentIntentRequest) (services.BookingDraft, error) {
	ctx := c.Request.Context()

	var prior services.BookingDraft
	havePrior := false
	if req.PaymentIntentID != "" {
		booking, err := bc.BookingSvc.FindBookingByIntentIDForGuest(ctx, req.PaymentIntentID, guest.ID)
		if err == nil && !booking.PaymentStatus && booking.StartDate != nil && booking.EndDate != nil {
			prior = services.BookingDraft{
				RoomID:            booking.RoomID,
				StartDate:         *booking.StartDate,
				EndDate:           *booking.EndDate,
				BreakfastIncluded: booking.BreakfastIncluded,
			}
			havePrior = true
		} else if err != nil && !errors.Is(err, services.ErrBookingNotFound) {
			return services.BookingDraft{}, err
		}
	}

	if !havePrior {
		if req.Booking.RoomID == 0 || req.Booking.StartDate == nil || req.Booking.EndDate == nil {
			return services.BookingDraft{}, services.ErrInvalidRange
		}
		prior = services.BookingDraft{
			RoomID:    req.Booking.RoomID,
			StartDate: *req.Booking.StartDate,
			EndDate:   *req.Booking.EndDate,
		}
		if req.Booking.BreakfastIncluded != nil {
			prior.BreakfastIncluded = *req.Booking.BreakfastIncluded
		}
	}

	room, err := bc.RoomSvc.GetRoomByID(ctx, prior.RoomID)
	if err != nil {
		return services.BookingDraft{}, err
	}
	var breakfastRate int64
	if room.BreakfastPrice != nil {
		breakfastRate = *room.BreakfastPrice
	}

	patch := services.DraftPatch{
		StartDate:         req.Booking.StartDate,
		EndDate:           req.Booking.EndDate,
		BreakfastIncluded: req.Booking.BreakfastIncluded,
	}
	return prior.Apply(patch, room.RoomPrice, breakfastRate)
}

// ConfirmBooking (PATCH /api/bookings/:intentId) finalizes the booking after
// the processor reports a successful client-side confirmation.
func (bc *BookingController) ConfirmBooking(c *gin.Context) {
	intentID := c.Param("intentId")
	if intentID == "" {
		utils.JSONError(c, http.StatusBadRequest, "payment intent id is required")
		return
	}

	booking, err := bc.PaymentSvc.Confirm(c.Request.Context(), intentID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

// DeleteBooking (DELETE /api/bookings/:id) cancels a booking on behalf of the
// guest who made it or the hotel owner.
func (bc *BookingController) DeleteBooking(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "booking id is required")
		return
	}

	if err := bc.BookingSvc.DeleteBooking(c.Request.Context(), uint(id), middleware.UserID(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"deleted": id})
}

// GetMyBookings (GET /api/bookings) lists the current guest's bookings.
func (bc *BookingController) GetMyBookings(c *gin.Context) {
	bookings, err := bc.BookingSvc.FindBookingsByGuest(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, bookings)
}

// GetRoomBookings (GET /api/rooms/:id/bookings) returns the paid date ranges
// for a room so clients can block those days in the date picker.
func (bc *BookingController) GetRoomBookings(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "room id is required")
		return
	}

	bookings, err := bc.BookingSvc.FindPaidBookingsByRoom(c.Request.Context(), uint(id), 0)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, services.PaidRanges(bookings))
}

// Quote (POST /api/bookings/quote) prices a stay and reports whether the
// requested dates are currently free. Pure preview, nothing is written.
func (bc *BookingController) Quote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	ctx := c.Request.Context()
	room, err := bc.RoomSvc.GetRoomByID(ctx, req.RoomID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var breakfastRate int64
	if room.BreakfastPrice != nil {
		breakfastRate = *room.BreakfastPrice
	}
	quote, err := services.ComputePrice(room.RoomPrice, breakfastRate, *req.StartDate, *req.EndDate, req.BreakfastIncluded)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	paid, err := bc.BookingSvc.FindPaidBookingsByRoom(ctx, req.RoomID, 0)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	available := !services.HasOverlap(*req.StartDate, *req.EndDate, services.PaidRanges(paid))

	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"nights":    quote.Nights,
		"total":     quote.Total,
		"available": available,
	})
}
