package controllers

import (
	"net/http"
	"strconv"

	"booking-backend/middleware"
	"booking-backend/models"
	"booking-backend/services"
	"booking-backend/utils"

	"github.com/gin-gonic/gin"
)

// RoomController is the owner-facing hotel/room glue. It only maintains the
// records the booking core consumes; forms, images and search live elsewhere.
type RoomController struct {
	RoomSvc *services.RoomService
}

func NewRoomController(svc *services.RoomService) *RoomController {
	return &RoomController{RoomSvc: svc}
}

// GetHotels (GET /api/hotels) lists hotels with their rooms.
func (rc *RoomController) GetHotels(c *gin.Context) {
	hotels, err := rc.RoomSvc.GetHotels(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, hotels)
}

// GetMyHotels (GET /api/hotels/mine) lists the current owner's hotels.
func (rc *RoomController) GetMyHotels(c *gin.Context) {
	hotels, err := rc.RoomSvc.GetHotelsByOwner(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, hotels)
}

// GetRoom (GET /api/rooms/:id) returns one room with its hotel.
func (rc *RoomController) GetRoom(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "room id is required")
		return
	}

	room, err := rc.RoomSvc.GetRoomByID(c.Request.Context(), uint(id))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

// CreateHotel (POST /api/hotels) registers a hotel for the current owner.
func (rc *RoomController) CreateHotel(c *gin.Context) {
	var hotel models.Hotel
	if err := c.ShouldBindJSON(&hotel); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload")
		return
	}
	hotel.OwnerID = middleware.UserID(c)

	if err := rc.RoomSvc.CreateHotel(c.Request.Context(), &hotel); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, hotel)
}

// CreateRoom (POST /api/rooms) adds a room to one of the owner's hotels.
func (rc *RoomController) CreateRoom(c *gin.Context) {
	var room models.Room
	if err := c.ShouldBindJSON(&room); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	if err := rc.RoomSvc.CreateRoom(c.Request.Context(), &room, middleware.UserID(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, room)
}

// UpdateRoom (PUT /api/rooms/:id) updates a room the owner controls.
func (rc *RoomController) UpdateRoom(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "room id is required")
		return
	}

	var room models.Room
	if err := c.ShouldBindJSON(&room); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload")
		return
	}
	room.ID = uint(id)

	if err := rc.RoomSvc.UpdateRoom(c.Request.Context(), &room, middleware.UserID(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

// DeleteRoom (DELETE /api/rooms/:id) removes a room the owner controls.
func (rc *RoomController) DeleteRoom(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "room id is required")
		return
	}

	if err := rc.RoomSvc.DeleteRoom(c.Request.Context(), uint(id), middleware.UserID(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"deleted": id})
}
