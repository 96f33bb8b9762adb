package services_test

import (
	"fmt"
	"testing"

	"booking-backend/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an isolated in-memory sqlite database with the schema
// migrated. Each test gets its own named database so parallel tests never
// share rows.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.Hotel{}, &models.Room{}, &models.Booking{}))
	return db
}

// seedRoom creates a hotel with one room and returns the room with the hotel
// preloaded. Rates are minor units.
func seedRoom(t *testing.T, db *gorm.DB, nightlyRate int64, breakfastRate *int64) *models.Room {
	t.Helper()

	hotel := models.Hotel{
		OwnerID: "owner-1",
		Title:   "Test Hotel",
		City:    "Bangkok",
		Country: "TH",
	}
	require.NoError(t, db.Create(&hotel).Error)

	room := models.Room{
		HotelID:        hotel.ID,
		Title:          "Test Room",
		RoomPrice:      nightlyRate,
		BreakfastPrice: breakfastRate,
	}
	require.NoError(t, db.Create(&room).Error)
	require.NoError(t, db.Preload("Hotel").First(&room, room.ID).Error)
	return &room
}
