package models

import (
	"gorm.io/gorm"
)

type Room struct {
	gorm.Model

	HotelID uint `json:"hotelId" gorm:"column:hotel_id;index"`

	Title       string `json:"title" gorm:"type:varchar(255)"`
	Description string `json:"description" gorm:"type:text"`

	// Prices are stored in currency minor units (e.g. cents) so the stored
	// booking total and the processor intent amount always agree bit-for-bit.
	RoomPrice      int64  `json:"roomPrice" gorm:"column:room_price"`
	BreakfastPrice *int64 `json:"breakfastPrice,omitempty" gorm:"column:breakfast_price"`

	Hotel Hotel `gorm:"foreignKey:HotelID;references:ID" json:"hotel,omitempty"`
}
