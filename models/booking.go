package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ReferenceCode string `gorm:"column:reference_code;size:64" json:"reference_code,omitempty"`

	RoomID       uint   `gorm:"column:room_id;index" json:"roomId"`
	HotelID      uint   `gorm:"column:hotel_id;index" json:"hotelId"`
	HotelOwnerID string `gorm:"column:hotel_owner_id;type:varchar(191)" json:"hotelOwnerId"`

	GuestID    string `gorm:"column:guest_id;index;type:varchar(191)" json:"guestId"`
	GuestName  string `gorm:"column:guest_name;type:varchar(255)" json:"guestName"`
	GuestEmail string `gorm:"column:guest_email;type:varchar(255)" json:"guestEmail"`

	StartDate *time.Time `gorm:"column:start_date" json:"startDate,omitempty"`
	EndDate   *time.Time `gorm:"column:end_date" json:"endDate,omitempty"`

	BreakfastIncluded bool `gorm:"column:breakfast_included;default:false" json:"breakfastIncluded"`

	// TotalPrice is in currency minor units and must always equal the amount on
	// the processor intent referenced by PaymentIntentID.
	TotalPrice int64  `gorm:"column:total_price" json:"totalPrice"`
	Currency   string `gorm:"column:currency;size:8" json:"currency"`

	// Nullable only before the first intent is created; at most one booking row
	// may carry a given intent id.
	PaymentIntentID *string `gorm:"column:payment_intent_id;uniqueIndex;type:varchar(191)" json:"paymentIntentId,omitempty"`

	// false = pending draft (reserves nothing), true = confirmed (blocks the room).
	PaymentStatus bool `gorm:"column:payment_status;default:false" json:"paymentStatus"`

	// Denormalized room details for display, frozen at draft time.
	RoomSnapshot datatypes.JSON `gorm:"column:room_snapshot" json:"roomSnapshot,omitempty"`

	Room  Room  `gorm:"foreignKey:RoomID;references:ID" json:"room,omitempty"`
	Hotel Hotel `gorm:"foreignKey:HotelID;references:ID" json:"hotel,omitempty"`
}
