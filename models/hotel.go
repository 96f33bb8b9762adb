package models

import (
	"gorm.io/gorm"
)

type Hotel struct {
	gorm.Model

	// OwnerID is the opaque user id supplied by the upstream identity provider.
	OwnerID     string `json:"ownerId" gorm:"column:owner_id;index;type:varchar(191)"`
	Title       string `json:"title" gorm:"type:varchar(255)"`
	Description string `json:"description" gorm:"type:text"`
	City        string `json:"city" gorm:"type:varchar(100)"`
	Country     string `json:"country" gorm:"type:varchar(100)"`

	Rooms []Room `gorm:"foreignKey:HotelID" json:"rooms,omitempty"`
}
