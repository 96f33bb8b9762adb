package services

import (
	"context"
	"errors"
	"fmt"

	"booking-backend/models"

	"gorm.io/gorm"
)

// RoomService is the hotel/room CRUD glue feeding the booking flow. Forms,
// images and search live elsewhere; the core only needs these records.
type RoomService struct {
	DB *gorm.DB
}

func NewRoomService(db *gorm.DB) *RoomService {
	return &RoomService{DB: db}
}

func (s *RoomService) GetRoomByID(ctx context.Context, id uint) (*models.Room, error) {
	var room models.Room
	err := s.DB.WithContext(ctx).Preload("Hotel").First(&room, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to find room %d: %w", id, err)
	}
	return &room, nil
}

func (s *RoomService) GetHotels(ctx context.Context) ([]models.Hotel, error) {
	var hotels []models.Hotel
	if err := s.DB.WithContext(ctx).Preload("Rooms").Find(&hotels).Error; err != nil {
		return nil, fmt.Errorf("failed to list hotels: %w", err)
	}
	return hotels, nil
}

func (s *RoomService) GetHotelsByOwner(ctx context.Context, ownerID string) ([]models.Hotel, error) {
	var hotels []models.Hotel
	err := s.DB.WithContext(ctx).
		Preload("Rooms").
		Where("owner_id = ?", ownerID).
		Find(&hotels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list hotels for owner: %w", err)
	}
	return hotels, nil
}

func (s *RoomService) CreateHotel(ctx context.Context, hotel *models.Hotel) error {
	if err := s.DB.WithContext(ctx).Create(hotel).Error; err != nil {
		return fmt.Errorf("failed to create hotel: %w", err)
	}
	return nil
}

// CreateRoom attaches a room to one of ownerID's hotels.
func (s *RoomService) CreateRoom(ctx context.Context, room *models.Room, ownerID string) error {
	var hotel models.Hotel
	if err := s.DB.WithContext(ctx).First(&hotel, room.HotelID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoomNotFound
		}
		return fmt.Errorf("failed to find hotel %d: %w", room.HotelID, err)
	}
	if hotel.OwnerID != ownerID {
		return ErrUnauthorized
	}
	if err := s.DB.WithContext(ctx).Create(room).Error; err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}
	return nil
}

func (s *RoomService) UpdateRoom(ctx context.Context, room *models.Room, ownerID string) error {
	existing, err := s.GetRoomByID(ctx, room.ID)
	if err != nil {
		return err
	}
	if existing.Hotel.OwnerID != ownerID {
		return ErrUnauthorized
	}
	err = s.DB.WithContext(ctx).
		Model(&models.Room{}).
		Where("id = ?", room.ID).
		Updates(room).Error
	if err != nil {
		return fmt.Errorf("failed to update room %d: %w", room.ID, err)
	}
	return nil
}

func (s *RoomService) DeleteRoom(ctx context.Context, id uint, ownerID string) error {
	existing, err := s.GetRoomByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.Hotel.OwnerID != ownerID {
		return ErrUnauthorized
	}
	if err := s.DB.WithContext(ctx).Delete(&models.Room{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete room %d: %w", id, err)
	}
	return nil
}
