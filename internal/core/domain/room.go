package domain

import (
	"fmt"
	"time"
)

type RoomStatus string

const (
	RoomAvailable   RoomStatus = "AVAILABLE"
	RoomOccupied    RoomStatus = "OCCUPIED"
	RoomMaintenance RoomStatus = "MAINTENANCE"
	RoomReserved    RoomStatus = "RESERVED"
)

func ParseRoomStatus(s string) (RoomStatus, error) {
	switch status := RoomStatus(s); status {
	case RoomAvailable, RoomOccupied, RoomMaintenance, RoomReserved:
		return status, nil
	default:
		return "", fmt.Errorf("unknown room status %q", s)
	}
}

// ManuallySettable reports whether staff may put a room into this status directly.
// OCCUPIED is only reached through check-in.
func (s RoomStatus) ManuallySettable() bool {
	return s == RoomAvailable || s == RoomMaintenance || s == RoomReserved
}

type RoomType struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Capacity    int       `json:"capacity" db:"capacity"`
	BasePrice   Money     `json:"basePrice" db:"base_price"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

func (rt *RoomType) Validate() error {
	fields := FieldErrors{}

	if rt.Name == "" {
		fields.Add("name", "name is required")
	}

	if rt.Capacity <= 0 {
		fields.Add("capacity", "capacity must be positive")
	}

	if rt.BasePrice <= 0 {
		fields.Add("basePrice", "base price must be positive")
	}

	return fields.Err()
}

type Room struct {
	ID         int64      `json:"id" db:"id"`
	RoomTypeID int64      `json:"roomTypeId" db:"room_type_id"`
	RoomNumber string     `json:"roomNumber" db:"room_number"`
	Floor      int        `json:"floor" db:"floor"`
	Status     RoomStatus `json:"status" db:"status"`
	Notes      string     `json:"notes" db:"notes"`
	CreatedAt  time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time  `json:"updatedAt" db:"updated_at"`
}

func (r *Room) Validate() error {
	fields := FieldErrors{}

	if r.RoomTypeID <= 0 {
		fields.Add("roomTypeId", "room type is required")
	}

	if r.RoomNumber == "" {
		fields.Add("roomNumber", "room number is required")
	}

	if _, err := ParseRoomStatus(string(r.Status)); err != nil {
		fields.Add("status", err.Error())
	}

	return fields.Err()
}

type RoomFilter struct {
	Status     *RoomStatus
	RoomTypeID *int64
	Floor      *int
}
