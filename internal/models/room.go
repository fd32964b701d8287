package models

import (
	"time"

	"github.com/google/uuid"
)

// Pool identifies which resource pool a request targets.
// Rooms are exclusive (one confirmed booking per night); common rooms are
// shared up to a headcount capacity.
type Pool string

const (
	PoolRooms  Pool = "rooms"
	PoolCommon Pool = "common"
)

// Room represents a bookable bedroom (rooms table)
type Room struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`

	// Beds bounds the per-room occupancy of a booking
	Beds      int     `json:"beds" db:"beds"`
	BasePrice float64 `json:"base_price" db:"base_price"`

	// PriceGroup ties the room to season rules scoped to the same group.
	// Empty means the room only picks up unscoped rules.
	PriceGroup string `json:"price_group" db:"price_group"`

	Bookable          bool `json:"bookable" db:"bookable"`
	VisibleInCalendar bool `json:"visible_in_calendar" db:"visible_in_calendar"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CommonRoom represents a shared space bookable by the half-day block
// (common_rooms table). Capacity is the concurrent-occupant limit, not beds.
type CommonRoom struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`

	Capacity   int     `json:"capacity" db:"capacity"`
	BlockPrice float64 `json:"block_price" db:"block_price"`

	Bookable          bool `json:"bookable" db:"bookable"`
	VisibleInCalendar bool `json:"visible_in_calendar" db:"visible_in_calendar"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
