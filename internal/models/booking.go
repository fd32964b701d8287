package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// BookingStatus represents the lifecycle state of a booking
// Matches PostgreSQL ENUM: booking_status
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"   // admitted, waiting for an admin decision
	BookingStatusConfirmed BookingStatus = "confirmed" // admin accepted; holds the resource
	BookingStatusRejected  BookingStatus = "rejected"  // admin declined (terminal)
	BookingStatusExpired   BookingStatus = "expired"   // pending timed out (terminal)
	BookingStatusCancelled BookingStatus = "cancelled" // confirmed booking withdrawn (terminal)
)

// IsTerminal reports whether no further transition is allowed out of s.
// Confirmed is not terminal: it can still move to cancelled.
func (s BookingStatus) IsTerminal() bool {
	switch s {
	case BookingStatusRejected, BookingStatusExpired, BookingStatusCancelled:
		return true
	}
	return false
}

// OccupancyMap maps room id -> headcount, stored as JSONB.
type OccupancyMap map[string]int

// Value implements the driver.Valuer interface
func (m OccupancyMap) Value() (driver.Value, error) {
	if m == nil {
		return json.Marshal(OccupancyMap{})
	}
	return json.Marshal(m)
}

// Scan implements the sql.Scanner interface
func (m *OccupancyMap) Scan(value interface{}) error {
	if value == nil {
		*m = OccupancyMap{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed for OccupancyMap")
	}
	return json.Unmarshal(bytes, m)
}

// Total sums the headcounts across all rooms.
func (m OccupancyMap) Total() int {
	sum := 0
	for _, n := range m {
		sum += n
	}
	return sum
}

// RoomBooking is a stay in one or more bedrooms (room_bookings table).
// StartDate/EndDate are day-granularity and half-open: the guest sleeps the
// nights StartDate .. EndDate-1 and checks out on the morning of EndDate.
type RoomBooking struct {
	ID uuid.UUID `json:"id" db:"id"`

	StartDate time.Time `json:"start_date" db:"start_date"`
	EndDate   time.Time `json:"end_date" db:"end_date"`

	RoomIDs   UUIDArray    `json:"room_ids" db:"room_ids"`
	Occupancy OccupancyMap `json:"occupancy" db:"occupancy"`

	Status BookingStatus `json:"status" db:"status"`

	GuestName  string  `json:"guest_name" db:"guest_name"`
	GuestEmail string  `json:"guest_email" db:"guest_email"`
	GuestPhone *string `json:"guest_phone,omitempty" db:"guest_phone"`

	// QuotedPrice is advisory, captured at admission time for display.
	// It never gates a transition.
	QuotedPrice float64 `json:"quoted_price" db:"quoted_price"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Overlaps reports whether the booking's date range overlaps [start, end).
func (b *RoomBooking) Overlaps(start, end time.Time) bool {
	return RangesOverlap(b.StartDate, b.EndDate, start, end)
}

// CoversNight reports whether the guest holds their rooms over the night
// starting at n.
func (b *RoomBooking) CoversNight(n time.Time) bool {
	return !n.Before(b.StartDate) && n.Before(b.EndDate)
}

// CommonRoomBooking is a reservation of shared space over a timestamp range
// (common_room_bookings table). Public requests come in as half-day blocks;
// admin blanket holds may span arbitrary ranges, so the range is stored as
// raw timestamps rather than block indices.
type CommonRoomBooking struct {
	ID uuid.UUID `json:"id" db:"id"`

	StartTime time.Time `json:"start_time" db:"start_time"`
	EndTime   time.Time `json:"end_time" db:"end_time"`

	RoomIDs    UUIDArray    `json:"room_ids" db:"room_ids"`
	Headcounts OccupancyMap `json:"headcounts" db:"headcounts"`

	Status BookingStatus `json:"status" db:"status"`

	GuestName  string  `json:"guest_name" db:"guest_name"`
	GuestEmail string  `json:"guest_email" db:"guest_email"`
	GuestPhone *string `json:"guest_phone,omitempty" db:"guest_phone"`

	QuotedPrice float64 `json:"quoted_price" db:"quoted_price"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Overlaps reports whether the booking's time range overlaps [start, end).
func (b *CommonRoomBooking) Overlaps(start, end time.Time) bool {
	return RangesOverlap(b.StartTime, b.EndTime, start, end)
}

// HeadcountFor returns the headcount this booking places in the given room.
func (b *CommonRoomBooking) HeadcountFor(roomID uuid.UUID) int {
	return b.Headcounts[roomID.String()]
}
