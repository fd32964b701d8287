package services

import (
	"math"
	"time"

	"github.com/chataubeskydy/booking-backend/internal/models"
)

// visibleRoomSource and visibleCommonRoomSource yield the calendar-visible
// catalog; hidden rooms are excluded from both numerator and denominator.
type visibleRoomSource interface {
	ListVisibleRooms() ([]models.Room, error)
}

type visibleCommonRoomSource interface {
	ListVisibleCommonRooms() ([]models.CommonRoom, error)
}

type roomBookingRangeSource interface {
	ListConfirmedOverlapping(start, end time.Time) ([]models.RoomBooking, error)
}

type commonBookingRangeSource interface {
	ListConfirmedOverlapping(start, end time.Time) ([]models.CommonRoomBooking, error)
}

// OccupancyService produces the calendar views: per-day occupancy percent
// for either pool, and the half-day room grid with checkout states.
// Only confirmed bookings count; pending candidates are invisible here.
type OccupancyService struct {
	rooms          visibleRoomSource
	commonRooms    visibleCommonRoomSource
	roomBookings   roomBookingRangeSource
	commonBookings commonBookingRangeSource
}

// NewOccupancyService creates a new occupancy service
func NewOccupancyService(
	rooms visibleRoomSource,
	commonRooms visibleCommonRoomSource,
	roomBookings roomBookingRangeSource,
	commonBookings commonBookingRangeSource,
) *OccupancyService {
	return &OccupancyService{
		rooms:          rooms,
		commonRooms:    commonRooms,
		roomBookings:   roomBookings,
		commonBookings: commonBookings,
	}
}

const dayKeyFormat = "2006-01-02"

// percent rounds used/total to a whole percent, clamped to 100. Blocks of
// overbooked data (capacity lowered after confirmation) must not render
// above a full bar.
func percent(used, total int) int {
	if total == 0 {
		return 0
	}
	p := int(math.Round(float64(used) / float64(total) * 100))
	if p > 100 {
		p = 100
	}
	return p
}

// RoomOccupancyByDay returns day -> occupancy percent for the exclusive
// pool over [from, to): the share of visible rooms held on each night.
func (s *OccupancyService) RoomOccupancyByDay(from, to time.Time) (map[string]int, error) {
	from = models.DateOnly(from)
	to = models.DateOnly(to)

	rooms, err := s.rooms.ListVisibleRooms()
	if err != nil {
		return nil, err
	}
	bookings, err := s.roomBookings.ListConfirmedOverlapping(from, to)
	if err != nil {
		return nil, err
	}

	visible := make(map[string]bool, len(rooms))
	for _, room := range rooms {
		visible[room.ID.String()] = true
	}

	result := make(map[string]int)
	for day := from; day.Before(to); day = day.AddDate(0, 0, 1) {
		held := make(map[string]bool)
		for i := range bookings {
			b := &bookings[i]
			if !b.CoversNight(day) {
				continue
			}
			for _, id := range b.RoomIDs {
				if visible[id] {
					held[id] = true
				}
			}
		}
		result[day.Format(dayKeyFormat)] = percent(len(held), len(rooms))
	}
	return result, nil
}

// CommonOccupancyByDay returns day -> occupancy percent for the shared
// pool: the share of visible common rooms at or over capacity at some
// instant of each day.
func (s *OccupancyService) CommonOccupancyByDay(from, to time.Time) (map[string]int, error) {
	from = models.DateOnly(from)
	to = models.DateOnly(to)

	rooms, err := s.commonRooms.ListVisibleCommonRooms()
	if err != nil {
		return nil, err
	}
	bookings, err := s.commonBookings.ListConfirmedOverlapping(from, to)
	if err != nil {
		return nil, err
	}

	result := make(map[string]int)
	for day := from; day.Before(to); day = day.AddDate(0, 0, 1) {
		dayEnd := day.AddDate(0, 0, 1)
		full := 0
		for _, room := range rooms {
			if room.Capacity <= 0 {
				continue
			}
			if peakHeadcount(bookings, room.ID, day, dayEnd, nil) >= room.Capacity {
				full++
			}
		}
		result[day.Format(dayKeyFormat)] = percent(full, len(rooms))
	}
	return result, nil
}

// HalfDayState is one room's state in one half of a day.
type HalfDayState string

const (
	HalfDayFree     HalfDayState = "free"
	HalfDayOccupied HalfDayState = "occupied"
	// HalfDayCheckout marks the morning a multi-day stay ends: the room is
	// being vacated and turns over at noon.
	HalfDayCheckout HalfDayState = "checkout"
)

// HalfDaySlot is one half-day cell of the room calendar grid.
type HalfDaySlot struct {
	Date     string `json:"date"`
	Slot     string `json:"slot"` // "morning" or "afternoon"
	Occupied int    `json:"occupied"`
	Checkout int    `json:"checkout"`
	Total    int    `json:"total"`
	Percent  int    `json:"percent"`
}

// RoomOccupancyByHalfDay renders the exclusive pool at half-day resolution
// over [from, to). A room's morning is occupied while a stay continues
// through it, checkout on the final morning of a stay that started earlier,
// and its afternoon is occupied when a stay covers that night.
func (s *OccupancyService) RoomOccupancyByHalfDay(from, to time.Time) ([]HalfDaySlot, error) {
	from = models.DateOnly(from)
	to = models.DateOnly(to)

	rooms, err := s.rooms.ListVisibleRooms()
	if err != nil {
		return nil, err
	}
	// Stays ending on `from` still paint its checkout morning.
	bookings, err := s.roomBookings.ListConfirmedOverlapping(from.AddDate(0, 0, -1), to)
	if err != nil {
		return nil, err
	}

	visible := make(map[string]bool, len(rooms))
	for _, room := range rooms {
		visible[room.ID.String()] = true
	}

	var slots []HalfDaySlot
	for day := from; day.Before(to); day = day.AddDate(0, 0, 1) {
		prevNight := day.AddDate(0, 0, -1)

		morningOccupied := make(map[string]bool)
		morningCheckout := make(map[string]bool)
		afternoonOccupied := make(map[string]bool)
		for i := range bookings {
			b := &bookings[i]
			stayed := b.CoversNight(prevNight)
			staying := b.CoversNight(day)
			for _, id := range b.RoomIDs {
				if !visible[id] {
					continue
				}
				if staying {
					afternoonOccupied[id] = true
				}
				switch {
				case stayed && staying:
					morningOccupied[id] = true
				case stayed && b.StartDate.Before(day):
					morningCheckout[id] = true
				}
			}
		}
		// A room cannot be both; occupied wins if the data ever disagrees.
		for id := range morningOccupied {
			delete(morningCheckout, id)
		}

		slots = append(slots,
			HalfDaySlot{
				Date:     day.Format(dayKeyFormat),
				Slot:     "morning",
				Occupied: len(morningOccupied),
				Checkout: len(morningCheckout),
				Total:    len(rooms),
				Percent:  percent(len(morningOccupied), len(rooms)),
			},
			HalfDaySlot{
				Date:     day.Format(dayKeyFormat),
				Slot:     "afternoon",
				Occupied: len(afternoonOccupied),
				Total:    len(rooms),
				Percent:  percent(len(afternoonOccupied), len(rooms)),
			},
		)
	}
	return slots, nil
}
