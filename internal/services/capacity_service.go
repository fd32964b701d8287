package services

import (
	"time"

	"github.com/google/uuid"

	"github.com/chataubeskydy/booking-backend/internal/models"
)

// confirmedCommonBookingSource yields the confirmed bookings relevant to a
// set of common rooms.
type confirmedCommonBookingSource interface {
	ListConfirmedForRooms(roomIDs []string) ([]models.CommonRoomBooking, error)
}

// CapacityService answers admission questions for capacity-shared common
// rooms: multiple groups may hold the same room at the same time as long as
// their combined headcount stays within capacity at every instant.
type CapacityService struct {
	bookings confirmedCommonBookingSource
}

// NewCapacityService creates a new capacity service
func NewCapacityService(bookings confirmedCommonBookingSource) *CapacityService {
	return &CapacityService{bookings: bookings}
}

// peakHeadcount returns the highest concurrent confirmed headcount in the
// given room at any instant of [start, end). Occupancy only changes at
// booking boundaries, so sampling at each overlapping booking's start
// (clamped into the window) finds the peak.
func peakHeadcount(bookings []models.CommonRoomBooking, roomID uuid.UUID, start, end time.Time, exclude *uuid.UUID) int {
	var relevant []*models.CommonRoomBooking
	for i := range bookings {
		b := &bookings[i]
		if exclude != nil && b.ID == *exclude {
			continue
		}
		if b.HeadcountFor(roomID) == 0 || !b.Overlaps(start, end) {
			continue
		}
		relevant = append(relevant, b)
	}

	peak := 0
	for _, anchor := range relevant {
		at := anchor.StartTime
		if at.Before(start) {
			at = start
		}
		sum := 0
		for _, b := range relevant {
			if !b.StartTime.After(at) && b.EndTime.After(at) {
				sum += b.HeadcountFor(roomID)
			}
		}
		if sum > peak {
			peak = sum
		}
	}
	return peak
}

// OccupancyAt returns the peak confirmed headcount in the room over
// [start, end).
func (s *CapacityService) OccupancyAt(roomID uuid.UUID, start, end time.Time, exclude *uuid.UUID) (int, error) {
	confirmed, err := s.bookings.ListConfirmedForRooms([]string{roomID.String()})
	if err != nil {
		return 0, err
	}
	return peakHeadcount(confirmed, roomID, start, end, exclude), nil
}

// CheckRooms verifies each requested room can admit its requested headcount
// over [start, end) without exceeding capacity at any instant.
// All-or-nothing across rooms, same as the exclusive pool.
func (s *CapacityService) CheckRooms(rooms []models.CommonRoom, headcounts models.OccupancyMap, start, end time.Time, exclude *uuid.UUID) error {
	ids := make([]string, len(rooms))
	for i, room := range rooms {
		ids[i] = room.ID.String()
	}

	confirmed, err := s.bookings.ListConfirmedForRooms(ids)
	if err != nil {
		return err
	}

	for _, room := range rooms {
		requested := headcounts[room.ID.String()]
		used := peakHeadcount(confirmed, room.ID, start, end, exclude)
		if used+requested > room.Capacity {
			return conflictErrorf("common room %s is over capacity: %d in use, %d requested, capacity %d",
				room.Name, used, requested, room.Capacity)
		}
	}
	return nil
}
