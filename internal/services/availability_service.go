package services

import (
	"time"

	"github.com/google/uuid"

	"github.com/chataubeskydy/booking-backend/internal/models"
)

// confirmedRoomBookingSource yields the confirmed bookings relevant to a set
// of rooms. Only confirmed bookings hold rooms; pending candidates never
// block each other.
type confirmedRoomBookingSource interface {
	ListConfirmedForRooms(roomIDs []string) ([]models.RoomBooking, error)
}

// AvailabilityService answers whether exclusive rooms are free over a date
// range. The repository narrows to confirmed bookings touching the rooms;
// the half-open overlap test runs here so it stays unit-testable.
type AvailabilityService struct {
	bookings confirmedRoomBookingSource
}

// NewAvailabilityService creates a new availability service
func NewAvailabilityService(bookings confirmedRoomBookingSource) *AvailabilityService {
	return &AvailabilityService{bookings: bookings}
}

// ConflictingRooms returns the ids of requested rooms already held by a
// confirmed booking overlapping [start, end). exclude skips one booking,
// used when re-checking a booking against everyone but itself at confirm
// time.
func (s *AvailabilityService) ConflictingRooms(roomIDs []string, start, end time.Time, exclude *uuid.UUID) ([]string, error) {
	confirmed, err := s.bookings.ListConfirmedForRooms(roomIDs)
	if err != nil {
		return nil, err
	}

	taken := make(map[string]bool)
	for i := range confirmed {
		b := &confirmed[i]
		if exclude != nil && b.ID == *exclude {
			continue
		}
		if !b.Overlaps(start, end) {
			continue
		}
		for _, id := range b.RoomIDs {
			taken[id] = true
		}
	}

	var conflicts []string
	for _, id := range roomIDs {
		if taken[id] {
			conflicts = append(conflicts, id)
		}
	}
	return conflicts, nil
}

// CheckRooms verifies every requested room is free over [start, end).
// All-or-nothing: one conflicting room fails the whole request with a
// ConflictError naming the rooms.
func (s *AvailabilityService) CheckRooms(roomIDs []string, start, end time.Time, exclude *uuid.UUID) error {
	conflicts, err := s.ConflictingRooms(roomIDs, start, end, exclude)
	if err != nil {
		return err
	}
	if len(conflicts) > 0 {
		return conflictErrorf("rooms not available for the requested dates: %v", conflicts)
	}
	return nil
}

// IsAvailable reports whether a single room is free over [start, end).
func (s *AvailabilityService) IsAvailable(roomID uuid.UUID, start, end time.Time) (bool, error) {
	conflicts, err := s.ConflictingRooms([]string{roomID.String()}, start, end, nil)
	if err != nil {
		return false, err
	}
	return len(conflicts) == 0, nil
}
