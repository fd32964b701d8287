package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/chataubeskydy/booking-backend/internal/models"
)

// roomCatalog and commonCatalog are the catalog lookups the lifecycle needs.
type roomCatalog interface {
	GetRoomsByIDs(ids []string) ([]models.Room, error)
}

type commonCatalog interface {
	GetCommonRoomsByIDs(ids []string) ([]models.CommonRoom, error)
}

// roomBookingStore covers the lifecycle operations on the exclusive pool.
type roomBookingStore interface {
	CreateRoomBooking(b *models.RoomBooking) error
	GetRoomBookingByID(id uuid.UUID) (*models.RoomBooking, error)
	TransitionStatus(id uuid.UUID, from, to models.BookingStatus) (bool, error)
	ConfirmRoomBooking(id uuid.UUID) (bool, error)
}

// commonBookingStore covers the lifecycle operations on the shared pool.
type commonBookingStore interface {
	CreateCommonBooking(b *models.CommonRoomBooking) error
	GetCommonBookingByID(id uuid.UUID) (*models.CommonRoomBooking, error)
	TransitionStatus(id uuid.UUID, from, to models.BookingStatus) (bool, error)
	ConfirmCommonBooking(id uuid.UUID) (bool, error)
}

// BookingService drives the booking lifecycle for both pools.
//
// Admission is optimistic: a candidate only has to fit against confirmed
// bookings, so overlapping pending candidates coexist. Confirmation is
// pessimistic: the same check runs again excluding the booking itself, and
// the status flip is compare-and-set so a concurrent sweep or admin action
// loses cleanly.
type BookingService struct {
	rooms          roomCatalog
	commonRooms    commonCatalog
	roomBookings   roomBookingStore
	commonBookings commonBookingStore
	availability   *AvailabilityService
	capacity       *CapacityService
	pricing        *PricingService
	logger         *logrus.Logger
}

// NewBookingService creates a new booking service
func NewBookingService(
	rooms roomCatalog,
	commonRooms commonCatalog,
	roomBookings roomBookingStore,
	commonBookings commonBookingStore,
	availability *AvailabilityService,
	capacity *CapacityService,
	pricing *PricingService,
	logger *logrus.Logger,
) *BookingService {
	return &BookingService{
		rooms:          rooms,
		commonRooms:    commonRooms,
		roomBookings:   roomBookings,
		commonBookings: commonBookings,
		availability:   availability,
		capacity:       capacity,
		pricing:        pricing,
		logger:         logger,
	}
}

// RoomBookingRequest is a guest's candidate request for one or more
// exclusive rooms.
type RoomBookingRequest struct {
	StartDate  time.Time
	EndDate    time.Time
	RoomIDs    []string
	Occupancy  models.OccupancyMap
	GuestName  string
	GuestEmail string
	GuestPhone *string
}

// CommonBookingRequest is a guest's candidate request for shared space.
type CommonBookingRequest struct {
	StartTime  time.Time
	EndTime    time.Time
	RoomIDs    []string
	Headcounts models.OccupancyMap
	GuestName  string
	GuestEmail string
	GuestPhone *string
}

func (s *BookingService) lookupRooms(ids []string) ([]models.Room, error) {
	if len(ids) == 0 {
		return nil, validationErrorf("at least one room is required")
	}
	rooms, err := s.rooms.GetRoomsByIDs(ids)
	if err != nil {
		return nil, err
	}
	if len(rooms) != len(ids) {
		return nil, validationErrorf("one or more rooms do not exist")
	}
	for _, room := range rooms {
		if !room.Bookable {
			return nil, validationErrorf("room %s is not bookable", room.Name)
		}
	}
	return rooms, nil
}

func (s *BookingService) lookupCommonRooms(ids []string) ([]models.CommonRoom, error) {
	if len(ids) == 0 {
		return nil, validationErrorf("at least one room is required")
	}
	rooms, err := s.commonRooms.GetCommonRoomsByIDs(ids)
	if err != nil {
		return nil, err
	}
	if len(rooms) != len(ids) {
		return nil, validationErrorf("one or more common rooms do not exist")
	}
	for _, room := range rooms {
		if !room.Bookable {
			return nil, validationErrorf("common room %s is not bookable", room.Name)
		}
	}
	return rooms, nil
}

// CreateRoomBooking validates and admits a guest candidate as pending.
// Admission checks availability against confirmed bookings only, and the
// quoted price is captured as an advisory snapshot.
func (s *BookingService) CreateRoomBooking(req RoomBookingRequest) (*models.RoomBooking, error) {
	start := models.DateOnly(req.StartDate)
	end := models.DateOnly(req.EndDate)
	if !start.Before(end) {
		return nil, validationErrorf("end date must be after start date")
	}
	if req.GuestName == "" || req.GuestEmail == "" {
		return nil, validationErrorf("guest name and email are required")
	}

	rooms, err := s.lookupRooms(req.RoomIDs)
	if err != nil {
		return nil, err
	}
	for _, room := range rooms {
		n := req.Occupancy[room.ID.String()]
		if n <= 0 {
			return nil, validationErrorf("occupancy for room %s must be at least 1", room.Name)
		}
		if n > room.Beds {
			return nil, validationErrorf("room %s sleeps %d, %d requested", room.Name, room.Beds, n)
		}
	}

	if err := s.availability.CheckRooms(req.RoomIDs, start, end, nil); err != nil {
		return nil, err
	}

	price, err := s.pricing.QuoteRooms(rooms, start, end)
	if err != nil {
		return nil, err
	}

	booking := &models.RoomBooking{
		StartDate:   start,
		EndDate:     end,
		RoomIDs:     models.UUIDArray(req.RoomIDs),
		Occupancy:   req.Occupancy,
		Status:      models.BookingStatusPending,
		GuestName:   req.GuestName,
		GuestEmail:  req.GuestEmail,
		GuestPhone:  req.GuestPhone,
		QuotedPrice: price,
	}
	if err := s.roomBookings.CreateRoomBooking(booking); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"rooms":      booking.RoomIDs,
		"start":      start.Format("2006-01-02"),
		"end":        end.Format("2006-01-02"),
		"price":      price,
	}).Info("Room booking admitted as pending")
	return booking, nil
}

// CreateCommonBooking validates and admits a shared-space candidate as
// pending. Headcounts are checked per room against capacity; pending
// candidates never consume capacity.
func (s *BookingService) CreateCommonBooking(req CommonBookingRequest) (*models.CommonRoomBooking, error) {
	if !req.StartTime.Before(req.EndTime) {
		return nil, validationErrorf("end time must be after start time")
	}
	if req.GuestName == "" || req.GuestEmail == "" {
		return nil, validationErrorf("guest name and email are required")
	}

	rooms, err := s.lookupCommonRooms(req.RoomIDs)
	if err != nil {
		return nil, err
	}
	for _, room := range rooms {
		n := req.Headcounts[room.ID.String()]
		if n <= 0 {
			return nil, validationErrorf("headcount for %s must be at least 1", room.Name)
		}
		if n > room.Capacity {
			return nil, validationErrorf("%s holds %d, %d requested", room.Name, room.Capacity, n)
		}
	}

	if err := s.capacity.CheckRooms(rooms, req.Headcounts, req.StartTime, req.EndTime, nil); err != nil {
		return nil, err
	}

	price := s.pricing.QuoteCommonRooms(rooms, req.StartTime, req.EndTime)

	booking := &models.CommonRoomBooking{
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		RoomIDs:     models.UUIDArray(req.RoomIDs),
		Headcounts:  req.Headcounts,
		Status:      models.BookingStatusPending,
		GuestName:   req.GuestName,
		GuestEmail:  req.GuestEmail,
		GuestPhone:  req.GuestPhone,
		QuotedPrice: price,
	}
	if err := s.commonBookings.CreateCommonBooking(booking); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"rooms":      booking.RoomIDs,
		"price":      price,
	}).Info("Common room booking admitted as pending")
	return booking, nil
}

// ConfirmRoomBooking promotes a pending booking to confirmed. The
// availability check reruns against everyone but the booking itself; a
// conflict leaves the booking pending so the admin can reject it or wait.
func (s *BookingService) ConfirmRoomBooking(id uuid.UUID) (*models.RoomBooking, error) {
	booking, err := s.roomBookings.GetRoomBookingByID(id)
	if err != nil {
		return nil, err
	}
	if booking == nil || booking.Status != models.BookingStatusPending {
		return nil, ErrNotFound
	}

	if err := s.availability.CheckRooms(booking.RoomIDs, booking.StartDate, booking.EndDate, &booking.ID); err != nil {
		return nil, err
	}

	ok, err := s.roomBookings.ConfirmRoomBooking(id)
	if err != nil {
		return nil, err
	}
	if !ok {
		// lost the race to a sweep or another admin
		return nil, conflictErrorf("booking %s changed state during confirmation", id)
	}

	booking.Status = models.BookingStatusConfirmed
	s.logger.WithField("booking_id", id).Info("Room booking confirmed")
	return booking, nil
}

// ConfirmCommonBooking promotes a pending shared-space booking, re-checking
// capacity without counting the booking itself.
func (s *BookingService) ConfirmCommonBooking(id uuid.UUID) (*models.CommonRoomBooking, error) {
	booking, err := s.commonBookings.GetCommonBookingByID(id)
	if err != nil {
		return nil, err
	}
	if booking == nil || booking.Status != models.BookingStatusPending {
		return nil, ErrNotFound
	}

	rooms, err := s.lookupCommonRoomsForConfirm(booking.RoomIDs)
	if err != nil {
		return nil, err
	}
	if err := s.capacity.CheckRooms(rooms, booking.Headcounts, booking.StartTime, booking.EndTime, &booking.ID); err != nil {
		return nil, err
	}

	ok, err := s.commonBookings.ConfirmCommonBooking(id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, conflictErrorf("booking %s changed state during confirmation", id)
	}

	booking.Status = models.BookingStatusConfirmed
	s.logger.WithField("booking_id", id).Info("Common room booking confirmed")
	return booking, nil
}

// lookupCommonRoomsForConfirm fetches rooms without the bookable gate:
// retiring a room keeps already-admitted candidates decidable.
func (s *BookingService) lookupCommonRoomsForConfirm(ids []string) ([]models.CommonRoom, error) {
	rooms, err := s.commonRooms.GetCommonRoomsByIDs(ids)
	if err != nil {
		return nil, err
	}
	if len(rooms) != len(ids) {
		return nil, validationErrorf("one or more common rooms no longer exist")
	}
	return rooms, nil
}

// RejectRoomBooking declines a pending booking.
func (s *BookingService) RejectRoomBooking(id uuid.UUID) error {
	ok, err := s.roomBookings.TransitionStatus(id, models.BookingStatusPending, models.BookingStatusRejected)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	s.logger.WithField("booking_id", id).Info("Room booking rejected")
	return nil
}

// RejectCommonBooking declines a pending shared-space booking.
func (s *BookingService) RejectCommonBooking(id uuid.UUID) error {
	ok, err := s.commonBookings.TransitionStatus(id, models.BookingStatusPending, models.BookingStatusRejected)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	s.logger.WithField("booking_id", id).Info("Common room booking rejected")
	return nil
}

// CancelRoomBooking withdraws a confirmed booking, releasing its rooms.
func (s *BookingService) CancelRoomBooking(id uuid.UUID) error {
	ok, err := s.roomBookings.TransitionStatus(id, models.BookingStatusConfirmed, models.BookingStatusCancelled)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	s.logger.WithField("booking_id", id).Info("Room booking cancelled")
	return nil
}

// CancelCommonBooking withdraws a confirmed shared-space booking.
func (s *BookingService) CancelCommonBooking(id uuid.UUID) error {
	ok, err := s.commonBookings.TransitionStatus(id, models.BookingStatusConfirmed, models.BookingStatusCancelled)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	s.logger.WithField("booking_id", id).Info("Common room booking cancelled")
	return nil
}

// BlockRooms creates a confirmed blanket hold on exclusive rooms, skipping
// the pending stage. The availability check still applies; an admin cannot
// block over an existing confirmed stay.
func (s *BookingService) BlockRooms(roomIDs []string, start, end time.Time, note string) (*models.RoomBooking, error) {
	start = models.DateOnly(start)
	end = models.DateOnly(end)
	if !start.Before(end) {
		return nil, validationErrorf("end date must be after start date")
	}

	rooms, err := s.lookupRooms(roomIDs)
	if err != nil {
		return nil, err
	}
	if err := s.availability.CheckRooms(roomIDs, start, end, nil); err != nil {
		return nil, err
	}

	occupancy := models.OccupancyMap{}
	for _, room := range rooms {
		occupancy[room.ID.String()] = room.Beds
	}

	if note == "" {
		note = "admin block"
	}
	booking := &models.RoomBooking{
		StartDate:   start,
		EndDate:     end,
		RoomIDs:     models.UUIDArray(roomIDs),
		Occupancy:   occupancy,
		Status:      models.BookingStatusConfirmed,
		GuestName:   note,
		GuestEmail:  "admin@internal",
		QuotedPrice: 0,
	}
	if err := s.roomBookings.CreateRoomBooking(booking); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"rooms":      booking.RoomIDs,
	}).Info("Rooms blocked")
	return booking, nil
}

// BlockCommonRooms creates a confirmed full-capacity hold on shared rooms
// over an arbitrary time range.
func (s *BookingService) BlockCommonRooms(roomIDs []string, start, end time.Time, note string) (*models.CommonRoomBooking, error) {
	if !start.Before(end) {
		return nil, validationErrorf("end time must be after start time")
	}

	rooms, err := s.lookupCommonRooms(roomIDs)
	if err != nil {
		return nil, err
	}

	headcounts := models.OccupancyMap{}
	for _, room := range rooms {
		headcounts[room.ID.String()] = room.Capacity
	}
	if err := s.capacity.CheckRooms(rooms, headcounts, start, end, nil); err != nil {
		return nil, err
	}

	if note == "" {
		note = "admin block"
	}
	booking := &models.CommonRoomBooking{
		StartTime:   start,
		EndTime:     end,
		RoomIDs:     models.UUIDArray(roomIDs),
		Headcounts:  headcounts,
		Status:      models.BookingStatusConfirmed,
		GuestName:   note,
		GuestEmail:  "admin@internal",
		QuotedPrice: 0,
	}
	if err := s.commonBookings.CreateCommonBooking(booking); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"rooms":      booking.RoomIDs,
	}).Info("Common rooms blocked")
	return booking, nil
}
