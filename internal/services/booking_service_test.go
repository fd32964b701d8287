package services

import (
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chataubeskydy/booking-backend/internal/models"
)

// In-memory stores standing in for the repositories. Confirmed bookings are
// whatever the test seeds plus whatever the lifecycle confirms.

type fakeRoomCatalog struct {
	rooms map[string]models.Room
}

func (f *fakeRoomCatalog) GetRoomsByIDs(ids []string) ([]models.Room, error) {
	var out []models.Room
	for _, id := range ids {
		if room, ok := f.rooms[id]; ok {
			out = append(out, room)
		}
	}
	return out, nil
}

type fakeCommonCatalog struct {
	rooms map[string]models.CommonRoom
}

func (f *fakeCommonCatalog) GetCommonRoomsByIDs(ids []string) ([]models.CommonRoom, error) {
	var out []models.CommonRoom
	for _, id := range ids {
		if room, ok := f.rooms[id]; ok {
			out = append(out, room)
		}
	}
	return out, nil
}

type fakeRoomBookingStore struct {
	bookings map[uuid.UUID]*models.RoomBooking
}

func newFakeRoomBookingStore() *fakeRoomBookingStore {
	return &fakeRoomBookingStore{bookings: make(map[uuid.UUID]*models.RoomBooking)}
}

func (f *fakeRoomBookingStore) CreateRoomBooking(b *models.RoomBooking) error {
	b.ID = uuid.New()
	if b.Status == "" {
		b.Status = models.BookingStatusPending
	}
	b.CreatedAt = time.Now()
	copied := *b
	f.bookings[b.ID] = &copied
	return nil
}

func (f *fakeRoomBookingStore) GetRoomBookingByID(id uuid.UUID) (*models.RoomBooking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, nil
	}
	copied := *b
	return &copied, nil
}

func (f *fakeRoomBookingStore) TransitionStatus(id uuid.UUID, from, to models.BookingStatus) (bool, error) {
	b, ok := f.bookings[id]
	if !ok || b.Status != from {
		return false, nil
	}
	b.Status = to
	return true, nil
}

func (f *fakeRoomBookingStore) ConfirmRoomBooking(id uuid.UUID) (bool, error) {
	return f.TransitionStatus(id, models.BookingStatusPending, models.BookingStatusConfirmed)
}

func (f *fakeRoomBookingStore) ListConfirmedForRooms(roomIDs []string) ([]models.RoomBooking, error) {
	var out []models.RoomBooking
	for _, b := range f.bookings {
		if b.Status == models.BookingStatusConfirmed {
			out = append(out, *b)
		}
	}
	return out, nil
}

type fakeCommonBookingStore struct {
	bookings map[uuid.UUID]*models.CommonRoomBooking
}

func newFakeCommonBookingStore() *fakeCommonBookingStore {
	return &fakeCommonBookingStore{bookings: make(map[uuid.UUID]*models.CommonRoomBooking)}
}

func (f *fakeCommonBookingStore) CreateCommonBooking(b *models.CommonRoomBooking) error {
	b.ID = uuid.New()
	if b.Status == "" {
		b.Status = models.BookingStatusPending
	}
	b.CreatedAt = time.Now()
	copied := *b
	f.bookings[b.ID] = &copied
	return nil
}

func (f *fakeCommonBookingStore) GetCommonBookingByID(id uuid.UUID) (*models.CommonRoomBooking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, nil
	}
	copied := *b
	return &copied, nil
}

func (f *fakeCommonBookingStore) TransitionStatus(id uuid.UUID, from, to models.BookingStatus) (bool, error) {
	b, ok := f.bookings[id]
	if !ok || b.Status != from {
		return false, nil
	}
	b.Status = to
	return true, nil
}

func (f *fakeCommonBookingStore) ConfirmCommonBooking(id uuid.UUID) (bool, error) {
	return f.TransitionStatus(id, models.BookingStatusPending, models.BookingStatusConfirmed)
}

func (f *fakeCommonBookingStore) ListConfirmedForRooms(roomIDs []string) ([]models.CommonRoomBooking, error) {
	var out []models.CommonRoomBooking
	for _, b := range f.bookings {
		if b.Status == models.BookingStatusConfirmed {
			out = append(out, *b)
		}
	}
	return out, nil
}

type lifecycleFixture struct {
	svc         *BookingService
	roomStore   *fakeRoomBookingStore
	commonStore *fakeCommonBookingStore
	room        models.Room
	commonRoom  models.CommonRoom
}

func setupLifecycleTest(t *testing.T) *lifecycleFixture {
	t.Helper()

	room := models.Room{ID: uuid.New(), Name: "Alpine", Beds: 2, BasePrice: 1000, Bookable: true, VisibleInCalendar: true}
	commonRoom := models.CommonRoom{ID: uuid.New(), Name: "Sauna", Capacity: 10, BlockPrice: 500, Bookable: true, VisibleInCalendar: true}

	roomStore := newFakeRoomBookingStore()
	commonStore := newFakeCommonBookingStore()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	svc := NewBookingService(
		&fakeRoomCatalog{rooms: map[string]models.Room{room.ID.String(): room}},
		&fakeCommonCatalog{rooms: map[string]models.CommonRoom{commonRoom.ID.String(): commonRoom}},
		roomStore,
		commonStore,
		NewAvailabilityService(roomStore),
		NewCapacityService(commonStore),
		NewPricingService(&fakeSeasonSource{}),
		logger,
	)

	return &lifecycleFixture{
		svc:         svc,
		roomStore:   roomStore,
		commonStore: commonStore,
		room:        room,
		commonRoom:  commonRoom,
	}
}

func (f *lifecycleFixture) roomRequest(start, end time.Time) RoomBookingRequest {
	return RoomBookingRequest{
		StartDate:  start,
		EndDate:    end,
		RoomIDs:    []string{f.room.ID.String()},
		Occupancy:  models.OccupancyMap{f.room.ID.String(): 2},
		GuestName:  "Jana Novak",
		GuestEmail: "jana@example.com",
	}
}

func TestCreateRoomBooking_AdmitsPending(t *testing.T) {
	f := setupLifecycleTest(t)

	booking, err := f.svc.CreateRoomBooking(f.roomRequest(day(2026, 7, 1), day(2026, 7, 4)))
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPending, booking.Status)
	assert.Equal(t, 3000.0, booking.QuotedPrice)
}

func TestCreateRoomBooking_RejectsInvertedRange(t *testing.T) {
	f := setupLifecycleTest(t)

	_, err := f.svc.CreateRoomBooking(f.roomRequest(day(2026, 7, 4), day(2026, 7, 1)))
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestCreateRoomBooking_RejectsOverOccupancy(t *testing.T) {
	f := setupLifecycleTest(t)

	req := f.roomRequest(day(2026, 7, 1), day(2026, 7, 4))
	req.Occupancy = models.OccupancyMap{f.room.ID.String(): 3}

	_, err := f.svc.CreateRoomBooking(req)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestCreateRoomBooking_RejectsUnknownRoom(t *testing.T) {
	f := setupLifecycleTest(t)

	req := f.roomRequest(day(2026, 7, 1), day(2026, 7, 4))
	req.RoomIDs = []string{uuid.NewString()}

	_, err := f.svc.CreateRoomBooking(req)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestCreateRoomBooking_PendingDoNotBlockEachOther(t *testing.T) {
	f := setupLifecycleTest(t)

	_, err := f.svc.CreateRoomBooking(f.roomRequest(day(2026, 7, 1), day(2026, 7, 4)))
	require.NoError(t, err)

	// Same rooms, same dates: still admitted, only confirmed bookings block.
	_, err = f.svc.CreateRoomBooking(f.roomRequest(day(2026, 7, 1), day(2026, 7, 4)))
	assert.NoError(t, err)
}

func TestCreateRoomBooking_ConflictsWithConfirmed(t *testing.T) {
	f := setupLifecycleTest(t)

	first, err := f.svc.CreateRoomBooking(f.roomRequest(day(2026, 7, 1), day(2026, 7, 4)))
	require.NoError(t, err)
	_, err = f.svc.ConfirmRoomBooking(first.ID)
	require.NoError(t, err)

	_, err = f.svc.CreateRoomBooking(f.roomRequest(day(2026, 7, 3), day(2026, 7, 6)))
	require.Error(t, err)
	assert.True(t, IsConflict(err))
}

func TestConfirmRoomBooking_LoserStaysPending(t *testing.T) {
	f := setupLifecycleTest(t)

	first, err := f.svc.CreateRoomBooking(f.roomRequest(day(2026, 7, 1), day(2026, 7, 4)))
	require.NoError(t, err)
	second, err := f.svc.CreateRoomBooking(f.roomRequest(day(2026, 7, 1), day(2026, 7, 4)))
	require.NoError(t, err)

	_, err = f.svc.ConfirmRoomBooking(first.ID)
	require.NoError(t, err)

	_, err = f.svc.ConfirmRoomBooking(second.ID)
	require.Error(t, err)
	assert.True(t, IsConflict(err))

	// The loser is still pending, not silently rejected.
	stored, err := f.roomStore.GetRoomBookingByID(second.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPending, stored.Status)
}

func TestConfirmRoomBooking_NotFoundOnTerminal(t *testing.T) {
	f := setupLifecycleTest(t)

	booking, err := f.svc.CreateRoomBooking(f.roomRequest(day(2026, 7, 1), day(2026, 7, 4)))
	require.NoError(t, err)
	require.NoError(t, f.svc.RejectRoomBooking(booking.ID))

	_, err = f.svc.ConfirmRoomBooking(booking.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.ConfirmRoomBooking(uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCancelRoomBooking_OnlyConfirmed(t *testing.T) {
	f := setupLifecycleTest(t)

	booking, err := f.svc.CreateRoomBooking(f.roomRequest(day(2026, 7, 1), day(2026, 7, 4)))
	require.NoError(t, err)

	// Pending bookings cannot be cancelled, only rejected.
	assert.ErrorIs(t, f.svc.CancelRoomBooking(booking.ID), ErrNotFound)

	_, err = f.svc.ConfirmRoomBooking(booking.ID)
	require.NoError(t, err)
	require.NoError(t, f.svc.CancelRoomBooking(booking.ID))

	// Cancelled is terminal.
	assert.ErrorIs(t, f.svc.CancelRoomBooking(booking.ID), ErrNotFound)
}

func TestCancelRoomBooking_ReleasesRooms(t *testing.T) {
	f := setupLifecycleTest(t)

	booking, err := f.svc.CreateRoomBooking(f.roomRequest(day(2026, 7, 1), day(2026, 7, 4)))
	require.NoError(t, err)
	_, err = f.svc.ConfirmRoomBooking(booking.ID)
	require.NoError(t, err)
	require.NoError(t, f.svc.CancelRoomBooking(booking.ID))

	next, err := f.svc.CreateRoomBooking(f.roomRequest(day(2026, 7, 1), day(2026, 7, 4)))
	require.NoError(t, err)
	_, err = f.svc.ConfirmRoomBooking(next.ID)
	assert.NoError(t, err)
}

func (f *lifecycleFixture) commonRequest(start, end time.Time, headcount int) CommonBookingRequest {
	return CommonBookingRequest{
		StartTime:  start,
		EndTime:    end,
		RoomIDs:    []string{f.commonRoom.ID.String()},
		Headcounts: models.OccupancyMap{f.commonRoom.ID.String(): headcount},
		GuestName:  "Petr Svoboda",
		GuestEmail: "petr@example.com",
	}
}

func TestCommonBookingLifecycle(t *testing.T) {
	f := setupLifecycleTest(t)
	start, end := models.HalfDayAt(day(2026, 7, 1), true)

	booking, err := f.svc.CreateCommonBooking(f.commonRequest(start, end, 6))
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPending, booking.Status)
	assert.Equal(t, 500.0, booking.QuotedPrice)

	confirmed, err := f.svc.ConfirmCommonBooking(booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, confirmed.Status)

	// 6 of 10 seats taken: 5 more do not fit, 4 do.
	over, err := f.svc.CreateCommonBooking(f.commonRequest(start, end, 5))
	assert.Nil(t, over)
	require.Error(t, err)
	assert.True(t, IsConflict(err))

	_, err = f.svc.CreateCommonBooking(f.commonRequest(start, end, 4))
	assert.NoError(t, err)
}

func TestCreateCommonBooking_RejectsHeadcountOverCapacity(t *testing.T) {
	f := setupLifecycleTest(t)
	start, end := models.HalfDayAt(day(2026, 7, 1), false)

	_, err := f.svc.CreateCommonBooking(f.commonRequest(start, end, 11))
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	_, err = f.svc.CreateCommonBooking(f.commonRequest(start, end, 0))
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestBlockRooms_SkipsPending(t *testing.T) {
	f := setupLifecycleTest(t)

	block, err := f.svc.BlockRooms([]string{f.room.ID.String()}, day(2026, 7, 10), day(2026, 7, 12), "maintenance")
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, block.Status)
	assert.Equal(t, 0.0, block.QuotedPrice)

	// The block holds the room like any confirmed stay.
	_, err = f.svc.CreateRoomBooking(f.roomRequest(day(2026, 7, 11), day(2026, 7, 13)))
	require.Error(t, err)
	assert.True(t, IsConflict(err))
}

func TestBlockCommonRooms_HoldsFullCapacity(t *testing.T) {
	f := setupLifecycleTest(t)
	start, end := models.HalfDayAt(day(2026, 7, 10), false)

	block, err := f.svc.BlockCommonRooms([]string{f.commonRoom.ID.String()}, start, end, "cleaning")
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, block.Status)
	assert.Equal(t, f.commonRoom.Capacity, block.Headcounts[f.commonRoom.ID.String()])

	_, err = f.svc.CreateCommonBooking(f.commonRequest(start, end, 1))
	require.Error(t, err)
	assert.True(t, IsConflict(err))
}
