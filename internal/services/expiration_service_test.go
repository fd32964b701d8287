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

type sweepRoomStore struct {
	bookings map[uuid.UUID]*models.RoomBooking
}

func (f *sweepRoomStore) ListExpiredPending(cutoff time.Time, limit int) ([]models.RoomBooking, error) {
	var out []models.RoomBooking
	for _, b := range f.bookings {
		if b.Status == models.BookingStatusPending && !b.CreatedAt.After(cutoff) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *sweepRoomStore) TransitionStatus(id uuid.UUID, from, to models.BookingStatus) (bool, error) {
	b, ok := f.bookings[id]
	if !ok || b.Status != from {
		return false, nil
	}
	b.Status = to
	return true, nil
}

type sweepCommonStore struct {
	bookings map[uuid.UUID]*models.CommonRoomBooking
}

func (f *sweepCommonStore) ListExpiredPending(cutoff time.Time, limit int) ([]models.CommonRoomBooking, error) {
	var out []models.CommonRoomBooking
	for _, b := range f.bookings {
		if b.Status == models.BookingStatusPending && !b.CreatedAt.After(cutoff) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *sweepCommonStore) TransitionStatus(id uuid.UUID, from, to models.BookingStatus) (bool, error) {
	b, ok := f.bookings[id]
	if !ok || b.Status != from {
		return false, nil
	}
	b.Status = to
	return true, nil
}

func setupSweepTest(t *testing.T, now time.Time, timeout time.Duration) (*ExpirationService, *sweepRoomStore, *sweepCommonStore) {
	t.Helper()

	roomStore := &sweepRoomStore{bookings: make(map[uuid.UUID]*models.RoomBooking)}
	commonStore := &sweepCommonStore{bookings: make(map[uuid.UUID]*models.CommonRoomBooking)}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	svc := NewExpirationService(roomStore, commonStore, time.Minute, timeout, logger)
	svc.now = func() time.Time { return now }
	return svc, roomStore, commonStore
}

func pendingRoomBookingAt(created time.Time) *models.RoomBooking {
	return &models.RoomBooking{
		ID:        uuid.New(),
		Status:    models.BookingStatusPending,
		CreatedAt: created,
	}
}

func TestRunOnce_ExpiresOnlyPastTimeout(t *testing.T) {
	t0 := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	svc, roomStore, _ := setupSweepTest(t, t0, 30*time.Minute)

	fresh := pendingRoomBookingAt(t0.Add(-29 * time.Minute))
	stale := pendingRoomBookingAt(t0.Add(-31 * time.Minute))
	roomStore.bookings[fresh.ID] = fresh
	roomStore.bookings[stale.ID] = stale

	svc.RunOnce()

	assert.Equal(t, models.BookingStatusPending, roomStore.bookings[fresh.ID].Status)
	assert.Equal(t, models.BookingStatusExpired, roomStore.bookings[stale.ID].Status)
}

func TestRunOnce_SweepsBothPools(t *testing.T) {
	t0 := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	svc, roomStore, commonStore := setupSweepTest(t, t0, 30*time.Minute)

	staleRoom := pendingRoomBookingAt(t0.Add(-time.Hour))
	roomStore.bookings[staleRoom.ID] = staleRoom

	staleCommon := &models.CommonRoomBooking{
		ID:        uuid.New(),
		Status:    models.BookingStatusPending,
		CreatedAt: t0.Add(-time.Hour),
	}
	commonStore.bookings[staleCommon.ID] = staleCommon

	svc.RunOnce()

	assert.Equal(t, models.BookingStatusExpired, roomStore.bookings[staleRoom.ID].Status)
	assert.Equal(t, models.BookingStatusExpired, commonStore.bookings[staleCommon.ID].Status)
}

func TestRunOnce_SkipsConfirmed(t *testing.T) {
	// A booking confirmed between the list and the CAS must survive the sweep.
	t0 := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	svc, roomStore, _ := setupSweepTest(t, t0, 30*time.Minute)

	confirmed := pendingRoomBookingAt(t0.Add(-time.Hour))
	confirmed.Status = models.BookingStatusConfirmed
	roomStore.bookings[confirmed.ID] = confirmed

	svc.RunOnce()

	assert.Equal(t, models.BookingStatusConfirmed, roomStore.bookings[confirmed.ID].Status)
}

func TestStats(t *testing.T) {
	t0 := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	svc, roomStore, _ := setupSweepTest(t, t0, 30*time.Minute)

	stale := pendingRoomBookingAt(t0.Add(-time.Hour))
	roomStore.bookings[stale.ID] = stale

	svc.RunOnce()

	stats := svc.Stats()
	assert.Equal(t, 1, stats["last_sweep_count"])
	assert.Equal(t, int64(1), stats["total_swept"])
	require.Contains(t, stats, "last_run")
	assert.Equal(t, 30, stats["timeout_minutes"])
}
