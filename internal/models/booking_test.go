package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(day int) time.Time {
	return time.Date(2026, 7, day, 0, 0, 0, 0, time.UTC)
}

func TestRangesOverlap(t *testing.T) {
	// Touching half-open ranges do not overlap.
	assert.False(t, RangesOverlap(d(1), d(4), d(4), d(6)))
	assert.False(t, RangesOverlap(d(4), d(6), d(1), d(4)))

	assert.True(t, RangesOverlap(d(1), d(4), d(3), d(6)))
	assert.True(t, RangesOverlap(d(1), d(10), d(3), d(4)))
	assert.False(t, RangesOverlap(d(1), d(2), d(5), d(6)))
}

func TestNightsBetween(t *testing.T) {
	assert.Equal(t, 3, NightsBetween(d(1), d(4)))
	assert.Equal(t, 0, NightsBetween(d(4), d(4)))
	assert.Equal(t, 0, NightsBetween(d(4), d(1)))
}

func TestDateOnly(t *testing.T) {
	noonish := time.Date(2026, 7, 3, 14, 25, 11, 0, time.UTC)
	assert.Equal(t, d(3), DateOnly(noonish))
}

func TestHalfDayAt(t *testing.T) {
	start, end := HalfDayAt(d(3), false)
	assert.Equal(t, d(3), start)
	assert.Equal(t, d(3).Add(12*time.Hour), end)

	start, end = HalfDayAt(d(3), true)
	assert.Equal(t, d(3).Add(12*time.Hour), start)
	assert.Equal(t, d(4), end)
}

func TestBookingStatusIsTerminal(t *testing.T) {
	assert.False(t, BookingStatusPending.IsTerminal())
	assert.False(t, BookingStatusConfirmed.IsTerminal())
	assert.True(t, BookingStatusRejected.IsTerminal())
	assert.True(t, BookingStatusExpired.IsTerminal())
	assert.True(t, BookingStatusCancelled.IsTerminal())
}

func TestRoomBookingCoversNight(t *testing.T) {
	b := RoomBooking{StartDate: d(1), EndDate: d(4)}

	assert.True(t, b.CoversNight(d(1)))
	assert.True(t, b.CoversNight(d(3)))
	// The guest checks out on the morning of EndDate.
	assert.False(t, b.CoversNight(d(4)))
	assert.False(t, b.CoversNight(d(0)))
}

func TestOccupancyMapRoundTrip(t *testing.T) {
	id := uuid.NewString()
	m := OccupancyMap{id: 3}

	value, err := m.Value()
	require.NoError(t, err)

	var scanned OccupancyMap
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, 3, scanned[id])
	assert.Equal(t, 3, scanned.Total())
}

func TestOccupancyMapScanNil(t *testing.T) {
	var m OccupancyMap
	require.NoError(t, m.Scan(nil))
	assert.Equal(t, 0, m.Total())
}

func TestUUIDArrayContains(t *testing.T) {
	a, b := uuid.NewString(), uuid.NewString()
	arr := UUIDArray{a}

	assert.True(t, arr.Contains(a))
	assert.False(t, arr.Contains(b))
}

func TestCommonRoomBookingHeadcountFor(t *testing.T) {
	roomID := uuid.New()
	b := CommonRoomBooking{
		Headcounts: OccupancyMap{roomID.String(): 5},
	}

	assert.Equal(t, 5, b.HeadcountFor(roomID))
	assert.Equal(t, 0, b.HeadcountFor(uuid.New()))
}
