package database

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chataubeskydy/booking-backend/internal/models"
)

func setupBookingRepoTest(t *testing.T) (*RoomBookingRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRoomBookingRepository(sqlxDB)

	cleanup := func() {
		db.Close()
	}
	return repo, mock, cleanup
}

func TestCreateRoomBooking_DefaultsToPending(t *testing.T) {
	repo, mock, cleanup := setupBookingRepoTest(t)
	defer cleanup()

	mock.ExpectExec("INSERT INTO room_bookings").
		WillReturnResult(sqlmock.NewResult(1, 1))

	booking := &models.RoomBooking{
		StartDate:  time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 7, 4, 0, 0, 0, 0, time.UTC),
		RoomIDs:    models.UUIDArray{uuid.NewString()},
		Occupancy:  models.OccupancyMap{},
		GuestName:  "Jana Novak",
		GuestEmail: "jana@example.com",
	}
	err := repo.CreateRoomBooking(booking)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, booking.ID)
	assert.Equal(t, models.BookingStatusPending, booking.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRoomBookingByID_NotFound(t *testing.T) {
	repo, mock, cleanup := setupBookingRepoTest(t)
	defer cleanup()

	id := uuid.New()
	mock.ExpectQuery("SELECT (.+) FROM room_bookings WHERE id").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	booking, err := repo.GetRoomBookingByID(id)
	require.NoError(t, err)
	assert.Nil(t, booking)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionStatus_CompareAndSet(t *testing.T) {
	repo, mock, cleanup := setupBookingRepoTest(t)
	defer cleanup()

	id := uuid.New()

	mock.ExpectExec("UPDATE room_bookings SET status").
		WithArgs(id, models.BookingStatusPending, models.BookingStatusRejected).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.TransitionStatus(id, models.BookingStatusPending, models.BookingStatusRejected)
	require.NoError(t, err)
	assert.True(t, ok)

	// Second attempt matches zero rows: the booking already moved on.
	mock.ExpectExec("UPDATE room_bookings SET status").
		WithArgs(id, models.BookingStatusPending, models.BookingStatusRejected).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err = repo.TransitionStatus(id, models.BookingStatusPending, models.BookingStatusRejected)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmRoomBooking_ArchivesInSameTransaction(t *testing.T) {
	repo, mock, cleanup := setupBookingRepoTest(t)
	defer cleanup()

	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE room_bookings SET status = 'confirmed'").
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO booking_archive").
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	ok, err := repo.ConfirmRoomBooking(id)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmRoomBooking_RollsBackWhenNotPending(t *testing.T) {
	repo, mock, cleanup := setupBookingRepoTest(t)
	defer cleanup()

	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE room_bookings SET status = 'confirmed'").
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	ok, err := repo.ConfirmRoomBooking(id)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListExpiredPending(t *testing.T) {
	repo, mock, cleanup := setupBookingRepoTest(t)
	defer cleanup()

	cutoff := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "status", "created_at"}).
		AddRow(uuid.New(), "pending", cutoff.Add(-time.Hour))

	mock.ExpectQuery("SELECT (.+) FROM room_bookings").
		WithArgs(cutoff, 100).
		WillReturnRows(rows)

	bookings, err := repo.ListExpiredPending(cutoff, 100)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, models.BookingStatusPending, bookings[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArchivePastConfirmed(t *testing.T) {
	repo, mock, cleanup := setupBookingRepoTest(t)
	defer cleanup()

	cutoff := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO booking_archive").
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("DELETE FROM room_bookings").
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	purged, err := repo.ArchivePastConfirmed(cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(3), purged)
	assert.NoError(t, mock.ExpectationsWereMet())
}
