package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/chataubeskydy/booking-backend/internal/models"
)

// CommonBookingRepository handles common room booking database operations.
// Mirrors RoomBookingRepository, at timestamp rather than day granularity.
type CommonBookingRepository struct {
	db *sqlx.DB
}

// NewCommonBookingRepository creates a new common booking repository
func NewCommonBookingRepository(db *sqlx.DB) *CommonBookingRepository {
	return &CommonBookingRepository{db: db}
}

const commonBookingColumns = `id, start_time, end_time, room_ids, headcounts, status, guest_name, guest_email, guest_phone, quoted_price, created_at, updated_at`

// CreateCommonBooking inserts a booking. The caller sets Status.
func (r *CommonBookingRepository) CreateCommonBooking(b *models.CommonRoomBooking) error {
	b.ID = uuid.New()
	if b.Status == "" {
		b.Status = models.BookingStatusPending
	}
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt

	query := `
		INSERT INTO common_room_bookings (id, start_time, end_time, room_ids, headcounts, status, guest_name, guest_email, guest_phone, quoted_price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.Exec(query,
		b.ID, b.StartTime, b.EndTime, b.RoomIDs, b.Headcounts, b.Status,
		b.GuestName, b.GuestEmail, b.GuestPhone, b.QuotedPrice,
		b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create common room booking: %w", err)
	}
	return nil
}

// GetCommonBookingByID returns a booking by id, or nil when absent.
func (r *CommonBookingRepository) GetCommonBookingByID(id uuid.UUID) (*models.CommonRoomBooking, error) {
	var b models.CommonRoomBooking
	query := `SELECT ` + commonBookingColumns + ` FROM common_room_bookings WHERE id = $1`
	err := r.db.Get(&b, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get common room booking %s: %w", id, err)
	}
	return &b, nil
}

// ListCommonBookingsByStatus returns bookings in the given state, newest
// first.
func (r *CommonBookingRepository) ListCommonBookingsByStatus(status models.BookingStatus) ([]models.CommonRoomBooking, error) {
	var bookings []models.CommonRoomBooking
	query := `SELECT ` + commonBookingColumns + ` FROM common_room_bookings WHERE status = $1 ORDER BY created_at DESC`
	if err := r.db.Select(&bookings, query, status); err != nil {
		return nil, fmt.Errorf("failed to list common room bookings by status %s: %w", status, err)
	}
	return bookings, nil
}

// ListConfirmedForRooms returns all confirmed bookings touching any of the
// given common rooms.
func (r *CommonBookingRepository) ListConfirmedForRooms(roomIDs []string) ([]models.CommonRoomBooking, error) {
	if len(roomIDs) == 0 {
		return nil, nil
	}

	var bookings []models.CommonRoomBooking
	query := `
		SELECT ` + commonBookingColumns + `
		FROM common_room_bookings
		WHERE status = 'confirmed' AND room_ids && $1
		ORDER BY start_time ASC
	`
	if err := r.db.Select(&bookings, query, models.UUIDArray(roomIDs)); err != nil {
		return nil, fmt.Errorf("failed to list confirmed bookings for common rooms: %w", err)
	}
	return bookings, nil
}

// ListConfirmedOverlapping returns confirmed bookings whose time range
// intersects [start, end).
func (r *CommonBookingRepository) ListConfirmedOverlapping(start, end time.Time) ([]models.CommonRoomBooking, error) {
	var bookings []models.CommonRoomBooking
	query := `
		SELECT ` + commonBookingColumns + `
		FROM common_room_bookings
		WHERE status = 'confirmed' AND start_time < $2 AND end_time > $1
		ORDER BY start_time ASC
	`
	if err := r.db.Select(&bookings, query, start, end); err != nil {
		return nil, fmt.Errorf("failed to list confirmed common bookings overlapping range: %w", err)
	}
	return bookings, nil
}

// ListExpiredPending returns pending bookings created at or before cutoff.
func (r *CommonBookingRepository) ListExpiredPending(cutoff time.Time, limit int) ([]models.CommonRoomBooking, error) {
	var bookings []models.CommonRoomBooking
	query := `
		SELECT ` + commonBookingColumns + `
		FROM common_room_bookings
		WHERE status = 'pending' AND created_at <= $1
		ORDER BY created_at ASC
		LIMIT $2
	`
	if err := r.db.Select(&bookings, query, cutoff, limit); err != nil {
		return nil, fmt.Errorf("failed to list expired pending common bookings: %w", err)
	}
	return bookings, nil
}

// TransitionStatus moves a booking from one status to another. Returns false
// when the booking is missing or no longer in the expected state.
func (r *CommonBookingRepository) TransitionStatus(id uuid.UUID, from, to models.BookingStatus) (bool, error) {
	query := `UPDATE common_room_bookings SET status = $3, updated_at = NOW() WHERE id = $1 AND status = $2`
	result, err := r.db.Exec(query, id, from, to)
	if err != nil {
		return false, fmt.Errorf("failed to transition common booking %s %s->%s: %w", id, from, to, err)
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

// ConfirmCommonBooking transitions pending->confirmed and appends the
// booking to the archive in the same transaction.
func (r *CommonBookingRepository) ConfirmCommonBooking(id uuid.UUID) (bool, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`UPDATE common_room_bookings SET status = 'confirmed', updated_at = NOW() WHERE id = $1 AND status = 'pending'`,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to confirm common booking %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return false, nil
	}

	_, err = tx.Exec(`
		INSERT INTO booking_archive (id, pool, booking_id, payload, reason, recorded_at)
		SELECT gen_random_uuid(), 'common', id, to_jsonb(common_room_bookings.*), 'confirmed', NOW()
		FROM common_room_bookings WHERE id = $1
	`, id)
	if err != nil {
		return false, fmt.Errorf("failed to archive confirmed common booking %s: %w", id, err)
	}

	if err = tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

// ArchivePastConfirmed moves confirmed bookings that ended at or before
// cutoff into the archive and out of the active set.
func (r *CommonBookingRepository) ArchivePastConfirmed(cutoff time.Time) (int64, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO booking_archive (id, pool, booking_id, payload, reason, recorded_at)
		SELECT gen_random_uuid(), 'common', id, to_jsonb(common_room_bookings.*), 'retention', NOW()
		FROM common_room_bookings
		WHERE status = 'confirmed' AND end_time <= $1
	`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to archive past common bookings: %w", err)
	}

	result, err := tx.Exec(
		`DELETE FROM common_room_bookings WHERE status = 'confirmed' AND end_time <= $1`,
		cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to purge past common bookings: %w", err)
	}
	purged, _ := result.RowsAffected()

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return purged, nil
}
