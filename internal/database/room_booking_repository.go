package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/chataubeskydy/booking-backend/internal/models"
)

// RoomBookingRepository handles room booking database operations.
// All lifecycle transitions are compare-and-set on status so the expiry
// sweep and admin actions can race safely: whoever loses the race affects
// zero rows and reports it.
type RoomBookingRepository struct {
	db *sqlx.DB
}

// NewRoomBookingRepository creates a new room booking repository
func NewRoomBookingRepository(db *sqlx.DB) *RoomBookingRepository {
	return &RoomBookingRepository{db: db}
}

const roomBookingColumns = `id, start_date, end_date, room_ids, occupancy, status, guest_name, guest_email, guest_phone, quoted_price, created_at, updated_at`

// CreateRoomBooking inserts a booking. The caller sets Status (pending for
// guest candidates, confirmed for admin blocks); everything else is filled
// here.
func (r *RoomBookingRepository) CreateRoomBooking(b *models.RoomBooking) error {
	b.ID = uuid.New()
	if b.Status == "" {
		b.Status = models.BookingStatusPending
	}
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt

	query := `
		INSERT INTO room_bookings (id, start_date, end_date, room_ids, occupancy, status, guest_name, guest_email, guest_phone, quoted_price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.Exec(query,
		b.ID, b.StartDate, b.EndDate, b.RoomIDs, b.Occupancy, b.Status,
		b.GuestName, b.GuestEmail, b.GuestPhone, b.QuotedPrice,
		b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create room booking: %w", err)
	}
	return nil
}

// GetRoomBookingByID returns a booking by id, or nil when absent.
func (r *RoomBookingRepository) GetRoomBookingByID(id uuid.UUID) (*models.RoomBooking, error) {
	var b models.RoomBooking
	query := `SELECT ` + roomBookingColumns + ` FROM room_bookings WHERE id = $1`
	err := r.db.Get(&b, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get room booking %s: %w", id, err)
	}
	return &b, nil
}

// ListRoomBookingsByStatus returns bookings in the given state, newest first.
func (r *RoomBookingRepository) ListRoomBookingsByStatus(status models.BookingStatus) ([]models.RoomBooking, error) {
	var bookings []models.RoomBooking
	query := `SELECT ` + roomBookingColumns + ` FROM room_bookings WHERE status = $1 ORDER BY created_at DESC`
	if err := r.db.Select(&bookings, query, status); err != nil {
		return nil, fmt.Errorf("failed to list room bookings by status %s: %w", status, err)
	}
	return bookings, nil
}

// ListConfirmedForRooms returns all confirmed bookings touching any of the
// given rooms. The availability check applies the half-open overlap test on
// top of this set.
func (r *RoomBookingRepository) ListConfirmedForRooms(roomIDs []string) ([]models.RoomBooking, error) {
	if len(roomIDs) == 0 {
		return nil, nil
	}

	var bookings []models.RoomBooking
	query := `
		SELECT ` + roomBookingColumns + `
		FROM room_bookings
		WHERE status = 'confirmed' AND room_ids && $1
		ORDER BY start_date ASC
	`
	if err := r.db.Select(&bookings, query, models.UUIDArray(roomIDs)); err != nil {
		return nil, fmt.Errorf("failed to list confirmed bookings for rooms: %w", err)
	}
	return bookings, nil
}

// ListConfirmedOverlapping returns confirmed bookings whose date range
// intersects [start, end). Feeds the occupancy reporter.
func (r *RoomBookingRepository) ListConfirmedOverlapping(start, end time.Time) ([]models.RoomBooking, error) {
	var bookings []models.RoomBooking
	query := `
		SELECT ` + roomBookingColumns + `
		FROM room_bookings
		WHERE status = 'confirmed' AND start_date < $2 AND end_date > $1
		ORDER BY start_date ASC
	`
	if err := r.db.Select(&bookings, query, start, end); err != nil {
		return nil, fmt.Errorf("failed to list confirmed bookings overlapping range: %w", err)
	}
	return bookings, nil
}

// ListExpiredPending returns pending bookings created at or before cutoff,
// oldest first, capped at limit.
func (r *RoomBookingRepository) ListExpiredPending(cutoff time.Time, limit int) ([]models.RoomBooking, error) {
	var bookings []models.RoomBooking
	query := `
		SELECT ` + roomBookingColumns + `
		FROM room_bookings
		WHERE status = 'pending' AND created_at <= $1
		ORDER BY created_at ASC
		LIMIT $2
	`
	if err := r.db.Select(&bookings, query, cutoff, limit); err != nil {
		return nil, fmt.Errorf("failed to list expired pending room bookings: %w", err)
	}
	return bookings, nil
}

// TransitionStatus moves a booking from one status to another. Returns false
// when the booking is missing or no longer in the expected state.
func (r *RoomBookingRepository) TransitionStatus(id uuid.UUID, from, to models.BookingStatus) (bool, error) {
	query := `UPDATE room_bookings SET status = $3, updated_at = NOW() WHERE id = $1 AND status = $2`
	result, err := r.db.Exec(query, id, from, to)
	if err != nil {
		return false, fmt.Errorf("failed to transition room booking %s %s->%s: %w", id, from, to, err)
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

// ConfirmRoomBooking transitions pending->confirmed and appends the booking
// to the archive in the same transaction. Returns false when the booking was
// not pending anymore.
func (r *RoomBookingRepository) ConfirmRoomBooking(id uuid.UUID) (bool, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`UPDATE room_bookings SET status = 'confirmed', updated_at = NOW() WHERE id = $1 AND status = 'pending'`,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to confirm room booking %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return false, nil
	}

	_, err = tx.Exec(`
		INSERT INTO booking_archive (id, pool, booking_id, payload, reason, recorded_at)
		SELECT gen_random_uuid(), 'rooms', id, to_jsonb(room_bookings.*), 'confirmed', NOW()
		FROM room_bookings WHERE id = $1
	`, id)
	if err != nil {
		return false, fmt.Errorf("failed to archive confirmed room booking %s: %w", id, err)
	}

	if err = tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

// ArchivePastConfirmed moves confirmed bookings that ended at or before
// cutoff out of the active set and into the archive. Returns the number of
// bookings purged.
func (r *RoomBookingRepository) ArchivePastConfirmed(cutoff time.Time) (int64, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO booking_archive (id, pool, booking_id, payload, reason, recorded_at)
		SELECT gen_random_uuid(), 'rooms', id, to_jsonb(room_bookings.*), 'retention', NOW()
		FROM room_bookings
		WHERE status = 'confirmed' AND end_date <= $1
	`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to archive past room bookings: %w", err)
	}

	result, err := tx.Exec(
		`DELETE FROM room_bookings WHERE status = 'confirmed' AND end_date <= $1`,
		cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to purge past room bookings: %w", err)
	}
	purged, _ := result.RowsAffected()

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return purged, nil
}
