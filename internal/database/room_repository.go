package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/chataubeskydy/booking-backend/internal/models"
)

// RoomRepository handles bedroom catalog database operations
type RoomRepository struct {
	db *sqlx.DB
}

// NewRoomRepository creates a new room repository
func NewRoomRepository(db *sqlx.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

const roomColumns = `id, name, description, beds, base_price, price_group, bookable, visible_in_calendar, created_at, updated_at`

// ListRooms returns the room catalog. With onlyBookable set, rooms closed
// for new reservations are filtered out.
func (r *RoomRepository) ListRooms(onlyBookable bool) ([]models.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms ORDER BY name ASC`
	if onlyBookable {
		query = `SELECT ` + roomColumns + ` FROM rooms WHERE bookable = TRUE ORDER BY name ASC`
	}

	var rooms []models.Room
	if err := r.db.Select(&rooms, query); err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

// ListVisibleRooms returns rooms that participate in calendar aggregation.
func (r *RoomRepository) ListVisibleRooms() ([]models.Room, error) {
	var rooms []models.Room
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE visible_in_calendar = TRUE ORDER BY name ASC`
	if err := r.db.Select(&rooms, query); err != nil {
		return nil, fmt.Errorf("failed to list visible rooms: %w", err)
	}
	return rooms, nil
}

// GetRoomByID returns a room by id, or nil when it does not exist.
func (r *RoomRepository) GetRoomByID(id uuid.UUID) (*models.Room, error) {
	var room models.Room
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE id = $1`
	err := r.db.Get(&room, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get room %s: %w", id, err)
	}
	return &room, nil
}

// GetRoomsByIDs returns the rooms matching the given ids. Missing ids are
// simply absent from the result; the caller decides whether that is an error.
func (r *RoomRepository) GetRoomsByIDs(ids []string) ([]models.Room, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`SELECT `+roomColumns+` FROM rooms WHERE id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build room query: %w", err)
	}
	query = r.db.Rebind(query)

	var rooms []models.Room
	if err := r.db.Select(&rooms, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get rooms: %w", err)
	}
	return rooms, nil
}

// CreateRoom inserts a new room
func (r *RoomRepository) CreateRoom(room *models.Room) error {
	room.ID = uuid.New()
	room.CreatedAt = time.Now()
	room.UpdatedAt = room.CreatedAt

	query := `
		INSERT INTO rooms (id, name, description, beds, base_price, price_group, bookable, visible_in_calendar, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.Exec(query,
		room.ID, room.Name, room.Description, room.Beds, room.BasePrice,
		room.PriceGroup, room.Bookable, room.VisibleInCalendar,
		room.CreatedAt, room.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}
	return nil
}

// UpdateRoom updates an existing room
func (r *RoomRepository) UpdateRoom(room *models.Room) error {
	room.UpdatedAt = time.Now()

	query := `
		UPDATE rooms
		SET name = $2, description = $3, beds = $4, base_price = $5,
		    price_group = $6, bookable = $7, visible_in_calendar = $8, updated_at = $9
		WHERE id = $1
	`
	result, err := r.db.Exec(query,
		room.ID, room.Name, room.Description, room.Beds, room.BasePrice,
		room.PriceGroup, room.Bookable, room.VisibleInCalendar, room.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update room %s: %w", room.ID, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// RetireRoom closes a room for new bookings and hides it from the calendar.
// Existing bookings keep their history; rows are never deleted.
func (r *RoomRepository) RetireRoom(id uuid.UUID) error {
	query := `UPDATE rooms SET bookable = FALSE, visible_in_calendar = FALSE, updated_at = NOW() WHERE id = $1`
	result, err := r.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to retire room %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
