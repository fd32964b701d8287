package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/chataubeskydy/booking-backend/internal/models"
)

// CommonRoomRepository handles shared-space catalog database operations
type CommonRoomRepository struct {
	db *sqlx.DB
}

// NewCommonRoomRepository creates a new common room repository
func NewCommonRoomRepository(db *sqlx.DB) *CommonRoomRepository {
	return &CommonRoomRepository{db: db}
}

const commonRoomColumns = `id, name, description, capacity, block_price, bookable, visible_in_calendar, created_at, updated_at`

// ListCommonRooms returns the common room catalog.
func (r *CommonRoomRepository) ListCommonRooms(onlyBookable bool) ([]models.CommonRoom, error) {
	query := `SELECT ` + commonRoomColumns + ` FROM common_rooms ORDER BY name ASC`
	if onlyBookable {
		query = `SELECT ` + commonRoomColumns + ` FROM common_rooms WHERE bookable = TRUE ORDER BY name ASC`
	}

	var rooms []models.CommonRoom
	if err := r.db.Select(&rooms, query); err != nil {
		return nil, fmt.Errorf("failed to list common rooms: %w", err)
	}
	return rooms, nil
}

// ListVisibleCommonRooms returns common rooms included in calendar
// aggregation.
func (r *CommonRoomRepository) ListVisibleCommonRooms() ([]models.CommonRoom, error) {
	var rooms []models.CommonRoom
	query := `SELECT ` + commonRoomColumns + ` FROM common_rooms WHERE visible_in_calendar = TRUE ORDER BY name ASC`
	if err := r.db.Select(&rooms, query); err != nil {
		return nil, fmt.Errorf("failed to list visible common rooms: %w", err)
	}
	return rooms, nil
}

// GetCommonRoomByID returns a common room by id, or nil when absent.
func (r *CommonRoomRepository) GetCommonRoomByID(id uuid.UUID) (*models.CommonRoom, error) {
	var room models.CommonRoom
	query := `SELECT ` + commonRoomColumns + ` FROM common_rooms WHERE id = $1`
	err := r.db.Get(&room, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get common room %s: %w", id, err)
	}
	return &room, nil
}

// GetCommonRoomsByIDs returns the common rooms matching the given ids.
func (r *CommonRoomRepository) GetCommonRoomsByIDs(ids []string) ([]models.CommonRoom, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`SELECT `+commonRoomColumns+` FROM common_rooms WHERE id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build common room query: %w", err)
	}
	query = r.db.Rebind(query)

	var rooms []models.CommonRoom
	if err := r.db.Select(&rooms, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get common rooms: %w", err)
	}
	return rooms, nil
}

// CreateCommonRoom inserts a new common room
func (r *CommonRoomRepository) CreateCommonRoom(room *models.CommonRoom) error {
	room.ID = uuid.New()
	room.CreatedAt = time.Now()
	room.UpdatedAt = room.CreatedAt

	query := `
		INSERT INTO common_rooms (id, name, description, capacity, block_price, bookable, visible_in_calendar, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(query,
		room.ID, room.Name, room.Description, room.Capacity, room.BlockPrice,
		room.Bookable, room.VisibleInCalendar, room.CreatedAt, room.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create common room: %w", err)
	}
	return nil
}

// UpdateCommonRoom updates an existing common room
func (r *CommonRoomRepository) UpdateCommonRoom(room *models.CommonRoom) error {
	room.UpdatedAt = time.Now()

	query := `
		UPDATE common_rooms
		SET name = $2, description = $3, capacity = $4, block_price = $5,
		    bookable = $6, visible_in_calendar = $7, updated_at = $8
		WHERE id = $1
	`
	result, err := r.db.Exec(query,
		room.ID, room.Name, room.Description, room.Capacity, room.BlockPrice,
		room.Bookable, room.VisibleInCalendar, room.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update common room %s: %w", room.ID, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// RetireCommonRoom closes a common room for new bookings.
func (r *CommonRoomRepository) RetireCommonRoom(id uuid.UUID) error {
	query := `UPDATE common_rooms SET bookable = FALSE, visible_in_calendar = FALSE, updated_at = NOW() WHERE id = $1`
	result, err := r.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to retire common room %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
