package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/chataubeskydy/booking-backend/internal/models"
)

// SeasonRepository handles season rule database operations
type SeasonRepository struct {
	db *sqlx.DB
}

// NewSeasonRepository creates a new season repository
func NewSeasonRepository(db *sqlx.DB) *SeasonRepository {
	return &SeasonRepository{db: db}
}

const seasonColumns = `id, name, start_date, end_date, kind, value, price_group, created_at, updated_at`

// ListSeasons returns all season rules ordered by start date.
func (r *SeasonRepository) ListSeasons() ([]models.SeasonRule, error) {
	var seasons []models.SeasonRule
	query := `SELECT ` + seasonColumns + ` FROM seasons ORDER BY start_date ASC, name ASC`
	if err := r.db.Select(&seasons, query); err != nil {
		return nil, fmt.Errorf("failed to list seasons: %w", err)
	}
	return seasons, nil
}

// ListSeasonsOverlapping returns season rules whose half-open range
// intersects [start, end). Used by the pricing engine to avoid loading the
// whole table for a short stay.
func (r *SeasonRepository) ListSeasonsOverlapping(start, end time.Time) ([]models.SeasonRule, error) {
	var seasons []models.SeasonRule
	query := `
		SELECT ` + seasonColumns + `
		FROM seasons
		WHERE start_date < $2 AND end_date > $1
		ORDER BY start_date ASC
	`
	if err := r.db.Select(&seasons, query, start, end); err != nil {
		return nil, fmt.Errorf("failed to list seasons overlapping range: %w", err)
	}
	return seasons, nil
}

// GetSeasonByID returns a season rule by id, or nil when absent.
func (r *SeasonRepository) GetSeasonByID(id uuid.UUID) (*models.SeasonRule, error) {
	var season models.SeasonRule
	query := `SELECT ` + seasonColumns + ` FROM seasons WHERE id = $1`
	err := r.db.Get(&season, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get season %s: %w", id, err)
	}
	return &season, nil
}

// CreateSeason inserts a new season rule
func (r *SeasonRepository) CreateSeason(season *models.SeasonRule) error {
	season.ID = uuid.New()
	season.CreatedAt = time.Now()
	season.UpdatedAt = season.CreatedAt

	query := `
		INSERT INTO seasons (id, name, start_date, end_date, kind, value, price_group, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(query,
		season.ID, season.Name, season.StartDate, season.EndDate,
		season.Kind, season.Value, season.PriceGroup,
		season.CreatedAt, season.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create season: %w", err)
	}
	return nil
}

// UpdateSeason updates an existing season rule
func (r *SeasonRepository) UpdateSeason(season *models.SeasonRule) error {
	season.UpdatedAt = time.Now()

	query := `
		UPDATE seasons
		SET name = $2, start_date = $3, end_date = $4, kind = $5, value = $6, price_group = $7, updated_at = $8
		WHERE id = $1
	`
	result, err := r.db.Exec(query,
		season.ID, season.Name, season.StartDate, season.EndDate,
		season.Kind, season.Value, season.PriceGroup, season.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update season %s: %w", season.ID, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteSeason removes a season rule
func (r *SeasonRepository) DeleteSeason(id uuid.UUID) error {
	result, err := r.db.Exec(`DELETE FROM seasons WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete season %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
