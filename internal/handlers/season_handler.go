package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/chataubeskydy/booking-backend/internal/database"
	"github.com/chataubeskydy/booking-backend/internal/models"
)

// SeasonHandler serves season pricing rules
type SeasonHandler struct {
	seasonRepo *database.SeasonRepository
	logger     *logrus.Logger
}

// NewSeasonHandler creates a new season handler
func NewSeasonHandler(seasonRepo *database.SeasonRepository, logger *logrus.Logger) *SeasonHandler {
	return &SeasonHandler{seasonRepo: seasonRepo, logger: logger}
}

// ListSeasons handles GET /api/v1/seasons
func (h *SeasonHandler) ListSeasons(c *gin.Context) {
	seasons, err := h.seasonRepo.ListSeasons()
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"seasons": seasons})
}

type seasonRequest struct {
	Name       string  `json:"name" binding:"required"`
	StartDate  string  `json:"start_date" binding:"required"`
	EndDate    string  `json:"end_date" binding:"required"`
	Kind       string  `json:"kind" binding:"required,oneof=percent flat"`
	Value      float64 `json:"value"`
	PriceGroup string  `json:"price_group"`
}

func (r *seasonRequest) toModel(season *models.SeasonRule) error {
	start, err := time.Parse("2006-01-02", r.StartDate)
	if err != nil {
		return err
	}
	end, err := time.Parse("2006-01-02", r.EndDate)
	if err != nil {
		return err
	}
	if !start.Before(end) {
		return errors.New("end_date must be after start_date")
	}

	season.Name = r.Name
	season.StartDate = models.DateOnly(start)
	season.EndDate = models.DateOnly(end)
	season.Kind = models.SeasonAdjustmentKind(r.Kind)
	season.Value = r.Value
	season.PriceGroup = r.PriceGroup
	return nil
}

// CreateSeason handles POST /api/v1/admin/seasons
func (h *SeasonHandler) CreateSeason(c *gin.Context) {
	var req seasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_failed", Message: err.Error()})
		return
	}

	var season models.SeasonRule
	if err := req.toModel(&season); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_failed", Message: err.Error()})
		return
	}
	if err := h.seasonRepo.CreateSeason(&season); err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	h.logger.WithField("season_id", season.ID).Info("Season created")
	c.JSON(http.StatusCreated, season)
}

// UpdateSeason handles PUT /api/v1/admin/seasons/:id
// Edits only affect future quotes; prices already stored on bookings stand.
func (h *SeasonHandler) UpdateSeason(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_failed", Message: "Invalid season id"})
		return
	}

	var req seasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_failed", Message: err.Error()})
		return
	}

	season := models.SeasonRule{ID: id}
	if err := req.toModel(&season); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_failed", Message: err.Error()})
		return
	}
	if err := h.seasonRepo.UpdateSeason(&season); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "not_found", Message: "Season not found"})
			return
		}
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, season)
}

// DeleteSeason handles DELETE /api/v1/admin/seasons/:id
func (h *SeasonHandler) DeleteSeason(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_failed", Message: "Invalid season id"})
		return
	}

	if err := h.seasonRepo.DeleteSeason(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "not_found", Message: "Season not found"})
			return
		}
		respondServiceError(c, h.logger, err)
		return
	}

	h.logger.WithField("season_id", id).Info("Season deleted")
	c.JSON(http.StatusOK, gin.H{"message": "Season deleted"})
}
