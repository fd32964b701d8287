package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/chataubeskydy/booking-backend/internal/models"
	"github.com/chataubeskydy/booking-backend/internal/services"
)

// OccupancyHandler serves the calendar aggregation endpoints
type OccupancyHandler struct {
	occupancyService *services.OccupancyService
	logger           *logrus.Logger
}

// NewOccupancyHandler creates a new occupancy handler
func NewOccupancyHandler(occupancyService *services.OccupancyService, logger *logrus.Logger) *OccupancyHandler {
	return &OccupancyHandler{occupancyService: occupancyService, logger: logger}
}

// parseRange reads from/to query params; defaults to the next 30 days.
func parseRange(c *gin.Context) (time.Time, time.Time, bool) {
	from := models.DateOnly(time.Now())
	to := from.AddDate(0, 0, 30)

	if v := c.Query("from"); v != "" {
		parsed, err := time.Parse(dateFormat, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_failed", Message: "from must be YYYY-MM-DD"})
			return time.Time{}, time.Time{}, false
		}
		from = models.DateOnly(parsed)
		to = from.AddDate(0, 0, 30)
	}
	if v := c.Query("to"); v != "" {
		parsed, err := time.Parse(dateFormat, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_failed", Message: "to must be YYYY-MM-DD"})
			return time.Time{}, time.Time{}, false
		}
		to = models.DateOnly(parsed)
	}

	if !from.Before(to) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_failed", Message: "to must be after from"})
		return time.Time{}, time.Time{}, false
	}
	// Cap the window so a bad query cannot walk years of calendar.
	if to.Sub(from) > 366*24*time.Hour {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_failed", Message: "range must not exceed one year"})
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

// GetOccupancy handles GET /api/v1/occupancy?pool=rooms|common&from=&to=
func (h *OccupancyHandler) GetOccupancy(c *gin.Context) {
	from, to, ok := parseRange(c)
	if !ok {
		return
	}

	pool := models.Pool(c.DefaultQuery("pool", string(models.PoolRooms)))

	var occupancy map[string]int
	var err error
	switch pool {
	case models.PoolRooms:
		occupancy, err = h.occupancyService.RoomOccupancyByDay(from, to)
	case models.PoolCommon:
		occupancy, err = h.occupancyService.CommonOccupancyByDay(from, to)
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_failed", Message: "pool must be rooms or common"})
		return
	}
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pool":      pool,
		"from":      from.Format(dateFormat),
		"to":        to.Format(dateFormat),
		"occupancy": occupancy,
	})
}

// GetHalfDayOccupancy handles GET /api/v1/occupancy/half-day?from=&to=
// Rooms pool only: the half-day grid drives the arrival/departure calendar.
func (h *OccupancyHandler) GetHalfDayOccupancy(c *gin.Context) {
	from, to, ok := parseRange(c)
	if !ok {
		return
	}

	slots, err := h.occupancyService.RoomOccupancyByHalfDay(from, to)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"from":  from.Format(dateFormat),
		"to":    to.Format(dateFormat),
		"slots": slots,
	})
}
