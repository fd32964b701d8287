package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/chataubeskydy/booking-backend/internal/database"
	"github.com/chataubeskydy/booking-backend/internal/models"
)

// CommonRoomHandler serves the shared-space catalog
type CommonRoomHandler struct {
	commonRoomRepo *database.CommonRoomRepository
	logger         *logrus.Logger
}

// NewCommonRoomHandler creates a new common room handler
func NewCommonRoomHandler(commonRoomRepo *database.CommonRoomRepository, logger *logrus.Logger) *CommonRoomHandler {
	return &CommonRoomHandler{commonRoomRepo: commonRoomRepo, logger: logger}
}

// ListCommonRooms handles GET /api/v1/common-rooms
func (h *CommonRoomHandler) ListCommonRooms(c *gin.Context) {
	onlyBookable := c.Query("all") != "true"
	rooms, err := h.commonRoomRepo.ListCommonRooms(onlyBookable)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"common_rooms": rooms})
}

type commonRoomRequest struct {
	Name              string  `json:"name" binding:"required"`
	Description       *string `json:"description"`
	Capacity          int     `json:"capacity" binding:"required,min=1"`
	BlockPrice        float64 `json:"block_price" binding:"min=0"`
	Bookable          *bool   `json:"bookable"`
	VisibleInCalendar *bool   `json:"visible_in_calendar"`
}

func (r *commonRoomRequest) apply(room *models.CommonRoom) {
	room.Name = r.Name
	room.Description = r.Description
	room.Capacity = r.Capacity
	room.BlockPrice = r.BlockPrice
	room.Bookable = true
	room.VisibleInCalendar = true
	if r.Bookable != nil {
		room.Bookable = *r.Bookable
	}
	if r.VisibleInCalendar != nil {
		room.VisibleInCalendar = *r.VisibleInCalendar
	}
}

// CreateCommonRoom handles POST /api/v1/admin/common-rooms
func (h *CommonRoomHandler) CreateCommonRoom(c *gin.Context) {
	var req commonRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_failed", Message: err.Error()})
		return
	}

	var room models.CommonRoom
	req.apply(&room)
	if err := h.commonRoomRepo.CreateCommonRoom(&room); err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	h.logger.WithField("common_room_id", room.ID).Info("Common room created")
	c.JSON(http.StatusCreated, room)
}

// UpdateCommonRoom handles PUT /api/v1/admin/common-rooms/:id
// Lowering capacity below current confirmed usage is allowed; existing
// bookings stand and the calendar clamps at 100%.
func (h *CommonRoomHandler) UpdateCommonRoom(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_failed", Message: "Invalid common room id"})
		return
	}

	var req commonRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_failed", Message: err.Error()})
		return
	}

	room := models.CommonRoom{ID: id}
	req.apply(&room)
	if err := h.commonRoomRepo.UpdateCommonRoom(&room); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "not_found", Message: "Common room not found"})
			return
		}
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

// RetireCommonRoom handles DELETE /api/v1/admin/common-rooms/:id
func (h *CommonRoomHandler) RetireCommonRoom(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_failed", Message: "Invalid common room id"})
		return
	}

	if err := h.commonRoomRepo.RetireCommonRoom(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "not_found", Message: "Common room not found"})
			return
		}
		respondServiceError(c, h.logger, err)
		return
	}

	h.logger.WithField("common_room_id", id).Info("Common room retired")
	c.JSON(http.StatusOK, gin.H{"message": "Common room retired"})
}
