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

// RoomHandler serves the bedroom catalog: public listing plus admin CRUD
type RoomHandler struct {
	roomRepo *database.RoomRepository
	logger   *logrus.Logger
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(roomRepo *database.RoomRepository, logger *logrus.Logger) *RoomHandler {
	return &RoomHandler{roomRepo: roomRepo, logger: logger}
}

// ListRooms handles GET /api/v1/rooms
// Public callers see bookable rooms only; admins pass ?all=true.
func (h *RoomHandler) ListRooms(c *gin.Context) {
	onlyBookable := c.Query("all") != "true"
	rooms, err := h.roomRepo.ListRooms(onlyBookable)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}

// GetRoom handles GET /api/v1/rooms/:id
func (h *RoomHandler) GetRoom(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_failed", Message: "Invalid room id"})
		return
	}

	room, err := h.roomRepo.GetRoomByID(id)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	if room == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "not_found", Message: "Room not found"})
		return
	}
	c.JSON(http.StatusOK, room)
}

type roomRequest struct {
	Name              string  `json:"name" binding:"required"`
	Description       *string `json:"description"`
	Beds              int     `json:"beds" binding:"required,min=1"`
	BasePrice         float64 `json:"base_price" binding:"min=0"`
	PriceGroup        string  `json:"price_group"`
	Bookable          *bool   `json:"bookable"`
	VisibleInCalendar *bool   `json:"visible_in_calendar"`
}

func (r *roomRequest) apply(room *models.Room) {
	room.Name = r.Name
	room.Description = r.Description
	room.Beds = r.Beds
	room.BasePrice = r.BasePrice
	room.PriceGroup = r.PriceGroup
	room.Bookable = true
	room.VisibleInCalendar = true
	if r.Bookable != nil {
		room.Bookable = *r.Bookable
	}
	if r.VisibleInCalendar != nil {
		room.VisibleInCalendar = *r.VisibleInCalendar
	}
}

// CreateRoom handles POST /api/v1/admin/rooms
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var req roomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_failed", Message: err.Error()})
		return
	}

	var room models.Room
	req.apply(&room)
	if err := h.roomRepo.CreateRoom(&room); err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	h.logger.WithField("room_id", room.ID).Info("Room created")
	c.JSON(http.StatusCreated, room)
}

// UpdateRoom handles PUT /api/v1/admin/rooms/:id
func (h *RoomHandler) UpdateRoom(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_failed", Message: "Invalid room id"})
		return
	}

	var req roomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_failed", Message: err.Error()})
		return
	}

	room := models.Room{ID: id}
	req.apply(&room)
	if err := h.roomRepo.UpdateRoom(&room); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "not_found", Message: "Room not found"})
			return
		}
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

// RetireRoom handles DELETE /api/v1/admin/rooms/:id
// Rooms are never hard-deleted; history keeps pointing at them.
func (h *RoomHandler) RetireRoom(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_failed", Message: "Invalid room id"})
		return
	}

	if err := h.roomRepo.RetireRoom(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "not_found", Message: "Room not found"})
			return
		}
		respondServiceError(c, h.logger, err)
		return
	}

	h.logger.WithField("room_id", id).Info("Room retired")
	c.JSON(http.StatusOK, gin.H{"message": "Room retired"})
}
