package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/chataubeskydy/booking-backend/internal/database"
	"github.com/chataubeskydy/booking-backend/internal/models"
	"github.com/chataubeskydy/booking-backend/internal/services"
)

// AdminHandler handles the admin booking surface: lifecycle decisions,
// blanket blocks, and background job controls.
type AdminHandler struct {
	bookingService    *services.BookingService
	expirationService *services.ExpirationService
	cronService       *services.CronService
	roomBookings      *database.RoomBookingRepository
	commonBookings    *database.CommonBookingRepository
	logger            *logrus.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(
	bookingService *services.BookingService,
	expirationService *services.ExpirationService,
	cronService *services.CronService,
	roomBookings *database.RoomBookingRepository,
	commonBookings *database.CommonBookingRepository,
	logger *logrus.Logger,
) *AdminHandler {
	return &AdminHandler{
		bookingService:    bookingService,
		expirationService: expirationService,
		cronService:       cronService,
		roomBookings:      roomBookings,
		commonBookings:    commonBookings,
		logger:            logger,
	}
}

func parseBookingID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_failed", Message: "Invalid booking id"})
		return uuid.Nil, false
	}
	return id, true
}

// ConfirmRoomBooking handles POST /api/v1/admin/bookings/rooms/:id/confirm
func (h *AdminHandler) ConfirmRoomBooking(c *gin.Context) {
	id, ok := parseBookingID(c)
	if !ok {
		return
	}

	booking, err := h.bookingService.ConfirmRoomBooking(id)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// RejectRoomBooking handles POST /api/v1/admin/bookings/rooms/:id/reject
func (h *AdminHandler) RejectRoomBooking(c *gin.Context) {
	id, ok := parseBookingID(c)
	if !ok {
		return
	}

	if err := h.bookingService.RejectRoomBooking(id); err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking rejected"})
}

// CancelRoomBooking handles POST /api/v1/admin/bookings/rooms/:id/cancel
func (h *AdminHandler) CancelRoomBooking(c *gin.Context) {
	id, ok := parseBookingID(c)
	if !ok {
		return
	}

	if err := h.bookingService.CancelRoomBooking(id); err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking cancelled"})
}

// ConfirmCommonBooking handles POST /api/v1/admin/bookings/common/:id/confirm
func (h *AdminHandler) ConfirmCommonBooking(c *gin.Context) {
	id, ok := parseBookingID(c)
	if !ok {
		return
	}

	booking, err := h.bookingService.ConfirmCommonBooking(id)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// RejectCommonBooking handles POST /api/v1/admin/bookings/common/:id/reject
func (h *AdminHandler) RejectCommonBooking(c *gin.Context) {
	id, ok := parseBookingID(c)
	if !ok {
		return
	}

	if err := h.bookingService.RejectCommonBooking(id); err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking rejected"})
}

// CancelCommonBooking handles POST /api/v1/admin/bookings/common/:id/cancel
func (h *AdminHandler) CancelCommonBooking(c *gin.Context) {
	id, ok := parseBookingID(c)
	if !ok {
		return
	}

	if err := h.bookingService.CancelCommonBooking(id); err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking cancelled"})
}

type blockRoomsRequest struct {
	StartDate string   `json:"start_date" binding:"required"`
	EndDate   string   `json:"end_date" binding:"required"`
	RoomIDs   []string `json:"room_ids" binding:"required"`
	Note      string   `json:"note"`
}

// BlockRooms handles POST /api/v1/admin/block/rooms: a confirmed hold that
// skips the pending stage.
func (h *AdminHandler) BlockRooms(c *gin.Context) {
	var req blockRoomsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_failed", Message: err.Error()})
		return
	}

	start, err := time.Parse(dateFormat, req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_failed", Message: "start_date must be YYYY-MM-DD"})
		return
	}
	end, err := time.Parse(dateFormat, req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_failed", Message: "end_date must be YYYY-MM-DD"})
		return
	}

	booking, err := h.bookingService.BlockRooms(req.RoomIDs, start, end, req.Note)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

type blockCommonRoomsRequest struct {
	StartTime string   `json:"start_time" binding:"required"`
	EndTime   string   `json:"end_time" binding:"required"`
	RoomIDs   []string `json:"room_ids" binding:"required"`
	Note      string   `json:"note"`
}

// BlockCommonRooms handles POST /api/v1/admin/block/common
func (h *AdminHandler) BlockCommonRooms(c *gin.Context) {
	var req blockCommonRoomsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_failed", Message: err.Error()})
		return
	}

	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_failed", Message: "start_time must be RFC3339"})
		return
	}
	end, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_failed", Message: "end_time must be RFC3339"})
		return
	}

	booking, err := h.bookingService.BlockCommonRooms(req.RoomIDs, start, end, req.Note)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

// parseAdminStatus accepts any lifecycle state; the admin dashboard also
// browses terminal bookings.
func parseAdminStatus(c *gin.Context) (models.BookingStatus, bool) {
	status := models.BookingStatus(c.DefaultQuery("status", "pending"))
	switch status {
	case models.BookingStatusPending, models.BookingStatusConfirmed,
		models.BookingStatusRejected, models.BookingStatusExpired, models.BookingStatusCancelled:
		return status, true
	}
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_failed", Message: "unknown status"})
	return "", false
}

// ListRoomBookings handles GET /api/v1/admin/bookings/rooms?status=
func (h *AdminHandler) ListRoomBookings(c *gin.Context) {
	status, ok := parseAdminStatus(c)
	if !ok {
		return
	}

	bookings, err := h.roomBookings.ListRoomBookingsByStatus(status)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// ListCommonBookings handles GET /api/v1/admin/bookings/common?status=
func (h *AdminHandler) ListCommonBookings(c *gin.Context) {
	status, ok := parseAdminStatus(c)
	if !ok {
		return
	}

	bookings, err := h.commonBookings.ListCommonBookingsByStatus(status)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// SweepStatus handles GET /api/v1/admin/sweep
func (h *AdminHandler) SweepStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.expirationService.Stats())
}

// RunSweep handles POST /api/v1/admin/sweep/run: a manual expiry pass.
func (h *AdminHandler) RunSweep(c *gin.Context) {
	h.expirationService.RunOnce()
	c.JSON(http.StatusOK, h.expirationService.Stats())
}

// RunRetention handles POST /api/v1/admin/retention/run: a manual archive
// purge.
func (h *AdminHandler) RunRetention(c *gin.Context) {
	h.cronService.RunRetentionNow()
	c.JSON(http.StatusOK, gin.H{"message": "Retention purge triggered"})
}
