package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/chataubeskydy/booking-backend/internal/database"
	"github.com/chataubeskydy/booking-backend/internal/models"
	"github.com/chataubeskydy/booking-backend/internal/services"
)

// BookingHandler handles guest-facing booking requests: candidate creation
// for both pools, price quotes, and the busy-data listings the booking
// wizard renders.
type BookingHandler struct {
	bookingService *services.BookingService
	pricingService *services.PricingService
	roomRepo       *database.RoomRepository
	roomBookings   *database.RoomBookingRepository
	commonBookings *database.CommonBookingRepository
	logger         *logrus.Logger
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(
	bookingService *services.BookingService,
	pricingService *services.PricingService,
	roomRepo *database.RoomRepository,
	roomBookings *database.RoomBookingRepository,
	commonBookings *database.CommonBookingRepository,
	logger *logrus.Logger,
) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		pricingService: pricingService,
		roomRepo:       roomRepo,
		roomBookings:   roomBookings,
		commonBookings: commonBookings,
		logger:         logger,
	}
}

const dateFormat = "2006-01-02"

type createRoomBookingRequest struct {
	StartDate  string         `json:"start_date" binding:"required"`
	EndDate    string         `json:"end_date" binding:"required"`
	RoomIDs    []string       `json:"room_ids" binding:"required"`
	Occupancy  map[string]int `json:"occupancy" binding:"required"`
	GuestName  string         `json:"guest_name" binding:"required"`
	GuestEmail string         `json:"guest_email" binding:"required,email"`
	GuestPhone *string        `json:"guest_phone"`
}

// CreateRoomBooking handles POST /api/v1/bookings/rooms
func (h *BookingHandler) CreateRoomBooking(c *gin.Context) {
	var req createRoomBookingRequest
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

	booking, err := h.bookingService.CreateRoomBooking(services.RoomBookingRequest{
		StartDate:  start,
		EndDate:    end,
		RoomIDs:    req.RoomIDs,
		Occupancy:  req.Occupancy,
		GuestName:  req.GuestName,
		GuestEmail: req.GuestEmail,
		GuestPhone: req.GuestPhone,
	})
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

type createCommonBookingRequest struct {
	// Either a date with half-day slots, or explicit RFC3339 timestamps.
	Date      string `json:"date"`
	Morning   bool   `json:"morning"`
	Afternoon bool   `json:"afternoon"`

	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`

	RoomIDs    []string       `json:"room_ids" binding:"required"`
	Headcounts map[string]int `json:"headcounts" binding:"required"`
	GuestName  string         `json:"guest_name" binding:"required"`
	GuestEmail string         `json:"guest_email" binding:"required,email"`
	GuestPhone *string        `json:"guest_phone"`
}

func (r *createCommonBookingRequest) timeRange() (time.Time, time.Time, error) {
	if r.Date != "" {
		d, err := time.Parse(dateFormat, r.Date)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		switch {
		case r.Morning && r.Afternoon:
			start, _ := models.HalfDayAt(d, false)
			_, end := models.HalfDayAt(d, true)
			return start, end, nil
		case r.Afternoon:
			start, end := models.HalfDayAt(d, true)
			return start, end, nil
		default:
			start, end := models.HalfDayAt(d, false)
			return start, end, nil
		}
	}

	start, err := time.Parse(time.RFC3339, r.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := time.Parse(time.RFC3339, r.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// CreateCommonBooking handles POST /api/v1/bookings/common
func (h *BookingHandler) CreateCommonBooking(c *gin.Context) {
	var req createCommonBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_failed", Message: err.Error()})
		return
	}

	start, end, err := req.timeRange()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_failed", Message: "invalid time range"})
		return
	}

	booking, err := h.bookingService.CreateCommonBooking(services.CommonBookingRequest{
		StartTime:  start,
		EndTime:    end,
		RoomIDs:    req.RoomIDs,
		Headcounts: req.Headcounts,
		GuestName:  req.GuestName,
		GuestEmail: req.GuestEmail,
		GuestPhone: req.GuestPhone,
	})
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

// parseListStatus restricts public listings to the states the booking
// wizard needs. Terminal states stay admin-only.
func parseListStatus(c *gin.Context) (models.BookingStatus, bool) {
	status := models.BookingStatus(c.DefaultQuery("status", "confirmed"))
	if status != models.BookingStatusPending && status != models.BookingStatusConfirmed {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_failed",
			Message: "status must be pending or confirmed",
		})
		return "", false
	}
	return status, true
}

// ListRoomBookings handles GET /api/v1/bookings/rooms?status=
func (h *BookingHandler) ListRoomBookings(c *gin.Context) {
	status, ok := parseListStatus(c)
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

// ListCommonBookings handles GET /api/v1/bookings/common?status=
func (h *BookingHandler) ListCommonBookings(c *gin.Context) {
	status, ok := parseListStatus(c)
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

type quoteRequest struct {
	StartDate string   `json:"start_date" binding:"required"`
	EndDate   string   `json:"end_date" binding:"required"`
	RoomIDs   []string `json:"room_ids" binding:"required"`
}

// Quote handles POST /api/v1/quote: prices a prospective stay without
// creating anything.
func (h *BookingHandler) Quote(c *gin.Context) {
	var req quoteRequest
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

	rooms, err := h.roomRepo.GetRoomsByIDs(req.RoomIDs)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	if len(rooms) != len(req.RoomIDs) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_failed", Message: "one or more rooms do not exist"})
		return
	}

	price, err := h.pricingService.QuoteRooms(rooms, start, end)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":  price,
		"nights": models.NightsBetween(models.DateOnly(start), models.DateOnly(end)),
	})
}
