package services

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/chataubeskydy/booking-backend/internal/models"
)

const expirationBatchSize = 100

// pendingRoomBookingSource is the sweep's view of the exclusive pool.
type pendingRoomBookingSource interface {
	ListExpiredPending(cutoff time.Time, limit int) ([]models.RoomBooking, error)
	TransitionStatus(id uuid.UUID, from, to models.BookingStatus) (bool, error)
}

// pendingCommonBookingSource is the sweep's view of the shared pool.
type pendingCommonBookingSource interface {
	ListExpiredPending(cutoff time.Time, limit int) ([]models.CommonRoomBooking, error)
	TransitionStatus(id uuid.UUID, from, to models.BookingStatus) (bool, error)
}

// ExpirationService handles background expiration of stale pending bookings.
// Every transition is compare-and-set on pending, so an admin confirming or
// rejecting a booking mid-sweep wins and the sweep skips it.
type ExpirationService struct {
	roomBookings   pendingRoomBookingSource
	commonBookings pendingCommonBookingSource
	logger         *logrus.Logger
	stopCh         chan struct{}
	interval       time.Duration
	timeout        time.Duration

	now func() time.Time

	mu         sync.Mutex
	lastRun    time.Time
	lastSweep  int
	totalSwept int64
}

// NewExpirationService creates a new expiration service
func NewExpirationService(
	roomBookings pendingRoomBookingSource,
	commonBookings pendingCommonBookingSource,
	interval, timeout time.Duration,
	logger *logrus.Logger,
) *ExpirationService {
	return &ExpirationService{
		roomBookings:   roomBookings,
		commonBookings: commonBookings,
		logger:         logger,
		stopCh:         make(chan struct{}),
		interval:       interval,
		timeout:        timeout,
		now:            time.Now,
	}
}

// Start begins the background expiration job
func (s *ExpirationService) Start() {
	s.logger.WithFields(logrus.Fields{
		"interval": s.interval.String(),
		"timeout":  s.timeout.String(),
	}).Info("Starting booking expiration service")
	go s.run()
}

// Stop stops the background expiration job
func (s *ExpirationService) Stop() {
	s.logger.Info("Stopping booking expiration service")
	close(s.stopCh)
}

func (s *ExpirationService) run() {
	// Run immediately on start
	s.processExpired()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.processExpired()
		case <-s.stopCh:
			s.logger.Info("Booking expiration service stopped")
			return
		}
	}
}

// processExpired sweeps both pools for pending bookings past the timeout.
func (s *ExpirationService) processExpired() {
	cutoff := s.now().Add(-s.timeout)
	swept := 0

	roomBookings, err := s.roomBookings.ListExpiredPending(cutoff, expirationBatchSize)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list expired pending room bookings")
	} else {
		for i := range roomBookings {
			b := &roomBookings[i]
			ok, err := s.roomBookings.TransitionStatus(b.ID, models.BookingStatusPending, models.BookingStatusExpired)
			if err != nil {
				s.logger.WithError(err).WithField("booking_id", b.ID).Error("Failed to expire room booking")
				continue
			}
			if ok {
				swept++
				s.logger.WithField("booking_id", b.ID).Info("Room booking expired")
			}
		}
	}

	commonBookings, err := s.commonBookings.ListExpiredPending(cutoff, expirationBatchSize)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list expired pending common bookings")
	} else {
		for i := range commonBookings {
			b := &commonBookings[i]
			ok, err := s.commonBookings.TransitionStatus(b.ID, models.BookingStatusPending, models.BookingStatusExpired)
			if err != nil {
				s.logger.WithError(err).WithField("booking_id", b.ID).Error("Failed to expire common booking")
				continue
			}
			if ok {
				swept++
				s.logger.WithField("booking_id", b.ID).Info("Common room booking expired")
			}
		}
	}

	s.mu.Lock()
	s.lastRun = s.now()
	s.lastSweep = swept
	s.totalSwept += int64(swept)
	s.mu.Unlock()

	if swept > 0 {
		s.logger.WithField("count", swept).Info("Expired stale pending bookings")
	}
}

// RunOnce runs a single expiration cycle (manual trigger or tests).
func (s *ExpirationService) RunOnce() {
	s.processExpired()
}

// Stats reports the sweep's recent activity for the admin dashboard.
func (s *ExpirationService) Stats() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := map[string]interface{}{
		"interval_seconds": int(s.interval.Seconds()),
		"timeout_minutes":  int(s.timeout.Minutes()),
		"last_sweep_count": s.lastSweep,
		"total_swept":      s.totalSwept,
	}
	if !s.lastRun.IsZero() {
		stats["last_run"] = s.lastRun.UTC().Format(time.RFC3339)
	}
	return stats
}
