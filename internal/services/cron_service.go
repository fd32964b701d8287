package services

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// bookingArchiver moves finished confirmed bookings into the archive.
type bookingArchiver interface {
	ArchivePastConfirmed(cutoff time.Time) (int64, error)
}

// CronService manages scheduled background jobs
type CronService struct {
	cron           *cron.Cron
	roomBookings   bookingArchiver
	commonBookings bookingArchiver
	retention      time.Duration
	logger         *logrus.Logger

	now func() time.Time
}

// NewCronService creates a new CronService
func NewCronService(
	roomBookings bookingArchiver,
	commonBookings bookingArchiver,
	retention time.Duration,
	logger *logrus.Logger,
) *CronService {
	c := cron.New(cron.WithSeconds())

	return &CronService{
		cron:           c,
		roomBookings:   roomBookings,
		commonBookings: commonBookings,
		retention:      retention,
		logger:         logger,
		now:            time.Now,
	}
}

// Start starts all cron jobs
func (s *CronService) Start() error {
	s.logger.Info("Starting cron service")

	// Retention purge hourly on the hour.
	// Cron format: second minute hour day month weekday
	_, err := s.cron.AddFunc("0 0 * * * *", s.retentionJob)
	if err != nil {
		return fmt.Errorf("failed to schedule retention job: %w", err)
	}
	s.logger.WithField("retention", s.retention.String()).Info("Scheduled: archive finished bookings (hourly)")

	s.cron.Start()
	s.logger.Info("Cron service started")
	return nil
}

// Stop stops all cron jobs
func (s *CronService) Stop() {
	s.logger.Info("Stopping cron service")
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Cron service stopped")
}

// retentionJob archives confirmed bookings whose stay ended more than the
// retention window ago. History survives in booking_archive; only the
// active tables shrink.
func (s *CronService) retentionJob() {
	startTime := s.now()
	cutoff := startTime.Add(-s.retention)

	roomPurged, err := s.roomBookings.ArchivePastConfirmed(cutoff)
	if err != nil {
		s.logger.WithError(err).Error("Retention purge failed for room bookings")
	}

	commonPurged, err := s.commonBookings.ArchivePastConfirmed(cutoff)
	if err != nil {
		s.logger.WithError(err).Error("Retention purge failed for common bookings")
	}

	if roomPurged > 0 || commonPurged > 0 {
		s.logger.WithFields(logrus.Fields{
			"room_bookings":   roomPurged,
			"common_bookings": commonPurged,
			"duration":        time.Since(startTime).String(),
		}).Info("Archived finished bookings")
	}
}

// RunRetentionNow runs the retention job immediately (manual trigger).
func (s *CronService) RunRetentionNow() {
	s.retentionJob()
}
