package services

import (
	"math"
	"time"

	"github.com/chataubeskydy/booking-backend/internal/models"
)

// seasonSource is the slice of the season repository the pricing engine
// needs.
type seasonSource interface {
	ListSeasonsOverlapping(start, end time.Time) ([]models.SeasonRule, error)
}

// PricingService computes advisory prices for stays. Prices never gate
// admission or confirmation; they are quoted for display and stored on the
// booking as a snapshot.
type PricingService struct {
	seasons seasonSource
}

// NewPricingService creates a new pricing service
func NewPricingService(seasons seasonSource) *PricingService {
	return &PricingService{seasons: seasons}
}

// nightlyPrice prices one night of one room under the given season rules.
// All matching percent rules sum before applying, as do all matching flat
// rules: two +10% rules yield a 1.20 multiplier, not 1.10 twice.
func nightlyPrice(basePrice float64, priceGroup string, seasons []models.SeasonRule, night time.Time) float64 {
	var percentSum, flatSum float64
	for _, s := range seasons {
		if !s.CoversNight(night) || !s.AppliesTo(priceGroup) {
			continue
		}
		switch s.Kind {
		case models.SeasonAdjustPercent:
			percentSum += s.Value
		case models.SeasonAdjustFlat:
			flatSum += s.Value
		}
	}
	return basePrice*(1+percentSum/100) + flatSum
}

// stayTotal accumulates the exact (unrounded) price of one room over
// [start, end). A zero-night range prices to 0.
func stayTotal(basePrice float64, priceGroup string, seasons []models.SeasonRule, start, end time.Time) float64 {
	total := 0.0
	for night := models.DateOnly(start); night.Before(end); night = night.AddDate(0, 0, 1) {
		total += nightlyPrice(basePrice, priceGroup, seasons, night)
	}
	return total
}

// QuoteRooms prices a stay across one or more rooms over [start, end).
// Nightly prices accumulate exactly and the total is rounded exactly once
// at the end; rounding per night or per room would drift on long stays with
// fractional percent rules.
func (s *PricingService) QuoteRooms(rooms []models.Room, start, end time.Time) (float64, error) {
	start = models.DateOnly(start)
	end = models.DateOnly(end)
	if !start.Before(end) {
		return 0, nil
	}

	seasons, err := s.seasons.ListSeasonsOverlapping(start, end)
	if err != nil {
		return 0, err
	}

	total := 0.0
	for _, room := range rooms {
		total += stayTotal(room.BasePrice, room.PriceGroup, seasons, start, end)
	}
	return math.Round(total), nil
}

// QuoteCommonRooms prices a common room reservation: block price per room
// per half-day block. Blocks are counted from the time range; a partial
// block bills as a whole one.
func (s *PricingService) QuoteCommonRooms(rooms []models.CommonRoom, start, end time.Time) float64 {
	if !start.Before(end) {
		return 0
	}
	blocks := int(math.Ceil(end.Sub(start).Hours() / 12))

	total := 0.0
	for _, room := range rooms {
		total += room.BlockPrice * float64(blocks)
	}
	return math.Round(total)
}
