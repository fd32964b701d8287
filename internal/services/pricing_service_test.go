package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chataubeskydy/booking-backend/internal/models"
)

type fakeSeasonSource struct {
	seasons []models.SeasonRule
	err     error
}

func (f *fakeSeasonSource) ListSeasonsOverlapping(start, end time.Time) ([]models.SeasonRule, error) {
	return f.seasons, f.err
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testRoom(base float64, group string) models.Room {
	return models.Room{Name: "room", Beds: 2, BasePrice: base, PriceGroup: group, Bookable: true}
}

func TestQuoteRooms_NoSeasons(t *testing.T) {
	svc := NewPricingService(&fakeSeasonSource{})

	price, err := svc.QuoteRooms([]models.Room{testRoom(1000, "")}, day(2026, 7, 1), day(2026, 7, 3))
	require.NoError(t, err)
	assert.Equal(t, 2000.0, price)
}

func TestQuoteRooms_PercentSeason(t *testing.T) {
	svc := NewPricingService(&fakeSeasonSource{seasons: []models.SeasonRule{
		{StartDate: day(2026, 7, 1), EndDate: day(2026, 8, 1), Kind: models.SeasonAdjustPercent, Value: 20},
	}})

	price, err := svc.QuoteRooms([]models.Room{testRoom(1000, "")}, day(2026, 7, 10), day(2026, 7, 12))
	require.NoError(t, err)
	assert.Equal(t, 2400.0, price)
}

func TestQuoteRooms_SeasonCoversPartOfStay(t *testing.T) {
	// Season ends July 3 (half-open): nights 1 and 2 adjusted, 3 and 4 at base.
	svc := NewPricingService(&fakeSeasonSource{seasons: []models.SeasonRule{
		{StartDate: day(2026, 7, 1), EndDate: day(2026, 7, 3), Kind: models.SeasonAdjustPercent, Value: 20},
	}})

	price, err := svc.QuoteRooms([]models.Room{testRoom(1000, "")}, day(2026, 7, 1), day(2026, 7, 5))
	require.NoError(t, err)
	assert.Equal(t, 4400.0, price)
}

func TestQuoteRooms_OverlappingPercentRulesSum(t *testing.T) {
	// Two +10% rules act as +20%, not 1.1 * 1.1.
	svc := NewPricingService(&fakeSeasonSource{seasons: []models.SeasonRule{
		{StartDate: day(2026, 7, 1), EndDate: day(2026, 8, 1), Kind: models.SeasonAdjustPercent, Value: 10},
		{StartDate: day(2026, 7, 1), EndDate: day(2026, 8, 1), Kind: models.SeasonAdjustPercent, Value: 10},
	}})

	price, err := svc.QuoteRooms([]models.Room{testRoom(1000, "")}, day(2026, 7, 10), day(2026, 7, 11))
	require.NoError(t, err)
	assert.Equal(t, 1200.0, price)
}

func TestQuoteRooms_FlatAfterPercent(t *testing.T) {
	// base*(1+pct/100)+flat per night: 1000*1.1+50 = 1150.
	svc := NewPricingService(&fakeSeasonSource{seasons: []models.SeasonRule{
		{StartDate: day(2026, 7, 1), EndDate: day(2026, 8, 1), Kind: models.SeasonAdjustPercent, Value: 10},
		{StartDate: day(2026, 7, 1), EndDate: day(2026, 8, 1), Kind: models.SeasonAdjustFlat, Value: 50},
	}})

	price, err := svc.QuoteRooms([]models.Room{testRoom(1000, "")}, day(2026, 7, 10), day(2026, 7, 12))
	require.NoError(t, err)
	assert.Equal(t, 2300.0, price)
}

func TestQuoteRooms_PriceGroupScoping(t *testing.T) {
	svc := NewPricingService(&fakeSeasonSource{seasons: []models.SeasonRule{
		{StartDate: day(2026, 7, 1), EndDate: day(2026, 8, 1), Kind: models.SeasonAdjustPercent, Value: 50, PriceGroup: "suite"},
	}})

	// Standard room does not pick up the suite-scoped rule.
	price, err := svc.QuoteRooms([]models.Room{testRoom(1000, "standard")}, day(2026, 7, 10), day(2026, 7, 11))
	require.NoError(t, err)
	assert.Equal(t, 1000.0, price)

	price, err = svc.QuoteRooms([]models.Room{testRoom(1000, "suite")}, day(2026, 7, 10), day(2026, 7, 11))
	require.NoError(t, err)
	assert.Equal(t, 1500.0, price)
}

func TestQuoteRooms_RoundsOnceAtTotal(t *testing.T) {
	// 3 nights at 100.4 = 301.2 -> 301. Per-night rounding would give 300.
	svc := NewPricingService(&fakeSeasonSource{seasons: []models.SeasonRule{
		{StartDate: day(2026, 7, 1), EndDate: day(2026, 8, 1), Kind: models.SeasonAdjustFlat, Value: 0.4},
	}})

	price, err := svc.QuoteRooms([]models.Room{testRoom(100, "")}, day(2026, 7, 10), day(2026, 7, 13))
	require.NoError(t, err)
	assert.Equal(t, 301.0, price)
}

func TestQuoteRooms_MultipleRooms(t *testing.T) {
	svc := NewPricingService(&fakeSeasonSource{})

	price, err := svc.QuoteRooms(
		[]models.Room{testRoom(1000, ""), testRoom(800, "")},
		day(2026, 7, 1), day(2026, 7, 3),
	)
	require.NoError(t, err)
	assert.Equal(t, 3600.0, price)
}

func TestQuoteRooms_ZeroNights(t *testing.T) {
	svc := NewPricingService(&fakeSeasonSource{})

	price, err := svc.QuoteRooms([]models.Room{testRoom(1000, "")}, day(2026, 7, 1), day(2026, 7, 1))
	require.NoError(t, err)
	assert.Equal(t, 0.0, price)
}

func TestQuoteCommonRooms(t *testing.T) {
	svc := NewPricingService(&fakeSeasonSource{})

	room := models.CommonRoom{Name: "sauna", Capacity: 10, BlockPrice: 500}

	// One afternoon block.
	start, end := models.HalfDayAt(day(2026, 7, 1), true)
	assert.Equal(t, 500.0, svc.QuoteCommonRooms([]models.CommonRoom{room}, start, end))

	// Full day is two blocks.
	assert.Equal(t, 1000.0, svc.QuoteCommonRooms([]models.CommonRoom{room}, day(2026, 7, 1), day(2026, 7, 2)))

	// Partial block bills whole.
	assert.Equal(t, 500.0, svc.QuoteCommonRooms([]models.CommonRoom{room},
		day(2026, 7, 1).Add(10*time.Hour), day(2026, 7, 1).Add(14*time.Hour)))
}
