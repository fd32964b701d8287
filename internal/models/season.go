package models

import (
	"time"

	"github.com/google/uuid"
)

// SeasonAdjustmentKind represents how a season rule modifies the base price
// Matches PostgreSQL ENUM: season_adjustment_kind
type SeasonAdjustmentKind string

const (
	SeasonAdjustPercent SeasonAdjustmentKind = "percent" // value is a percentage of the base price
	SeasonAdjustFlat    SeasonAdjustmentKind = "flat"    // value is an absolute per-night amount
)

// SeasonRule is a date-range price adjustment (seasons table).
// The range is half-open: a night n falls in the season iff
// StartDate <= n < EndDate. Overlapping rules are additive within a kind.
type SeasonRule struct {
	ID   uuid.UUID `json:"id" db:"id"`
	Name string    `json:"name" db:"name"`

	StartDate time.Time `json:"start_date" db:"start_date"`
	EndDate   time.Time `json:"end_date" db:"end_date"`

	Kind  SeasonAdjustmentKind `json:"kind" db:"kind"`
	Value float64              `json:"value" db:"value"`

	// PriceGroup scopes the rule to rooms carrying the same group.
	// Empty means the rule applies to every room.
	PriceGroup string `json:"price_group" db:"price_group"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CoversNight reports whether the night starting at n (midnight) falls
// inside the season's half-open range.
func (s SeasonRule) CoversNight(n time.Time) bool {
	return !n.Before(s.StartDate) && n.Before(s.EndDate)
}

// AppliesTo reports whether the rule is in scope for the given price group.
func (s SeasonRule) AppliesTo(priceGroup string) bool {
	return s.PriceGroup == "" || s.PriceGroup == priceGroup
}
