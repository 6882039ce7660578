// Package planner turns a pool of candidate activities into a multi-day
// itinerary. It has zero external dependencies and performs no I/O.
package planner

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoCandidates is returned by PlanTrip when the candidate pool is empty.
var ErrNoCandidates = errors.New("no candidate activities")

// DefaultDurationMinutes is used for activities without an explicit duration.
const DefaultDurationMinutes = 120

const (
	ModelName    = "custom_greedy_algorithm"
	ModelVersion = "1.0"
)

type Pace string

const (
	PaceRelaxed Pace = "relaxed"
	PacePacked  Pace = "packed"
)

type Difficulty string

const (
	DifficultyEasy     Difficulty = "easy"
	DifficultyModerate Difficulty = "moderate"
)

// GeoPoint is a WGS84 coordinate in degrees.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Activity is a candidate point of interest. ID is the catalog location id;
// zero means the catalog did not supply one.
type Activity struct {
	ID              int64    `json:"locationId,omitempty"`
	Name            string   `json:"name"`
	Point           GeoPoint `json:"point"`
	Categories      []string `json:"categories,omitempty"`
	CategoryID      *int64   `json:"categoryId,omitempty"`
	DurationMinutes int      `json:"durationMinutes"`
	Cost            *float64 `json:"estimatedCost,omitempty"`
	Description     string   `json:"description,omitempty"`
	Address         string   `json:"address,omitempty"`
	PriorityScore   float64  `json:"priorityScore"`

	seq int // sorted position within a PlanTrip call, 1-based
}

// Duration returns the visit duration in hours.
func (a Activity) Duration() float64 {
	m := a.DurationMinutes
	if m <= 0 {
		m = DefaultDurationMinutes
	}
	return float64(m) / 60
}

func (a Activity) costOrZero() float64 {
	if a.Cost == nil {
		return 0
	}
	return *a.Cost
}

// ClockTime is a wall-clock time of day.
type ClockTime struct {
	Hour   int
	Minute int
}

// clockAt converts fractional hours since midnight to a ClockTime,
// truncating to whole minutes.
func clockAt(hours float64) ClockTime {
	h := int(hours)
	m := int((hours - float64(h)) * 60)
	return ClockTime{Hour: h, Minute: m}
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

func (c ClockTime) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *ClockTime) UnmarshalText(b []byte) error {
	t, err := time.Parse("15:04", string(b))
	if err != nil {
		return fmt.Errorf("parsing clock time %q: %w", b, err)
	}
	c.Hour, c.Minute = t.Hour(), t.Minute()
	return nil
}

// ScheduledActivity is an activity placed in a day's plan.
type ScheduledActivity struct {
	Activity
	Order     int       `json:"order"`
	StartTime ClockTime `json:"startTime"`
}

type DailyPlan struct {
	DayNumber   int                 `json:"dayNumber"`
	Date        time.Time           `json:"date"`
	Description string              `json:"description"`
	Activities  []ScheduledActivity `json:"activities"`
	DistanceKm  float64             `json:"totalDistanceKm"`
	Cost        float64             `json:"totalEstimatedCost"`
}

type Itinerary struct {
	Name         string      `json:"name"`
	Description  string      `json:"description"`
	Days         []DailyPlan `json:"days"`
	TotalCost    float64     `json:"totalEstimatedCost"`
	Difficulty   Difficulty  `json:"difficulty"`
	ModelName    string      `json:"model"`
	ModelVersion string      `json:"modelVersion"`
}

// TripPreference is the traveller's request. Only the dates and pace drive
// planning; the remaining fields select candidates and are persisted.
type TripPreference struct {
	UserID        int64
	StartDate     time.Time
	EndDate       time.Time
	ThemeID       int64
	Pace          Pace
	Travelers     int
	Language      string
	TransportMode string
}
