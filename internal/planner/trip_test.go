package planner

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// seoulPool returns n candidates clustered around central Seoul with a
// mix of categories, one-hour visits and round costs.
func seoulPool(n int) []Activity {
	tags := [][]string{
		{"palace", "history"},
		{"market"},
		{"kpop", "shopping"},
		{"history"},
		{"cafe"},
	}
	pool := make([]Activity, n)
	for i := range pool {
		pool[i] = Activity{
			ID:              int64(100 + i),
			Name:            fmt.Sprintf("spot-%d", i),
			Point:           GeoPoint{37.55 + float64(i%5)*0.004, 126.97 + float64(i/5)*0.004},
			Categories:      tags[i%len(tags)],
			DurationMinutes: 60,
			Cost:            ptr(float64(1000 * (i%3 + 1))),
		}
	}
	return pool
}

func TestPlanTripNoCandidates(t *testing.T) {
	_, err := PlanTrip(TripPreference{StartDate: date("2025-12-20"), EndDate: date("2025-12-22")}, nil)
	if !errors.Is(err, ErrNoCandidates) {
		t.Fatalf("err = %v, want ErrNoCandidates", err)
	}
}

func TestPlanTripThreeDays(t *testing.T) {
	pref := TripPreference{
		StartDate: date("2025-12-20"),
		EndDate:   date("2025-12-22"),
		Pace:      PaceRelaxed,
	}

	it, err := PlanTrip(pref, seoulPool(15))
	if err != nil {
		t.Fatalf("PlanTrip: %v", err)
	}

	if len(it.Days) != 3 {
		t.Fatalf("got %d days, want 3", len(it.Days))
	}
	for i, d := range it.Days {
		if d.DayNumber != i+1 {
			t.Errorf("day %d has number %d", i, d.DayNumber)
		}
		if want := pref.StartDate.AddDate(0, 0, i); !d.Date.Equal(want) {
			t.Errorf("day %d date = %s, want %s", i+1, d.Date.Format(dateLayout), want.Format(dateLayout))
		}
		if n := len(d.Activities); n < 3 || n > 5 {
			t.Errorf("day %d has %d activities, want 3..5", i+1, n)
		}
		if d.Description != fmt.Sprintf("Day %d: %d places", i+1, len(d.Activities)) {
			t.Errorf("day %d description = %q", i+1, d.Description)
		}
	}

	if it.Difficulty != DifficultyEasy {
		t.Errorf("difficulty = %q, want easy", it.Difficulty)
	}
	if it.Name != "2025-12-20 ~ 2025-12-22 trip" {
		t.Errorf("name = %q", it.Name)
	}
	if it.ModelName != ModelName || it.ModelVersion != ModelVersion {
		t.Errorf("model = %s/%s", it.ModelName, it.ModelVersion)
	}
}

func TestPlanTripNoRepeatsUntilExhausted(t *testing.T) {
	pref := TripPreference{StartDate: date("2025-01-01"), EndDate: date("2025-01-03"), Pace: PacePacked}

	it, err := PlanTrip(pref, seoulPool(18))
	if err != nil {
		t.Fatalf("PlanTrip: %v", err)
	}

	seen := make(map[int64]int)
	for _, d := range it.Days {
		for _, sa := range d.Activities {
			if prev, ok := seen[sa.ID]; ok {
				t.Errorf("activity %d on day %d and day %d", sa.ID, prev, d.DayNumber)
			}
			seen[sa.ID] = d.DayNumber
		}
	}
	if it.Difficulty != DifficultyModerate {
		t.Errorf("difficulty = %q, want moderate", it.Difficulty)
	}
}

func TestPlanTripRecyclesPool(t *testing.T) {
	pref := TripPreference{StartDate: date("2025-03-01"), EndDate: date("2025-03-03"), Pace: PaceRelaxed}

	it, err := PlanTrip(pref, seoulPool(4))
	if err != nil {
		t.Fatalf("PlanTrip: %v", err)
	}

	// 4 candidates over 3 days: 3 per day, so day 2 gets the leftover and
	// day 3 starts over with the full pool.
	want := []int{3, 1, 3}
	if len(it.Days) != len(want) {
		t.Fatalf("got %d days, want %d", len(it.Days), len(want))
	}
	for i, n := range want {
		if got := len(it.Days[i].Activities); got != n {
			t.Errorf("day %d has %d activities, want %d", i+1, got, n)
		}
	}
}

func TestPlanTripRecyclesActivitiesWithoutIDs(t *testing.T) {
	pool := seoulPool(4)
	for i := range pool {
		pool[i].ID = 0
	}
	pref := TripPreference{StartDate: date("2025-03-01"), EndDate: date("2025-03-02"), Pace: PaceRelaxed}

	it, err := PlanTrip(pref, pool)
	if err != nil {
		t.Fatalf("PlanTrip: %v", err)
	}
	if len(it.Days) != 2 {
		t.Fatalf("got %d days, want 2", len(it.Days))
	}
	if got := len(it.Days[1].Activities); got != 1 {
		t.Errorf("day 2 has %d activities, want the 1 unused one", got)
	}
}

func TestPlanTripTotalCost(t *testing.T) {
	pool := seoulPool(15)
	pool[0].Cost = ptr(1234.567)
	pool[7].Cost = nil
	pref := TripPreference{StartDate: date("2025-05-05"), EndDate: date("2025-05-07"), Pace: PacePacked}

	it, err := PlanTrip(pref, pool)
	if err != nil {
		t.Fatalf("PlanTrip: %v", err)
	}

	var sum float64
	for _, d := range it.Days {
		var dayCost float64
		for _, sa := range d.Activities {
			if sa.Cost != nil {
				dayCost += *sa.Cost
			}
		}
		if d.Cost != Round2(dayCost) {
			t.Errorf("day %d cost = %v, want %v", d.DayNumber, d.Cost, Round2(dayCost))
		}
		sum += d.Cost
	}
	if it.TotalCost != Round2(sum) {
		t.Errorf("total = %v, want %v", it.TotalCost, Round2(sum))
	}
}

func TestPlanTripDeterministic(t *testing.T) {
	pool := seoulPool(12)
	pref := TripPreference{StartDate: date("2025-10-01"), EndDate: date("2025-10-04"), Pace: PaceRelaxed}

	a, err := PlanTrip(pref, pool)
	if err != nil {
		t.Fatalf("PlanTrip: %v", err)
	}
	b, err := PlanTrip(pref, pool)
	if err != nil {
		t.Fatalf("PlanTrip: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("two calls with identical input produced different itineraries")
	}

	for i, act := range pool {
		if act.PriorityScore != 0 {
			t.Fatalf("candidate %d was scored in place", i)
		}
	}
}

func TestPlanTripSingleDay(t *testing.T) {
	pref := TripPreference{StartDate: date("2025-07-01"), EndDate: date("2025-07-01")}

	it, err := PlanTrip(pref, seoulPool(2))
	if err != nil {
		t.Fatalf("PlanTrip: %v", err)
	}
	if len(it.Days) != 1 || len(it.Days[0].Activities) != 2 {
		t.Fatalf("got %+v, want one day with both activities", it.Days)
	}
	if it.Description != "1-day custom itinerary" {
		t.Errorf("description = %q", it.Description)
	}
}

func TestTripDays(t *testing.T) {
	tests := []struct {
		start, end string
		want       int
	}{
		{"2025-01-01", "2025-01-01", 1},
		{"2025-01-01", "2025-01-03", 3},
		{"2024-02-28", "2024-03-01", 3},
		{"2025-01-05", "2025-01-01", 1},
	}
	for _, tt := range tests {
		got := TripDays(TripPreference{StartDate: date(tt.start), EndDate: date(tt.end)})
		if got != tt.want {
			t.Errorf("TripDays(%s, %s) = %d, want %d", tt.start, tt.end, got, tt.want)
		}
	}
}

func TestClockTimeText(t *testing.T) {
	b, _ := ClockTime{Hour: 9, Minute: 5}.MarshalText()
	if string(b) != "09:05" {
		t.Errorf("MarshalText = %q, want 09:05", b)
	}

	var c ClockTime
	if err := c.UnmarshalText([]byte("13:07")); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if c.Hour != 13 || c.Minute != 7 {
		t.Errorf("UnmarshalText = %+v", c)
	}
}
