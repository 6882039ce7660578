package planner

import (
	"fmt"
	"math"
	"slices"
	"time"
)

// DayStartHour is the hour every planned day begins.
const DayStartHour = 9

// PlanTrip builds an itinerary covering every day from pref.StartDate to
// pref.EndDate inclusive. Activities are not repeated until the whole pool
// has been used, after which the pool is recycled. Days for which nothing
// could be scheduled are left out, so the result may have fewer days than
// the trip.
//
// candidates is not modified.
func PlanTrip(pref TripPreference, candidates []Activity) (*Itinerary, error) {
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}

	acts := make([]Activity, len(candidates))
	copy(acts, candidates)

	theme := ThemeCategories(acts)
	for i := range acts {
		acts[i].PriorityScore = Score(acts[i], theme)
	}
	slices.SortStableFunc(acts, func(a, b Activity) int {
		switch {
		case a.PriorityScore > b.PriorityScore:
			return -1
		case a.PriorityScore < b.PriorityScore:
			return 1
		}
		return 0
	})

	for i := range acts {
		acts[i].seq = i + 1
	}

	numDays := TripDays(pref)
	perDay := max(3, min(5, len(acts)/numDays))

	it := &Itinerary{
		Name:         fmt.Sprintf("%s ~ %s trip", pref.StartDate.Format(dateLayout), pref.EndDate.Format(dateLayout)),
		Description:  fmt.Sprintf("%d-day custom itinerary", numDays),
		Days:         []DailyPlan{},
		Difficulty:   DifficultyEasy,
		ModelName:    ModelName,
		ModelVersion: ModelVersion,
	}
	if pref.Pace == PacePacked {
		it.Difficulty = DifficultyModerate
	}

	used := make(map[activityKey]struct{})
	var total float64

	for day := range numDays {
		available := make([]Activity, 0, len(acts))
		for _, a := range acts {
			if _, ok := used[keyOf(a)]; !ok {
				available = append(available, a)
			}
		}
		if len(available) == 0 {
			available = append(available, acts...)
			clear(used)
		}

		res := OptimizeDay(available, DayStartHour, pref.Pace, perDay)
		if len(res.Activities) == 0 {
			continue
		}

		for _, sa := range res.Activities {
			used[keyOf(sa.Activity)] = struct{}{}
		}

		dp := DailyPlan{
			DayNumber:   day + 1,
			Date:        pref.StartDate.AddDate(0, 0, day),
			Description: fmt.Sprintf("Day %d: %d places", day+1, len(res.Activities)),
			Activities:  res.Activities,
			DistanceKm:  Round2(res.DistanceKm),
			Cost:        Round2(res.Cost),
		}
		it.Days = append(it.Days, dp)
		total += dp.Cost
	}

	it.TotalCost = Round2(total)
	return it, nil
}

// TripDays returns the inclusive number of calendar days in the trip, at
// least one.
func TripDays(pref TripPreference) int {
	start := civilDate(pref.StartDate)
	end := civilDate(pref.EndDate)
	n := int(math.Round(end.Sub(start).Hours()/24)) + 1
	return max(1, n)
}

func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Round2 rounds x to two decimal places.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

const dateLayout = "2006-01-02"

// activityKey identifies a candidate across days: by catalog location id
// when present, otherwise by its position in the sorted candidate list.
type activityKey struct {
	id  int64
	seq int
}

func keyOf(a Activity) activityKey {
	if a.ID != 0 {
		return activityKey{id: a.ID}
	}
	return activityKey{seq: a.seq}
}
