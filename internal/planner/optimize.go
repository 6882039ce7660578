package planner

// travelSpeedKmh is the assumed door-to-door speed between stops, whatever
// the transport mode.
const travelSpeedKmh = 30

// DayResult is one day's greedy selection.
type DayResult struct {
	Activities []ScheduledActivity
	DistanceKm float64
	Cost       float64
}

// Budget resolves the day length in hours and the stop count for a pace.
// Anything other than PacePacked is treated as relaxed.
func Budget(pace Pace, targetCount int) (maxHours float64, target int) {
	if pace == PacePacked {
		return 14, min(6, targetCount+1)
	}
	return 10, min(4, targetCount)
}

// OptimizeDay greedily picks and orders activities for a single day that
// starts at startHour. The highest-scored activity opens the day; each
// following stop maximises score*10 minus the distance from the previous
// stop. Selection stops at the first candidate whose travel plus visit
// would overrun the day. Ties go to the earliest activity in pool.
//
// pool is not modified.
func OptimizeDay(pool []Activity, startHour int, pace Pace, targetCount int) DayResult {
	if len(pool) == 0 {
		return DayResult{}
	}

	maxHours, target := Budget(pace, targetCount)
	dayEnd := float64(startHour) + maxHours

	available := make([]Activity, len(pool))
	copy(available, pool)

	first := 0
	for i, a := range available {
		if a.PriorityScore > available[first].PriorityScore {
			first = i
		}
	}

	var res DayResult
	cur := available[first]
	available = remove(available, first)

	res.Activities = append(res.Activities, ScheduledActivity{
		Activity:  cur,
		Order:     1,
		StartTime: ClockTime{Hour: startHour},
	})
	res.Cost += cur.costOrZero()
	elapsed := float64(startHour) + cur.Duration()

	for len(available) > 0 && len(res.Activities) < target && elapsed < dayEnd {
		next := -1
		var best float64
		for i, a := range available {
			if elapsed+a.Duration() > dayEnd {
				continue
			}
			v := a.PriorityScore*10 - Distance(cur.Point, a.Point)
			if next == -1 || v > best {
				next, best = i, v
			}
		}
		if next == -1 {
			break
		}

		cand := available[next]
		dist := Distance(cur.Point, cand.Point)
		travel := dist / travelSpeedKmh
		if elapsed+travel+cand.Duration() > dayEnd {
			break
		}

		res.Activities = append(res.Activities, ScheduledActivity{
			Activity:  cand,
			Order:     len(res.Activities) + 1,
			StartTime: clockAt(elapsed + travel),
		})
		available = remove(available, next)
		res.DistanceKm += dist
		res.Cost += cand.costOrZero()
		cur = cand
		elapsed += travel + cand.Duration()
	}

	return res
}

func remove(s []Activity, i int) []Activity {
	return append(s[:i], s[i+1:]...)
}
