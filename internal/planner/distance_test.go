package planner

import (
	"math"
	"testing"
)

func TestDistanceOneDegreeAtEquator(t *testing.T) {
	got := Distance(GeoPoint{0, 0}, GeoPoint{0, 1})
	if math.Abs(got-111.19) > 0.5 {
		t.Errorf("Distance = %.3f km, want ~111.19", got)
	}
}

func TestDistanceSymmetric(t *testing.T) {
	points := []GeoPoint{
		{37.5665, 126.9780},
		{35.1796, 129.0756},
		{-33.8688, 151.2093},
		{51.5074, -0.1278},
		{0, 0},
		{89.9, 179.9},
		{123.4, -400}, // out of range on purpose
	}

	for _, a := range points {
		if d := Distance(a, a); math.Abs(d) > 1e-9 {
			t.Errorf("Distance(%v, %v) = %g, want 0", a, a, d)
		}
		for _, b := range points {
			ab, ba := Distance(a, b), Distance(b, a)
			if math.Abs(ab-ba) > 1e-9 {
				t.Errorf("Distance(%v, %v) = %g but reverse = %g", a, b, ab, ba)
			}
			if ab < 0 || math.IsNaN(ab) {
				t.Errorf("Distance(%v, %v) = %g, want non-negative", a, b, ab)
			}
		}
	}
}

func TestDistanceSeoulBusan(t *testing.T) {
	got := Distance(GeoPoint{37.5665, 126.9780}, GeoPoint{35.1796, 129.0756})
	if got < 320 || got > 330 {
		t.Errorf("Seoul-Busan = %.1f km, want ~325", got)
	}
}
