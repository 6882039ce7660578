package planner

import (
	"slices"
	"testing"
)

func TestScore(t *testing.T) {
	theme := []string{"kpop", "palace", "market"}

	tests := []struct {
		name       string
		categories []string
		want       float64
	}{
		{"no categories", nil, 0},
		{"no overlap", []string{"beach"}, 0},
		{"one match", []string{"kpop"}, 3},
		{"two matches", []string{"kpop", "market"}, 6},
		{"duplicate tag counted once", []string{"kpop", "kpop"}, 3},
		{"all matches plus extra", []string{"palace", "market", "kpop", "cafe"}, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(Activity{Categories: tt.categories}, theme)
			if got != tt.want {
				t.Errorf("Score = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScoreMonotonic(t *testing.T) {
	theme := []string{"a", "b", "c", "d"}
	a := Activity{Categories: []string{"x"}}
	prev := Score(a, theme)

	for _, c := range []string{"a", "y", "b", "b", "c", "d"} {
		a.Categories = append(a.Categories, c)
		got := Score(a, theme)
		if got < prev {
			t.Fatalf("adding %q lowered score from %v to %v", c, prev, got)
		}
		prev = got
	}
}

func TestThemeCategories(t *testing.T) {
	acts := []Activity{
		{Categories: []string{"palace", "history"}},
		{Categories: []string{"market"}},
		{},
		{Categories: []string{"history", "kpop"}},
	}

	got := ThemeCategories(acts)
	want := []string{"palace", "history", "market", "kpop"}
	if !slices.Equal(got, want) {
		t.Errorf("ThemeCategories = %v, want %v", got, want)
	}
}
