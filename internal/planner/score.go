package planner

import "slices"

// Score rates how well an activity's categories overlap the theme. Each theme
// category found on the activity is worth 2, and every distinct shared
// category adds 1 more. Only the relative order of scores is meaningful.
func Score(a Activity, themeCategories []string) float64 {
	matched := 0
	for _, c := range themeCategories {
		if slices.Contains(a.Categories, c) {
			matched++
		}
	}

	theme := make(map[string]struct{}, len(themeCategories))
	for _, c := range themeCategories {
		theme[c] = struct{}{}
	}
	shared := make(map[string]struct{})
	for _, c := range a.Categories {
		if _, ok := theme[c]; ok {
			shared[c] = struct{}{}
		}
	}

	return float64(matched*2 + len(shared))
}

// ThemeCategories derives the theme's category set as the union of every
// candidate's tags, in first-seen order. There is no curated per-theme list
// in the catalog, so the fetched batch stands in for one.
func ThemeCategories(candidates []Activity) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, a := range candidates {
		for _, c := range a.Categories {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}
