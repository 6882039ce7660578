package server

import "net/http"

type RegionListResponse struct {
	Regions []Region `json:"regions"`
}

type CategoryListResponse struct {
	Categories []Category `json:"categories"`
}

// Unknown languages fall back to Korean names.
func handleListRegions(store BoardStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		regions, err := store.ListRegions(r.Context(), r.URL.Query().Get("language"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, RegionListResponse{Regions: regions})
	}
}

func handleListCategories(store BoardStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := store.ListCategories(r.Context(), r.URL.Query().Get("language"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, CategoryListResponse{Categories: categories})
	}
}
