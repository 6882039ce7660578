package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

type CreateReviewRequest struct {
	UserID     int64   `json:"userId" validate:"required,min=1"`
	LocationID int64   `json:"locationId" validate:"required,min=1"`
	Rating     float64 `json:"rating" validate:"required,min=1,max=5,halfstep"`
	Title      *string `json:"title,omitempty" validate:"omitempty,max=200"`
	Comment    *string `json:"comment,omitempty" validate:"omitempty,max=5000"`
	VisitDate  *string `json:"visitDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

func (req *CreateReviewRequest) validate() string {
	req.Title = trimOptional(req.Title)
	req.Comment = trimOptional(req.Comment)
	return checkStruct(req)
}

// UpdateReviewRequest changes only the fields that are present.
type UpdateReviewRequest struct {
	Rating    *float64 `json:"rating,omitempty" validate:"omitempty,min=1,max=5,halfstep"`
	Title     *string  `json:"title,omitempty" validate:"omitempty,max=200"`
	Comment   *string  `json:"comment,omitempty" validate:"omitempty,max=5000"`
	VisitDate *string  `json:"visitDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

func (req *UpdateReviewRequest) validate() string {
	req.Title = trimOptional(req.Title)
	req.Comment = trimOptional(req.Comment)
	return checkStruct(req)
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

var reviewSorts = map[string]bool{"latest": true, "rating_high": true, "rating_low": true, "likes": true}

func handleCreateReview(store ReviewStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateReviewRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if msg := req.validate(); msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}

		ok, err := store.UserExists(r.Context(), req.UserID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if !ok {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}

		ok, err = store.LocationExists(r.Context(), req.LocationID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if !ok {
			writeError(w, http.StatusNotFound, "location not found")
			return
		}

		id, err := store.CreateReview(r.Context(), req)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		review, err := store.GetReview(r.Context(), id, defaultLanguage)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusCreated, review)
	}
}

func handleGetReview(store ReviewStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lang, ok := languageParam(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "language must be one of: ko, en, ja, zh")
			return
		}

		review, err := store.GetReview(r.Context(), chi.URLParam(r, "reviewID"), lang)
		if err != nil {
			writeStoreError(w, err, "review not found")
			return
		}
		writeJSON(w, http.StatusOK, review)
	}
}

func handleListLocationReviews(store ReviewStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		locationID, err := strconv.ParseInt(chi.URLParam(r, "locationID"), 10, 64)
		if err != nil || locationID <= 0 {
			writeError(w, http.StatusBadRequest, "invalid location id")
			return
		}

		page, limit, msg := pageParams(r, 10)
		if msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}
		f := ReviewFilter{Page: page, Limit: limit}

		f.SortBy = r.URL.Query().Get("sort_by")
		if f.SortBy == "" {
			f.SortBy = "latest"
		}
		if !reviewSorts[f.SortBy] {
			writeError(w, http.StatusBadRequest, "sort_by must be one of: latest, rating_high, rating_low, likes")
			return
		}

		if s := r.URL.Query().Get("min_rating"); s != "" {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil || v < 1 || v > 5 {
				writeError(w, http.StatusBadRequest, "min_rating must be between 1 and 5")
				return
			}
			f.MinRating = &v
		}

		var ok bool
		if f.Language, ok = languageParam(r); !ok {
			writeError(w, http.StatusBadRequest, "language must be one of: ko, en, ja, zh")
			return
		}

		ok, err = store.LocationExists(r.Context(), locationID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if !ok {
			writeError(w, http.StatusNotFound, "location not found")
			return
		}

		reviews, total, err := store.ListLocationReviews(r.Context(), locationID, f)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, ReviewListResponse{
			Items:      reviews,
			Pagination: newPagination(page, limit, total),
		})
	}
}

func handleListUserReviews(store ReviewStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
		if err != nil || userID <= 0 {
			writeError(w, http.StatusBadRequest, "invalid user id")
			return
		}

		page, limit, msg := pageParams(r, 10)
		if msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}

		ok, err := store.UserExists(r.Context(), userID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if !ok {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}

		reviews, total, err := store.ListUserReviews(r.Context(), userID, page, limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, ReviewListResponse{
			Items:      reviews,
			Pagination: newPagination(page, limit, total),
		})
	}
}

func handleUpdateReview(store ReviewStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userIDParam(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "user_id query parameter is required")
			return
		}

		var req UpdateReviewRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if msg := req.validate(); msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}

		reviewID := chi.URLParam(r, "reviewID")
		if err := store.UpdateReview(r.Context(), reviewID, userID, req); err != nil {
			writeStoreError(w, err, "review not found")
			return
		}

		review, err := store.GetReview(r.Context(), reviewID, defaultLanguage)
		if err != nil {
			writeStoreError(w, err, "review not found")
			return
		}
		writeJSON(w, http.StatusOK, review)
	}
}

func handleDeleteReview(store ReviewStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userIDParam(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "user_id query parameter is required")
			return
		}

		if err := store.DeleteReview(r.Context(), chi.URLParam(r, "reviewID"), userID); err != nil {
			writeStoreError(w, err, "review not found")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
