package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

// ReviewMediaRequest records an already uploaded photo or video.
type ReviewMediaRequest struct {
	MediaType     string  `json:"mediaType" validate:"required,oneof=photo video"`
	MediaURL      string  `json:"mediaUrl" validate:"required,url,max=255"`
	ThumbnailURL  *string `json:"thumbnailUrl,omitempty" validate:"omitempty,url,max=255"`
	FileSizeBytes *int64  `json:"fileSizeBytes,omitempty" validate:"omitempty,min=0"`
	MediaOrder    *int    `json:"mediaOrder,omitempty" validate:"omitempty,min=0"`
}

func (req *ReviewMediaRequest) validate() string {
	req.MediaURL = strings.TrimSpace(req.MediaURL)
	return checkStruct(req)
}

type ReviewTranslationRequest struct {
	Language          string  `json:"language" validate:"required,oneof=ko en ja zh"`
	TranslatedTitle   *string `json:"translatedTitle,omitempty" validate:"omitempty,max=200"`
	TranslatedComment string  `json:"translatedComment" validate:"required"`
	Engine            string  `json:"translationEngine,omitempty" validate:"max=50"`
	IsAuto            *bool   `json:"isAuto,omitempty"`
}

func (req *ReviewTranslationRequest) validate() string {
	req.TranslatedTitle = trimOptional(req.TranslatedTitle)
	req.TranslatedComment = strings.TrimSpace(req.TranslatedComment)
	if req.Engine = strings.TrimSpace(req.Engine); req.Engine == "" {
		req.Engine = defaultTranslationEngine
	}
	return checkStruct(req)
}

type ReviewTranslationListResponse struct {
	Translations []ReviewTranslation `json:"translations"`
}

func handleAddReviewMedia(store ReviewStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userIDParam(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "user_id query parameter is required")
			return
		}

		var req ReviewMediaRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if msg := req.validate(); msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}

		m, err := store.AddReviewMedia(r.Context(), chi.URLParam(r, "reviewID"), userID, req)
		if err != nil {
			writeStoreError(w, err, "review not found")
			return
		}
		writeJSON(w, http.StatusCreated, m)
	}
}

func handleDeleteReviewMedia(store ReviewStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userIDParam(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "user_id query parameter is required")
			return
		}

		err := store.DeleteReviewMedia(r.Context(), chi.URLParam(r, "reviewID"), chi.URLParam(r, "mediaID"), userID)
		if err != nil {
			writeStoreError(w, err, "media not found")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func handleLikeReview(store ReviewStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userIDParam(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "user_id query parameter is required")
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

		err = store.LikeReview(r.Context(), chi.URLParam(r, "reviewID"), userID)
		if errors.Is(err, ErrConflict) {
			writeError(w, http.StatusConflict, "review already liked")
			return
		}
		if err != nil {
			writeStoreError(w, err, "review not found")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func handleUnlikeReview(store ReviewStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userIDParam(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "user_id query parameter is required")
			return
		}

		if err := store.UnlikeReview(r.Context(), chi.URLParam(r, "reviewID"), userID); err != nil {
			writeStoreError(w, err, "like not found")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func handleLocationStats(store ReviewStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		locationID, err := strconv.ParseInt(chi.URLParam(r, "locationID"), 10, 64)
		if err != nil || locationID <= 0 {
			writeError(w, http.StatusBadRequest, "invalid location id")
			return
		}

		stats, err := store.LocationStats(r.Context(), locationID)
		if err != nil {
			writeStoreError(w, err, "location not found")
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

func handleUpsertReviewTranslation(store ReviewStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ReviewTranslationRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if msg := req.validate(); msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}

		tr, err := store.UpsertReviewTranslation(r.Context(), chi.URLParam(r, "reviewID"), req)
		if err != nil {
			writeStoreError(w, err, "review not found")
			return
		}
		writeJSON(w, http.StatusOK, tr)
	}
}

func handleListReviewTranslations(store ReviewStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		translations, err := store.ListReviewTranslations(r.Context(), chi.URLParam(r, "reviewID"))
		if err != nil {
			writeStoreError(w, err, "review not found")
			return
		}
		writeJSON(w, http.StatusOK, ReviewTranslationListResponse{Translations: translations})
	}
}
