package server

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

const defaultTranslationEngine = "gpt"

type PostTranslationRequest struct {
	Language          string `json:"language" validate:"required,oneof=ko en ja zh"`
	TranslatedTitle   string `json:"translatedTitle" validate:"required,max=200"`
	TranslatedContent string `json:"translatedContent" validate:"required"`
	Engine            string `json:"translationEngine,omitempty" validate:"max=50"`
	IsAuto            *bool  `json:"isAuto,omitempty"`
}

func (req *PostTranslationRequest) validate() string {
	req.TranslatedTitle = strings.TrimSpace(req.TranslatedTitle)
	req.TranslatedContent = strings.TrimSpace(req.TranslatedContent)
	if req.Engine = strings.TrimSpace(req.Engine); req.Engine == "" {
		req.Engine = defaultTranslationEngine
	}
	return checkStruct(req)
}

type PostImageRequest struct {
	ImageURL  string `json:"imageUrl" validate:"required,url,max=500"`
	IsPrimary bool   `json:"isPrimary"`
}

func (req *PostImageRequest) validate() string {
	req.ImageURL = strings.TrimSpace(req.ImageURL)
	return checkStruct(req)
}

type PostTranslationListResponse struct {
	Translations []PostTranslation `json:"translations"`
}

func handleUpsertPostTranslation(store BoardStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PostTranslationRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if msg := req.validate(); msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}

		tr, err := store.UpsertPostTranslation(r.Context(), chi.URLParam(r, "postID"), req)
		if err != nil {
			writeStoreError(w, err, "post not found")
			return
		}
		writeJSON(w, http.StatusOK, tr)
	}
}

func handleListPostTranslations(store BoardStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		translations, err := store.ListPostTranslations(r.Context(), chi.URLParam(r, "postID"))
		if err != nil {
			writeStoreError(w, err, "post not found")
			return
		}
		writeJSON(w, http.StatusOK, PostTranslationListResponse{Translations: translations})
	}
}

func handleAddPostImage(store BoardStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userIDParam(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "user_id query parameter is required")
			return
		}

		var req PostImageRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if msg := req.validate(); msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}

		img, err := store.AddPostImage(r.Context(), chi.URLParam(r, "postID"), userID, req)
		if err != nil {
			writeStoreError(w, err, "post not found")
			return
		}
		writeJSON(w, http.StatusCreated, img)
	}
}

func handleDeletePostImage(store BoardStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userIDParam(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "user_id query parameter is required")
			return
		}

		err := store.DeletePostImage(r.Context(), chi.URLParam(r, "postID"), chi.URLParam(r, "imageID"), userID)
		if err != nil {
			writeStoreError(w, err, "image not found")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
