package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

type CreatePostRequest struct {
	UserID     int64  `json:"userId" validate:"required,min=1"`
	RegionID   *int64 `json:"regionId,omitempty" validate:"omitempty,min=1"`
	CategoryID *int64 `json:"categoryId,omitempty" validate:"omitempty,min=1"`
	Title      string `json:"title" validate:"required,max=200"`
	Content    string `json:"content" validate:"required,max=10000"`
	IsPublic   *bool  `json:"isPublic,omitempty"`
}

func (req *CreatePostRequest) validate() string {
	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)
	return checkStruct(req)
}

// UpdatePostRequest changes only the fields that are present.
type UpdatePostRequest struct {
	RegionID   *int64  `json:"regionId,omitempty" validate:"omitempty,min=1"`
	CategoryID *int64  `json:"categoryId,omitempty" validate:"omitempty,min=1"`
	Title      *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Content    *string `json:"content,omitempty" validate:"omitempty,min=1,max=10000"`
	IsPublic   *bool   `json:"isPublic,omitempty"`
}

func (req *UpdatePostRequest) validate() string {
	if req.Title != nil {
		t := strings.TrimSpace(*req.Title)
		if t == "" {
			return "title must not be empty"
		}
		req.Title = &t
	}
	if req.Content != nil {
		c := strings.TrimSpace(*req.Content)
		if c == "" {
			return "content must not be empty"
		}
		req.Content = &c
	}
	return checkStruct(req)
}

var postSorts = map[string]bool{"latest": true, "oldest": true, "likes": true}

func handleCreatePost(store BoardStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreatePostRequest
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

		id, err := store.CreatePost(r.Context(), req)
		if errors.Is(err, ErrInvalidReference) {
			writeError(w, http.StatusBadRequest, "unknown region or category")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		post, err := store.GetPost(r.Context(), id, defaultLanguage)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusCreated, post)
	}
}

func handleListPosts(store BoardStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, limit, msg := pageParams(r, 20)
		if msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}
		f := PostFilter{Page: page, Limit: limit}

		var ok bool
		if f.RegionID, ok = optionalInt64(r, "region_id"); !ok {
			writeError(w, http.StatusBadRequest, "region_id must be a positive integer")
			return
		}
		if f.CategoryID, ok = optionalInt64(r, "category_id"); !ok {
			writeError(w, http.StatusBadRequest, "category_id must be a positive integer")
			return
		}
		if f.UserID, ok = optionalInt64(r, "user_id"); !ok {
			writeError(w, http.StatusBadRequest, "user_id must be a positive integer")
			return
		}

		f.SortBy = r.URL.Query().Get("sort_by")
		if f.SortBy == "" {
			f.SortBy = "latest"
		}
		if !postSorts[f.SortBy] {
			writeError(w, http.StatusBadRequest, "sort_by must be one of: latest, oldest, likes")
			return
		}
		f.Search = strings.TrimSpace(r.URL.Query().Get("search"))

		if f.Language, ok = languageParam(r); !ok {
			writeError(w, http.StatusBadRequest, "language must be one of: ko, en, ja, zh")
			return
		}

		posts, total, err := store.ListPosts(r.Context(), f)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, PostListResponse{
			Items:      posts,
			Pagination: newPagination(page, limit, total),
		})
	}
}

func handleGetPost(store BoardStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lang, ok := languageParam(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "language must be one of: ko, en, ja, zh")
			return
		}

		post, err := store.GetPost(r.Context(), chi.URLParam(r, "postID"), lang)
		if err != nil {
			writeStoreError(w, err, "post not found")
			return
		}
		writeJSON(w, http.StatusOK, post)
	}
}

func handleUpdatePost(store BoardStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userIDParam(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "user_id query parameter is required")
			return
		}

		var req UpdatePostRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if msg := req.validate(); msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}

		postID := chi.URLParam(r, "postID")
		err := store.UpdatePost(r.Context(), postID, userID, req)
		if errors.Is(err, ErrInvalidReference) {
			writeError(w, http.StatusBadRequest, "unknown region or category")
			return
		}
		if err != nil {
			writeStoreError(w, err, "post not found")
			return
		}

		post, err := store.GetPost(r.Context(), postID, defaultLanguage)
		if err != nil {
			writeStoreError(w, err, "post not found")
			return
		}
		writeJSON(w, http.StatusOK, post)
	}
}

func handleDeletePost(store BoardStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userIDParam(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "user_id query parameter is required")
			return
		}

		if err := store.DeletePost(r.Context(), chi.URLParam(r, "postID"), userID); err != nil {
			writeStoreError(w, err, "post not found")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func handleLikePost(store BoardStore, broker *Broker) http.HandlerFunc {
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

		postID := chi.URLParam(r, "postID")
		err = store.LikePost(r.Context(), postID, userID)
		if errors.Is(err, ErrConflict) {
			writeError(w, http.StatusConflict, "post already liked")
			return
		}
		if err != nil {
			writeStoreError(w, err, "post not found")
			return
		}

		broker.Publish(PostEvent{Type: eventPostLiked, PostID: postID, UserID: userID})
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func handleUnlikePost(store BoardStore, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userIDParam(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "user_id query parameter is required")
			return
		}

		postID := chi.URLParam(r, "postID")
		if err := store.UnlikePost(r.Context(), postID, userID); err != nil {
			writeStoreError(w, err, "like not found")
			return
		}

		broker.Publish(PostEvent{Type: eventPostUnliked, PostID: postID, UserID: userID})
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
