package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

type CreateCommentRequest struct {
	UserID   int64   `json:"userId" validate:"required,min=1"`
	ParentID *string `json:"parentId,omitempty"`
	Content  string  `json:"content" validate:"required,max=1000"`
}

func (req *CreateCommentRequest) validate() string {
	req.Content = strings.TrimSpace(req.Content)
	if req.ParentID != nil && *req.ParentID == "" {
		req.ParentID = nil
	}
	return checkStruct(req)
}

type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required,max=1000"`
}

func (req *UpdateCommentRequest) validate() string {
	req.Content = strings.TrimSpace(req.Content)
	return checkStruct(req)
}

type CommentListResponse struct {
	Comments []*Comment `json:"comments"`
	Total    int        `json:"total"`
}

func handleCreateComment(store BoardStore, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateCommentRequest
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

		postID := chi.URLParam(r, "postID")
		c, err := store.CreateComment(r.Context(), postID, req)
		if errors.Is(err, errParentNotFound) {
			writeError(w, http.StatusNotFound, "parent comment not found")
			return
		}
		if err != nil {
			writeStoreError(w, err, "post not found")
			return
		}

		broker.Publish(PostEvent{Type: eventCommentAdded, PostID: postID, CommentID: c.ID, UserID: c.UserID})
		writeJSON(w, http.StatusCreated, c)
	}
}

func handleListComments(store BoardStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		comments, total, err := store.ListComments(r.Context(), chi.URLParam(r, "postID"))
		if err != nil {
			writeStoreError(w, err, "post not found")
			return
		}
		writeJSON(w, http.StatusOK, CommentListResponse{Comments: comments, Total: total})
	}
}

func handleUpdateComment(store BoardStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userIDParam(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "user_id query parameter is required")
			return
		}

		var req UpdateCommentRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if msg := req.validate(); msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}

		c, err := store.UpdateComment(r.Context(), chi.URLParam(r, "postID"), chi.URLParam(r, "commentID"), userID, req.Content)
		if err != nil {
			writeStoreError(w, err, "comment not found")
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

func handleDeleteComment(store BoardStore, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userIDParam(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "user_id query parameter is required")
			return
		}

		postID := chi.URLParam(r, "postID")
		commentID := chi.URLParam(r, "commentID")
		if err := store.DeleteComment(r.Context(), postID, commentID, userID); err != nil {
			writeStoreError(w, err, "comment not found")
			return
		}

		broker.Publish(PostEvent{Type: eventCommentDeleted, PostID: postID, CommentID: commentID, UserID: userID})
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
